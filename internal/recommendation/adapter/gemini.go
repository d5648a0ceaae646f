package adapter

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiConfig configuração para o adapter Gemini
type GeminiConfig struct {
	ChatModel       string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultGeminiConfig retorna configuração padrão
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		ChatModel:       "gemini-2.0-flash",
		Temperature:     0.3,
		MaxOutputTokens: 1500,
	}
}

// GeminiAdapter gera recomendações com saída estruturada do Gemini
type GeminiAdapter struct {
	client *genai.Client
	config GeminiConfig
}

// NewGeminiClient cria o cliente da API Gemini
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cliente Gemini: %w", err)
	}
	return client, nil
}

// NewGeminiAdapter cria um novo adapter para Gemini
func NewGeminiAdapter(client *genai.Client, cfg GeminiConfig) *GeminiAdapter {
	defaults := DefaultGeminiConfig()
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaults.ChatModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaults.Temperature
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = defaults.MaxOutputTokens
	}

	return &GeminiAdapter{
		client: client,
		config: cfg,
	}
}

// Name identifica o provedor
func (g *GeminiAdapter) Name() string {
	return "gemini"
}

// IsAvailable verifica se o cliente está disponível
func (g *GeminiAdapter) IsAvailable() bool {
	return g.client != nil
}

// Complete envia o prompt e retorna o JSON da recomendação
func (g *GeminiAdapter) Complete(ctx context.Context, req Request) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("cliente Gemini não inicializado")
	}

	temperature := g.config.Temperature
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   payloadSchema(),
		Temperature:      &temperature,
		MaxOutputTokens:  g.config.MaxOutputTokens,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	content := genai.NewContentFromText(req.Prompt, genai.RoleUser)
	resp, err := g.client.Models.GenerateContent(ctx, g.config.ChatModel, []*genai.Content{content}, config)
	if err != nil {
		return "", fmt.Errorf("erro ao gerar recomendação: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("resposta vazia do Gemini")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("resposta sem texto do Gemini")
	}
	return text, nil
}

func stringArray(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

func enumString(values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Enum: values}
}

// payloadSchema retorna o schema JSON para saída estruturada da recomendação
func payloadSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topSections": {
				Type:        genai.TypeArray,
				Description: "Seções ordenadas por prioridade, mais importante primeiro",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"identifier": {Type: genai.TypeString},
						"priority":   enumString("high", "medium", "low"),
						"reasoning":  {Type: genai.TypeString},
					},
					Required: []string{"identifier", "priority", "reasoning"},
				},
			},
			"uiCustomizations": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"colorTheme": enumString("default", "vibrant", "subtle", "professional"),
					"fontSizes":  enumString("small", "medium", "large"),
					"spacing":    enumString("compact", "balanced", "spacious"),
					"emphasis":   stringArray("Ids de elementos a destacar"),
					"deemphasis": stringArray("Ids de elementos a atenuar"),
				},
			},
			"layoutPreferences": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"contentDensity":  enumString("high", "medium", "low"),
					"navigationStyle": enumString("prominent", "standard", "minimal"),
					"featuredContent": stringArray("Ids de conteúdo em destaque"),
					"contentGrouping": enumString("categorical", "chronological", "relevance"),
				},
			},
			"userJourney": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"suggestedNextPages":   stringArray("Próximas páginas sugeridas"),
					"callToActionEmphasis": enumString("strong", "moderate", "subtle"),
					"personalizedGreeting": enumString("returning", "new", "engaged"),
					"authState":            enumString("authenticated", "anonymous"),
				},
			},
		},
		Required: []string{"topSections"},
	}
}
