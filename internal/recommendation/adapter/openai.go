package adapter

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configuração para o adapter OpenAI
type OpenAIConfig struct {
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}

// DefaultOpenAIConfig retorna configuração padrão
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:       "gpt-4-turbo",
		Temperature: 0.3,
		MaxTokens:   1500,
	}
}

// OpenAIAdapter gera recomendações via chat completions em modo JSON
type OpenAIAdapter struct {
	client *openai.Client
	config OpenAIConfig
}

// NewOpenAIAdapter cria um novo adapter para OpenAI (ou API compatível via BaseURL)
func NewOpenAIAdapter(apiKey string, cfg OpenAIConfig) *OpenAIAdapter {
	defaults := DefaultOpenAIConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaults.Temperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
	}
}

// Name identifica o provedor
func (o *OpenAIAdapter) Name() string {
	return "openai"
}

// Complete envia o prompt e retorna o JSON da recomendação
func (o *OpenAIAdapter) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		Messages:    messages,
		Temperature: o.config.Temperature,
		MaxTokens:   o.config.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("erro ao gerar recomendação: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("resposta vazia da OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
