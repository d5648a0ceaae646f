package adapter

import (
	"context"
	"fmt"

	"github.com/prefeitura-rio/app-personalizacao/internal/config"
)

// FromConfig cria o provedor configurado em RECOMMENDER_PROVIDER.
// Provedor sem chave de API vira Disabled.
func FromConfig(ctx context.Context, cfg config.RecommendationConfig) (Upstream, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return Disabled{}, nil
		}
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return NewGeminiAdapter(client, GeminiConfig{ChatModel: cfg.GeminiChatModel}), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return Disabled{}, nil
		}
		return NewOpenAIAdapter(cfg.OpenAIAPIKey, OpenAIConfig{
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		}), nil
	case config.ProviderNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("provedor de recomendações desconhecido: %q", cfg.Provider)
	}
}
