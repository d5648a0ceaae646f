package personalization

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
	"github.com/prefeitura-rio/app-personalizacao/internal/recommendation"
)

// ErrInvalidResponse resposta de recomendações sem sucesso ou sem payload
var ErrInvalidResponse = errors.New("resposta de recomendações inválida")

// Source fornece recomendações para o Context
type Source interface {
	Recommendations(ctx context.Context, userID string, authenticated, force bool) (*models.Payload, error)
}

// DigestReader lê o digest de analytics do usuário
type DigestReader interface {
	Digest(ctx context.Context, userID string, authenticated bool) (*models.AnalyticsDigest, error)
}

// LocalSource gera recomendações no próprio processo
type LocalSource struct {
	generator *recommendation.Generator
	digests   DigestReader
}

// NewLocalSource cria uma fonte sobre o gerador e o leitor de digests
func NewLocalSource(generator *recommendation.Generator, digests DigestReader) *LocalSource {
	return &LocalSource{generator: generator, digests: digests}
}

// Recommendations lê o digest e gera a recomendação
func (s *LocalSource) Recommendations(ctx context.Context, userID string, authenticated, force bool) (*models.Payload, error) {
	digest, err := s.digests.Digest(ctx, userID, authenticated)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler analytics: %w", err)
	}

	res, err := s.generator.Generate(ctx, recommendation.Request{
		Digest:        digest,
		UserID:        userID,
		Authenticated: authenticated,
		ForceRefresh:  force,
	})
	if err != nil {
		return nil, err
	}
	return res.Payload, nil
}

// HTTPSource busca recomendações na API do serviço
type HTTPSource struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPSource cria uma fonte remota. token, se informado, vai como Bearer.
func NewHTTPSource(baseURL, token string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 35 * time.Second}
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

type recommendationsRequest struct {
	UserID       string `json:"userId"`
	ForceRefresh bool   `json:"forceRefresh"`
}

type recommendationsResponse struct {
	Success         bool            `json:"success"`
	Recommendations *models.Payload `json:"recommendations"`
}

// Recommendations chama POST /api/v1/personalization/recommendations
func (s *HTTPSource) Recommendations(ctx context.Context, userID string, authenticated, force bool) (*models.Payload, error) {
	body, err := json.Marshal(recommendationsRequest{UserID: models.CacheKey(userID), ForceRefresh: force})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/personalization/recommendations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	} else if authenticated && !models.IsAnonymous(userID) {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha ao chamar API de recomendações: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API de recomendações retornou %d", resp.StatusCode)
	}

	var out recommendationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !out.Success || out.Recommendations == nil {
		return nil, ErrInvalidResponse
	}
	return out.Recommendations, nil
}
