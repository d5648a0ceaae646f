// Package adapter encapsula os provedores de modelo usados para gerar recomendações.
// Cada adapter recebe um prompt e devolve o texto JSON produzido pelo modelo.
package adapter

import (
	"context"
	"errors"
	"strings"
)

// ErrProviderDisabled indica que nenhum provedor está configurado
var ErrProviderDisabled = errors.New("provedor de recomendações desativado")

// Request prompt enviado ao modelo
type Request struct {
	System string
	Prompt string
}

// Upstream provedor de modelo capaz de completar um prompt com JSON
type Upstream interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Disabled provedor que sempre falha; força o uso do fallback determinístico
type Disabled struct{}

// Complete sempre retorna ErrProviderDisabled
func (Disabled) Complete(context.Context, Request) (string, error) {
	return "", ErrProviderDisabled
}

// Name identifica o provedor em logs e métricas
func (Disabled) Name() string {
	return "none"
}

// ExtractJSON remove cercas de markdown e texto antes do primeiro '{'
func ExtractJSON(s string) string {
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+7:]
		if endIdx := strings.Index(s, "```"); endIdx != -1 {
			s = s[:endIdx]
		}
	} else if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
		if endIdx := strings.Index(s, "```"); endIdx != -1 {
			s = s[:endIdx]
		}
	}

	if idx := strings.Index(s, "{"); idx != -1 {
		s = s[idx:]
	}
	if idx := strings.LastIndex(s, "}"); idx != -1 {
		s = s[:idx+1]
	}

	return strings.TrimSpace(s)
}
