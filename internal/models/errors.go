package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDigest   = errors.New("digest de analytics inválido")
	ErrInvalidEvent    = errors.New("evento de analytics inválido")
	ErrUpstreamFailure = errors.New("falha ao gerar recomendação")
	ErrCircuitOpen     = errors.New("gerador de recomendações temporariamente indisponível")
)

// UpstreamError descreve por que a chamada ao modelo falhou.
// É sempre recuperada pelo gerador e nunca chega ao chamador HTTP.
type UpstreamError struct {
	Reason string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, ErrUpstreamFailure)
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFailure
}
