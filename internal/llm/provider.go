package llm

import (
	"context"
	"fmt"
)

// ChatMessage es el formato de mensajes que consume el proveedor de completions.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describe una invocación al proveedor.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// Provider define la interfaz del gateway de completions.
//
// CompleteStream entrega cada fragmento decodificado vía onFragment apenas
// llega, acumula el texto completo y lo devuelve al cerrar el stream. Si
// onFragment devuelve error (el cliente downstream se fue), la lectura del
// proveedor se aborta y se devuelve lo acumulado junto con ese error.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	CompleteStream(ctx context.Context, req CompletionRequest, onFragment func(string) error) (string, error)
}

// ProviderError captura respuestas no-2xx o errores del proveedor con contexto.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("llm provider: status=%d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm provider: status=%d", e.StatusCode)
}
