package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"lexchat/internal/domain"
	"lexchat/internal/llm"
)

var (
	ErrEmptyInput    = errors.New("empty input")
	ErrSchemeExtract = errors.New("could not extract scheme matches")
)

// AdvisoryService cubre las capacidades de passthrough al LLM que no llevan
// estado de sesión: resumen de documentos y matching de esquemas. Ambas usan
// el mismo camino de ejecución parametrizado por Capability.
type AdvisoryService struct {
	logger     *zap.Logger
	provider   llm.Provider
	summaryCap Capability
	schemeCap  Capability
}

func NewAdvisoryService(logger *zap.Logger, provider llm.Provider, summaryCap, schemeCap Capability) *AdvisoryService {
	return &AdvisoryService{
		logger:     logger,
		provider:   provider,
		summaryCap: summaryCap,
		schemeCap:  schemeCap,
	}
}

// Summarize genera el resumen en lenguaje llano de un documento legal.
func (s *AdvisoryService) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}

	out, err := s.complete(ctx, s.summaryCap, text)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// MatchSchemes pide al LLM esquemas gubernamentales aplicables a la situación
// del usuario y extrae el array JSON tipado de la respuesta en texto libre.
func (s *AdvisoryService) MatchSchemes(ctx context.Context, situation string) ([]domain.SchemeMatch, error) {
	situation = strings.TrimSpace(situation)
	if situation == "" {
		return nil, ErrEmptyInput
	}

	raw, err := s.complete(ctx, s.schemeCap, situation)
	if err != nil {
		return nil, fmt.Errorf("match schemes: %w", err)
	}

	matches, ok := parseSchemeMatches(raw)
	if !ok {
		s.logger.Warn("scheme extraction failed", zap.Int("raw_len", len(raw)))
		return nil, ErrSchemeExtract
	}
	return matches, nil
}

func (s *AdvisoryService) complete(ctx context.Context, capability Capability, input string) (string, error) {
	return s.provider.Complete(ctx, llm.CompletionRequest{
		Model: capability.Model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: capability.SystemPrompt},
			{Role: "user", Content: input},
		},
		MaxTokens:   capability.MaxTokens,
		Temperature: capability.Temperature,
	})
}

// parseSchemeMatches tolera fences y prosa alrededor del array JSON.
func parseSchemeMatches(raw string) ([]domain.SchemeMatch, bool) {
	cleaned := cleanLLMJSONResponse(raw)

	candidates := []string{
		extractFirstJSONArray(cleaned),
		extractFirstJSONArray(raw),
		cleaned,
	}
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		var matches []domain.SchemeMatch
		if err := json.Unmarshal([]byte(candidate), &matches); err != nil {
			continue
		}
		out := matches[:0]
		for _, m := range matches {
			if strings.TrimSpace(m.Name) == "" {
				continue
			}
			out = append(out, m)
		}
		if len(out) > 0 {
			return out, true
		}
	}

	// Algunos modelos devuelven un único objeto en lugar del array pedido.
	if obj := extractFirstJSONObject(cleaned); obj != "" {
		var single domain.SchemeMatch
		if err := json.Unmarshal([]byte(obj), &single); err == nil && strings.TrimSpace(single.Name) != "" {
			return []domain.SchemeMatch{single}, true
		}
	}
	return nil, false
}
