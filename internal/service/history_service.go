package service

import (
	"context"
	"fmt"
	"strings"

	"lexchat/internal/domain"
	"lexchat/internal/repository"
)

// HistoryService define el contrato para recuperar la ventana de contexto
// conversacional: hasta `window` mensajes, ordenados de más viejo a más nuevo.
type HistoryService interface {
	Window(ctx context.Context, sessionID string) ([]domain.Message, error)
}

// BasicHistoryService obtiene los últimos mensajes de la sesión desde el repositorio.
type BasicHistoryService struct {
	messageRepo repository.MessageRepository
	window      int
}

func NewBasicHistoryService(messageRepo repository.MessageRepository, window int) *BasicHistoryService {
	if window <= 0 {
		window = 10
	}
	return &BasicHistoryService{messageRepo: messageRepo, window: window}
}

func (s *BasicHistoryService) Window(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, nil
	}

	messages, err := s.messageRepo.ListRecentBySessionID(ctx, sessionID, s.window)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	return messages, nil
}
