package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lexchat/internal/domain"
	"lexchat/internal/llm"
	"lexchat/internal/repository"
)

var (
	ErrEmptyMessage     = errors.New("empty message")
	ErrSessionForbidden = errors.New("session belongs to another user")
)

// ChatService orquesta un turno de conversación: resuelve la sesión, persiste
// el mensaje del usuario, arma la ventana de contexto, invoca al proveedor y
// persiste la respuesta del asistente. El mensaje del usuario queda durable
// ANTES de iniciar la generación; la respuesta del asistente queda durable
// antes de darse por entregada.
type ChatService struct {
	logger     *zap.Logger
	sessions   repository.SessionRepository
	messages   repository.MessageRepository
	history    HistoryService
	provider   llm.Provider
	locker     SessionLocker
	capability Capability
}

func NewChatService(
	logger *zap.Logger,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	history HistoryService,
	provider llm.Provider,
	locker SessionLocker,
	capability Capability,
) *ChatService {
	if locker == nil {
		locker = NewMemorySessionLocker()
	}
	return &ChatService{
		logger:     logger,
		sessions:   sessions,
		messages:   messages,
		history:    history,
		provider:   provider,
		locker:     locker,
		capability: capability,
	}
}

// TurnResult es la salida de un turno completado.
type TurnResult struct {
	SessionID string `json:"sessionId"`
	Response  string `json:"response"`
}

// Turn ejecuta un turno en modo buffered.
func (s *ChatService) Turn(ctx context.Context, userID, sessionID, message string) (TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return TurnResult{}, ErrEmptyMessage
	}

	session, err := s.ensureSession(ctx, userID, sessionID, message)
	if err != nil {
		return TurnResult{}, err
	}

	release, err := s.locker.Acquire(ctx, session.ID)
	if err != nil {
		return TurnResult{}, err
	}
	defer release()

	userMsg, err := s.appendMessage(ctx, session.ID, domain.RoleUser, message)
	if err != nil {
		return TurnResult{}, fmt.Errorf("persist user message: %w", err)
	}

	prompt := s.buildPrompt(ctx, session, userMsg, message)

	response, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return TurnResult{}, fmt.Errorf("llm complete: %w", err)
	}

	if _, err := s.appendMessage(ctx, session.ID, domain.RoleAssistant, response); err != nil {
		return TurnResult{}, fmt.Errorf("persist assistant message: %w", err)
	}

	return TurnResult{SessionID: session.ID, Response: response}, nil
}

// TurnStream ejecuta un turno en modo streaming. onSession se invoca una vez
// con el id de sesión resuelto antes del primer fragmento; onFragment recibe
// cada fragmento decodificado. Si el downstream corta (onFragment devuelve
// error o ctx se cancela) el parcial NO se persiste. Si el proveedor falla a
// mitad de stream (error tipado o corte de red), el parcial ya reenviado se
// persiste best-effort.
func (s *ChatService) TurnStream(
	ctx context.Context,
	userID, sessionID, message string,
	onSession func(sessionID string) error,
	onFragment func(fragment string) error,
) (TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return TurnResult{}, ErrEmptyMessage
	}

	session, err := s.ensureSession(ctx, userID, sessionID, message)
	if err != nil {
		return TurnResult{}, err
	}

	release, err := s.locker.Acquire(ctx, session.ID)
	if err != nil {
		return TurnResult{}, err
	}
	defer release()

	userMsg, err := s.appendMessage(ctx, session.ID, domain.RoleUser, message)
	if err != nil {
		return TurnResult{}, fmt.Errorf("persist user message: %w", err)
	}

	if onSession != nil {
		if err := onSession(session.ID); err != nil {
			return TurnResult{SessionID: session.ID}, err
		}
	}

	prompt := s.buildPrompt(ctx, session, userMsg, message)

	// downstreamFailed separa un corte del cliente (no persistir) de un fallo
	// del lado del proveedor (persistir lo ya reenviado).
	downstreamFailed := false
	forward := func(fragment string) error {
		if err := onFragment(fragment); err != nil {
			downstreamFailed = true
			return err
		}
		return nil
	}

	full, streamErr := s.provider.CompleteStream(ctx, prompt, forward)
	if streamErr != nil {
		if !downstreamFailed && ctx.Err() == nil && !errors.Is(streamErr, context.Canceled) && full != "" {
			// Fragmentos ya entregados al cliente: se persiste el parcial.
			if _, err := s.appendMessage(ctx, session.ID, domain.RoleAssistant, full); err != nil {
				s.logger.Warn("persist partial assistant message failed",
					zap.Error(err),
					zap.String("session_id", session.ID),
				)
			} else {
				s.logger.Warn("persisted partial assistant message after provider error",
					zap.String("session_id", session.ID),
					zap.Int("partial_len", len(full)),
				)
			}
		}
		return TurnResult{SessionID: session.ID}, fmt.Errorf("llm stream: %w", streamErr)
	}

	if _, err := s.appendMessage(ctx, session.ID, domain.RoleAssistant, full); err != nil {
		return TurnResult{SessionID: session.ID}, fmt.Errorf("persist assistant message: %w", err)
	}

	return TurnResult{SessionID: session.ID, Response: full}, nil
}

// ensureSession devuelve la sesión existente (verificando ownership) o crea
// una nueva con título derivado del primer mensaje.
func (s *ChatService) ensureSession(ctx context.Context, userID, sessionID, firstMessage string) (domain.ChatSession, error) {
	if strings.TrimSpace(sessionID) != "" {
		session, err := s.sessions.GetByID(ctx, sessionID)
		if err != nil {
			return domain.ChatSession{}, fmt.Errorf("get session: %w", err)
		}
		if session.UserID != userID {
			return domain.ChatSession{}, ErrSessionForbidden
		}
		return session, nil
	}

	now := time.Now().UTC()
	session := domain.ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     domain.DeriveSessionTitle(firstMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.ChatSession{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *ChatService) appendMessage(ctx context.Context, sessionID, role, content string) (domain.Message, error) {
	msg := domain.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return domain.Message{}, err
	}
	if err := s.sessions.Touch(ctx, sessionID); err != nil {
		s.logger.Warn("touch session failed", zap.Error(err), zap.String("session_id", sessionID))
	}
	return msg, nil
}

// buildPrompt arma system + ventana de historial + mensaje nuevo. Un fallo al
// cargar historial degrada a ventana vacía, nunca aborta el turno.
func (s *ChatService) buildPrompt(ctx context.Context, session domain.ChatSession, userMsg domain.Message, message string) llm.CompletionRequest {
	messages := []llm.ChatMessage{{Role: "system", Content: s.capability.SystemPrompt}}

	window, err := s.history.Window(ctx, session.ID)
	if err != nil {
		s.logger.Warn("history window failed, proceeding without context",
			zap.Error(err),
			zap.String("session_id", session.ID),
			zap.String("user_id", session.UserID),
		)
		window = nil
	}
	for _, m := range window {
		// El mensaje recién persistido va al final como turno nuevo, no en la ventana.
		if m.ID == userMsg.ID {
			continue
		}
		messages = append(messages, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}

	messages = append(messages, llm.ChatMessage{Role: domain.RoleUser, Content: message})

	return llm.CompletionRequest{
		Model:       s.capability.Model,
		Messages:    messages,
		MaxTokens:   s.capability.MaxTokens,
		Temperature: s.capability.Temperature,
	}
}
