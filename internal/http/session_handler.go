package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lexchat/internal/domain"
	"lexchat/internal/repository"
)

// SessionHandler expone las consultas de sesiones y transcripciones.
type SessionHandler struct {
	logger   *zap.Logger
	sessions repository.SessionRepository
	messages repository.MessageRepository
}

func NewSessionHandler(logger *zap.Logger, sessions repository.SessionRepository, messages repository.MessageRepository) *SessionHandler {
	return &SessionHandler{
		logger:   logger,
		sessions: sessions,
		messages: messages,
	}
}

// sessionSummary decora la sesión con el tamaño de su transcripción para que
// el cliente pueda pintar la lista sin pedir los mensajes.
type sessionSummary struct {
	domain.ChatSession
	MessageCount int `json:"message_count"`
}

// ListSessions maneja GET /sessions: las sesiones del caller, por updated_at desc.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	sessions, err := h.sessions.ListByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	summaries := make([]sessionSummary, 0, len(sessions))
	for _, session := range sessions {
		count, err := h.messages.CountBySessionID(c.Request.Context(), session.ID)
		if err != nil {
			// El conteo es decorativo: un fallo no tumba el listado.
			h.logger.Warn("count messages failed", zap.Error(err), zap.String("session_id", session.ID))
			count = 0
		}
		summaries = append(summaries, sessionSummary{ChatSession: session, MessageCount: count})
	}

	c.JSON(http.StatusOK, gin.H{"sessions": summaries})
}

// ListMessages maneja GET /sessions/:id/messages. Solo el dueño puede leer.
func (h *SessionHandler) ListMessages(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	sessionID := c.Param("id")
	session, err := h.sessions.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("get session failed", zap.Error(err), zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if session.UserID != claims.UserID {
		h.logger.Warn("cross-user session access rejected",
			zap.String("user_id", claims.UserID),
			zap.String("session_id", sessionID),
		)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	messages, err := h.messages.ListBySessionID(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err), zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"session": session, "messages": messages})
}
