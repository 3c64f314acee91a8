package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lexchat/internal/llm"
	"lexchat/internal/repository"
	"lexchat/internal/service"
)

// ChatHandler expone el turno conversacional en modo buffered y streaming.
type ChatHandler struct {
	logger  *zap.Logger
	chatSvc *service.ChatService
	limiter service.ChatRateLimiter
}

func NewChatHandler(logger *zap.Logger, chatSvc *service.ChatService, limiter service.ChatRateLimiter) *ChatHandler {
	return &ChatHandler{
		logger:  logger,
		chatSvc: chatSvc,
		limiter: limiter,
	}
}

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId"`
	Stream    bool   `json:"stream"`
}

// Chat maneja POST /chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(claims.UserID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	if req.Stream {
		h.chatStream(c, claims.UserID, req)
		return
	}

	result, err := h.chatSvc.Turn(c.Request.Context(), claims.UserID, req.SessionID, req.Message)
	if err != nil {
		h.writeTurnError(c, claims.UserID, req.SessionID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"response":  result.Response,
		"sessionId": result.SessionID,
	})
}

// chatStream entrega la respuesta como text/event-stream: primer evento con
// el sessionId, un evento por fragmento y el literal [DONE] al final.
func (h *ChatHandler) chatStream(c *gin.Context, userID string, req chatRequest) {
	streamStarted := false
	writeEvent := func(payload []byte) error {
		if !streamStarted {
			// Headers recién con el primer evento: un fallo previo al stream
			// (validación, ownership, lock) responde JSON normal.
			c.Writer.Header().Set("Content-Type", "text/event-stream")
			c.Writer.Header().Set("Cache-Control", "no-cache")
			c.Writer.Header().Set("Connection", "keep-alive")
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
			return err
		}
		c.Writer.Flush()
		streamStarted = true
		return nil
	}

	onSession := func(sessionID string) error {
		payload, err := json.Marshal(gin.H{"sessionId": sessionID})
		if err != nil {
			return err
		}
		return writeEvent(payload)
	}
	onFragment := func(fragment string) error {
		payload, err := json.Marshal(gin.H{"content": fragment})
		if err != nil {
			return err
		}
		return writeEvent(payload)
	}

	_, err := h.chatSvc.TurnStream(c.Request.Context(), userID, req.SessionID, req.Message, onSession, onFragment)
	if err != nil {
		if !streamStarted {
			h.writeTurnError(c, userID, req.SessionID, err)
			return
		}
		// Headers ya enviados: solo podemos señalar el fallo dentro del stream.
		h.logger.Error("stream turn failed",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("session_id", req.SessionID),
		)
		_ = writeEvent([]byte(`{"error":"generation failed"}`))
		return
	}

	_ = writeEvent([]byte("[DONE]"))
}

// writeTurnError traduce la taxonomía de errores del turno a códigos HTTP.
// El detalle queda en logs; el body lleva solo un mensaje genérico.
func (h *ChatHandler) writeTurnError(c *gin.Context, userID, sessionID string, err error) {
	var provErr *llm.ProviderError

	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
	case errors.Is(err, repository.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrSessionForbidden):
		h.logger.Warn("cross-user session access rejected",
			zap.String("user_id", userID),
			zap.String("session_id", sessionID),
		)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "session busy"})
	case errors.As(err, &provErr):
		h.logger.Error("provider error",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("session_id", sessionID),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
	default:
		h.logger.Error("chat turn failed",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("session_id", sessionID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
