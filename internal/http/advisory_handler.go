package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lexchat/internal/llm"
	"lexchat/internal/service"
)

// AdvisoryHandler expone las capacidades sin sesión: resumen y matching de esquemas.
type AdvisoryHandler struct {
	logger      *zap.Logger
	advisorySvc *service.AdvisoryService
}

func NewAdvisoryHandler(logger *zap.Logger, advisorySvc *service.AdvisoryService) *AdvisoryHandler {
	return &AdvisoryHandler{logger: logger, advisorySvc: advisorySvc}
}

// Summarize maneja POST /summarize.
func (h *AdvisoryHandler) Summarize(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid summarize request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	summary, err := h.advisorySvc.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		h.writeAdvisoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// MatchSchemes maneja POST /schemes/match.
func (h *AdvisoryHandler) MatchSchemes(c *gin.Context) {
	var req struct {
		Situation string `json:"situation" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid scheme match request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	matches, err := h.advisorySvc.MatchSchemes(c.Request.Context(), req.Situation)
	if err != nil {
		h.writeAdvisoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "schemes": matches})
}

func (h *AdvisoryHandler) writeAdvisoryError(c *gin.Context, err error) {
	var provErr *llm.ProviderError

	switch {
	case errors.Is(err, service.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.As(err, &provErr):
		h.logger.Error("provider error", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
	case errors.Is(err, service.ErrSchemeExtract):
		h.logger.Error("scheme extraction failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
	default:
		h.logger.Error("advisory request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
