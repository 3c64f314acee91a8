package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lexchat/internal/domain"
	"lexchat/internal/repository"
)

// LawyerHandler expone la búsqueda filtrada del directorio de abogados.
type LawyerHandler struct {
	logger  *zap.Logger
	lawyers repository.LawyerRepository
}

func NewLawyerHandler(logger *zap.Logger, lawyers repository.LawyerRepository) *LawyerHandler {
	return &LawyerHandler{logger: logger, lawyers: lawyers}
}

// Search maneja GET /lawyers.
func (h *LawyerHandler) Search(c *gin.Context) {
	filter := domain.LawyerFilter{
		Specialization: c.Query("specialization"),
		City:           c.Query("city"),
		Language:       c.Query("language"),
		MaxFee:         queryInt(c, "maxFee"),
		Page:           queryInt(c, "page"),
		PageSize:       queryInt(c, "pageSize"),
	}

	lawyers, err := h.lawyers.Search(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("lawyer search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if lawyers == nil {
		lawyers = []domain.Lawyer{}
	}

	c.JSON(http.StatusOK, gin.H{"lawyers": lawyers})
}

func queryInt(c *gin.Context, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
