package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger verifica conectividad con la base de datos para el health check.
type Pinger func(ctx context.Context) error

// NewRouter configura el router de Gin con middlewares y rutas.
// Todas las rutas salvo /healthz exigen bearer token.
func NewRouter(
	logger *zap.Logger,
	jwtMiddleware gin.HandlerFunc,
	chatH *ChatHandler,
	sessionH *SessionHandler,
	lawyerH *LawyerHandler,
	advisoryH *AdvisoryHandler,
	ping Pinger,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if ping != nil {
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := r.Group("/", jwtMiddleware)
	authed.POST("/chat", chatH.Chat)
	authed.GET("/sessions", sessionH.ListSessions)
	authed.GET("/sessions/:id/messages", sessionH.ListMessages)
	authed.GET("/lawyers", lawyerH.Search)
	authed.POST("/schemes/match", advisoryH.MatchSchemes)
	authed.POST("/summarize", advisoryH.Summarize)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
