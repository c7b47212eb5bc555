// Package server is the thin HTTP boundary: it receives an image
// reference, runs extraction then explanation in sequence, and renders
// the results as JSON. All real work happens in the clients it wraps.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/labelsense/labelsense/internal/common"
	"github.com/labelsense/labelsense/internal/explain"
	"github.com/labelsense/labelsense/internal/extract"
	"github.com/labelsense/labelsense/internal/llm/openrouter"
)

type Service struct {
	extractor *extract.Client
	explainer *explain.Client
	provider  *openrouter.Client
	maxImage  int64 // bytes
	logger    *slog.Logger
}

func NewService(extractor *extract.Client, explainer *explain.Client, provider *openrouter.Client, maxImageMB int, logger *slog.Logger) *Service {
	if maxImageMB <= 0 {
		maxImageMB = 8
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extractor,
		explainer: explainer,
		provider:  provider,
		maxImage:  int64(maxImageMB) * 1024 * 1024,
		logger:    logger,
	}
}

// NewRouter wires the routes and middleware.
func NewRouter(svc *Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLog(svc.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/analyze", svc.Analyze)
		api.POST("/extract", svc.Extract)
	}

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-Id")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header("X-Request-Id", rid)
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

func requestLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Info("http.request",
			"req_id", common.RequestIDFromContext(c.Request.Context()),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
