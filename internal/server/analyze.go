package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labelsense/labelsense/internal/common"
)

// POST /api/v1/analyze  { "image_url": "..." } or { "image_base64": "data:..." }
// or multipart form with an "image" file. Runs extraction then explanation.
func (s *Service) Analyze(c *gin.Context) {
	ref, err := s.imageRef(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	extraction, err := s.extractor.Extract(c.Request.Context(), ref)
	if err != nil {
		s.renderError(c, err)
		return
	}

	explanation, err := s.explainer.Explain(c.Request.Context(), extraction)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"extraction":  extraction,
		"explanation": explanation,
	})
}

// POST /api/v1/extract — extraction only, same input shapes as Analyze.
func (s *Service) Extract(c *gin.Context) {
	ref, err := s.imageRef(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	extraction, err := s.extractor.Extract(c.Request.Context(), ref)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"extraction": extraction})
}

func (s *Service) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case common.StatusOf(err) != 0:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "upstream_status": common.StatusOf(err)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
