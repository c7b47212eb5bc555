package server

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/labelsense/labelsense/constants"
	"github.com/labelsense/labelsense/internal/common"
	"github.com/labelsense/labelsense/internal/llm"
)

type analyzeRequest struct {
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64"`
}

// imageRef resolves the image reference from the request: a JSON body
// with image_url or a data-URI image_base64, or a multipart "image" file.
// Multipart files are size-gated, then hosted via the provider's upload
// endpoint when one is configured, or inlined as a data URI otherwise.
func (s *Service) imageRef(c *gin.Context) (string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return s.refFromMultipart(c)
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", common.NewAppError("ANALYZE_INPUT", "invalid request body", common.ErrInvalidInput)
	}
	if req.ImageURL != "" {
		return req.ImageURL, nil
	}
	if req.ImageBase64 != "" {
		if !strings.HasPrefix(req.ImageBase64, "data:image") {
			return "", common.NewAppError("ANALYZE_INPUT", "image_base64 must be a data URI", common.ErrInvalidInput)
		}
		return req.ImageBase64, nil
	}
	return "", common.NewAppError("ANALYZE_INPUT", "image_url, image_base64, or an image file is required", common.ErrInvalidInput)
}

func (s *Service) refFromMultipart(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", common.NewAppError("ANALYZE_INPUT", "multipart field 'image' is required", common.ErrInvalidInput)
	}
	if fh.Size > s.maxImage {
		return "", common.NewAppError("ANALYZE_INPUT", "image exceeds size limit", common.ErrInvalidInput)
	}

	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if _, ok := constants.AllowedImageExtensions[ext]; !ok {
		return "", common.NewAppError("ANALYZE_INPUT", "unsupported image extension ."+ext, common.ErrInvalidInput)
	}

	f, err := fh.Open()
	if err != nil {
		return "", common.WrapError(err, "open upload")
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("upload.close_error", "error", err)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(f, s.maxImage+1))
	if err != nil {
		return "", common.WrapError(err, "read upload")
	}
	if int64(len(data)) > s.maxImage {
		return "", common.NewAppError("ANALYZE_INPUT", "image exceeds size limit", common.ErrInvalidInput)
	}

	mimeType := constants.MimeForExt(ext)
	url, err := s.provider.UploadImage(c.Request.Context(), fh.Filename, data, mimeType)
	if err == nil {
		return url, nil
	}
	// No host configured (or the upload failed): inline the image.
	s.logger.Warn("upload.inlining_image", "error", err, "bytes", len(data))
	return llm.EncodeDataURL(data, mimeType), nil
}
