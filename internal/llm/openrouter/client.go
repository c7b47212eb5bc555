package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/labelsense/labelsense/internal/common"
	"github.com/labelsense/labelsense/internal/llm"
)

// Complete runs one chat completion and returns the textual payload of
// the first choice. An empty string with a nil error means the provider
// answered successfully but produced no usable text; callers degrade to
// their defaults in that case. Non-2xx statuses surface as
// *common.StatusError so callers can drive their fallback strategies.
func (c *Client) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	if req.Temperature == 0 {
		req.Temperature = c.cfg.Temperature
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, err := llm.SendJSON(ctx, c.http, endpoint, req.Body(), headers, c.logger)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(llm.ExtractContent(raw)), nil
}

// UploadImage posts image bytes as a multipart form to the configured
// file-hosting endpoint and returns a fetchable URL. The host answers
// with either a direct url or an id from which the retrieval URL is
// constructed.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte, mimeType string) (string, error) {
	if c.cfg.ImageHostURL == "" {
		return "", common.NewAppError("UPLOAD_ERROR", "no image host configured", common.ErrInvalidInput)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if mimeType != "" {
		hdr.Set("Content-Type", mimeType)
	}
	part, err := w.CreatePart(hdr)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ImageHostURL, &buf)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("upload.response_body_close_error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return "", common.NewStatusError(resp.StatusCode, raw)
	}

	var out struct {
		URL string `json:"url"`
		ID  string `json:"id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.URL != "" {
		return out.URL, nil
	}
	if out.ID != "" {
		return strings.TrimRight(c.cfg.ImageHostURL, "/") + "/" + out.ID, nil
	}
	return "", fmt.Errorf("upload response carries neither url nor id")
}
