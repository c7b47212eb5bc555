// Package lookup fetches supplementary ingredient records from the two
// whitelisted public databases. Every call is scoped by a fixed timeout
// and any hostname outside the whitelist is rejected before a single
// byte goes over the wire.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labelsense/labelsense/internal/common"
)

// The two allowed provider domains; subdomains are allowed too.
var allowedDomains = []string{"openfoodfacts.org", "openbeautyfacts.org"}

// DefaultTimeout bounds each lookup call.
const DefaultTimeout = 6 * time.Second

type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: &http.Client{}, timeout: timeout, logger: logger}
}

// FetchJSON gets a whitelisted URL and returns its decoded JSON body.
// The response must report a success status and a JSON content type.
func (f *Fetcher) FetchJSON(ctx context.Context, rawURL string, headers map[string]string) (any, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, common.NewAppError("LOOKUP_URL", "invalid url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, common.NewAppError("LOOKUP_URL", "unsupported scheme "+u.Scheme, common.ErrForbiddenURL)
	}
	if !hostAllowed(u.Hostname()) {
		return nil, common.NewAppError("LOOKUP_URL", "host "+u.Hostname()+" is not whitelisted", common.ErrForbiddenURL)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("lookup timed out after %s: %w", f.timeout, err)
		}
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			f.logger.Warn("lookup.response_body_close_error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	f.logger.Info("lookup.response",
		"host", u.Hostname(),
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, common.NewStatusError(resp.StatusCode, raw)
	}
	if !jsonContentType(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("lookup returned non-JSON content type %q", resp.Header.Get("Content-Type"))
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode lookup body: %w", err)
	}
	return v, nil
}

func hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, d := range allowedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func jsonContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
