package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labelsense/labelsense/internal/common"
)

func TestHostAllowed(t *testing.T) {
	cases := []struct {
		host string
		want bool
	}{
		{"world.openfoodfacts.org", true},
		{"openfoodfacts.org", true},
		{"world.openbeautyfacts.org", true},
		{"evil.com", false},
		{"notopenfoodfacts.org", false},
		{"openfoodfacts.org.evil.com", false},
	}
	for _, tc := range cases {
		if got := hostAllowed(tc.host); got != tc.want {
			t.Errorf("hostAllowed(%q) = %v, want %v", tc.host, got, tc.want)
		}
	}
}

func TestFetchJSON_RejectsForeignHostBeforeNetwork(t *testing.T) {
	f := NewFetcher(time.Second, nil)
	_, err := f.FetchJSON(context.Background(), "https://evil.com/data.json", nil)
	if !errors.Is(err, common.ErrForbiddenURL) {
		t.Fatalf("err = %v, want ErrForbiddenURL", err)
	}
}

// withTestHost temporarily whitelists the httptest server's host.
func withTestHost(t *testing.T, ts *httptest.Server) {
	t.Helper()
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	saved := allowedDomains
	allowedDomains = append([]string{u.Hostname()}, saved...)
	t.Cleanup(func() { allowedDomains = saved })
}

func TestFetchJSON_RejectsNonJSONContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer ts.Close()
	withTestHost(t, ts)

	f := NewFetcher(time.Second, nil)
	_, err := f.FetchJSON(context.Background(), ts.URL, nil)
	if err == nil || !strings.Contains(err.Error(), "non-JSON content type") {
		t.Fatalf("err = %v, want content-type rejection", err)
	}
}

func TestFetchJSON_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent-Extra"); got != "labelsense-test" {
			t.Errorf("custom header not forwarded, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"count":1,"products":[{"code":"123"}]}`))
	}))
	defer ts.Close()
	withTestHost(t, ts)

	f := NewFetcher(time.Second, nil)
	v, err := f.FetchJSON(context.Background(), ts.URL, map[string]string{"User-Agent-Extra": "labelsense-test"})
	if err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok || m["count"] != 1.0 {
		t.Errorf("unexpected decoded body: %v", v)
	}
}

func TestFetchJSON_UpstreamFailureStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()
	withTestHost(t, ts)

	f := NewFetcher(time.Second, nil)
	_, err := f.FetchJSON(context.Background(), ts.URL, nil)
	if common.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("err = %v, want StatusError 500", err)
	}
}

func TestFetchJSON_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()
	withTestHost(t, ts)

	f := NewFetcher(50*time.Millisecond, nil)
	_, err := f.FetchJSON(context.Background(), ts.URL, nil)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestProviderHostAndSearchURL(t *testing.T) {
	if got := ProviderHost("cosmetic"); got != "world.openbeautyfacts.org" {
		t.Errorf("ProviderHost(cosmetic) = %q", got)
	}
	if got := ProviderHost("food"); got != "world.openfoodfacts.org" {
		t.Errorf("ProviderHost(food) = %q", got)
	}
	if got := ProviderHost("mixed"); got != "world.openfoodfacts.org" {
		t.Errorf("ProviderHost(mixed) = %q", got)
	}

	u := SearchURL("world.openfoodfacts.org", "citric acid")
	if !strings.HasPrefix(u, "https://world.openfoodfacts.org/cgi/search.pl?") {
		t.Errorf("SearchURL = %q", u)
	}
	if !strings.Contains(u, "search_terms=citric+acid") {
		t.Errorf("SearchURL missing escaped term: %q", u)
	}
}
