package explain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/labelsense/labelsense/constants"
	"github.com/labelsense/labelsense/internal/common"
	"github.com/labelsense/labelsense/internal/knowledge"
	"github.com/labelsense/labelsense/internal/llm/openrouter"
	"github.com/labelsense/labelsense/internal/lookup"
	"github.com/labelsense/labelsense/internal/normalize"
)

func TestCandidates_DedupOrdered(t *testing.T) {
	got := Candidates("model-x", "model-y")
	want := []string{"model-x", "model-y", DefaultModel}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Candidates mismatch (-want +got):\n%s", diff)
	}

	got = Candidates("", DefaultModel)
	want = []string{DefaultModel}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Candidates mismatch (-want +got):\n%s", diff)
	}
}

func emptyStore(t *testing.T) *knowledge.Store {
	t.Helper()
	dir := t.TempDir()
	return knowledge.NewStore(filepath.Join(dir, "none.json"), filepath.Join(dir, "none.json"), nil)
}

func newTestClient(t *testing.T, cfg Config, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	provider := openrouter.NewClient(openrouter.Config{APIKey: "test-key", BaseURL: ts.URL}, nil)
	return NewClient(provider, emptyStore(t), lookup.NewFetcher(0, nil), cfg, nil)
}

func chatEnvelope(content string) []byte {
	raw, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return raw
}

func requestModel(r *http.Request) string {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		Model string `json:"model"`
	}
	_ = json.Unmarshal(body, &req)
	return req.Model
}

func sampleExtraction() normalize.ExtractionResult {
	return normalize.ExtractionResult{
		Domain:      constants.DomainFood,
		Ingredients: []string{"water", "sodium benzoate"},
		Confidence:  0.8,
		Language:    "en",
	}
}

func TestExplain_NoCredentialOfflineDefault(t *testing.T) {
	provider := openrouter.NewClient(openrouter.Config{BaseURL: "http://127.0.0.1:0"}, nil)
	c := NewClient(provider, emptyStore(t), lookup.NewFetcher(0, nil), Config{OCRModel: "model-a"}, nil)

	got, err := c.Explain(context.Background(), sampleExtraction())
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if got.Summary != OfflineSummary {
		t.Errorf("Summary = %q, want offline summary", got.Summary)
	}
	if len(got.Items) != 0 || got.Disclaimer == "" {
		t.Errorf("unexpected degraded result: %+v", got)
	}
}

func TestExplain_ThirdCandidateWinsAfter422s(t *testing.T) {
	var attempts []string
	c := newTestClient(t, Config{ExplainModel: "model-a", OCRModel: "model-b"}, func(w http.ResponseWriter, r *http.Request) {
		model := requestModel(r)
		attempts = append(attempts, model)
		if model != DefaultModel {
			http.Error(w, `{"error":"bad schema"}`, http.StatusUnprocessableEntity)
			return
		}
		_, _ = w.Write(chatEnvelope(`{"summary":"From the default model.","items":[{"name":"water","risk_level":"Green","certainty":0.9}],"disclaimer":"Check the packaging."}`))
	})

	got, err := c.Explain(context.Background(), sampleExtraction())
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}

	wantAttempts := []string{"model-a", "model-b", DefaultModel}
	if diff := cmp.Diff(wantAttempts, attempts); diff != "" {
		t.Errorf("attempts (-want +got):\n%s", diff)
	}
	if got.Summary != "From the default model." {
		t.Errorf("Summary = %q, want third candidate's output", got.Summary)
	}
	if len(got.Items) != 1 || got.Items[0].RiskLevel != constants.RiskGreen {
		t.Errorf("Items = %+v", got.Items)
	}
}

func TestExplain_ExhaustionIsTerminal(t *testing.T) {
	c := newTestClient(t, Config{OCRModel: "model-a"}, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"down"}`, http.StatusBadGateway)
	})

	_, err := c.Explain(context.Background(), sampleExtraction())
	if common.StatusOf(err) != http.StatusBadGateway {
		t.Fatalf("err = %v, want terminal StatusError carrying last status", err)
	}
}

func TestExplain_UnusableOutputDegrades(t *testing.T) {
	c := newTestClient(t, Config{OCRModel: "model-a"}, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(chatEnvelope("sorry, I cannot produce JSON"))
	})

	got, err := c.Explain(context.Background(), sampleExtraction())
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if diff := cmp.Diff(normalize.DefaultExplanation(""), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// fakeFetcher records the requested search terms and fails selectively.
type fakeFetcher struct {
	requested []string
	failTerm  string
}

func (f *fakeFetcher) FetchJSON(_ context.Context, rawURL string, _ map[string]string) (any, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	term := u.Query().Get("search_terms")
	f.requested = append(f.requested, term)
	if term == f.failTerm {
		return nil, errors.New("lookup failed")
	}
	return map[string]any{"products": []any{}}, nil
}

func TestFetchExternal_CapAndSkipOnFailure(t *testing.T) {
	provider := openrouter.NewClient(openrouter.Config{APIKey: "k", BaseURL: "http://127.0.0.1:0"}, nil)
	ff := &fakeFetcher{failTerm: "sugar"}
	c := NewClient(provider, emptyStore(t), ff, Config{
		OCRModel:      "model-a",
		LookupEnabled: true,
		LookupLimit:   2,
	}, nil)

	records := c.fetchExternal(context.Background(), "rid", normalize.ExtractionResult{
		Domain:      constants.DomainFood,
		Ingredients: []string{"water", "sugar", "salt"},
	})

	wantRequested := []string{"water", "sugar"}
	if diff := cmp.Diff(wantRequested, ff.requested); diff != "" {
		t.Errorf("requested terms (-want +got):\n%s", diff)
	}
	if len(records) != 1 || records[0].Ingredient != "water" {
		t.Errorf("records = %+v, want only the successful lookup", records)
	}
}

func TestFetchExternal_DisabledOrNoIngredients(t *testing.T) {
	provider := openrouter.NewClient(openrouter.Config{APIKey: "k", BaseURL: "http://127.0.0.1:0"}, nil)
	ff := &fakeFetcher{}
	c := NewClient(provider, emptyStore(t), ff, Config{OCRModel: "model-a"}, nil)

	if got := c.fetchExternal(context.Background(), "rid", sampleExtraction()); got != nil {
		t.Errorf("records = %v, want none when lookups disabled", got)
	}

	c = NewClient(provider, emptyStore(t), ff, Config{OCRModel: "model-a", LookupEnabled: true}, nil)
	if got := c.fetchExternal(context.Background(), "rid", normalize.ExtractionResult{}); got != nil {
		t.Errorf("records = %v, want none without ingredients", got)
	}
	if len(ff.requested) != 0 {
		t.Errorf("no lookup should have gone out, got %v", ff.requested)
	}
}
