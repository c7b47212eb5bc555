package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/labelsense/labelsense/constants"
)

func TestDomain_ExactMatchOnly(t *testing.T) {
	if got := Domain("drug"); got != constants.DomainDrug {
		t.Errorf("Domain(drug) = %q, want drug", got)
	}
	if got := Domain("candy"); got != constants.DomainMixed {
		t.Errorf("Domain(candy) = %q, want mixed", got)
	}
	if got := Domain("Food"); got != constants.DomainMixed {
		t.Errorf("Domain(Food) = %q, want mixed (no case folding)", got)
	}
	if got := Domain(42.0); got != constants.DomainMixed {
		t.Errorf("Domain(42) = %q, want mixed", got)
	}
}

func TestIngredients_SplitTrimDedup(t *testing.T) {
	got := Ingredients("Water, Sugar\nArtificial Flavor; Sugar")
	want := []string{"water", "sugar", "artificial flavor"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Ingredients mismatch (-want +got):\n%s", diff)
	}
}

func TestIngredients_BulletsAndMixedSeparators(t *testing.T) {
	got := Ingredients("• Aqua • GLYCERIN\nparfum, aqua;  ")
	want := []string{"aqua", "glycerin", "parfum"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Ingredients mismatch (-want +got):\n%s", diff)
	}
}

func TestIngredients_ListInputSkipsNonStrings(t *testing.T) {
	got := Ingredients([]any{"Salt", 3.0, nil, "salt", "Pepper"})
	want := []string{"salt", "pepper"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Ingredients mismatch (-want +got):\n%s", diff)
	}
}

func TestIngredients_NonStringInput(t *testing.T) {
	if got := Ingredients(map[string]any{}); len(got) != 0 {
		t.Errorf("Ingredients(object) = %v, want empty", got)
	}
	if got := Ingredients(nil); len(got) != 0 {
		t.Errorf("Ingredients(nil) = %v, want empty", got)
	}
}

func TestConfidence_ClampAndRound(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{0.5, 0.5},
		{1.5, 1},
		{-0.3, 0},
		{0.12345, 0.123},
		{0.9995, 1},
		{"high", 0},
		{nil, 0},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := Confidence(tc.in); got != tc.want {
			t.Errorf("Confidence(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLanguage(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"EN-us", "en-us"},
		{"not a tag!!", "en"},
		{nil, "en"},
		{"", "en"},
		{"  fr  ", "fr"},
		{"zh-hans-cn", "zh-hans-cn"},
		{"a", "en"},
		{"en-x", "en"},
	}
	for _, tc := range cases {
		if got := Language(tc.in); got != tc.want {
			t.Errorf("Language(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSectionsFrom(t *testing.T) {
	got := SectionsFrom(map[string]any{
		"warnings": "  Keep out of reach of children.  ",
		"claims":   []any{" gluten free ", "", 7.0, "vegan"},
	})
	want := Sections{
		Warnings: "Keep out of reach of children.",
		Claims:   []string{"gluten free", "vegan"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SectionsFrom mismatch (-want +got):\n%s", diff)
	}
}

func TestSectionsFrom_OmitsEmptyClaims(t *testing.T) {
	got := SectionsFrom(map[string]any{"claims": []any{"", "   "}})
	if got.Claims != nil {
		t.Errorf("Claims = %v, want nil when everything filtered out", got.Claims)
	}
	if got := SectionsFrom("not an object"); !cmp.Equal(Sections{}, got) {
		t.Errorf("SectionsFrom(string) = %+v, want zero value", got)
	}
}

func TestExtractionFromJSON_ConfidenceCapWithoutIngredients(t *testing.T) {
	got := ExtractionFromJSON(map[string]any{
		"domain_guess": "food",
		"ingredients":  []any{},
		"confidence":   0.95,
	})
	if got.Confidence != 0.2 {
		t.Errorf("Confidence = %v, want 0.2 when ingredients empty", got.Confidence)
	}
	if got.Domain != constants.DomainFood {
		t.Errorf("Domain = %q, want food", got.Domain)
	}
}

func TestExtractionFromJSON_NonObject(t *testing.T) {
	got := ExtractionFromJSON([]any{"x"})
	if diff := cmp.Diff(DefaultExtraction(), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractionFromJSON_Idempotent(t *testing.T) {
	first := ExtractionFromJSON(map[string]any{
		"domain_guess": "cosmetic",
		"ingredients":  "Aqua, Glycerin; Parfum",
		"sections":     map[string]any{"warnings": "Avoid eye contact.", "claims": []any{"paraben free"}},
		"confidence":   0.8129,
		"language":     "DE",
	})

	// round-trip through JSON and normalize again
	raw, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second := ExtractionFromJSON(v)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("normalization not idempotent (-first +second):\n%s", diff)
	}
}
