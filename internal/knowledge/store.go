// Package knowledge reads the local glossary and risk-rule documents and
// matches them against extracted ingredients. Both documents are
// read-only configuration data: absence or corruption degrades to an
// empty list, never to a failed request.
package knowledge

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/labelsense/labelsense/constants"
)

// GlossaryEntry describes one known ingredient.
type GlossaryEntry struct {
	Name        string   `json:"name"`
	Synonyms    []string `json:"synonyms,omitempty"`
	Description string   `json:"description,omitempty"`
	CommonUses  []string `json:"common_uses,omitempty"`
}

// RiskRule flags ingredients by exact applicability or pattern.
type RiskRule struct {
	Pattern   string              `json:"pattern"`
	RiskLevel constants.RiskLevel `json:"risk_level"`
	Reason    string              `json:"reason"`
	AppliesTo []string            `json:"applies_to,omitempty"`
}

type Store struct {
	glossaryPath string
	rulesPath    string
	logger       *slog.Logger
}

func NewStore(glossaryPath, rulesPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{glossaryPath: glossaryPath, rulesPath: rulesPath, logger: logger}
}

// Load reads both documents concurrently. Each read degrades
// independently to an empty list, so Load never returns an error.
func (s *Store) Load(ctx context.Context) ([]GlossaryEntry, []RiskRule) {
	var (
		glossary []GlossaryEntry
		rules    []RiskRule
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		glossary = readDoc[GlossaryEntry](s.glossaryPath, "glossary", s.logger)
		return nil
	})
	g.Go(func() error {
		rules = readDoc[RiskRule](s.rulesPath, "risk_rules", s.logger)
		return nil
	})
	_ = g.Wait()

	return glossary, rules
}

func readDoc[T any](path, name string, logger *slog.Logger) []T {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("knowledge.read_failed", "doc", name, "path", path, "error", err)
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Warn("knowledge.decode_failed", "doc", name, "path", path, "error", err)
		return []T{}
	}
	return out
}

// GlossaryMatches maps each ingredient to its first case-insensitive
// exact match against an entry's canonical name or any synonym.
// Ingredients with no match are omitted from the map.
func GlossaryMatches(ingredients []string, glossary []GlossaryEntry) map[string]GlossaryEntry {
	out := make(map[string]GlossaryEntry)
	for _, ing := range ingredients {
		for _, entry := range glossary {
			if entryMatches(ing, entry) {
				out[ing] = entry
				break
			}
		}
	}
	return out
}

func entryMatches(ingredient string, entry GlossaryEntry) bool {
	if strings.EqualFold(ingredient, entry.Name) {
		return true
	}
	for _, syn := range entry.Synonyms {
		if strings.EqualFold(ingredient, syn) {
			return true
		}
	}
	return false
}

// RiskMatches collects, per ingredient, every rule whose applies_to list
// contains the ingredient (case-insensitive exact) or whose pattern is a
// case-insensitive substring of it. Ingredients with no qualifying rule
// are omitted.
func RiskMatches(ingredients []string, rules []RiskRule) map[string][]RiskRule {
	out := make(map[string][]RiskRule)
	for _, ing := range ingredients {
		var matched []RiskRule
		for _, rule := range rules {
			if ruleMatches(ing, rule) {
				matched = append(matched, rule)
			}
		}
		if len(matched) > 0 {
			out[ing] = matched
		}
	}
	return out
}

func ruleMatches(ingredient string, rule RiskRule) bool {
	for _, target := range rule.AppliesTo {
		if strings.EqualFold(ingredient, target) {
			return true
		}
	}
	if rule.Pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(ingredient), strings.ToLower(rule.Pattern))
}
