// Package classify provides category suggestion for transaction candidates.
// The pipeline depends only on the service.Classifier boundary; everything
// here is swappable.
package classify

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/ledgerline/ledgerline/internal/model"
)

// Rule maps a keyword regex to a category with a base confidence.
type Rule struct {
	Name       string
	Category   string
	Regex      string
	Priority   int
	Confidence float64
}

type compiledRule struct {
	regex *regexp.Regexp
	Rule
}

// KeywordClassifier assigns categories by regex keyword rules checked in
// priority order.
type KeywordClassifier struct {
	rules []compiledRule
	mu    sync.RWMutex
}

// NewKeywordClassifier creates a classifier from the given rules.
func NewKeywordClassifier(rules []Rule) (*KeywordClassifier, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		regexStr := r.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}
		re, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule %s: %w", r.Name, err)
		}
		compiled = append(compiled, compiledRule{Rule: r, regex: re})
	}

	// Sort by priority (highest first)
	for i := 0; i < len(compiled)-1; i++ {
		for j := i + 1; j < len(compiled); j++ {
			if compiled[j].Priority > compiled[i].Priority {
				compiled[i], compiled[j] = compiled[j], compiled[i]
			}
		}
	}

	return &KeywordClassifier{rules: compiled}, nil
}

// Classify suggests a category from the candidate's text and counterparty.
// With no matching rule it falls back to a direction-based default at low
// confidence.
func (c *KeywordClassifier) Classify(_ context.Context, candidate model.TransactionCandidate) (model.ClassificationResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	searchText := strings.ToLower(fmt.Sprintf("%s %s %s",
		candidate.Message.CleanText,
		candidate.ExtractedData.Counterparty,
		candidate.ExtractedData.Description,
	))

	for _, rule := range c.rules {
		if rule.regex.MatchString(searchText) {
			return model.ClassificationResult{
				Category:   rule.Category,
				Confidence: rule.Confidence,
				Provider:   "keyword",
			}, nil
		}
	}

	return model.ClassificationResult{
		Category:   fallbackCategory(candidate.Intent),
		Confidence: 0.3,
		Provider:   "keyword",
	}, nil
}

// RuleCount returns the number of loaded rules.
func (c *KeywordClassifier) RuleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rules)
}

// UpdateRules replaces the rule set.
func (c *KeywordClassifier) UpdateRules(rules []Rule) error {
	replacement, err := NewKeywordClassifier(rules)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.rules = replacement.rules
	c.mu.Unlock()
	return nil
}

func fallbackCategory(intent model.Intent) string {
	switch intent {
	case model.IntentCredit:
		return "Other Income"
	case model.IntentTransfer:
		return "Transfers"
	default:
		return "Uncategorized"
	}
}
