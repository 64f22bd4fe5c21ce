// Package detect infers transaction candidates from normalized messages.
// Bank-specific patterns are tried first; a generic keyword heuristic is the
// fallback. Either path produces a TransactionCandidate with a confidence
// score and a per-field breakdown, or nothing at all.
package detect

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
)

// lowConfidenceWarning is attached to candidates scoring below 0.6.
const lowConfidenceWarning = "Low confidence - manual review recommended"

// heuristicFloor is the absolute minimum confidence the generic heuristic
// will accept, independent of the caller's threshold.
const heuristicFloor = 0.3

type compiledPattern struct {
	regex *regexp.Regexp
	model.BankPattern
}

type compiledBank struct {
	config   model.BankConfiguration
	patterns []compiledPattern
}

// Engine matches normalized messages against bank configurations and the
// generic heuristic.
type Engine struct {
	transforms map[string]Transform
	banks      []compiledBank
	mu         sync.RWMutex
}

// New creates a detection engine from the given bank configurations.
// Patterns with invalid regexes fail construction rather than silently
// never matching.
func New(configs []model.BankConfiguration) (*Engine, error) {
	e := &Engine{transforms: builtinTransforms()}
	if err := e.UpdateConfigurations(configs); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateConfigurations swaps in a new set of bank configurations.
func (e *Engine) UpdateConfigurations(configs []model.BankConfiguration) error {
	banks := make([]compiledBank, 0, len(configs))
	for _, cfg := range configs {
		cb := compiledBank{config: cfg, patterns: make([]compiledPattern, 0, len(cfg.Patterns))}
		for _, p := range cfg.Patterns {
			re, err := common.CompileInsensitive(p.Regex)
			if err != nil {
				return fmt.Errorf("compile pattern %s/%s: %w", cfg.Name, p.Name, err)
			}
			cb.patterns = append(cb.patterns, compiledPattern{BankPattern: p, regex: re})
		}
		banks = append(banks, cb)
	}

	e.mu.Lock()
	e.banks = banks
	e.mu.Unlock()
	return nil
}

// BankCount returns the number of loaded bank configurations.
func (e *Engine) BankCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.banks)
}

// Detect attempts to infer a transaction from the message. A nil candidate
// with a nil error means nothing was detected; that is a valid result, not a
// failure. The first successful bank pattern short-circuits the whole
// engine; the heuristic runs only when no bank pattern matched.
func (e *Engine) Detect(msg model.NormalizedMessage, confidenceThreshold float64) (*model.TransactionCandidate, error) {
	e.mu.RLock()
	banks := e.banks
	e.mu.RUnlock()

	for i := range banks {
		if !banks[i].config.Active {
			continue
		}
		if !senderMatches(msg.SenderIdentifier, banks[i].config.SenderIdentifiers) {
			continue
		}
		if cand := e.matchBankPatterns(&banks[i], msg); cand != nil {
			return cand, nil
		}
	}

	return e.detectHeuristic(msg, confidenceThreshold), nil
}

// senderMatches reports whether the sender matches any configured
// identifier. The comparison is a bidirectional substring match: carriers
// prefix and suffix sender ids differently per region.
func senderMatches(sender string, identifiers []string) bool {
	s := strings.ToLower(strings.TrimSpace(sender))
	if s == "" {
		return false
	}
	for _, id := range identifiers {
		i := strings.ToLower(strings.TrimSpace(id))
		if i == "" {
			continue
		}
		if strings.Contains(s, i) || strings.Contains(i, s) {
			return true
		}
	}
	return false
}

func newCandidate(msg model.NormalizedMessage, intent model.Intent, data model.ExtractedTransactionData, details model.ExtractionDetails, confidence float64) *model.TransactionCandidate {
	confidence = clamp01(confidence)
	details.OverallConfidence = confidence
	if confidence < 0.6 {
		details.Warnings = append(details.Warnings, lowConfidenceWarning)
	}
	data.Type = intent.TransactionType()
	return &model.TransactionCandidate{
		ID:                uuid.New().String(),
		Message:           msg,
		Intent:            intent,
		ConfidenceScore:   confidence,
		ExtractedData:     data,
		ExtractionDetails: details,
		ProcessedAt:       time.Now(),
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
