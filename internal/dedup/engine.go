// Package dedup catches the same real-world transaction arriving through
// multiple sources. Two complementary mechanisms: an exact hash over
// canonical fields for fast idempotent-write checks, and a weighted fuzzy
// similarity score against nearby history for cross-source correlation.
package dedup

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ledgerline/ledgerline/internal/model"
)

// Similarity weights. The reference number is the dominant signal: a match
// contributes a full 1.0 against an evaluated weight of only 0.5, so it can
// push a pair over the threshold on its own.
const (
	amountWeight    = 0.35
	timeWeight      = 0.30
	accountWeight   = 0.20
	providerWeight  = 0.15
	referenceBoost  = 1.0
	referenceWeight = 0.5
)

// Options configures the engine. The exact hash and the fuzzy comparison
// deliberately use different time granularities: the hash is a coarse
// per-day idempotency key while the similarity window correlates
// near-simultaneous reports. Both are explicit parameters rather than an
// implicit mismatch.
type Options struct {
	SimilarityThreshold float64
	AmountTolerance     float64
	TimeWindow          time.Duration
	HashGranularity     model.HashGranularity
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: 0.85,
		AmountTolerance:     0.01,
		TimeWindow:          60 * time.Second,
		HashGranularity:     model.GranularityDay,
	}
}

// Match is one existing record scored against a candidate.
type Match struct {
	TransactionID string
	Signals       []string
	Score         float64
}

// Engine computes hashes and fuzzy similarity scores.
type Engine struct {
	opts Options
}

// New creates a deduplication engine.
func New(opts Options) *Engine {
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = 0.85
	}
	if opts.AmountTolerance <= 0 {
		opts.AmountTolerance = 0.01
	}
	if opts.TimeWindow <= 0 {
		opts.TimeWindow = 60 * time.Second
	}
	if opts.HashGranularity <= 0 {
		opts.HashGranularity = model.GranularityDay
	}
	return &Engine{opts: opts}
}

// GenerateHash returns the exact-match fingerprint for a record at the
// configured granularity.
func (e *Engine) GenerateHash(txn *model.Transaction) string {
	return txn.GenerateHashAt(e.opts.HashGranularity)
}

// CalculateSimilarity scores how likely two records describe the same
// real-world transaction. The weighted sum is normalized by the weights
// actually evaluated: a field missing on either side is skipped, not
// penalized.
func (e *Engine) CalculateSimilarity(candidate, existing *model.Transaction) (float64, []string) {
	var score, totalWeight float64
	var signals []string

	// Amount: always present on both sides by the time records exist.
	totalWeight += amountWeight
	if amountsMatch(candidate.Amount, existing.Amount, e.opts.AmountTolerance) {
		score += amountWeight
		signals = append(signals, "amount within tolerance")
	}

	if !candidate.Date.IsZero() && !existing.Date.IsZero() {
		totalWeight += timeWeight
		diff := candidate.Date.Sub(existing.Date)
		if diff < 0 {
			diff = -diff
		}
		if diff <= e.opts.TimeWindow {
			score += timeWeight
			signals = append(signals, fmt.Sprintf("timestamps within %s", e.opts.TimeWindow))
		}
	}

	if candidate.AccountIdentifier != "" && existing.AccountIdentifier != "" {
		totalWeight += accountWeight
		if substringMatch(candidate.AccountIdentifier, existing.AccountIdentifier) {
			score += accountWeight
			signals = append(signals, "account identifier match")
		}
	}

	if candidate.Provider != "" && existing.Provider != "" {
		totalWeight += providerWeight
		if substringMatch(candidate.Provider, existing.Provider) {
			score += providerWeight
			signals = append(signals, "provider match")
		}
	}

	if candidate.ReferenceNumber != "" && existing.Notes != "" {
		totalWeight += referenceWeight
		if strings.Contains(strings.ToLower(existing.Notes), strings.ToLower(candidate.ReferenceNumber)) {
			score += referenceBoost
			signals = append(signals, "reference number match")
		}
	}

	if totalWeight == 0 {
		return 0, nil
	}
	return math.Min(1, score/totalWeight), signals
}

// FindDuplicates scores the candidate against every existing record and
// returns all matches at or above the similarity threshold, ordered by
// descending similarity.
func (e *Engine) FindDuplicates(candidate *model.Transaction, existing []model.Transaction) []Match {
	var matches []Match
	for i := range existing {
		score, signals := e.CalculateSimilarity(candidate, &existing[i])
		if score >= e.opts.SimilarityThreshold {
			matches = append(matches, Match{
				TransactionID: existing[i].ID,
				Score:         score,
				Signals:       signals,
			})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches
}

// IsDuplicate reports whether the candidate duplicates any existing record,
// with all matched ids and a human-readable reason.
func (e *Engine) IsDuplicate(candidate *model.Transaction, existing []model.Transaction) (bool, []Match, string) {
	matches := e.FindDuplicates(candidate, existing)
	if len(matches) == 0 {
		return false, nil, ""
	}
	best := matches[0]
	reason := fmt.Sprintf("similarity %.2f with transaction %s (%s)",
		best.Score, best.TransactionID, strings.Join(best.Signals, ", "))
	return true, matches, reason
}

// amountsMatch treats amounts within the tolerance (relative to the
// existing record) as equal. The epsilon keeps the exact-boundary case on
// the equal side despite floating point.
func amountsMatch(candidate, existing, tolerance float64) bool {
	diff := math.Abs(candidate - existing)
	return diff <= tolerance*math.Abs(existing)+1e-9
}

// substringMatch is a case-insensitive bidirectional containment check.
func substringMatch(a, b string) bool {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
