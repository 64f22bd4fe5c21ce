package detect

import (
	"log/slog"
	"math"
	"time"

	"github.com/ledgerline/ledgerline/internal/model"
)

// matchBankPatterns tries each active pattern of a matched bank in declared
// order. The first regex match wins; later patterns are never consulted.
func (e *Engine) matchBankPatterns(bank *compiledBank, msg model.NormalizedMessage) *model.TransactionCandidate {
	for i := range bank.patterns {
		p := &bank.patterns[i]
		if !p.Active {
			continue
		}

		submatches := p.regex.FindStringSubmatch(msg.CleanText)
		if submatches == nil {
			continue
		}

		data, fieldScores, warnings := e.extractFields(p, submatches)
		if data.Amount == nil {
			// A candidate without an amount can never be persisted;
			// treat the pattern as not matched.
			slog.Debug("Bank pattern matched but extracted no amount",
				"bank", bank.config.Name,
				"pattern", p.Name)
			continue
		}

		data.BankOrProvider = bank.config.Name
		if data.Currency == "" {
			data.Currency = bank.config.Currency
		}
		if data.Date.IsZero() {
			data.Date = msg.Timestamp
		}
		if data.Description == "" {
			data.Description = msg.CleanText
		}

		confidence := math.Min(1, p.MinimumConfidence)
		details := model.ExtractionDetails{
			MatchedPatterns: []string{bank.config.Name + "/" + p.Name},
			FieldScores:     fieldScores,
			Warnings:        warnings,
		}
		return newCandidate(msg, p.Intent, data, details, confidence)
	}
	return nil
}

// extractFields interprets the pattern's declarative field rules against the
// regex submatches. Unknown transforms or failed parses degrade to a
// warning on that field, never to a hard failure.
func (e *Engine) extractFields(p *compiledPattern, submatches []string) (model.ExtractedTransactionData, map[string]float64, []string) {
	var data model.ExtractedTransactionData
	scores := make(map[string]float64, len(p.FieldRules))
	var warnings []string

	for field, rule := range p.FieldRules {
		if rule.Group <= 0 || rule.Group >= len(submatches) {
			warnings = append(warnings, "field "+field+": capture group out of range")
			continue
		}
		raw := submatches[rule.Group]
		if raw == "" {
			continue
		}

		value := any(raw)
		if rule.Kind == model.FieldRuleNamedTransform {
			transform, ok := e.transforms[rule.Transform]
			if !ok {
				warnings = append(warnings, "field "+field+": unknown transform "+rule.Transform)
				continue
			}
			transformed, err := transform(raw)
			if err != nil {
				warnings = append(warnings, "field "+field+": "+err.Error())
				continue
			}
			value = transformed
		}

		if assignField(&data, field, value) {
			scores[field] = math.Min(1, p.MinimumConfidence)
		} else {
			warnings = append(warnings, "field "+field+": unexpected value type")
		}
	}

	return data, scores, warnings
}

// assignField routes a typed value into the extraction struct by field name.
func assignField(data *model.ExtractedTransactionData, field string, value any) bool {
	switch field {
	case "amount":
		switch v := value.(type) {
		case float64:
			data.Amount = &v
		default:
			return false
		}
	case "currency":
		s, ok := value.(string)
		if !ok {
			return false
		}
		data.Currency = s
	case "date":
		t, ok := value.(time.Time)
		if !ok {
			return false
		}
		data.Date = t
	case "account":
		s, ok := value.(string)
		if !ok {
			return false
		}
		data.AccountIdentifier = s
	case "reference":
		s, ok := value.(string)
		if !ok {
			return false
		}
		data.ReferenceNumber = s
	case "counterparty":
		s, ok := value.(string)
		if !ok {
			return false
		}
		data.Counterparty = s
	case "description":
		s, ok := value.(string)
		if !ok {
			return false
		}
		data.Description = s
	default:
		return false
	}
	return true
}
