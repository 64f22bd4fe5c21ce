package detect

import (
	"regexp"
	"strings"
	"time"

	"github.com/ledgerline/ledgerline/internal/model"
)

// Ordered intent keyword groups. Precedence matters: a promotional message
// mentioning "credited" must still be ignored, and a transfer mentioning
// "debited" is a transfer, not a plain debit.
var (
	ignoreKeywords   = []string{"offer", "discount", "cashback", "win ", "lucky draw", "coupon", "promo", "reward points", "emi offer"}
	transferKeywords = []string{"transferred", "transfer to", "transfer from", "self transfer", "moved to"}
	creditKeywords   = []string{"credited", "received", "deposited", "refunded", "refund of", "credit of"}
	debitKeywords    = []string{"debited", "spent", "withdrawn", "paid", "purchase", "charged", "debit of"}
)

var (
	amountRegex    = regexp.MustCompile(`(?i)\b(INR|USD|EUR|GBP|JPY)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	refRegex       = regexp.MustCompile(`(?i)\b(?:reference|ref|txn|transaction|utr)\s*(?:no\.?|id|number)?\s*[:#.]?\s*([A-Za-z]*\d[A-Za-z0-9-]*)`)
	accountRegex   = regexp.MustCompile(`(?i)\baccount\s*(?:no\.?|number)?\s*[:#.]?\s*(?:ending\s+)?([Xx*]*\d{2,6})`)
	datePatternSet = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}\s+[A-Za-z]{3,9},?\s+\d{2,4}\b`),
		regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}-[A-Za-z]{3}-\d{2,4}\b`),
	}
)

// detectHeuristic is the generic fallback when no bank pattern matched.
// It scores the message field by field starting from the source's baseline
// confidence hint, and rejects anything below the floor or without an
// amount.
func (e *Engine) detectHeuristic(msg model.NormalizedMessage, confidenceThreshold float64) *model.TransactionCandidate {
	lower := strings.ToLower(msg.CleanText)
	if lower == "" {
		return nil
	}

	intent, intentResolved := resolveIntent(lower)
	if intent == model.IntentIgnore {
		return nil
	}

	var data model.ExtractedTransactionData
	scores := make(map[string]float64)
	confidence := msg.ConfidenceHint

	if m := amountRegex.FindStringSubmatch(msg.CleanText); m != nil {
		if v, err := parseAmount(m[2]); err == nil {
			amount := v.(float64)
			data.Amount = &amount
			data.Currency = strings.ToUpper(m[1])
			confidence += 0.2
			scores["amount"] = 0.9
			confidence += 0.1
			scores["currency"] = 0.9
		}
	}
	if data.Amount == nil {
		return nil
	}

	if parsed := findDate(msg.CleanText); parsed != nil {
		data.Date = *parsed
		confidence += 0.1
		scores["date"] = 0.8
	} else {
		confidence -= 0.05
		data.Date = msg.Timestamp
	}

	if data.Currency == "" {
		confidence -= 0.05
	}

	if intentResolved {
		confidence += 0.15
		scores["type"] = 0.85
	}

	if provider := e.knownProvider(msg); provider != "" {
		data.BankOrProvider = provider
		confidence += 0.1
		scores["provider"] = 0.7
	}

	if m := refRegex.FindStringSubmatch(msg.CleanText); m != nil {
		data.ReferenceNumber = m[1]
		scores["reference"] = 0.75
	}
	if m := accountRegex.FindStringSubmatch(msg.CleanText); m != nil {
		data.AccountIdentifier = m[1]
		scores["account"] = 0.75
	}

	data.Description = msg.CleanText
	confidence = clamp01(confidence)

	if confidence < heuristicFloor {
		return nil
	}
	if confidence < confidenceThreshold {
		return nil
	}

	details := model.ExtractionDetails{
		MatchedPatterns: []string{"generic-heuristic"},
		FieldScores:     scores,
	}
	return newCandidate(msg, intent, data, details, confidence)
}

// resolveIntent applies the ordered keyword precedence. The second return
// value reports whether a keyword resolved the intent, as opposed to
// falling back to the default debit.
func resolveIntent(lower string) (model.Intent, bool) {
	for _, kw := range ignoreKeywords {
		if strings.Contains(lower, kw) {
			return model.IntentIgnore, true
		}
	}
	for _, kw := range transferKeywords {
		if strings.Contains(lower, kw) {
			return model.IntentTransfer, true
		}
	}
	for _, kw := range creditKeywords {
		if strings.Contains(lower, kw) {
			return model.IntentCredit, true
		}
	}
	for _, kw := range debitKeywords {
		if strings.Contains(lower, kw) {
			return model.IntentDebit, true
		}
	}
	return model.IntentDebit, false
}

func findDate(text string) *time.Time {
	for _, re := range datePatternSet {
		raw := re.FindString(text)
		if raw == "" {
			continue
		}
		if v, err := parseDate(raw); err == nil {
			t := v.(time.Time)
			return &t
		}
	}
	return nil
}

// knownProvider scans the sender and text for a configured bank name.
func (e *Engine) knownProvider(msg model.NormalizedMessage) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	lowerText := strings.ToLower(msg.CleanText)
	for i := range e.banks {
		name := e.banks[i].config.Name
		if name == "" {
			continue
		}
		if senderMatches(msg.SenderIdentifier, e.banks[i].config.SenderIdentifiers) {
			return name
		}
		if strings.Contains(lowerText, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}
