// Package normalize cleans raw message text into a canonical form the
// detection engine can match against. Normalization is pure: it never fails,
// has no side effects, and records everything it strips or rewrites in the
// message's processing metadata.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledgerline/ledgerline/internal/model"
)

var (
	urlRegex     = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	otpRegex     = regexp.MustCompile(`\b\d{4,6}\b`)
	emailRegex   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	hashtagRegex = regexp.MustCompile(`#\w+`)
	wsRegex      = regexp.MustCompile(`\s+`)
	rupeeAbbrev  = regexp.MustCompile(`(?i)\bRs\.?\s*`)
	// A dot followed by a digit is a decimal point inside an amount, not a
	// sentence boundary.
	sentenceSeg = regexp.MustCompile(`[^.!?]+(?:\.\d[^.!?]*)*[.!?]?`)
)

// otpKeywords mark a nearby 4-6 digit number as a one-time code rather than
// an amount or account fragment.
var otpKeywords = []string{"otp", "verify", "verification", "confirm", "password", "passcode", "one time", "one-time"}

// identityKeywords protect an email address from being stripped because it
// may identify the account the message is about.
var identityKeywords = []string{"account", "registered", "associated", "linked"}

// promoKeywords cause a whole sentence to be dropped as marketing noise.
var promoKeywords = []string{
	"offer", "deal", "discount", "cashback", "click here", "shop now",
	"% off", "sale ends", "limited time", "buy now", "t&c apply", "unsubscribe",
}

// abbreviations are expanded case-insensitively on word boundaries, in a
// fixed order so the audit trail is deterministic.
var abbreviations = []struct {
	abbrev      string
	replacement string
}{
	{"TXN", "transaction"},
	{"AMT", "amount"},
	{"A/C", "account"},
	{"ACCT", "account"},
	{"REF", "reference"},
	{"DT", "date"},
	{"BAL", "balance"},
	{"AVL", "available"},
}

var abbrevRegexes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(abbreviations))
	for i, a := range abbreviations {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(a.abbrev) + `\b`)
	}
	return res
}()

// currencySymbols map symbols to an ISO code token with a trailing space so
// "₹5,000" reads "INR 5,000" downstream. Date substrings are deliberately
// left untouched; parsing them belongs to detection.
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"₹", "INR "},
	{"$", "USD "},
	{"€", "EUR "},
	{"£", "GBP "},
	{"¥", "JPY "},
}

// proximityWindow is how many bytes of surrounding context are scanned when
// deciding whether an OTP-like number or email is meaningful.
const proximityWindow = 40

// Engine normalizes unified messages through a fixed sequence of stages.
type Engine struct{}

// New creates a normalization engine.
func New() *Engine {
	return &Engine{}
}

// Normalize runs all stages over the message text and returns the result
// with a full audit trail. It never fails.
func (e *Engine) Normalize(msg model.UnifiedMessage) model.NormalizedMessage {
	meta := model.ProcessingMetadata{}
	text := msg.RawText

	text = stripMatches(text, urlRegex, "url", &meta)
	text = stripOTPCodes(text, &meta)
	text = stripEmails(text, &meta)
	text = stripMatches(text, hashtagRegex, "hashtag", &meta)
	text = collapseWhitespace(text, &meta)
	text = expandAbbreviations(text, &meta)
	text = standardizeCurrency(text, &meta)
	text = dropPromotionalSentences(text, &meta)

	return model.NormalizedMessage{
		UnifiedMessage:     msg,
		CleanText:          strings.TrimSpace(text),
		OriginalRawText:    msg.RawText,
		ProcessingMetadata: meta,
	}
}

func stripMatches(text string, re *regexp.Regexp, kind string, meta *model.ProcessingMetadata) string {
	matches := re.FindAllString(text, -1)
	if len(matches) == 0 {
		return text
	}
	for _, m := range matches {
		meta.NoiseRemoved = append(meta.NoiseRemoved, m)
	}
	meta.Normalizations = append(meta.Normalizations, fmt.Sprintf("removed %d %s(s)", len(matches), kind))
	return re.ReplaceAllString(text, " ")
}

// stripOTPCodes removes 4-6 digit numbers only when an OTP-ish keyword
// appears near them; bare numbers may be amounts or account fragments.
func stripOTPCodes(text string, meta *model.ProcessingMetadata) string {
	locs := otpRegex.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var out strings.Builder
	removed := 0
	last := 0
	for _, loc := range locs {
		if !nearKeyword(text, loc[0], loc[1], otpKeywords) {
			continue
		}
		meta.NoiseRemoved = append(meta.NoiseRemoved, text[loc[0]:loc[1]])
		out.WriteString(text[last:loc[0]])
		last = loc[1]
		removed++
	}
	out.WriteString(text[last:])

	if removed > 0 {
		meta.Normalizations = append(meta.Normalizations, fmt.Sprintf("removed %d otp-like code(s)", removed))
	}
	return out.String()
}

// stripEmails removes email addresses unless nearby context suggests they
// identify the user's account.
func stripEmails(text string, meta *model.ProcessingMetadata) string {
	locs := emailRegex.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var out strings.Builder
	removed := 0
	last := 0
	for _, loc := range locs {
		if nearKeyword(text, loc[0], loc[1], identityKeywords) {
			continue
		}
		meta.NoiseRemoved = append(meta.NoiseRemoved, text[loc[0]:loc[1]])
		out.WriteString(text[last:loc[0]])
		last = loc[1]
		removed++
	}
	out.WriteString(text[last:])

	if removed > 0 {
		meta.Normalizations = append(meta.Normalizations, fmt.Sprintf("removed %d email address(es)", removed))
	}
	return out.String()
}

func nearKeyword(text string, start, end int, keywords []string) bool {
	lo := start - proximityWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + proximityWindow
	if hi > len(text) {
		hi = len(text)
	}
	context := strings.ToLower(text[lo:hi])
	for _, kw := range keywords {
		if strings.Contains(context, kw) {
			return true
		}
	}
	return false
}

func collapseWhitespace(text string, meta *model.ProcessingMetadata) string {
	collapsed := strings.TrimSpace(wsRegex.ReplaceAllString(text, " "))
	if collapsed != text {
		meta.Normalizations = append(meta.Normalizations, "collapsed whitespace")
	}
	return collapsed
}

func expandAbbreviations(text string, meta *model.ProcessingMetadata) string {
	for i, a := range abbreviations {
		if !abbrevRegexes[i].MatchString(text) {
			continue
		}
		text = abbrevRegexes[i].ReplaceAllString(text, a.replacement)
		meta.Normalizations = append(meta.Normalizations, fmt.Sprintf("expanded %s to %s", a.abbrev, a.replacement))
	}
	return text
}

func standardizeCurrency(text string, meta *model.ProcessingMetadata) string {
	if rupeeAbbrev.MatchString(text) {
		text = rupeeAbbrev.ReplaceAllString(text, "INR ")
		meta.Normalizations = append(meta.Normalizations, "standardized Rs to INR")
	}
	for _, c := range currencySymbols {
		if !strings.Contains(text, c.symbol) {
			continue
		}
		text = strings.ReplaceAll(text, c.symbol, c.code)
		meta.Normalizations = append(meta.Normalizations, fmt.Sprintf("standardized %s to %s", c.symbol, strings.TrimSpace(c.code)))
	}
	return text
}

// dropPromotionalSentences splits the text into sentences, drops any
// containing a marketing keyword, and rejoins the survivors.
func dropPromotionalSentences(text string, meta *model.ProcessingMetadata) string {
	sentences := sentenceSeg.FindAllString(text, -1)
	if len(sentences) == 0 {
		return text
	}

	kept := make([]string, 0, len(sentences))
	dropped := 0
	for _, s := range sentences {
		lower := strings.ToLower(s)
		promotional := false
		for _, kw := range promoKeywords {
			if strings.Contains(lower, kw) {
				promotional = true
				break
			}
		}
		if promotional {
			meta.NoiseRemoved = append(meta.NoiseRemoved, strings.TrimSpace(s))
			dropped++
			continue
		}
		kept = append(kept, strings.TrimSpace(s))
	}

	if dropped > 0 {
		meta.Normalizations = append(meta.Normalizations, fmt.Sprintf("dropped %d promotional sentence(s)", dropped))
	}
	return strings.Join(kept, " ")
}
