package detect

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transform converts a raw captured string into a typed field value.
// Transforms are referenced by name from declarative field rules, keeping
// bank configurations pure data.
type Transform func(raw string) (any, error)

// dateLayouts are tried in order when parsing a date substring.
var dateLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"Jan 2, 2006",
	"2 Jan 06",
}

// builtinTransforms returns the transforms available to field rules.
func builtinTransforms() map[string]Transform {
	return map[string]Transform{
		"amount": parseAmount,
		"date":   parseDate,
		"trim": func(raw string) (any, error) {
			return strings.TrimSpace(raw), nil
		},
		"upper": func(raw string) (any, error) {
			return strings.ToUpper(strings.TrimSpace(raw)), nil
		},
	}
}

// parseAmount strips thousands separators and parses the value exactly
// before converting to float64, so "5,000.25" never picks up binary noise
// on the way in.
func parseAmount(raw string) (any, error) {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	f, _ := d.Float64()
	return f, nil
}

func parseDate(raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", raw)
}
