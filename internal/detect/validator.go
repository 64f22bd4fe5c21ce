package detect

import (
	"fmt"
	"strings"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
)

// ValidateConfiguration checks a bank configuration for problems before it
// is stored or loaded: invalid regexes, out-of-range capture groups,
// unknown transforms, and confidences outside [0,1]. Configurations are
// data, so they can go wrong in ways code cannot.
func ValidateConfiguration(cfg model.BankConfiguration) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("bank configuration %q: name is required", cfg.ID)
	}
	if len(cfg.SenderIdentifiers) == 0 {
		return fmt.Errorf("bank %s: at least one sender identifier is required", cfg.Name)
	}

	transforms := builtinTransforms()
	for _, p := range cfg.Patterns {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("bank %s: pattern name is required", cfg.Name)
		}
		if p.MinimumConfidence < 0 || p.MinimumConfidence > 1 {
			return fmt.Errorf("bank %s pattern %s: minimum confidence %v outside [0,1]", cfg.Name, p.Name, p.MinimumConfidence)
		}

		re, err := common.CompileInsensitive(p.Regex)
		if err != nil {
			return fmt.Errorf("bank %s pattern %s: %w", cfg.Name, p.Name, err)
		}

		for field, rule := range p.FieldRules {
			if rule.Group <= 0 || rule.Group > re.NumSubexp() {
				return fmt.Errorf("bank %s pattern %s field %s: capture group %d out of range (regex has %d)",
					cfg.Name, p.Name, field, rule.Group, re.NumSubexp())
			}
			switch rule.Kind {
			case model.FieldRuleGroup:
			case model.FieldRuleNamedTransform:
				if _, ok := transforms[rule.Transform]; !ok {
					return fmt.Errorf("bank %s pattern %s field %s: unknown transform %q",
						cfg.Name, p.Name, field, rule.Transform)
				}
			default:
				return fmt.Errorf("bank %s pattern %s field %s: unknown rule kind %q",
					cfg.Name, p.Name, field, rule.Kind)
			}
		}
	}
	return nil
}
