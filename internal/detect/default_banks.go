package detect

import "github.com/ledgerline/ledgerline/internal/model"

// DefaultBankConfigurations returns the built-in bank message formats.
// Regexes match against normalized text: currency symbols already read as
// ISO codes ("INR 5,000") and common abbreviations are expanded ("A/C"
// reads "account", "Ref" reads "reference").
func DefaultBankConfigurations() []model.BankConfiguration {
	return []model.BankConfiguration{
		{
			ID:                "hdfc",
			Name:              "HDFC Bank",
			Currency:          "INR",
			SenderIdentifiers: []string{"HDFCBK", "HDFC"},
			Active:            true,
			Patterns: []model.BankPattern{
				{
					Name:              "amount-debited",
					Intent:            model.IntentDebit,
					MinimumConfidence: 0.9,
					Active:            true,
					Regex: `amount\s+(INR|USD|EUR|GBP|JPY)\s*([\d,]+(?:\.\d{1,2})?)\s+debited\s+from\s+(?:your\s+)?account\s+([A-Za-z0-9*]+)` +
						`(?:\.?\s+reference[:\s]+([A-Za-z0-9]+))?(?:\.?\s+date[:\s]+(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4}))?`,
					FieldRules: map[string]model.FieldRule{
						"currency":  {Kind: model.FieldRuleGroup, Group: 1},
						"amount":    {Kind: model.FieldRuleNamedTransform, Group: 2, Transform: "amount"},
						"account":   {Kind: model.FieldRuleGroup, Group: 3},
						"reference": {Kind: model.FieldRuleGroup, Group: 4},
						"date":      {Kind: model.FieldRuleNamedTransform, Group: 5, Transform: "date"},
					},
				},
				{
					Name:              "amount-credited",
					Intent:            model.IntentCredit,
					MinimumConfidence: 0.9,
					Active:            true,
					Regex: `amount\s+(INR|USD|EUR|GBP|JPY)\s*([\d,]+(?:\.\d{1,2})?)\s+credited\s+to\s+(?:your\s+)?account\s+([A-Za-z0-9*]+)` +
						`(?:\.?\s+reference[:\s]+([A-Za-z0-9]+))?`,
					FieldRules: map[string]model.FieldRule{
						"currency":  {Kind: model.FieldRuleGroup, Group: 1},
						"amount":    {Kind: model.FieldRuleNamedTransform, Group: 2, Transform: "amount"},
						"account":   {Kind: model.FieldRuleGroup, Group: 3},
						"reference": {Kind: model.FieldRuleGroup, Group: 4},
					},
				},
			},
		},
		{
			ID:                "icici",
			Name:              "ICICI Bank",
			Currency:          "INR",
			SenderIdentifiers: []string{"ICICIB", "ICICI"},
			Active:            true,
			Patterns: []model.BankPattern{
				{
					Name:              "credited-to-account",
					Intent:            model.IntentCredit,
					MinimumConfidence: 0.88,
					Active:            true,
					Regex: `(INR|USD|EUR|GBP|JPY)\s*([\d,]+(?:\.\d{1,2})?)\s+(?:has\s+been\s+)?credited\s+to\s+(?:your\s+)?account` +
						`(?:\s+([A-Za-z0-9*]+))?`,
					FieldRules: map[string]model.FieldRule{
						"currency": {Kind: model.FieldRuleGroup, Group: 1},
						"amount":   {Kind: model.FieldRuleNamedTransform, Group: 2, Transform: "amount"},
						"account":  {Kind: model.FieldRuleGroup, Group: 3},
					},
				},
				{
					Name:              "debited-from-account",
					Intent:            model.IntentDebit,
					MinimumConfidence: 0.88,
					Active:            true,
					Regex: `(INR|USD|EUR|GBP|JPY)\s*([\d,]+(?:\.\d{1,2})?)\s+(?:has\s+been\s+)?debited\s+from\s+(?:your\s+)?account` +
						`(?:\s+([A-Za-z0-9*]+))?(?:.*?reference[:\s]+([A-Za-z0-9]+))?`,
					FieldRules: map[string]model.FieldRule{
						"currency":  {Kind: model.FieldRuleGroup, Group: 1},
						"amount":    {Kind: model.FieldRuleNamedTransform, Group: 2, Transform: "amount"},
						"account":   {Kind: model.FieldRuleGroup, Group: 3},
						"reference": {Kind: model.FieldRuleGroup, Group: 4},
					},
				},
			},
		},
		{
			ID:                "sbi",
			Name:              "State Bank of India",
			Currency:          "INR",
			SenderIdentifiers: []string{"SBIINB", "SBIUPI", "SBI"},
			Active:            true,
			Patterns: []model.BankPattern{
				{
					Name:              "account-debited-by",
					Intent:            model.IntentDebit,
					MinimumConfidence: 0.85,
					Active:            true,
					Regex: `account\s+([A-Za-z0-9*]+)\s+debited\s+by\s+(?:(INR|USD|EUR|GBP|JPY)\s*)?([\d,]+(?:\.\d{1,2})?)` +
						`(?:.*?transfer\s+to\s+([A-Za-z][A-Za-z .]+?)(?:\.|\s+reference|$))?`,
					FieldRules: map[string]model.FieldRule{
						"account":      {Kind: model.FieldRuleGroup, Group: 1},
						"currency":     {Kind: model.FieldRuleGroup, Group: 2},
						"amount":       {Kind: model.FieldRuleNamedTransform, Group: 3, Transform: "amount"},
						"counterparty": {Kind: model.FieldRuleNamedTransform, Group: 4, Transform: "trim"},
					},
				},
				{
					Name:              "account-credited-by",
					Intent:            model.IntentCredit,
					MinimumConfidence: 0.85,
					Active:            true,
					Regex: `account\s+([A-Za-z0-9*]+)\s+credited\s+by\s+(?:(INR|USD|EUR|GBP|JPY)\s*)?([\d,]+(?:\.\d{1,2})?)`,
					FieldRules: map[string]model.FieldRule{
						"account":  {Kind: model.FieldRuleGroup, Group: 1},
						"currency": {Kind: model.FieldRuleGroup, Group: 2},
						"amount":   {Kind: model.FieldRuleNamedTransform, Group: 3, Transform: "amount"},
					},
				},
			},
		},
		{
			ID:                "chase",
			Name:              "Chase",
			Currency:          "USD",
			SenderIdentifiers: []string{"24273", "chase"},
			Active:            true,
			Patterns: []model.BankPattern{
				{
					Name:              "card-transaction",
					Intent:            model.IntentDebit,
					MinimumConfidence: 0.9,
					Active:            true,
					Regex: `(?:made|approved)\s+a\s+(USD|INR|EUR|GBP|JPY)\s*([\d,]+(?:\.\d{1,2})?)\s+` +
						`(?:transaction|purchase)\s+with\s+([A-Za-z0-9 .&'-]+?)(?:\.|$)`,
					FieldRules: map[string]model.FieldRule{
						"currency":     {Kind: model.FieldRuleGroup, Group: 1},
						"amount":       {Kind: model.FieldRuleNamedTransform, Group: 2, Transform: "amount"},
						"counterparty": {Kind: model.FieldRuleNamedTransform, Group: 3, Transform: "trim"},
					},
				},
				{
					Name:              "direct-deposit",
					Intent:            model.IntentCredit,
					MinimumConfidence: 0.9,
					Active:            true,
					Regex: `(?:received|deposited)\s+(USD|INR|EUR|GBP|JPY)\s*([\d,]+(?:\.\d{1,2})?)` +
						`(?:\s+from\s+([A-Za-z0-9 .&'-]+?)(?:\.|$))?`,
					FieldRules: map[string]model.FieldRule{
						"currency":     {Kind: model.FieldRuleGroup, Group: 1},
						"amount":       {Kind: model.FieldRuleNamedTransform, Group: 2, Transform: "amount"},
						"counterparty": {Kind: model.FieldRuleNamedTransform, Group: 3, Transform: "trim"},
					},
				},
			},
		},
	}
}
