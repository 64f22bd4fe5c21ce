package classify

// DefaultRules returns the built-in category keyword rules.
func DefaultRules() []Rule {
	return []Rule{
		// Income - highest priority
		{
			Name:       "Salary",
			Category:   "Salary",
			Regex:      `\b(salary|payroll|wages|direct\s*deposit)\b`,
			Priority:   100,
			Confidence: 0.9,
		},
		{
			Name:       "Interest Income",
			Category:   "Interest",
			Regex:      `\b(interest\s*(earned|credited|income)|dividend)\b`,
			Priority:   95,
			Confidence: 0.85,
		},
		{
			Name:       "Refund",
			Category:   "Refunds",
			Regex:      `\b(refund|reimbursement|chargeback)\b`,
			Priority:   90,
			Confidence: 0.8,
		},

		// Transfers
		{
			Name:       "Account Transfer",
			Category:   "Transfers",
			Regex:      `\b(transfer|neft|imps|rtgs|wire)\b`,
			Priority:   85,
			Confidence: 0.8,
		},

		// Expenses
		{
			Name:       "Groceries",
			Category:   "Groceries",
			Regex:      `\b(grocery|groceries|supermarket|bigbasket|whole\s*foods|kroger)\b`,
			Priority:   80,
			Confidence: 0.85,
		},
		{
			Name:       "Dining",
			Category:   "Dining Out",
			Regex:      `\b(restaurant|cafe|coffee|swiggy|zomato|doordash|ubereats|dining)\b`,
			Priority:   80,
			Confidence: 0.85,
		},
		{
			Name:       "Transport",
			Category:   "Transport",
			Regex:      `\b(uber|lyft|ola|fuel|petrol|gas\s*station|metro|parking|toll)\b`,
			Priority:   75,
			Confidence: 0.8,
		},
		{
			Name:       "Shopping",
			Category:   "Shopping",
			Regex:      `\b(amazon|flipkart|myntra|walmart|target|shopping)\b`,
			Priority:   70,
			Confidence: 0.8,
		},
		{
			Name:       "Utilities",
			Category:   "Utilities",
			Regex:      `\b(electricity|water\s*bill|broadband|internet|mobile\s*recharge|utility)\b`,
			Priority:   75,
			Confidence: 0.85,
		},
		{
			Name:       "Rent",
			Category:   "Housing",
			Regex:      `\b(rent|landlord|lease)\b`,
			Priority:   75,
			Confidence: 0.85,
		},
		{
			Name:       "Subscriptions",
			Category:   "Subscriptions",
			Regex:      `\b(netflix|spotify|prime|subscription|hotstar)\b`,
			Priority:   70,
			Confidence: 0.85,
		},
		{
			Name:       "Healthcare",
			Category:   "Healthcare",
			Regex:      `\b(pharmacy|hospital|clinic|doctor|medical)\b`,
			Priority:   70,
			Confidence: 0.8,
		},
		{
			Name:       "ATM Withdrawal",
			Category:   "Cash",
			Regex:      `\b(atm|cash\s*withdrawal|withdrawn)\b`,
			Priority:   65,
			Confidence: 0.8,
		},
	}
}
