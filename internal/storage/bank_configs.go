package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ledgerline/ledgerline/internal/model"
)

// GetBankConfigurations returns all stored bank configurations. Sender
// identifiers and patterns are stored as JSON so configurations stay data.
func (s *SQLiteStorage) GetBankConfigurations(ctx context.Context) ([]model.BankConfiguration, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(currency, ''), sender_identifiers, patterns, active
		FROM bank_configurations
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank configurations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var configs []model.BankConfiguration
	for rows.Next() {
		var cfg model.BankConfiguration
		var sendersJSON, patternsJSON string
		if err := rows.Scan(&cfg.ID, &cfg.Name, &cfg.Currency, &sendersJSON, &patternsJSON, &cfg.Active); err != nil {
			return nil, fmt.Errorf("failed to scan bank configuration: %w", err)
		}
		if err := json.Unmarshal([]byte(sendersJSON), &cfg.SenderIdentifiers); err != nil {
			return nil, fmt.Errorf("bank %s: invalid sender identifiers: %w", cfg.ID, err)
		}
		if err := json.Unmarshal([]byte(patternsJSON), &cfg.Patterns); err != nil {
			return nil, fmt.Errorf("bank %s: invalid patterns: %w", cfg.ID, err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// SaveBankConfiguration upserts one bank configuration.
func (s *SQLiteStorage) SaveBankConfiguration(ctx context.Context, cfg *model.BankConfiguration) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("bank configuration cannot be nil")
	}
	if err := validateString(cfg.ID, "bank configuration id"); err != nil {
		return err
	}

	sendersJSON, err := json.Marshal(cfg.SenderIdentifiers)
	if err != nil {
		return fmt.Errorf("failed to marshal sender identifiers: %w", err)
	}
	patternsJSON, err := json.Marshal(cfg.Patterns)
	if err != nil {
		return fmt.Errorf("failed to marshal patterns: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bank_configurations (id, name, currency, sender_identifiers, patterns, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			currency = excluded.currency,
			sender_identifiers = excluded.sender_identifiers,
			patterns = excluded.patterns,
			active = excluded.active,
			updated_at = CURRENT_TIMESTAMP
	`, cfg.ID, cfg.Name, cfg.Currency, string(sendersJSON), string(patternsJSON), cfg.Active)
	if err != nil {
		return fmt.Errorf("failed to save bank configuration: %w", err)
	}
	return nil
}
