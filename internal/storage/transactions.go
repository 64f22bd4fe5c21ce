package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
	"github.com/ledgerline/ledgerline/internal/service"
)

// SaveTransaction inserts a final transaction record. The UNIQUE(account_id,
// hash) constraint makes the write idempotent: a second insert of the same
// logical transaction fails with ErrDuplicateEntry instead of creating a
// second record.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	if txn.Hash == "" {
		txn.Hash = txn.GenerateHash()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, user_id, account_id, hash, date, type, amount, currency,
			provider, account_identifier, reference_number, description,
			counterparty, category, notes, confidence,
			extraction_json, classification_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.ID, txn.UserID, txn.AccountID, txn.Hash, txn.Date.UTC(), txn.Type,
		txn.Amount, txn.Currency, txn.Provider, txn.AccountIdentifier,
		txn.ReferenceNumber, txn.Description, txn.Counterparty, txn.Category,
		txn.Notes, txn.Confidence, txn.ExtractionJSON, txn.ClassificationJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check insert result: %w", err)
	}
	if rows == 0 {
		return common.ErrDuplicateEntry
	}
	return nil
}

// GetTransactionByID returns one transaction or common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, account_id, hash, date, type, amount,
			COALESCE(currency, ''), COALESCE(provider, ''),
			COALESCE(account_identifier, ''), COALESCE(reference_number, ''),
			COALESCE(description, ''), COALESCE(counterparty, ''),
			COALESCE(category, ''), COALESCE(notes, ''), confidence,
			COALESCE(extraction_json, ''), COALESCE(classification_json, ''),
			created_at
		FROM transactions WHERE id = ?
	`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetRecentTransactions returns the transactions for an account whose dates
// fall inside the window, newest first. This is the candidate set for
// fuzzy deduplication.
func (s *SQLiteStorage) GetRecentTransactions(ctx context.Context, accountID string, window service.RecentWindow) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	span := window.Span
	if span <= 0 {
		span = 48 * time.Hour
	}
	around := window.Around
	if around.IsZero() {
		around = time.Now()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, account_id, hash, date, type, amount,
			COALESCE(currency, ''), COALESCE(provider, ''),
			COALESCE(account_identifier, ''), COALESCE(reference_number, ''),
			COALESCE(description, ''), COALESCE(counterparty, ''),
			COALESCE(category, ''), COALESCE(notes, ''), confidence,
			COALESCE(extraction_json, ''), COALESCE(classification_json, ''),
			created_at
		FROM transactions
		WHERE account_id = ? AND date BETWEEN ? AND ?
		ORDER BY date DESC
	`, accountID, around.Add(-span).UTC(), around.Add(span).UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		result = append(result, *txn)
	}
	return result, rows.Err()
}

// HashExists reports whether a record with the given hash already exists
// for the account.
func (s *SQLiteStorage) HashExists(ctx context.Context, accountID, hash string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM transactions WHERE account_id = ? AND hash = ?`,
		accountID, hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check hash: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	err := row.Scan(
		&txn.ID, &txn.UserID, &txn.AccountID, &txn.Hash, &txn.Date, &txn.Type,
		&txn.Amount, &txn.Currency, &txn.Provider, &txn.AccountIdentifier,
		&txn.ReferenceNumber, &txn.Description, &txn.Counterparty,
		&txn.Category, &txn.Notes, &txn.Confidence,
		&txn.ExtractionJSON, &txn.ClassificationJSON, &txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
