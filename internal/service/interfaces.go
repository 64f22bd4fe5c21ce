// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/ledgerline/ledgerline/internal/model"
)

// RecentWindow describes the slice of history queried for deduplication:
// transactions for one account whose dates fall within Around ± Span.
type RecentWindow struct {
	Around time.Time
	Span   time.Duration
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetRecentTransactions(ctx context.Context, accountID string, window RecentWindow) ([]model.Transaction, error)
	HashExists(ctx context.Context, accountID, hash string) (bool, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name, description string, categoryType model.CategoryType) (*model.Category, error)

	// Bank configuration reference data
	GetBankConfigurations(ctx context.Context) ([]model.BankConfiguration, error)
	SaveBankConfiguration(ctx context.Context, cfg *model.BankConfiguration) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Classifier defines the contract for category suggestion. Implementations
// are swappable; the pipeline only depends on this boundary.
type Classifier interface {
	Classify(ctx context.Context, candidate model.TransactionCandidate) (model.ClassificationResult, error)
}

// MessageHandler receives translated messages from a source adapter.
type MessageHandler func(msg model.UnifiedMessage)

// ErrorHandler receives listener errors that do not stop the adapter.
type ErrorHandler func(err error)

// MessageSource is an OS-specific adapter translating raw platform events
// into UnifiedMessages.
type MessageSource interface {
	StartListening(onMessage MessageHandler, onError ErrorHandler) error
	StopListening() error
	Active() bool
	Source() model.SourceType
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
