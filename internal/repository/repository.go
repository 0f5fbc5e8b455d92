package repository

import (
	"context"
	"errors"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint
	ErrDuplicate = errors.New("duplicate record")
)

// Store provides persistence for users, accounts and ledger records
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccountByCurrency(ctx context.Context, userID uuid.UUID, currency models.Currency) (*models.Account, error)
	FindAccount(ctx context.Context, userID, id uuid.UUID) (*models.Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error)

	FindTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int64, error)

	// Discrepancies lists accounts whose balance differs from the sum of their ledger records
	Discrepancies(ctx context.Context) ([]models.BalanceDiscrepancy, error)

	// WithTx runs fn inside a single store transaction. The transaction
	// commits when fn returns nil and rolls back otherwise; fn's error is
	// returned unchanged.
	WithTx(ctx context.Context, fn func(tx LedgerTx) error) error

	Close() error
}

// LedgerTx is the set of writes allowed inside a balance-mutation transaction
type LedgerTx interface {
	// LockAccounts reads and locks the given accounts. Missing ids are absent from the result.
	LockAccounts(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*models.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	InsertTransaction(ctx context.Context, tx *models.Transaction) error
}
