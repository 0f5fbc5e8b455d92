package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// WithTx runs fn inside a database transaction
func (r *Repository) WithTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback()

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type ledgerTx struct {
	tx *sql.Tx
}

// LockAccounts selects the accounts FOR UPDATE in id order
func (l *ledgerTx) LockAccounts(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*models.Account, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	sort.Strings(keys)

	query := `SELECT ` + accountColumns + ` FROM bank.accounts WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`
	rows, err := l.tx.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	locked := make(map[uuid.UUID]*models.Account, len(ids))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		locked[acc.ID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	return locked, nil
}

func (l *ledgerTx) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE bank.accounts SET balance = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	res, err := l.tx.ExecContext(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (l *ledgerTx) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	return insertTransaction(ctx, l.tx, t)
}
