package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
)

const transactionColumns = `id, type, amount, currency, from_account, to_account, user_id, created_at`

// FindTransaction retrieves one of the user's ledger records
func (r *Repository) FindTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bank.transactions WHERE user_id = $1 AND id = $2`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns a page of the user's ledger records, newest first, and the total match count
func (r *Repository) ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, int64, error) {
	where := []string{"user_id = $1"}
	args := []any{f.UserID}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.AccountID != nil {
		args = append(args, *f.AccountID)
		where = append(where, fmt.Sprintf("(from_account = $%d OR to_account = $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bank.transactions WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	args = append(args, f.Limit, f.Skip())
	query := fmt.Sprintf(`SELECT %s FROM bank.transactions WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, cond, len(args)-1, len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}

func insertTransaction(ctx context.Context, q queryer, t *models.Transaction) error {
	query := `
		INSERT INTO bank.transactions (id, type, amount, currency, from_account, to_account, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := q.QueryRowContext(ctx, query, t.ID, t.Type, t.Amount, t.Currency,
		nullUUID(t.FromAccount), nullUUID(t.ToAccount), t.UserID).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", mapError(err))
	}
	return nil
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	var (
		t        models.Transaction
		from, to uuid.NullUUID
	)
	if err := row.Scan(&t.ID, &t.Type, &t.Amount, &t.Currency, &from, &to, &t.UserID, &t.CreatedAt); err != nil {
		return nil, err
	}
	if from.Valid {
		t.FromAccount = &from.UUID
	}
	if to.Valid {
		t.ToAccount = &to.UUID
	}
	return &t, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
