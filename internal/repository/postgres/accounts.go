package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
)

const accountColumns = `id, user_id, balance, currency, created_at, updated_at`

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO bank.accounts (id, user_id, balance, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, account.ID, account.UserID, account.Balance, account.Currency).
		Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", mapError(err))
	}
	return nil
}

// FindAccountByCurrency retrieves the user's account in the given currency
func (r *Repository) FindAccountByCurrency(ctx context.Context, userID uuid.UUID, currency models.Currency) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM bank.accounts WHERE user_id = $1 AND currency = $2`
	return findAccount(ctx, r.db, query, userID, currency)
}

// FindAccount retrieves one of the user's accounts by id
func (r *Repository) FindAccount(ctx context.Context, userID, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM bank.accounts WHERE user_id = $1 AND id = $2`
	return findAccount(ctx, r.db, query, userID, id)
}

// ListAccounts returns all accounts owned by the user
func (r *Repository) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM bank.accounts WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Discrepancies compares each balance with the signed sum of its ledger records
func (r *Repository) Discrepancies(ctx context.Context) ([]models.BalanceDiscrepancy, error) {
	query := `
		SELECT a.id, a.balance, COALESCE(SUM(
			CASE
				WHEN t.type = 'credit' AND t.to_account = a.id THEN t.amount
				WHEN t.type = 'debit' AND t.from_account = a.id THEN -t.amount
				ELSE 0
			END), 0) AS ledger
		FROM bank.accounts a
		LEFT JOIN bank.transactions t ON t.from_account = a.id OR t.to_account = a.id
		GROUP BY a.id, a.balance
		HAVING a.balance <> COALESCE(SUM(
			CASE
				WHEN t.type = 'credit' AND t.to_account = a.id THEN t.amount
				WHEN t.type = 'debit' AND t.from_account = a.id THEN -t.amount
				ELSE 0
			END), 0)`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile balances: %w", err)
	}
	defer rows.Close()

	var out []models.BalanceDiscrepancy
	for rows.Next() {
		var d models.BalanceDiscrepancy
		if err := rows.Scan(&d.AccountID, &d.Balance, &d.Ledger); err != nil {
			return nil, fmt.Errorf("failed to scan discrepancy: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func findAccount(ctx context.Context, q queryer, query string, args ...any) (*models.Account, error) {
	acc, err := scanAccount(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return acc, nil
}

func scanAccount(row scanner) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.UserID, &a.Balance, &a.Currency, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
