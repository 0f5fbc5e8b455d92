package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store provides in-memory persistence with the same transactional
// contract as the postgres repository.
type Store struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]*models.User
	accounts     map[uuid.UUID]*models.Account
	transactions []*models.Transaction

	// serializes balance-mutation transactions
	txMu sync.Mutex
}

var _ repository.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]*models.User),
		accounts: make(map[uuid.UUID]*models.Account),
	}
}

func (s *Store) Close() error { return nil }

// CreateUser adds a user, rejecting duplicate emails.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: %w: users_email_key", repository.ErrDuplicate)
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// CreateAccount adds an account, enforcing one account per user and currency.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.UserID == account.UserID && a.Currency == account.Currency {
			return fmt.Errorf("failed to create account: %w: accounts_user_currency_key", repository.ErrDuplicate)
		}
	}
	now := time.Now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *Store) FindAccountByCurrency(ctx context.Context, userID uuid.UUID, currency models.Currency) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.UserID == userID && a.Currency == currency {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindAccount(ctx context.Context, userID, id uuid.UUID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok || a.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []models.Account{}
	for _, a := range s.accounts {
		if a.UserID == userID {
			list = append(list, *a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) FindTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.transactions {
		if t.ID == id && t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ListTransactions returns matches newest first. Records are appended in
// commit order, so walking the slice backwards yields createdAt desc.
func (s *Store) ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Transaction
	for i := len(s.transactions) - 1; i >= 0; i-- {
		t := s.transactions[i]
		if t.UserID != f.UserID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.AccountID != nil && !references(t, *f.AccountID) {
			continue
		}
		matched = append(matched, *t)
	}

	total := int64(len(matched))
	start := f.Skip()
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return append([]models.Transaction{}, matched[start:end]...), total, nil
}

func (s *Store) Discrepancies(ctx context.Context) ([]models.BalanceDiscrepancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger := make(map[uuid.UUID]decimal.Decimal, len(s.accounts))
	for _, t := range s.transactions {
		switch {
		case t.Type == models.Credit && t.ToAccount != nil:
			ledger[*t.ToAccount] = ledger[*t.ToAccount].Add(t.Amount)
		case t.Type == models.Debit && t.FromAccount != nil:
			ledger[*t.FromAccount] = ledger[*t.FromAccount].Sub(t.Amount)
		}
	}

	var out []models.BalanceDiscrepancy
	for id, a := range s.accounts {
		if !a.Balance.Equal(ledger[id]) {
			out = append(out, models.BalanceDiscrepancy{AccountID: id, Balance: a.Balance, Ledger: ledger[id]})
		}
	}
	return out, nil
}

func references(t *models.Transaction, accountID uuid.UUID) bool {
	return (t.FromAccount != nil && *t.FromAccount == accountID) ||
		(t.ToAccount != nil && *t.ToAccount == accountID)
}
