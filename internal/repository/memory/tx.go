package memory

import (
	"context"
	"time"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithTx stages every write made by fn and applies them only when fn
// returns nil. Transactions are serialized, which stands in for row locks.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &ledgerTx{store: s, balances: make(map[uuid.UUID]decimal.Decimal)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for id, bal := range tx.balances {
		acc := s.accounts[id]
		acc.Balance = bal
		acc.UpdatedAt = now
	}
	for _, t := range tx.records {
		t.CreatedAt = now
		cp := *t
		s.transactions = append(s.transactions, &cp)
	}
	return nil
}

type ledgerTx struct {
	store    *Store
	balances map[uuid.UUID]decimal.Decimal
	records  []*models.Transaction
}

func (l *ledgerTx) LockAccounts(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*models.Account, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	locked := make(map[uuid.UUID]*models.Account, len(ids))
	for _, id := range ids {
		a, ok := l.store.accounts[id]
		if !ok {
			continue
		}
		cp := *a
		if bal, ok := l.balances[id]; ok {
			cp.Balance = bal
		}
		locked[id] = &cp
	}
	return locked, nil
}

func (l *ledgerTx) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	l.store.mu.RLock()
	_, ok := l.store.accounts[id]
	l.store.mu.RUnlock()
	if !ok {
		return repository.ErrNotFound
	}
	l.balances[id] = balance
	return nil
}

// InsertTransaction stages t. Its CreatedAt is set provisionally and
// replaced by the commit time.
func (l *ledgerTx) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	t.CreatedAt = time.Now().UTC()
	l.records = append(l.records, t)
	return nil
}
