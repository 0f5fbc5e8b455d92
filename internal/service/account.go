package service

import (
	"context"
	"errors"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccount opens a zero-balance account for the user in the given currency
func (s *Service) CreateAccount(ctx context.Context, userID uuid.UUID, currency models.Currency) (*models.Account, error) {
	if !currency.Valid() {
		return nil, fail(KindValidation, MsgInvalidCurrency)
	}

	if _, err := s.store.FindAccountByCurrency(ctx, userID, currency); err == nil {
		return nil, fail(KindDuplicate, MsgAccountExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal("create account", err)
	}

	account := &models.Account{
		ID:       uuid.New(),
		UserID:   userID,
		Balance:  decimal.Zero,
		Currency: currency,
	}
	// The unique (user, currency) constraint catches a concurrent request
	// that passed the check above.
	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fail(KindDuplicate, MsgAccountExists)
		}
		return nil, s.internal("create account", err)
	}

	s.log.Infof("Account created for user %s: %s", userID, account.Currency)
	return account, nil
}

// ListAccounts returns every account owned by the user
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, s.internal("list accounts", err)
	}
	return accounts, nil
}

// GetAccount returns one of the user's accounts
func (s *Service) GetAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.store.FindAccount(ctx, userID, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(KindNotFound, MsgAccountNotFound)
	}
	if err != nil {
		return nil, s.internal("get account", err)
	}
	return account, nil
}
