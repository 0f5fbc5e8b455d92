package service

import (
	"context"
	"errors"
	"math"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// keeps (page-1)*limit within int
	MaxPage      = math.MaxInt / MaxLimit
)

// Credit adds amount to one of the user's accounts and records a credit entry
func (s *Service) Credit(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	var (
		record  *models.Transaction
		balance decimal.Decimal
	)
	err := s.store.WithTx(ctx, func(tx repository.LedgerTx) error {
		accounts, err := tx.LockAccounts(ctx, accountID)
		if err != nil {
			return err
		}
		acc, ok := accounts[accountID]
		if !ok || acc.UserID != userID {
			return fail(KindNotFound, MsgAccountNotFound)
		}

		balance = acc.Balance.Add(amount)
		if !models.FitsLedger(balance) {
			return fail(KindValidation, MsgBalanceLimit)
		}
		if err := tx.UpdateBalance(ctx, acc.ID, balance); err != nil {
			return err
		}

		record = &models.Transaction{
			ID:        uuid.New(),
			Type:      models.Credit,
			Amount:    amount,
			Currency:  acc.Currency,
			ToAccount: &acc.ID,
			UserID:    userID,
		}
		return tx.InsertTransaction(ctx, record)
	})
	if err != nil {
		return nil, s.aborted("credit", err)
	}

	s.log.WithField("account_id", accountID).Infof("Account credited with %s", amount)
	s.notify(ctx, userID, record, balance)
	return record, nil
}

// Debit removes amount from one of the user's accounts when the balance covers it
func (s *Service) Debit(ctx context.Context, userID, accountID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	var (
		record  *models.Transaction
		balance decimal.Decimal
	)
	err := s.store.WithTx(ctx, func(tx repository.LedgerTx) error {
		accounts, err := tx.LockAccounts(ctx, accountID)
		if err != nil {
			return err
		}
		acc, ok := accounts[accountID]
		if !ok || acc.UserID != userID {
			return fail(KindNotFound, MsgAccountNotFound)
		}
		if acc.Balance.LessThan(amount) {
			return fail(KindInsufficientFunds, MsgInsufficientBalance)
		}

		balance = acc.Balance.Sub(amount)
		if err := tx.UpdateBalance(ctx, acc.ID, balance); err != nil {
			return err
		}

		record = &models.Transaction{
			ID:          uuid.New(),
			Type:        models.Debit,
			Amount:      amount,
			Currency:    acc.Currency,
			FromAccount: &acc.ID,
			UserID:      userID,
		}
		return tx.InsertTransaction(ctx, record)
	})
	if err != nil {
		return nil, s.aborted("debit", err)
	}

	s.log.WithField("account_id", accountID).Infof("Account debited with %s", amount)
	s.notify(ctx, userID, record, balance)
	return record, nil
}

// Transfer moves amount from one of the user's accounts to any account in
// the same currency, writing a debit and a credit entry that both
// reference the two accounts.
func (s *Service) Transfer(ctx context.Context, userID, fromID, toID uuid.UUID, amount decimal.Decimal) (*models.Transfer, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, fail(KindValidation, MsgSameAccount)
	}

	var (
		out     *models.Transfer
		balance decimal.Decimal
	)
	err := s.store.WithTx(ctx, func(tx repository.LedgerTx) error {
		accounts, err := tx.LockAccounts(ctx, fromID, toID)
		if err != nil {
			return err
		}
		from, ok := accounts[fromID]
		if !ok || from.UserID != userID {
			return fail(KindNotFound, MsgSourceNotFound)
		}
		to, ok := accounts[toID]
		if !ok {
			return fail(KindNotFound, MsgDestinationNotFound)
		}
		if from.Balance.LessThan(amount) {
			return fail(KindInsufficientFunds, MsgInsufficientForTransfer)
		}
		if from.Currency != to.Currency {
			return fail(KindCurrencyMismatch, MsgCurrencyMismatch)
		}

		credited := to.Balance.Add(amount)
		if !models.FitsLedger(credited) {
			return fail(KindValidation, MsgBalanceLimit)
		}

		balance = from.Balance.Sub(amount)
		if err := tx.UpdateBalance(ctx, from.ID, balance); err != nil {
			return err
		}
		if err := tx.UpdateBalance(ctx, to.ID, credited); err != nil {
			return err
		}

		out = &models.Transfer{
			DebitTransaction: &models.Transaction{
				ID: uuid.New(), Type: models.Debit, Amount: amount, Currency: from.Currency,
				FromAccount: &from.ID, ToAccount: &to.ID, UserID: userID,
			},
			CreditTransaction: &models.Transaction{
				ID: uuid.New(), Type: models.Credit, Amount: amount, Currency: from.Currency,
				FromAccount: &from.ID, ToAccount: &to.ID, UserID: userID,
			},
		}
		if err := tx.InsertTransaction(ctx, out.DebitTransaction); err != nil {
			return err
		}
		return tx.InsertTransaction(ctx, out.CreditTransaction)
	})
	if err != nil {
		return nil, s.aborted("transfer", err)
	}

	s.log.WithFields(logrus.Fields{"from": fromID, "to": toID}).Infof("Transferred %s", amount)
	s.notify(ctx, userID, out.DebitTransaction, balance)
	return out, nil
}

// ListQuery selects a page of the user's transactions. Zero values take defaults.
type ListQuery struct {
	Page      int
	Limit     int
	Type      models.TransactionType
	AccountID *uuid.UUID
}

// ListTransactions returns a page of the user's ledger records, newest first
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, q ListQuery) (*models.TransactionPage, error) {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Page < 1 || q.Page > MaxPage || q.Limit < 1 || q.Limit > MaxLimit {
		return nil, fail(KindValidation, "Page must be at least 1 and limit between 1 and 100")
	}
	if q.Type != "" && q.Type != models.Credit && q.Type != models.Debit {
		return nil, fail(KindValidation, MsgInvalidType)
	}

	filter := models.TransactionFilter{
		UserID:    userID,
		Type:      q.Type,
		AccountID: q.AccountID,
		Page:      q.Page,
		Limit:     q.Limit,
	}
	transactions, total, err := s.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, s.internal("list transactions", err)
	}

	return &models.TransactionPage{
		Transactions: transactions,
		Meta: models.PageMeta{
			Page:         q.Page,
			Limit:        q.Limit,
			TotalPages:   int((total + int64(q.Limit) - 1) / int64(q.Limit)),
			TotalRecords: total,
		},
	}, nil
}

// GetTransaction returns one of the user's ledger records
func (s *Service) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	t, err := s.store.FindTransaction(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(KindNotFound, MsgTransactionNotFound)
	}
	if err != nil {
		return nil, s.internal("get transaction", err)
	}
	return t, nil
}

// aborted passes domain failures through and hides anything else
func (s *Service) aborted(op string, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return s.internal(op, err)
}

// checkAmount applies the ledger's amount rule
func checkAmount(amount decimal.Decimal) error {
	switch err := models.CheckAmount(amount); {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrAmountScale):
		return fail(KindValidation, MsgAmountScale)
	case errors.Is(err, models.ErrAmountRange):
		return fail(KindValidation, MsgAmountRange)
	default:
		return fail(KindValidation, MsgInvalidAmount)
	}
}
