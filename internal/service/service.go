package service

import (
	"context"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/Dan9191/bank-ledger/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Notifier is told about every committed ledger change
type Notifier interface {
	NotifyTransaction(ctx context.Context, user *models.User, t *models.Transaction, balance decimal.Decimal) error
}

// Service handles business logic
type Service struct {
	store    repository.Store
	tokens   *utils.TokenManager
	notifier Notifier
	log      *logrus.Logger
}

// NewService initializes a new service. notifier may be nil.
func NewService(store repository.Store, tokens *utils.TokenManager, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{store: store, tokens: tokens, notifier: notifier, log: log}
}

// notify runs after commit, so a failed notification never affects the ledger
func (s *Service) notify(ctx context.Context, userID uuid.UUID, t *models.Transaction, balance decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Skipping notification for unknown user")
		return
	}
	if err := s.notifier.NotifyTransaction(ctx, user, t, balance); err != nil {
		s.log.WithError(err).WithField("transaction_id", t.ID).Warn("Failed to send transaction notification")
	}
}

// internal logs an unexpected error and hides it behind a generic failure
func (s *Service) internal(op string, err error) *Error {
	s.log.WithError(err).Errorf("%s failed", op)
	return internalError(err)
}
