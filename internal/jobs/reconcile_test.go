package jobs

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunReportsDrift(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// opening balance with no ledger entry behind it
	drifted := &models.Account{ID: uuid.New(), UserID: uuid.New(), Balance: decimal.NewFromInt(50), Currency: models.USD}
	clean := &models.Account{ID: uuid.New(), UserID: uuid.New(), Balance: decimal.Zero, Currency: models.USD}
	for _, a := range []*models.Account{drifted, clean} {
		if err := store.CreateAccount(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	found, err := NewReconciler(store, quietLogger()).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].AccountID != drifted.ID || !found[0].Ledger.IsZero() {
		t.Fatalf("found=%+v", found)
	}
}

type brokenAuditor struct{}

func (brokenAuditor) Discrepancies(context.Context) ([]models.BalanceDiscrepancy, error) {
	return nil, errors.New("db down")
}

func TestRunPropagatesErrors(t *testing.T) {
	if _, err := NewReconciler(brokenAuditor{}, quietLogger()).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	if _, err := NewReconciler(brokenAuditor{}, quietLogger()).Schedule("every tuesday"); err == nil {
		t.Fatal("expected invalid spec error")
	}

	c, err := NewReconciler(brokenAuditor{}, quietLogger()).Schedule("@hourly")
	if err != nil {
		t.Fatal(err)
	}
	c.Stop()
}
