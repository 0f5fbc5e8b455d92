package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Auditor reports accounts whose balance disagrees with their ledger
type Auditor interface {
	Discrepancies(ctx context.Context) ([]models.BalanceDiscrepancy, error)
}

// Reconciler periodically checks that every balance equals the sum of its ledger records
type Reconciler struct {
	auditor Auditor
	log     *logrus.Logger
	timeout time.Duration
}

// NewReconciler creates a reconciler
func NewReconciler(auditor Auditor, log *logrus.Logger) *Reconciler {
	return &Reconciler{auditor: auditor, log: log, timeout: time.Minute}
}

// Run performs a single reconciliation pass and returns the mismatches found
func (r *Reconciler) Run(ctx context.Context) ([]models.BalanceDiscrepancy, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	found, err := r.auditor.Discrepancies(ctx)
	if err != nil {
		r.log.WithError(err).Error("Ledger reconciliation failed")
		return nil, err
	}
	for _, d := range found {
		r.log.WithFields(logrus.Fields{
			"account_id": d.AccountID,
			"balance":    d.Balance.String(),
			"ledger":     d.Ledger.String(),
		}).Warn("Balance does not match ledger")
	}
	r.log.Infof("Ledger reconciliation finished: %d discrepancies", len(found))
	return found, nil
}

// Schedule registers the reconciler on a cron spec and starts the scheduler.
// The caller stops the returned scheduler on shutdown.
func (r *Reconciler) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() {
		_, _ = r.Run(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}
	c.Start()
	r.log.Infof("Ledger reconciliation scheduled: %s", spec)
	return c, nil
}
