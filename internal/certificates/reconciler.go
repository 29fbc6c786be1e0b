package certificates

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reconciler backfills certificates for verified projects whose
// best-effort auto-issuance failed. The verification decision itself is
// never retried here; only the missing certificate record is repaired.
type Reconciler struct {
	service *Service
	repo    Repository
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
}

// NewReconciler creates a new certificate reconciler
func NewReconciler(service *Service, repo Repository, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		service: service,
		repo:    repo,
		cron:    cron.New(),
		logger:  logger,
		timeout: 2 * time.Minute,
	}
}

// Start schedules the reconciliation run. The expression uses the
// standard five-field cron format.
func (r *Reconciler) Start(cronExpression string) error {
	_, err := r.cron.AddFunc(cronExpression, r.runOnce)
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("Certificate reconciler started", zap.String("schedule", cronExpression))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Reconciler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	repaired, err := r.Reconcile(ctx)
	if err != nil {
		r.logger.Error("Certificate reconciliation failed", zap.Error(err))
		return
	}
	if repaired > 0 {
		r.logger.Info("Certificate reconciliation completed", zap.Int("repaired", repaired))
	}
}

// Reconcile issues certificates for all verified projects that have
// none, attributing each to the verifier who approved the project.
// Returns the number of certificates issued.
func (r *Reconciler) Reconcile(ctx context.Context) (int, error) {
	missing, err := r.repo.ListVerifiedProjectsWithoutCertificate(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, row := range missing {
		if err := r.service.IssueCertificate(ctx, row.ProjectID, row.VerifierID); err != nil {
			// Leave the rest for the next run.
			r.logger.Warn("Failed to backfill certificate",
				zap.String("project_id", row.ProjectID.String()),
				zap.Error(err))
			continue
		}
		repaired++
	}
	return repaired, nil
}
