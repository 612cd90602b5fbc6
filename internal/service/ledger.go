package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scholarlyedge/internal/model"
	"scholarlyedge/pkg/metrics"

	"go.uber.org/zap"
)

// FinancialStore is the ledger slice of the entity store.
type FinancialStore interface {
	Insert(ctx context.Context, rec *model.FinancialRecord) (int64, error)
	CancelByProject(ctx context.Context, projectID int64, note string) (int64, error)
}

// LedgerService keeps the financial ledger in step with project lifecycle
// events. Every operation here is best-effort: failures are logged and
// counted but never propagate to the caller, because a live project must
// not depend on its bookkeeping being synced.
type LedgerService struct {
	records FinancialStore
	logger  *zap.Logger
	now     func() time.Time
}

func NewLedgerService(records FinancialStore, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		records: records,
		logger:  logger,
		now:     time.Now,
	}
}

// OnProjectCreated records the paired ledger entries for a new project: one
// income record for the client price and one expense record for the writer
// payment. Both creations are attempted in parallel and may fail
// independently.
func (s *LedgerService) OnProjectCreated(ctx context.Context, project *model.Project, actorID int64) {
	projectID := project.ID
	writerID := project.AssignedTo
	transactionDate := s.now()

	income := &model.FinancialRecord{
		Type:            model.RecordTypeIncome,
		Category:        model.RecordCategoryProjectPayment,
		Amount:          project.ClientPrice,
		Currency:        project.Currency,
		Description:     fmt.Sprintf("Revenue from project: %s", project.Title),
		ProjectID:       &projectID,
		Status:          model.RecordStatusPending,
		TransactionDate: transactionDate,
		CreatedBy:       actorID,
	}

	expense := &model.FinancialRecord{
		Type:            model.RecordTypeExpense,
		Category:        model.RecordCategoryWriterPayment,
		Amount:          project.WriterPrice,
		Currency:        project.Currency,
		Description:     fmt.Sprintf("Payment to writer for project: %s", project.Title),
		ProjectID:       &projectID,
		UserID:          &writerID,
		Status:          model.RecordStatusPending,
		TransactionDate: transactionDate,
		CreatedBy:       actorID,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.createRecord(ctx, income, "create_income")
	}()
	go func() {
		defer wg.Done()
		s.createRecord(ctx, expense, "create_expense")
	}()
	wg.Wait()
}

func (s *LedgerService) createRecord(ctx context.Context, rec *model.FinancialRecord, operation string) {
	if _, err := s.records.Insert(ctx, rec); err != nil {
		metrics.LedgerSyncFailureCount.WithLabelValues(operation).Inc()
		s.logger.Error("Failed to create ledger record",
			zap.String("operation", operation),
			zap.Int64p("project_id", rec.ProjectID),
			zap.Error(err),
		)
	}
}

// OnProjectCancelled cascades a project cancellation to every ledger record
// referencing it. Records created after the cascade are not affected
// retroactively.
func (s *LedgerService) OnProjectCancelled(ctx context.Context, project *model.Project) {
	note := fmt.Sprintf("Cancelled due to project cancellation: %s", project.CancellationReason)

	count, err := s.records.CancelByProject(ctx, project.ID, note)
	if err != nil {
		metrics.LedgerSyncFailureCount.WithLabelValues("cascade").Inc()
		s.logger.Error("Failed to cancel ledger records",
			zap.Int64("project_id", project.ID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Cancelled ledger records for project",
		zap.Int64("project_id", project.ID),
		zap.Int64("record_count", count),
	)
}
