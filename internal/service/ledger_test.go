package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"scholarlyedge/internal/model"

	"go.uber.org/zap"
)

func TestOnProjectCreatedRecordDetails(t *testing.T) {
	records := newFakeFinancialStore()
	svc := NewLedgerService(records, zap.NewNop())
	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return when }

	project := &model.Project{
		ID:          7,
		Title:       "Dissertation on Microfinance",
		AssignedTo:  2,
		ClientPrice: 200000,
		WriterPrice: 80000,
		Currency:    "NGN",
	}

	svc.OnProjectCreated(context.Background(), project, 1)

	incomes := records.byType(model.RecordTypeIncome)
	expenses := records.byType(model.RecordTypeExpense)
	if len(incomes) != 1 || len(expenses) != 1 {
		t.Fatalf("expected one income and one expense, got %d/%d", len(incomes), len(expenses))
	}

	income := incomes[0]
	if income.Description != "Revenue from project: Dissertation on Microfinance" {
		t.Fatalf("unexpected income description %q", income.Description)
	}
	if !income.TransactionDate.Equal(when) || income.CreatedBy != 1 {
		t.Fatalf("unexpected income bookkeeping: %+v", income)
	}

	expense := expenses[0]
	if expense.Description != "Payment to writer for project: Dissertation on Microfinance" {
		t.Fatalf("unexpected expense description %q", expense.Description)
	}
	if expense.UserID == nil || *expense.UserID != 2 {
		t.Fatal("expense not attributed to the assigned writer")
	}
}

func TestOnProjectCreatedFailuresAreIndependent(t *testing.T) {
	records := newFakeFinancialStore()
	records.insertErr[model.RecordTypeExpense] = errors.New("db unavailable")
	svc := NewLedgerService(records, zap.NewNop())

	project := &model.Project{ID: 7, Title: "T", AssignedTo: 2, ClientPrice: 100, WriterPrice: 50}

	// Must not panic or block even when one side fails.
	svc.OnProjectCreated(context.Background(), project, 1)

	if len(records.byType(model.RecordTypeIncome)) != 1 {
		t.Fatal("income record missing")
	}
	if len(records.byType(model.RecordTypeExpense)) != 0 {
		t.Fatal("expense insert was supposed to fail")
	}
}

func TestOnProjectCancelledCascadeNote(t *testing.T) {
	records := newFakeFinancialStore()
	svc := NewLedgerService(records, zap.NewNop())

	pid := int64(7)
	records.Insert(context.Background(), &model.FinancialRecord{
		Type:      model.RecordTypeIncome,
		ProjectID: &pid,
		Status:    model.RecordStatusPending,
	})

	project := &model.Project{ID: 7, CancellationReason: "client withdrew"}
	svc.OnProjectCancelled(context.Background(), project)

	if len(records.cascades) != 1 {
		t.Fatalf("expected one cascade, got %d", len(records.cascades))
	}
	if records.cascades[0].note != "Cancelled due to project cancellation: client withdrew" {
		t.Fatalf("unexpected note %q", records.cascades[0].note)
	}
	if records.records[0].Status != model.RecordStatusCancelled {
		t.Fatal("pre-existing record not cancelled")
	}
}
