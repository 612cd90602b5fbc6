package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"scholarlyedge/internal/apperr"
	"scholarlyedge/internal/model"

	"go.uber.org/zap"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type lifecycleFixture struct {
	svc      *LifecycleService
	projects *fakeProjectStore
	users    *fakeUserStore
	records  *fakeFinancialStore
	sender   *fakeSender
	admin    *model.User
	writer   *model.User
}

func newLifecycleFixture() *lifecycleFixture {
	admin := &model.User{ID: 1, Name: "Ada", Email: "ada@scholarlyedge.local", Role: model.RoleAdmin, IsActive: true}
	writer := &model.User{ID: 2, Name: "Wale", Email: "wale@scholarlyedge.local", Role: model.RoleWriter, IsActive: true}

	projects := newFakeProjectStore()
	users := &fakeUserStore{users: map[int64]*model.User{admin.ID: admin, writer.ID: writer}}
	records := newFakeFinancialStore()
	sender := &fakeSender{}

	logger := zap.NewNop()
	ledger := NewLedgerService(records, logger)
	ledger.now = func() time.Time { return testNow }

	svc := NewLifecycleService(projects, users, ledger, sender, logger)
	svc.now = func() time.Time { return testNow }

	return &lifecycleFixture{
		svc:      svc,
		projects: projects,
		users:    users,
		records:  records,
		sender:   sender,
		admin:    admin,
		writer:   writer,
	}
}

func validCreateInput() CreateProjectInput {
	return CreateProjectInput{
		Title:       "Thesis on Coastal Erosion",
		Description: "Five chapter thesis",
		Client:      model.Client{Name: "Chidi", Email: "Chidi@Example.com"},
		AssignedTo:  2,
		Deadline:    testNow.AddDate(0, 1, 0),
		ClientPrice: 150000,
		WriterPrice: 60000,
	}
}

func TestCreateProjectPairsLedgerRecords(t *testing.T) {
	f := newLifecycleFixture()

	project, err := f.svc.Create(context.Background(), validCreateInput(), f.admin)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if project.ID == 0 {
		t.Fatal("expected project to be persisted with an id")
	}
	if project.Status != model.StatusPending || project.Progress != 0 {
		t.Fatalf("expected pending/0, got %s/%d", project.Status, project.Progress)
	}
	if project.Currency != "NGN" {
		t.Fatalf("expected default currency NGN, got %q", project.Currency)
	}
	if project.Priority != model.PriorityMedium || project.Category != model.CategoryAcademicWriting {
		t.Fatalf("expected default priority/category, got %s/%s", project.Priority, project.Category)
	}
	if project.Client.Email != "chidi@example.com" {
		t.Fatalf("expected lowercased client email, got %q", project.Client.Email)
	}

	incomes := f.records.byType(model.RecordTypeIncome)
	expenses := f.records.byType(model.RecordTypeExpense)
	if len(incomes) != 1 || len(expenses) != 1 {
		t.Fatalf("expected exactly one income and one expense, got %d/%d", len(incomes), len(expenses))
	}

	income := incomes[0]
	if income.Amount != 150000 || income.Category != model.RecordCategoryProjectPayment {
		t.Fatalf("unexpected income record: %+v", income)
	}
	if income.ProjectID == nil || *income.ProjectID != project.ID {
		t.Fatal("income record not linked to project")
	}
	if income.Status != model.RecordStatusPending {
		t.Fatalf("expected pending income, got %s", income.Status)
	}

	expense := expenses[0]
	if expense.Amount != 60000 || expense.Category != model.RecordCategoryWriterPayment {
		t.Fatalf("unexpected expense record: %+v", expense)
	}
	if expense.UserID == nil || *expense.UserID != f.writer.ID {
		t.Fatal("expense record not linked to writer")
	}
	if expense.ProjectID == nil || *expense.ProjectID != project.ID {
		t.Fatal("expense record not linked to project")
	}

	if len(f.sender.assignments) != 1 {
		t.Fatalf("expected one assignment email, got %d", len(f.sender.assignments))
	}
	if f.sender.assignments[0].recipient != f.writer.Email {
		t.Fatalf("assignment email sent to %q", f.sender.assignments[0].recipient)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateProjectInput)
	}{
		{"missing title", func(in *CreateProjectInput) { in.Title = "  " }},
		{"missing description", func(in *CreateProjectInput) { in.Description = "" }},
		{"missing client name", func(in *CreateProjectInput) { in.Client.Name = "" }},
		{"missing writer", func(in *CreateProjectInput) { in.AssignedTo = 0 }},
		{"negative client price", func(in *CreateProjectInput) { in.ClientPrice = -1 }},
		{"negative writer price", func(in *CreateProjectInput) { in.WriterPrice = -1 }},
		{"zero deadline", func(in *CreateProjectInput) { in.Deadline = time.Time{} }},
		{"past deadline", func(in *CreateProjectInput) { in.Deadline = testNow.AddDate(0, 0, -1) }},
		{"deadline not in the future", func(in *CreateProjectInput) { in.Deadline = testNow }},
		{"unknown writer", func(in *CreateProjectInput) { in.AssignedTo = 99 }},
		{"zero word count", func(in *CreateProjectInput) { wc := 0; in.WordCount = &wc }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture()
			input := validCreateInput()
			tt.mutate(&input)

			_, err := f.svc.Create(context.Background(), input, f.admin)
			if !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(f.projects.projects) != 0 {
				t.Fatal("expected no project persisted")
			}
			if len(f.records.records) != 0 {
				t.Fatal("expected no ledger records created")
			}
			if len(f.sender.assignments) != 0 {
				t.Fatal("expected no assignment email sent")
			}
		})
	}
}

func TestCreateProjectRejectsInactiveOrNonWriter(t *testing.T) {
	f := newLifecycleFixture()
	f.writer.IsActive = false
	if _, err := f.svc.Create(context.Background(), validCreateInput(), f.admin); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for inactive writer, got %v", err)
	}

	f = newLifecycleFixture()
	f.writer.Role = model.RoleAdmin
	if _, err := f.svc.Create(context.Background(), validCreateInput(), f.admin); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for non-writer assignee, got %v", err)
	}
}

func TestCreateProjectSurvivesLedgerFailure(t *testing.T) {
	f := newLifecycleFixture()
	f.records.insertErr[model.RecordTypeIncome] = errors.New("db unavailable")

	project, err := f.svc.Create(context.Background(), validCreateInput(), f.admin)
	if err != nil {
		t.Fatalf("project creation must not fail on ledger errors, got %v", err)
	}
	if project.ID == 0 {
		t.Fatal("expected project persisted")
	}

	// The expense side may still have gone through independently.
	if len(f.records.byType(model.RecordTypeIncome)) != 0 {
		t.Fatal("income insert was supposed to fail")
	}
	if len(f.records.byType(model.RecordTypeExpense)) != 1 {
		t.Fatal("expected expense record despite income failure")
	}
}

func seedProject(f *lifecycleFixture, status string, progress int) *model.Project {
	p := &model.Project{
		Title:       "Seeded",
		Description: "Seeded",
		Client:      model.Client{Name: "Client"},
		AssignedTo:  f.writer.ID,
		AssignedBy:  f.admin.ID,
		Status:      status,
		Progress:    progress,
		Deadline:    testNow.AddDate(0, 1, 0),
		Currency:    "NGN",
	}
	f.projects.Insert(context.Background(), p)
	return p
}

func TestTransitionProgressDerivation(t *testing.T) {
	tests := []struct {
		name         string
		fromStatus   string
		fromProgress int
		toStatus     string
		wantProgress int
	}{
		{"in-progress derives 10", model.StatusPending, 0, model.StatusInProgress, 10},
		{"chapter 1 derives 30", model.StatusInProgress, 10, model.StatusChapter1Complete, 30},
		{"chapter 2 derives 60", model.StatusChapter1Complete, 30, model.StatusChapter2Done, 60},
		{"chapter 3 keeps stored progress", model.StatusChapter2Done, 60, model.StatusChapter3Done, 60},
		{"chapter 4 keeps stored progress", model.StatusChapter3Done, 60, model.StatusChapter4Done, 60},
		{"chapter 5 keeps stored progress", model.StatusChapter4Done, 60, model.StatusChapter5Done, 60},
		{"review keeps stored progress", model.StatusChapter2Done, 60, model.StatusReview, 60},
		{"completed derives 100", model.StatusReview, 60, model.StatusCompleted, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture()
			p := seedProject(f, tt.fromStatus, tt.fromProgress)

			updated, err := f.svc.Transition(context.Background(), p.ID, tt.toStatus, f.admin, "")
			if err != nil {
				t.Fatalf("transition: %v", err)
			}
			if updated.Status != tt.toStatus {
				t.Fatalf("expected status %q, got %q", tt.toStatus, updated.Status)
			}
			if updated.Progress != tt.wantProgress {
				t.Fatalf("expected progress %d, got %d", tt.wantProgress, updated.Progress)
			}
		})
	}
}

func TestTransitionCompletedSetsCompletedAt(t *testing.T) {
	f := newLifecycleFixture()
	p := seedProject(f, model.StatusReview, 60)

	updated, err := f.svc.Transition(context.Background(), p.ID, model.StatusCompleted, f.writer, "")
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(testNow) {
		t.Fatalf("expected completedAt = %v, got %v", testNow, updated.CompletedAt)
	}
}

func TestTransitionNeverLowersProgressAfterCompletion(t *testing.T) {
	f := newLifecycleFixture()
	p := seedProject(f, model.StatusPending, 0)

	if _, err := f.svc.Transition(context.Background(), p.ID, model.StatusCompleted, f.admin, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	updated, err := f.svc.Transition(context.Background(), p.ID, model.StatusInProgress, f.admin, "")
	if err != nil {
		t.Fatalf("transition after completion: %v", err)
	}
	if updated.Progress != 100 {
		t.Fatalf("progress dropped below 100 after completion: %d", updated.Progress)
	}
	if updated.CompletedAt == nil {
		t.Fatal("completedAt was cleared")
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	f := newLifecycleFixture()
	p := seedProject(f, model.StatusPending, 0)

	for _, status := range []string{"", "done", "archived", "Chapter 6 Done"} {
		_, err := f.svc.Transition(context.Background(), p.ID, status, f.admin, "")
		if !apperr.IsValidation(err) {
			t.Fatalf("status %q: expected validation error, got %v", status, err)
		}
	}

	if len(f.projects.transitions) != 0 {
		t.Fatal("expected no transition persisted")
	}
	stored, _ := f.projects.GetByID(context.Background(), p.ID)
	if stored.Status != model.StatusPending || stored.Progress != 0 {
		t.Fatalf("stored project mutated: %s/%d", stored.Status, stored.Progress)
	}
}

func TestTransitionAuthorization(t *testing.T) {
	f := newLifecycleFixture()
	p := seedProject(f, model.StatusPending, 0)

	other := &model.User{ID: 3, Name: "Nia", Role: model.RoleWriter, IsActive: true}
	_, err := f.svc.Transition(context.Background(), p.ID, model.StatusInProgress, other, "")
	if !apperr.IsAuthorization(err) {
		t.Fatalf("expected authorization error for unassigned writer, got %v", err)
	}

	if _, err := f.svc.Transition(context.Background(), p.ID, model.StatusInProgress, f.writer, ""); err != nil {
		t.Fatalf("assigned writer should be allowed: %v", err)
	}
	if _, err := f.svc.Transition(context.Background(), p.ID, model.StatusReview, f.admin, ""); err != nil {
		t.Fatalf("admin should be allowed: %v", err)
	}
}

func TestTransitionNotFound(t *testing.T) {
	f := newLifecycleFixture()
	_, err := f.svc.Transition(context.Background(), 42, model.StatusInProgress, f.admin, "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancellationDefaultsReasonAndCascades(t *testing.T) {
	f := newLifecycleFixture()
	project, err := f.svc.Create(context.Background(), validCreateInput(), f.admin)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.Transition(context.Background(), project.ID, model.StatusCancelled, f.admin, "  ")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.CancellationReason != model.DefaultCancellationReason {
		t.Fatalf("expected default reason, got %q", updated.CancellationReason)
	}

	if len(f.records.cascades) != 1 {
		t.Fatalf("expected one cascade, got %d", len(f.records.cascades))
	}
	cascade := f.records.cascades[0]
	if cascade.projectID != project.ID {
		t.Fatalf("cascade targeted project %d", cascade.projectID)
	}
	if cascade.note != "Cancelled due to project cancellation: No reason provided" {
		t.Fatalf("unexpected cascade note: %q", cascade.note)
	}

	for _, rec := range f.records.records {
		if rec.Status != model.RecordStatusCancelled {
			t.Fatalf("record %d not cancelled: %s", rec.ID, rec.Status)
		}
	}

	// A record created after the cascade is not retroactively cancelled.
	pid := project.ID
	late := &model.FinancialRecord{
		Type:      model.RecordTypeIncome,
		Category:  model.RecordCategoryRefund,
		ProjectID: &pid,
		Status:    model.RecordStatusPending,
	}
	f.records.Insert(context.Background(), late)
	if late.Status != model.RecordStatusPending {
		t.Fatal("late record should stay pending")
	}
}

func TestCancellationKeepsExplicitReason(t *testing.T) {
	f := newLifecycleFixture()
	p := seedProject(f, model.StatusInProgress, 10)

	updated, err := f.svc.Transition(context.Background(), p.ID, model.StatusCancelled, f.admin, "client withdrew")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.CancellationReason != "client withdrew" {
		t.Fatalf("expected explicit reason kept, got %q", updated.CancellationReason)
	}
}

func TestCancellationCascadeFailureDoesNotBlockCommit(t *testing.T) {
	f := newLifecycleFixture()
	p := seedProject(f, model.StatusInProgress, 10)
	f.records.cancelErr = errors.New("db unavailable")

	updated, err := f.svc.Transition(context.Background(), p.ID, model.StatusCancelled, f.admin, "overdue")
	if err != nil {
		t.Fatalf("cascade failure must not fail the transition: %v", err)
	}
	if updated.Status != model.StatusCancelled {
		t.Fatalf("expected cancelled status, got %q", updated.Status)
	}

	stored, _ := f.projects.GetByID(context.Background(), p.ID)
	if stored.Status != model.StatusCancelled {
		t.Fatal("transition was not committed")
	}
}
