package service

import (
	"context"
	"sync"
	"time"

	"scholarlyedge/internal/apperr"
	"scholarlyedge/internal/model"
)

type transitionCall struct {
	id                 int64
	status             string
	progress           int
	cancellationReason string
	completedAt        *time.Time
}

type fakeProjectStore struct {
	mu          sync.Mutex
	nextID      int64
	projects    map[int64]*model.Project
	active      []*model.ProjectWithWriter
	transitions []transitionCall

	insertErr     error
	transitionErr error
	listErr       error
	markErr       error

	// listHook runs at the start of ListActiveWithWriter, outside the
	// lock, so tests can hold a scan open mid-query.
	listHook  func()
	listCalls int
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: map[int64]*model.Project{}}
}

func (f *fakeProjectStore) Insert(ctx context.Context, p *model.Project) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.projects[p.ID] = &cp
	return p.ID, nil
}

func (f *fakeProjectStore) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) ApplyTransition(ctx context.Context, id int64, status string, progress int, cancellationReason string, completedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transitionErr != nil {
		return f.transitionErr
	}
	p, ok := f.projects[id]
	if !ok {
		return apperr.ErrNotFound
	}
	p.Status = status
	p.Progress = progress
	p.CancellationReason = cancellationReason
	p.CompletedAt = completedAt
	f.transitions = append(f.transitions, transitionCall{id, status, progress, cancellationReason, completedAt})
	return nil
}

func (f *fakeProjectStore) ListActiveWithWriter(ctx context.Context) ([]model.ProjectWithWriter, error) {
	if f.listHook != nil {
		f.listHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.ProjectWithWriter, 0, len(f.active))
	for _, pw := range f.active {
		out = append(out, *pw)
	}
	return out, nil
}

func (f *fakeProjectStore) MarkReminderSent(ctx context.Context, id int64, milestone string, sentAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return false, f.markErr
	}
	for _, pw := range f.active {
		if pw.ID != id {
			continue
		}
		switch milestone {
		case model.MilestoneThreeDaysBefore:
			if pw.ReminderThreeDaysSentAt != nil {
				return false, nil
			}
			t := sentAt
			pw.ReminderThreeDaysSentAt = &t
		case model.MilestoneDeadlineDay:
			if pw.ReminderDeadlineDaySentAt != nil {
				return false, nil
			}
			t := sentAt
			pw.ReminderDeadlineDaySentAt = &t
		}
		return true, nil
	}
	return false, apperr.ErrNotFound
}

type fakeUserStore struct {
	users map[int64]*model.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return u, nil
}

type cancelledCascade struct {
	projectID int64
	note      string
}

type fakeFinancialStore struct {
	mu        sync.Mutex
	nextID    int64
	records   []*model.FinancialRecord
	cascades  []cancelledCascade
	insertErr map[string]error // keyed by record type
	cancelErr error
}

func newFakeFinancialStore() *fakeFinancialStore {
	return &fakeFinancialStore{insertErr: map[string]error{}}
}

func (f *fakeFinancialStore) Insert(ctx context.Context, rec *model.FinancialRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.insertErr[rec.Type]; err != nil {
		return 0, err
	}
	f.nextID++
	rec.ID = f.nextID
	cp := *rec
	f.records = append(f.records, &cp)
	return rec.ID, nil
}

func (f *fakeFinancialStore) CancelByProject(ctx context.Context, projectID int64, note string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return 0, f.cancelErr
	}
	f.cascades = append(f.cascades, cancelledCascade{projectID, note})
	var n int64
	for _, rec := range f.records {
		if rec.ProjectID != nil && *rec.ProjectID == projectID {
			rec.Status = model.RecordStatusCancelled
			rec.Notes = note
			n++
		}
	}
	return n, nil
}

func (f *fakeFinancialStore) byType(recordType string) []*model.FinancialRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.FinancialRecord
	for _, rec := range f.records {
		if rec.Type == recordType {
			out = append(out, rec)
		}
	}
	return out
}

type sentReminder struct {
	recipient    string
	writerName   string
	title        string
	deadlineText string
	daysLeft     int
}

type sentAssignment struct {
	recipient string
	title     string
	projectID int64
}

type fakeSender struct {
	mu          sync.Mutex
	reminders   []sentReminder
	assignments []sentAssignment
	welcomes    []string
}

func (f *fakeSender) SendWelcomeEmail(ctx context.Context, recipient, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomes = append(f.welcomes, recipient)
}

func (f *fakeSender) SendAssignmentEmail(ctx context.Context, recipient, writerName, title, deadlineText string, projectID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignments = append(f.assignments, sentAssignment{recipient, title, projectID})
}

func (f *fakeSender) SendDeadlineReminderEmail(ctx context.Context, recipient, writerName, title, deadlineText string, daysLeft int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, sentReminder{recipient, writerName, title, deadlineText, daysLeft})
}

type fakeGuard struct {
	mu     sync.Mutex
	seen   map[string]bool
	refuse bool
}

func (f *fakeGuard) AcquireOnce(ctx context.Context, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuse {
		return false
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}
