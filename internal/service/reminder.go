package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"scholarlyedge/internal/model"
	"scholarlyedge/internal/notifier"
	"scholarlyedge/pkg/config"
	"scholarlyedge/pkg/metrics"

	"go.uber.org/zap"
)

const defaultScanInterval = time.Hour

// ReminderProjectStore is the slice of the entity store the scanner needs.
type ReminderProjectStore interface {
	ListActiveWithWriter(ctx context.Context) ([]model.ProjectWithWriter, error)
	MarkReminderSent(ctx context.Context, id int64, milestone string, sentAt time.Time) (bool, error)
}

// DedupGuard is an optional cross-process guard against double-sending the
// same milestone when more than one scheduler instance runs. It must fail
// open: the persisted markers remain the source of truth.
type DedupGuard interface {
	AcquireOnce(ctx context.Context, key string) bool
}

// ReminderScheduler periodically scans active projects and sends at most one
// reminder per milestone per project, recording write-once markers in the
// store.
type ReminderScheduler struct {
	projects ReminderProjectStore
	notifier notifier.Sender
	guard    DedupGuard
	logger   *zap.Logger

	enabled  bool
	interval time.Duration
	now      func() time.Time

	// scanMu serializes scans: a tick that fires while the previous scan is
	// still running is skipped rather than queued.
	scanMu sync.Mutex
}

func NewReminderScheduler(
	projects ReminderProjectStore,
	sender notifier.Sender,
	guard DedupGuard,
	cfg config.ReminderConfig,
	logger *zap.Logger,
) *ReminderScheduler {
	interval := time.Duration(cfg.ScanIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = defaultScanInterval
	}
	return &ReminderScheduler{
		projects: projects,
		notifier: sender,
		guard:    guard,
		logger:   logger,
		enabled:  cfg.Enabled,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs one scan immediately and then on every interval tick until ctx
// is cancelled. The ticker is owned here and released on shutdown.
func (s *ReminderScheduler) Start(ctx context.Context) {
	s.logger.Info("Starting deadline reminder scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("enabled", s.enabled),
	)

	s.Scan(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Deadline reminder scheduler stopped")
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan runs a single pass over all active projects. A failure on one
// project is contained to that project; a failure of the query itself is
// contained to this scan.
func (s *ReminderScheduler) Scan(ctx context.Context) {
	if !s.enabled {
		metrics.ReminderScanCount.WithLabelValues("disabled").Inc()
		return
	}

	if !s.scanMu.TryLock() {
		s.logger.Warn("Skipping reminder scan, previous scan still in flight")
		metrics.ReminderScanCount.WithLabelValues("skipped").Inc()
		return
	}
	defer s.scanMu.Unlock()

	start := time.Now()
	defer func() {
		metrics.ObserveScanDuration(time.Since(start))
	}()

	projects, err := s.projects.ListActiveWithWriter(ctx)
	if err != nil {
		s.logger.Error("Deadline reminder scan failed", zap.Error(err))
		metrics.ReminderScanCount.WithLabelValues("failed").Inc()
		return
	}

	now := s.now()
	for i := range projects {
		s.processProject(ctx, &projects[i], now)
	}

	metrics.ReminderScanCount.WithLabelValues("ok").Inc()
	s.logger.Info("Deadline reminder scan completed",
		zap.Int("active_projects", len(projects)),
	)
}

func (s *ReminderScheduler) processProject(ctx context.Context, pw *model.ProjectWithWriter, now time.Time) {
	if pw.WriterEmail == "" {
		return
	}

	daysLeft := daysUntil(pw.Deadline, now)
	deadlineText := pw.Deadline.Format("2006-01-02")

	if daysLeft == 3 && pw.ReminderThreeDaysSentAt == nil {
		s.sendMilestone(ctx, pw, model.MilestoneThreeDaysBefore, 3, deadlineText, now)
	}

	if daysLeft == 0 && isMorning(now) && pw.ReminderDeadlineDaySentAt == nil {
		s.sendMilestone(ctx, pw, model.MilestoneDeadlineDay, 0, deadlineText, now)
	}
}

func (s *ReminderScheduler) sendMilestone(ctx context.Context, pw *model.ProjectWithWriter, milestone string, daysLeft int, deadlineText string, now time.Time) {
	if s.guard != nil {
		key := fmt.Sprintf("reminder:%d:%s", pw.ID, milestone)
		if !s.guard.AcquireOnce(ctx, key) {
			s.logger.Info("Reminder already claimed by another scan",
				zap.Int64("project_id", pw.ID),
				zap.String("milestone", milestone),
			)
			return
		}
	}

	s.notifier.SendDeadlineReminderEmail(ctx,
		pw.WriterEmail,
		pw.WriterName,
		pw.Title,
		deadlineText,
		daysLeft,
	)

	updated, err := s.projects.MarkReminderSent(ctx, pw.ID, milestone, now)
	if err != nil {
		metrics.ReminderProjectFailureCount.WithLabelValues("persist_marker").Inc()
		s.logger.Error("Failed to persist reminder marker",
			zap.Int64("project_id", pw.ID),
			zap.String("milestone", milestone),
			zap.Error(err),
		)
		return
	}
	if !updated {
		// Marker was already set by a concurrent scan; nothing to record.
		return
	}

	metrics.ReminderSentCount.WithLabelValues(milestone).Inc()
	s.logger.Info("Deadline reminder sent",
		zap.Int64("project_id", pw.ID),
		zap.String("milestone", milestone),
		zap.Int("days_left", daysLeft),
	)
}

// daysUntil computes the whole-calendar-day difference between the deadline
// and now, both normalized to local midnight. Rounding absorbs DST and
// sub-day drift, so "3 days left" does not depend on the deadline's
// time-of-day.
func daysUntil(deadline, now time.Time) int {
	d := deadline.In(now.Location())
	deadlineStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	nowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(math.Round(deadlineStart.Sub(nowStart).Hours() / 24))
}

// isMorning reports whether the local hour is within the deadline-day send
// window [06:00, 12:00).
func isMorning(now time.Time) bool {
	h := now.Hour()
	return h >= 6 && h < 12
}
