// Package scheduler drives the cron jobs: the daily agenda digest and the
// weekly flock report, both delivered to the shepherd WhatsApp group.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/ovinet/internal/config"
	"github.com/mamadbah2/ovinet/internal/service/manejo"
	"github.com/mamadbah2/ovinet/internal/service/recurrence"
	"github.com/mamadbah2/ovinet/internal/service/reporting"
	"github.com/mamadbah2/ovinet/pkg/clients/notify"
)

// Scheduler manages the recurring background jobs.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	manejoSvc    *manejo.Service
	notifier     notify.Client
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a scheduler. notifier may be nil; jobs then only log
// their output.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, manejoSvc *manejo.Service, notifier notify.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Scheduler.Timezone), zap.Error(err))
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:         c,
		reportingSvc: reportingSvc,
		manejoSvc:    manejoSvc,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("agenda_cron", s.cfg.Scheduler.AgendaCron),
		zap.String("report_cron", s.cfg.Scheduler.ReportCron))

	if _, err := s.cron.AddFunc(s.cfg.Scheduler.AgendaCron, s.sendDailyAgenda); err != nil {
		s.logger.Error("failed to schedule daily agenda", zap.Error(err))
	}
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.ReportCron, s.sendWeeklyReport); err != nil {
		s.logger.Error("failed to schedule weekly report", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendDailyAgenda() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	day := recurrence.FormatDate(time.Now())
	occurrences, err := s.manejoSvc.Agenda(ctx, day, day)
	if err != nil {
		s.logger.Error("failed to project daily agenda", zap.Error(err))
		return
	}

	s.deliver(ctx, s.reportingSvc.FormatAgenda(day, occurrences), "daily agenda")
}

func (s *Scheduler) sendWeeklyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reportingSvc.GenerateWeeklyReport(ctx)
	if err != nil {
		s.logger.Error("failed to generate weekly report", zap.Error(err))
		return
	}

	s.deliver(ctx, s.reportingSvc.FormatReport(report), "weekly report")
}

func (s *Scheduler) deliver(ctx context.Context, body, job string) {
	if s.notifier == nil {
		s.logger.Info("no notifier configured, logging only", zap.String("job", job), zap.String("body", body))
		return
	}

	_, err := s.notifier.SendTextMessage(ctx, notify.SendTextMessageRequest{
		To:   s.cfg.Notify.GroupID,
		Body: body,
	})
	if err != nil {
		s.logger.Error("failed to deliver message", zap.String("job", job), zap.Error(err))
		return
	}
	s.logger.Info("message delivered", zap.String("job", job))
}
