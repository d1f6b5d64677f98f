package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic usage report.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
	logger     *zap.Logger
}

// New creates a scheduler firing at spec (standard 5-field cron, UTC).
// An empty spec disables it.
func New(spec string, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.logger.Info("usage report disabled")
		return nil
	}
	if s.reportFunc == nil {
		s.logger.Warn("report function not set, scheduler will not generate reports")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		s.logger.Info("usage report triggered")
		if err := s.reportFunc(s.ctx); err != nil {
			s.logger.Error("usage report failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
