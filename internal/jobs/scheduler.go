// Package jobs runs the bot's background tasks.
package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Flusher is a ledger whose balances may need writing again.
type Flusher interface {
	Dirty() bool
	Flush() error
}

type Scheduler struct {
	cron   *cron.Cron
	ledger Flusher
}

// NewScheduler registers the flush-retry job on schedule (standard cron syntax
// or descriptors such as "@every 5m").
func NewScheduler(schedule string, ledger Flusher) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		ledger: ledger,
	}
	if _, err := s.cron.AddFunc(schedule, s.retryFlush); err != nil {
		return nil, fmt.Errorf("invalid flush schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Scheduler started")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}

// retryFlush writes the balances again when the last flush failed.
func (s *Scheduler) retryFlush() {
	if !s.ledger.Dirty() {
		return
	}
	if err := s.ledger.Flush(); err != nil {
		log.WithError(err).Error("[CRON] Balances flush retry failed")
		return
	}
	log.Info("[CRON] Balances flushed after earlier failure")
}
