package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionSweeper is the part of the session manager the sweeper needs.
type SessionSweeper interface {
	Sweep(idle time.Duration) int
	Len() int
}

// Sweeper discards idle sessions on a cron schedule.
type Sweeper struct {
	sessions SessionSweeper
	schedule cron.Schedule
	idle     time.Duration
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewSweeper creates a sweeper running on the standard cron expression expr.
func NewSweeper(sessions SessionSweeper, expr string, idle time.Duration) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", expr, err)
	}
	return &Sweeper{
		sessions: sessions,
		schedule: schedule,
		idle:     idle,
		now:      time.Now,
		done:     make(chan struct{}),
	}, nil
}

// Run sweeps at every scheduled time until Stop is called.
func (s *Sweeper) Run() {
	log.Info().Dur("idle_timeout", s.idle).Msg("Starting session sweeper")
	for {
		now := s.now()
		timer := time.NewTimer(s.schedule.Next(now).Sub(now))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping session sweeper")
			return
		case <-timer.C:
			s.SweepNow()
		}
	}
}

// Stop halts the sweeper.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// SweepNow discards idle sessions immediately and returns how many were removed.
func (s *Sweeper) SweepNow() int {
	removed := s.sessions.Sweep(s.idle)
	if removed > 0 {
		log.Info().Int("removed", removed).Int("remaining", s.sessions.Len()).Msg("Swept idle sessions")
	}
	return removed
}
