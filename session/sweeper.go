package session

import (
	"tasktracker/utilities"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically evicts idle sessions so abandoned sign-ins do not
// accumulate for the lifetime of the process.
type Sweeper struct {
	manager *Manager
	cron    *cron.Cron
}

// NewSweeper schedules Manager.Sweep on the given cron expression
// (for example "@every 5m").
func NewSweeper(m *Manager, schedule string) (*Sweeper, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if removed := m.Sweep(); removed > 0 {
			utilities.LogInfo("Session sweep removed %d idle session(s)", removed)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Sweeper{manager: m, cron: c}, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}
