package notifications

import (
	"sync"
	"time"

	"tasktracker/models"
)

// Default lifetimes. Errors linger a second longer because they usually
// require the user to act.
const (
	DefaultSuccessDelay = 4 * time.Second
	DefaultErrorDelay   = 5 * time.Second
)

// Channel holds at most one notification at a time. A new Show replaces
// whatever is displayed and resets the single pending expiry timer, so
// rapid successive calls never stack timers.
type Channel struct {
	mu           sync.Mutex
	current      *models.Notification
	timer        *time.Timer
	gen          uint64
	successDelay time.Duration
	errorDelay   time.Duration
}

func NewChannel() *Channel {
	return &Channel{
		successDelay: DefaultSuccessDelay,
		errorDelay:   DefaultErrorDelay,
	}
}

// Show replaces the active notification and schedules its expiry.
func (c *Channel) Show(message, kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = &models.Notification{Message: message, Kind: kind}
	if c.timer != nil {
		c.timer.Stop()
	}

	delay := c.successDelay
	if kind == models.NotifyError {
		delay = c.errorDelay
	}
	// A stopped timer may already be mid-fire; the generation check keeps
	// a stale expiry from clearing the replacement notification.
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(delay, func() { c.clear(gen) })
}

// Active returns the currently displayed notification, or nil once it has
// expired or been replaced.
func (c *Channel) Active() *models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Channel) clear(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.current = nil
	c.timer = nil
}
