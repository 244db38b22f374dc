package session

import (
	"sync"
	"time"

	"tasktracker/models"
	"tasktracker/notifications"

	"github.com/google/uuid"
)

// TaskForm is the create-task form as last submitted. It is kept on the
// session so a failed create preserves the user's input for retry.
type TaskForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Tags        string `json:"tags"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

// EditForm is the edit-in-progress snapshot, preserved across a failed
// update so the user can retry.
type EditForm struct {
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Context is the per-user state created at sign-in and discarded at
// sign-out: identity, the current status filter, the task list as last
// reconciled from the store, the notification channel, and form snapshots.
//
// Mutations are not interlocked between concurrent requests of the same
// session; each mutation triggers its own refetch and the last refetch to
// resolve wins. That race is accepted and documented, not fixed.
type Context struct {
	ID            string
	UserID        string
	Email         string
	StatusFilter  string
	Tasks         []models.Task
	Notifications *notifications.Channel
	CreateForm    TaskForm
	EditForm      *EditForm
	CreatedAt     time.Time
	LastSeen      time.Time
}

// Manager owns all live sessions, keyed by opaque session ID.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Context
	idleTTL  time.Duration
}

func NewManager(idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Context),
		idleTTL:  idleTTL,
	}
}

// Create opens a session for an authenticated user.
func (m *Manager) Create(userID, email string) *Context {
	now := time.Now()
	ctx := &Context{
		ID:            uuid.NewString(),
		UserID:        userID,
		Email:         email,
		StatusFilter:  "all",
		Notifications: notifications.NewChannel(),
		CreatedAt:     now,
		LastSeen:      now,
	}

	m.mu.Lock()
	m.sessions[ctx.ID] = ctx
	m.mu.Unlock()
	return ctx
}

// Get resolves a session ID and refreshes its idle clock.
func (m *Manager) Get(id string) (*Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx, ok := m.sessions[id]
	if ok {
		ctx.LastSeen = time.Now()
	}
	return ctx, ok
}

// Discard drops a session at sign-out.
func (m *Manager) Discard(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Sweep removes sessions idle longer than the TTL and reports how many
// were dropped.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, ctx := range m.sessions {
		if ctx.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
