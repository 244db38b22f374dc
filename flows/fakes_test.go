package flows

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tasktracker/models"
)

type fakeProvider struct {
	uid        string
	err        error
	panics     bool
	signOutErr error

	signInCalls  int
	signUpCalls  int
	signOutCalls int
	linkCalls    int
	lastEmail    string
	lastPassword string
}

func (p *fakeProvider) SignInWithPassword(_ context.Context, email, password string) (string, error) {
	if p.panics {
		panic("provider exploded")
	}
	p.signInCalls++
	p.lastEmail, p.lastPassword = email, password
	return p.uid, p.err
}

func (p *fakeProvider) SignUp(_ context.Context, email, password string) (string, error) {
	if p.panics {
		panic("provider exploded")
	}
	p.signUpCalls++
	p.lastEmail, p.lastPassword = email, password
	return p.uid, p.err
}

func (p *fakeProvider) SignOut(context.Context, string) error {
	p.signOutCalls++
	return p.signOutErr
}

func (p *fakeProvider) GetUser(_ context.Context, uid string) (*models.User, error) {
	return &models.User{UID: uid, Email: p.lastEmail}, nil
}

func (p *fakeProvider) VerificationLink(context.Context, string) (string, error) {
	p.linkCalls++
	return "https://example.test/confirm", nil
}

type fakeNavigator struct {
	mu    sync.Mutex
	dests []string
}

func (n *fakeNavigator) NavigateTo(destination string) {
	n.mu.Lock()
	n.dests = append(n.dests, destination)
	n.mu.Unlock()
}

func (n *fakeNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.dests...)
}

// fakeStore keeps tasks in memory, newest first, and can be told to fail
// any single operation.
type fakeStore struct {
	tasks []models.Task
	seq   int

	insertErr error
	listErr   error
	updateErr error
	deleteErr error

	insertCalls int
	listCalls   int
}

func (s *fakeStore) Insert(_ context.Context, task *models.Task) error {
	s.insertCalls++
	if s.insertErr != nil {
		return s.insertErr
	}
	s.seq++
	task.ID = fmt.Sprintf("task-%d", s.seq)
	task.CreatedAt = time.Now()
	s.tasks = append([]models.Task{*task}, s.tasks...)
	return nil
}

func (s *fakeStore) List(_ context.Context, userID, statusFilter string) ([]models.Task, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Task
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if statusFilter != "all" && t.Status != statusFilter {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, id, userID, title, description, status string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id && s.tasks[i].UserID == userID {
			s.tasks[i].Title = title
			s.tasks[i].Description = description
			s.tasks[i].Status = status
			return nil
		}
	}
	return errors.New("task not found")
}

func (s *fakeStore) Delete(_ context.Context, id, userID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id && s.tasks[i].UserID == userID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("task not found")
}
