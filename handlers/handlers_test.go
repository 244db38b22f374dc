package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"tasktracker/flows"
	"tasktracker/models"
	"tasktracker/session"
)

type stubProvider struct {
	uid string
	err error
}

func (p *stubProvider) SignInWithPassword(context.Context, string, string) (string, error) {
	return p.uid, p.err
}

func (p *stubProvider) SignUp(context.Context, string, string) (string, error) {
	return p.uid, p.err
}

func (p *stubProvider) SignOut(context.Context, string) error { return nil }

func (p *stubProvider) GetUser(_ context.Context, uid string) (*models.User, error) {
	return &models.User{UID: uid, Email: "a@b.com"}, nil
}

func (p *stubProvider) VerificationLink(context.Context, string) (string, error) {
	return "https://example.test/confirm", nil
}

type stubStore struct {
	tasks []models.Task
	seq   int
}

func (s *stubStore) Insert(_ context.Context, task *models.Task) error {
	s.seq++
	task.ID = fmt.Sprintf("task-%d", s.seq)
	task.CreatedAt = time.Now()
	s.tasks = append([]models.Task{*task}, s.tasks...)
	return nil
}

func (s *stubStore) List(_ context.Context, userID, statusFilter string) ([]models.Task, error) {
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

func (s *stubStore) Update(_ context.Context, id, userID, title, description, status string) error {
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

func (s *stubStore) Delete(_ context.Context, id, userID string) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id && s.tasks[i].UserID == userID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("task not found")
}

// setupHandlers wires the package globals to in-memory fakes and returns
// the router plus the backing store.
func setupHandlers(t *testing.T, provider flows.AuthProvider) (*mux.Router, *stubStore, *session.Manager) {
	t.Helper()

	store := &stubStore{}
	manager := session.NewManager(time.Hour)
	Init(nil, manager, provider,
		flows.NewCredentialFlow(provider, manager, ClientNavigator{}),
		flows.NewTaskReconciler(store))
	prevSync := syncUser
	syncUser = func(*sql.DB, string, string, string) error { return nil }
	t.Cleanup(func() { syncUser = prevSync })

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", LoginHandler).Methods("POST")
	r.HandleFunc("/auth/signup", SignupHandler).Methods("POST")
	r.HandleFunc("/task/list", AuthMiddleware(ListTasksHandler)).Methods("GET")
	r.HandleFunc("/task/create", AuthMiddleware(CreateTaskHandler)).Methods("POST")
	r.HandleFunc("/task/update/{task_id}", AuthMiddleware(UpdateTaskHandler)).Methods("PUT")
	r.HandleFunc("/task/delete/{task_id}", AuthMiddleware(DeleteTaskHandler)).Methods("DELETE")
	r.HandleFunc("/notifications", AuthMiddleware(NotificationsHandler)).Methods("GET")
	return r, store, manager
}

func doJSON(r *mux.Router, method, path, sessionID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("Authorization", "Bearer "+sessionID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginHandlerSuccess(t *testing.T) {
	r, _, manager := setupHandlers(t, &stubProvider{uid: "uid-1"})

	w := doJSON(r, "POST", "/auth/login", "", `{"email":"A@B.com","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"redirect":"/dashboard"`) {
		t.Errorf("response missing redirect: %s", body)
	}
	if manager.Len() != 1 {
		t.Errorf("sessions = %d, want 1", manager.Len())
	}
}

func TestLoginHandlerValidationFailure(t *testing.T) {
	r, _, manager := setupHandlers(t, &stubProvider{uid: "uid-1"})

	w := doJSON(r, "POST", "/auth/login", "", `{"email":"nope","password":"secret1"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if manager.Len() != 0 {
		t.Error("validation failure opened a session")
	}
}

func TestSignupHandlerNoSession(t *testing.T) {
	r, _, manager := setupHandlers(t, &stubProvider{uid: "uid-2"})

	w := doJSON(r, "POST", "/auth/signup", "", `{"email":"a@b.com","password":"Abcdef1!"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"cleared":true`) {
		t.Errorf("response missing cleared flag: %s", w.Body.String())
	}
	if manager.Len() != 0 {
		t.Error("sign-up opened a session before email confirmation")
	}
}

func TestAuthMiddlewareRejectsUnknownSession(t *testing.T) {
	r, _, _ := setupHandlers(t, &stubProvider{uid: "uid-1"})

	if w := doJSON(r, "GET", "/task/list", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no header: status = %d, want 401", w.Code)
	}
	if w := doJSON(r, "GET", "/task/list", "bogus", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("bogus session: status = %d, want 401", w.Code)
	}
}

func TestTaskLifecycleThroughHandlers(t *testing.T) {
	r, store, manager := setupHandlers(t, &stubProvider{uid: "uid-1"})
	sess := manager.Create("uid-1", "a@b.com")

	// Create with a missing description never reaches the store.
	w := doJSON(r, "POST", "/task/create", sess.ID,
		`{"title":"T","description":"","status":"pending","priority":"High"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid create: status = %d, body %s", w.Code, w.Body.String())
	}
	if len(store.tasks) != 0 {
		t.Fatal("invalid create reached the store")
	}

	w = doJSON(r, "POST", "/task/create", sess.ID,
		`{"title":"T","description":"D","status":"pending","priority":"High","tags":", work ,, urgent,"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", w.Code, w.Body.String())
	}
	if len(sess.Tasks) != 1 {
		t.Fatalf("session tasks = %d after create, want 1", len(sess.Tasks))
	}
	id := sess.Tasks[0].ID

	w = doJSON(r, "PUT", "/task/update/"+id, sess.ID,
		`{"title":"T2","description":"D2","status":"done"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body %s", w.Code, w.Body.String())
	}
	if store.tasks[0].Status != models.StatusDone {
		t.Errorf("status = %q after update, want done", store.tasks[0].Status)
	}

	// Delete of an unknown id fails without disturbing the list.
	w = doJSON(r, "DELETE", "/task/delete/unknown", sess.ID, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("unknown delete: status = %d", w.Code)
	}
	if len(sess.Tasks) != 1 {
		t.Errorf("session tasks = %d after failed delete, want 1", len(sess.Tasks))
	}

	w = doJSON(r, "DELETE", "/task/delete/"+id, sess.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}
	if len(sess.Tasks) != 0 {
		t.Errorf("session tasks = %d after delete, want 0", len(sess.Tasks))
	}
}

func TestListHandlerRejectsInvalidFilter(t *testing.T) {
	r, _, manager := setupHandlers(t, &stubProvider{uid: "uid-1"})
	sess := manager.Create("uid-1", "a@b.com")

	w := doJSON(r, "GET", "/task/list?status=bogus", sess.ID, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if sess.StatusFilter != "all" {
		t.Errorf("filter changed to %q by an invalid request", sess.StatusFilter)
	}
}

func TestNotificationsHandler(t *testing.T) {
	r, _, manager := setupHandlers(t, &stubProvider{uid: "uid-1"})
	sess := manager.Create("uid-1", "a@b.com")
	sess.Notifications.Show("saved", models.NotifySuccess)

	w := doJSON(r, "GET", "/notifications", sess.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"saved"`) {
		t.Errorf("response missing notification: %s", w.Body.String())
	}
}
