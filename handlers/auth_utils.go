package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tasktracker/firebase"
	"tasktracker/flows"
	"tasktracker/session"
	"tasktracker/utilities"
)

var (
	db           *sql.DB
	sessions     *session.Manager
	authProvider flows.AuthProvider
	credentials  *flows.CredentialFlow
	reconciler   *flows.TaskReconciler

	// Indirection over the first-login user sync, swapped out in tests.
	syncUser = firebase.SyncUser
)

// Init wires the handlers to their collaborators at startup.
func Init(database *sql.DB, manager *session.Manager, provider flows.AuthProvider, flow *flows.CredentialFlow, rec *flows.TaskReconciler) {
	db = database
	sessions = manager
	authProvider = provider
	credentials = flow
	reconciler = rec
}

// ClientNavigator is the navigation collaborator of a headless service:
// the actual screen transition happens in the client, driven by the
// redirect field in the response, so the server side only records it.
type ClientNavigator struct{}

func (ClientNavigator) NavigateTo(destination string) {
	utilities.LogDebug("Client navigation to %s", destination)
}

type contextKey string

const sessionContextKey contextKey = "session"

// AuthMiddleware resolves the bearer session ID and rejects requests
// without a live session.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utilities.LogError(fmt.Errorf("authorization header missing"), "Authentication failed")
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		sessionID := strings.TrimPrefix(authHeader, "Bearer ")
		sess, ok := sessions.Get(sessionID)
		if !ok {
			utilities.LogError(fmt.Errorf("unknown session %q", sessionID), "Authentication failed")
			http.Error(w, "Invalid session", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func sessionFrom(r *http.Request) *session.Context {
	sess, _ := r.Context().Value(sessionContextKey).(*session.Context)
	return sess
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utilities.LogError(err, "Failed to encode response")
	}
}
