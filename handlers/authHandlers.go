package handlers

import (
	"encoding/json"
	"net/http"

	"tasktracker/flows"
	"tasktracker/models"
	"tasktracker/utilities"
	"tasktracker/validation"
)

type authResponse struct {
	Notification *models.Notification `json:"notification,omitempty"`
	SessionID    string               `json:"session_id,omitempty"`
	Redirect     string               `json:"redirect,omitempty"`
	Cleared      bool                 `json:"cleared,omitempty"`
}

// LoginHandler runs the credential flow in sign-in mode. Success opens a
// session and tells the client where to go next.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var cred flows.Credential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		utilities.LogError(err, "Failed to decode login request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	result := credentials.Submit(r.Context(), cred, flows.SignIn)
	if !result.Errors.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": result.Errors})
		return
	}
	if result.Session == nil {
		writeJSON(w, http.StatusUnauthorized, authResponse{Notification: result.Notification})
		return
	}

	// First sign-in mirrors the account into the local users table so task
	// rows can reference it.
	if err := syncUser(db, result.Session.UserID, result.Session.Email, ""); err != nil {
		utilities.LogError(err, "Failed to sync user record")
		sessions.Discard(result.Session.ID)
		writeJSON(w, http.StatusInternalServerError, authResponse{
			Notification: &models.Notification{Message: "An unexpected error occurred. Please try again.", Kind: models.NotifyError},
		})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Notification: result.Notification,
		SessionID:    result.Session.ID,
		Redirect:     result.Redirect,
	})
}

// SignupHandler runs the credential flow in sign-up mode. Success clears
// the form and keeps the user on the entry screen until they confirm by
// email; no session is opened.
func SignupHandler(w http.ResponseWriter, r *http.Request) {
	var cred flows.Credential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		utilities.LogError(err, "Failed to decode signup request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	result := credentials.Submit(r.Context(), cred, flows.SignUp)
	if !result.Errors.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": result.Errors})
		return
	}
	if !result.ClearForm {
		writeJSON(w, http.StatusBadRequest, authResponse{Notification: result.Notification})
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Notification: result.Notification,
		Cleared:      true,
	})
}

// PasswordStrengthHandler reports the advisory strength tier for the
// sign-up form. It never blocks anything.
func PasswordStrengthHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	writeJSON(w, http.StatusOK, map[string]string{
		"strength": validation.ComputeStrength(input.Password).String(),
	})
}

// LogoutHandler revokes the provider session and discards the local one.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := credentials.SignOut(r.Context(), sess); err != nil {
		utilities.LogError(err, "Logout failed")
		writeJSON(w, http.StatusInternalServerError, authResponse{Notification: sess.Notifications.Active()})
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Notification: &models.Notification{Message: "Logged out successfully", Kind: models.NotifySuccess},
		Redirect:     flows.DestinationEntry,
	})
}

// UserInfoHandler returns the provider's view of the signed-in account.
func UserInfoHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	user, err := authProvider.GetUser(r.Context(), sess.UserID)
	if err != nil {
		utilities.LogError(err, "Failed to fetch user info")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
