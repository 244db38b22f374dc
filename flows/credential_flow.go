package flows

import (
	"context"
	"strings"
	"time"

	"tasktracker/models"
	"tasktracker/session"
	"tasktracker/utilities"
	"tasktracker/validation"
)

// Mode selects which side of the auth form is being submitted.
type Mode int

const (
	SignIn Mode = iota
	SignUp
)

// Logical navigation destinations (spec'd collaborator: two screens).
const (
	DestinationEntry = "/"
	DestinationTasks = "/dashboard"
)

// Delay between a successful sign-in and the redirect to the task screen.
var navigateDelay = 1500 * time.Millisecond

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthProvider is the external identity provider boundary. Errors must
// carry the provider's raw failure message so the closed mapping below can
// classify them.
type AuthProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, uid string) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	VerificationLink(ctx context.Context, email string) (string, error)
}

// Navigator moves the user between the unauthenticated entry screen and
// the authenticated task screen.
type Navigator interface {
	NavigateTo(destination string)
}

// Closed lookup from provider failure messages to user-facing text. The
// Identity Toolkit codes and the older human-readable variants both appear
// here; anything unrecognized falls through to the raw provider message.
var authErrorMessages = map[string]string{
	"INVALID_LOGIN_CREDENTIALS":   "Invalid email or password. Please check your credentials.",
	"EMAIL_NOT_FOUND":             "Invalid email or password. Please check your credentials.",
	"INVALID_PASSWORD":            "Invalid email or password. Please check your credentials.",
	"Invalid login credentials":   "Invalid email or password. Please check your credentials.",
	"EMAIL_EXISTS":                "An account with this email already exists. Please sign in instead.",
	"User already registered":     "An account with this email already exists. Please sign in instead.",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many requests. Please wait a moment before trying again.",
	"Email rate limit exceeded":   "Too many requests. Please wait a moment before trying again.",
}

const genericAuthError = "An unexpected error occurred. Please try again."

// SubmitResult is the outcome of one auth form submission.
type SubmitResult struct {
	// Errors is non-empty when local validation failed; the provider was
	// not contacted in that case.
	Errors validation.ValidationErrors
	// Notification is the user-facing outcome message, if any.
	Notification *models.Notification
	// Session is set on sign-in success only.
	Session *session.Context
	// Redirect is the post-sign-in destination, reached after a short delay.
	Redirect string
	// ClearForm signals that a successful sign-up cleared the form fields.
	ClearForm bool
}

// CredentialFlow orchestrates sign-in and sign-up against the auth
// provider and opens a session on successful sign-in.
type CredentialFlow struct {
	provider  AuthProvider
	sessions  *session.Manager
	navigator Navigator
}

func NewCredentialFlow(provider AuthProvider, sessions *session.Manager, navigator Navigator) *CredentialFlow {
	return &CredentialFlow{provider: provider, sessions: sessions, navigator: navigator}
}

// Submit sanitizes and validates the credential, then drives the provider
// call for the given mode. A provider panic is recovered and degraded to a
// generic error notification; the flow never crashes its caller.
func (f *CredentialFlow) Submit(ctx context.Context, cred Credential, mode Mode) (result SubmitResult) {
	defer func() {
		if r := recover(); r != nil {
			utilities.LogError(nil, "Recovered panic during auth submit")
			utilities.LogDebug("Panic detail: %v", r)
			result = SubmitResult{
				Notification: &models.Notification{Message: genericAuthError, Kind: models.NotifyError},
			}
		}
	}()

	email := validation.Sanitize(cred.Email)
	// The password is deliberately not sanitized: special characters must
	// reach the provider verbatim.
	password := cred.Password

	errs := validation.ValidationErrors{}
	if err := validation.ValidateEmail(email); err != nil {
		errs["email"] = err.Error()
	}
	if err := validation.ValidatePassword(password, mode == SignUp); err != nil {
		errs["password"] = err.Error()
	}
	if !errs.Valid() {
		return SubmitResult{Errors: errs}
	}

	email = strings.ToLower(email)

	var uid string
	var err error
	if mode == SignIn {
		uid, err = f.provider.SignInWithPassword(ctx, email, password)
	} else {
		uid, err = f.provider.SignUp(ctx, email, password)
	}
	if err != nil {
		message := authErrorMessages[err.Error()]
		if message == "" {
			// Unrecognized provider failures surface their raw message,
			// never get swallowed.
			message = err.Error()
		}
		utilities.LogError(err, "Auth provider rejected submission")
		return SubmitResult{
			Notification: &models.Notification{Message: message, Kind: models.NotifyError},
		}
	}

	if mode == SignIn {
		sess := f.sessions.Create(uid, email)
		notification := &models.Notification{Message: "Login successful! Redirecting...", Kind: models.NotifySuccess}
		sess.Notifications.Show(notification.Message, notification.Kind)
		if f.navigator != nil {
			time.AfterFunc(navigateDelay, func() { f.navigator.NavigateTo(DestinationTasks) })
		}
		utilities.LogInfo("User %s signed in", uid)
		return SubmitResult{
			Notification: notification,
			Session:      sess,
			Redirect:     DestinationTasks,
		}
	}

	// Sign-up: the account exists but is unconfirmed, so no session and no
	// navigation; the form is cleared and the user is sent to their inbox.
	if link, linkErr := f.provider.VerificationLink(ctx, email); linkErr != nil {
		utilities.LogError(linkErr, "Could not generate verification link")
	} else {
		utilities.LogDebug("Verification link for %s: %s", email, link)
	}
	utilities.LogInfo("User %s signed up, awaiting email confirmation", uid)
	return SubmitResult{
		Notification: &models.Notification{Message: "Check your email to confirm signup!", Kind: models.NotifySuccess},
		ClearForm:    true,
	}
}

// SignOut revokes the provider session and discards the local one.
func (f *CredentialFlow) SignOut(ctx context.Context, sess *session.Context) error {
	if err := f.provider.SignOut(ctx, sess.UserID); err != nil {
		sess.Notifications.Show("Logout failed. Please try again.", models.NotifyError)
		return err
	}
	f.sessions.Discard(sess.ID)
	if f.navigator != nil {
		f.navigator.NavigateTo(DestinationEntry)
	}
	utilities.LogInfo("User %s signed out", sess.UserID)
	return nil
}
