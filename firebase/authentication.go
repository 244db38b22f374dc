package firebase

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"firebase.google.com/go/v4/auth"

	"tasktracker/models"
	"tasktracker/utilities"
)

// Identity Toolkit password sign-in endpoint. The Admin SDK has no
// password grant, so sign-in goes through the REST API with the project's
// web API key.
const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// Provider is the auth-provider collaborator backed by Firebase. Errors
// from it carry Firebase's raw failure codes (INVALID_LOGIN_CREDENTIALS,
// EMAIL_EXISTS, TOO_MANY_ATTEMPTS_TRY_LATER, ...) so the credential flow
// can classify them.
type Provider struct {
	client   *auth.Client
	apiKey   string
	http     *http.Client
	endpoint string
}

func NewProvider(client *auth.Client) (*Provider, error) {
	apiKey := os.Getenv("FIREBASE_WEB_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("FIREBASE_WEB_API_KEY is not set")
	}
	return &Provider{
		client:   client,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 10 * time.Second},
		endpoint: signInEndpoint,
	}, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword verifies the credential against the Identity Toolkit
// API and returns the user's UID.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?key="+p.apiKey, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	var body signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("sign-in response unreadable: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if body.Error != nil && body.Error.Message != "" {
			// The raw code is the error text; the flow's closed mapping
			// depends on it.
			return "", errors.New(body.Error.Message)
		}
		return "", fmt.Errorf("sign-in failed with status %d", resp.StatusCode)
	}
	if body.LocalID == "" {
		return "", errors.New("sign-in response missing user id")
	}
	return body.LocalID, nil
}

// SignUp creates an unverified account via the Admin SDK.
func (p *Provider) SignUp(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		EmailVerified(false).
		Password(password).
		Disabled(false)

	user, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", errors.New("EMAIL_EXISTS")
		}
		return "", err
	}

	utilities.LogInfo("Created user with UID %s", user.UID)
	return user.UID, nil
}

// SignOut revokes the user's refresh tokens, invalidating the provider
// session everywhere.
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke tokens for %s: %w", uid, err)
	}
	return nil
}

// GetUser fetches the provider's view of an account.
func (p *Provider) GetUser(ctx context.Context, uid string) (*models.User, error) {
	record, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", uid, err)
	}
	return &models.User{
		UID:           record.UID,
		Email:         record.Email,
		DisplayName:   record.DisplayName,
		EmailVerified: record.EmailVerified,
	}, nil
}

// VerificationLink generates the confirm-signup email link for an
// address. Delivery is the provider's concern, not ours.
func (p *Provider) VerificationLink(ctx context.Context, email string) (string, error) {
	link, err := p.client.EmailVerificationLink(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification link: %w", err)
	}
	return link, nil
}

// SyncUser mirrors a provider account into the local users table on first
// sign-in so task rows can reference it.
func SyncUser(db *sql.DB, uid, email, displayName string) error {
	var existing string
	err := db.QueryRow("SELECT firebase_uid FROM users WHERE firebase_uid = $1", uid).Scan(&existing)

	switch {
	case err == sql.ErrNoRows:
		utilities.LogInfo("First sign-in for UID %s, creating local record", uid)
		_, insertErr := db.Exec(
			"INSERT INTO users (firebase_uid, email, display_name) VALUES ($1, $2, $3)",
			uid, email, displayName,
		)
		if insertErr != nil {
			return fmt.Errorf("failed to insert user record: %w", insertErr)
		}
		return nil

	case err != nil:
		return fmt.Errorf("failed to look up user record: %w", err)

	default:
		return nil
	}
}
