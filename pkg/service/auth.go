package service

import (
	"strings"
	"time"

	"github.com/zfogg/otakulist/pkg/api"
	"github.com/zfogg/otakulist/pkg/client"
	"github.com/zfogg/otakulist/pkg/config"
	"github.com/zfogg/otakulist/pkg/credentials"
	clierrors "github.com/zfogg/otakulist/pkg/errors"
	"github.com/zfogg/otakulist/pkg/logger"
	"github.com/zfogg/otakulist/pkg/output"
	"github.com/zfogg/otakulist/pkg/prompter"
)

// AuthService stores the bearer token issued by the hosted auth
// provider. Signing in happens in the browser; the CLI only keeps the
// token it is given.
type AuthService struct{}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	return &AuthService{}
}

// SaveToken stores token, prompting for it when empty. A zero ttl keeps
// the token until logout.
func (s *AuthService) SaveToken(token string, ttl time.Duration) error {
	token = strings.TrimSpace(token)
	if token == "" {
		var err error
		token, err = prompter.PromptSecret("Access token: ")
		if err != nil {
			return err
		}
		token = strings.TrimSpace(token)
	}
	if token == "" {
		return clierrors.ValidationError("token", "cannot be empty")
	}

	creds := &credentials.Credentials{AccessToken: token}
	if ttl > 0 {
		creds.ExpiresAt = time.Now().Add(ttl).UTC()
	}

	if err := credentials.Save(creds); err != nil {
		logger.Error("Failed to save credentials", "error", err)
		return err
	}

	config.Set("auth.token", token)
	client.SetAuthToken(token)

	output.PrintSuccess("Token saved to %s", config.GetCredentialsPath())
	return nil
}

// Logout forgets the stored token
func (s *AuthService) Logout() error {
	creds, err := credentials.Load()
	if err != nil {
		logger.Error("Failed to load credentials", "error", err)
		return err
	}

	if creds == nil {
		output.PrintWarning("Not logged in")
		return nil
	}

	if err := credentials.Delete(); err != nil {
		output.PrintError("Failed to delete credentials: %v", err)
		return err
	}

	client.ClearAuthToken()

	output.PrintSuccess("Logged out")
	return nil
}

// Status reports whether a token is stored and accepted by the server
func (s *AuthService) Status() error {
	creds, err := credentials.Load()
	if err != nil {
		return err
	}

	switch {
	case config.GetString("auth.token") != "" && (creds == nil || creds.AccessToken != config.GetString("auth.token")):
		output.PrintInfo("Using token from configuration")
	case creds == nil:
		output.PrintWarning("Not logged in. Run `auth token` with the token from your account page.")
		return nil
	case creds.IsExpired():
		output.PrintWarning("Stored token expired at %s", creds.ExpiresAt.Local().Format(time.RFC1123))
		return nil
	default:
		output.PrintInfo("Token saved %s", creds.SavedAt.Local().Format(time.RFC1123))
	}

	if _, err := api.GetLists(1, 1); err != nil {
		if api.IsUnauthorized(err) {
			return clierrors.AuthError("the server rejected the stored token")
		}
		return err
	}

	output.PrintSuccess("Authenticated against %s", config.GetString("api.base_url"))
	return nil
}

// LoadStoredToken hands a valid stored token to the HTTP client unless
// one is configured already.
func LoadStoredToken() {
	if config.GetString("auth.token") != "" {
		return
	}

	creds, err := credentials.Load()
	if err != nil {
		logger.Warn("Could not read credentials", "error", err)
		return
	}
	if creds == nil || !creds.IsValid() {
		return
	}

	config.Set("auth.token", creds.AccessToken)
}
