// Package auth implements the Google sign-in code flow: redirect out with a
// state nonce, exchange the callback code, and resolve the verified email
// and display name through the userinfo endpoint.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Identity is the provider-verified pair used to map a token to a user.
type Identity struct {
	Email string
	Name  string
}

var ErrNoEmail = errors.New("identity provider returned no email")

type GoogleAuthenticator struct {
	cfg *oauth2.Config
}

func NewGoogleAuthenticator(clientID, clientSecret, redirectURL string) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL returns the provider redirect URL carrying the state nonce.
func (g *GoogleAuthenticator) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and reads the userinfo
// record. Every failure path is a single error; callers redirect back to
// login rather than rendering it.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("token exchange: %w", err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(g.cfg.TokenSource(ctx, tok)))
	if err != nil {
		return Identity{}, fmt.Errorf("userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return Identity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Email == "" {
		return Identity{}, ErrNoEmail
	}

	return Identity{Email: info.Email, Name: info.Name}, nil
}

// NewState returns a random nonce for the oauth state parameter.
func NewState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("st_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
