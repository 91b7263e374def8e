package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session represents a logged in user.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
	profile     Profile
}

// newSession reads the expiry and identity from the token without verifying
// the signature; the service verifies it on every authenticated request.
func newSession(client *SDKClient, token string, profile Profile) (*Session, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	if profile.ID == "" {
		profile = Profile{
			ID:        claims.Subject,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Email:     claims.Email,
		}
	}

	s := &Session{
		client:      client,
		accessToken: token,
		profile:     profile,
	}
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// AccessToken returns the bearer token of this session.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// ExpiresAt is the zero time when the token carries no expiry.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Expired reports whether the token has passed its expiry.
func (s *Session) Expired() bool {
	exp := s.ExpiresAt()
	return !exp.IsZero() && time.Now().After(exp)
}

// User returns the identity captured at login.
func (s *Session) User() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// GetProfile fetches the current user from the service and refreshes User.
func (s *Session) GetProfile(ctx context.Context) (*Profile, error) {
	if s.Expired() {
		return nil, ErrSessionExpired
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/profile", nil, nil)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := decodeEnvelope(resp, http.StatusOK, &profile); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()

	return &profile, nil
}
