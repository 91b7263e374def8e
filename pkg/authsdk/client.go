package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the otpauth service.
// It provides access to unauthenticated operations and creates Sessions on login.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSessionFromToken wraps a previously issued session token.
// This is useful when the token was stored by the caller between runs.
func (c *SDKClient) NewSessionFromToken(token string) (*Session, error) {
	return newSession(c, token, Profile{})
}
