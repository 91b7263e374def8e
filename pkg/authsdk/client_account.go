package authsdk

import (
	"context"
	"net/http"
)

// Register creates an unconfirmed account. The confirmation code is emailed
// to req.Email.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Profile, error) {
	var profile Profile
	if err := c.postJSON(ctx, "/register", req, http.StatusCreated, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// VerifyOTP confirms the account for email with the emailed code.
func (c *SDKClient) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.postJSON(ctx, "/verify-otp", verifyOTPRequest{Email: email, OTP: otp}, http.StatusOK, nil)
}

// ResendOTP replaces the confirmation code of an unconfirmed account and
// emails the new one.
func (c *SDKClient) ResendOTP(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/resend-verify-otp", resendOTPRequest{Email: email}, http.StatusOK, nil)
}

// Login exchanges credentials for a Session.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var res loginResult
	req := loginRequest{Email: email, Password: password}
	if err := c.postJSON(ctx, "/login", req, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return newSession(c, res.Token, res.Profile)
}
