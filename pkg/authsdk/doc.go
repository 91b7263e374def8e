/*
Package authsdk provides a client SDK for the otpauth service.

# Overview

SDKClient covers the public endpoints: registration, email confirmation and
login. A successful login returns a Session which carries the signed session
token and performs authenticated requests with it.

	client := authsdk.NewSDKClient("https://auth.example.com")

	profile, err := client.Register(ctx, authsdk.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "secret1",
	})

	// The 4 digit code arrives by email.
	err = client.VerifyOTP(ctx, "ada@example.com", code)

	session, err := client.Login(ctx, "ada@example.com", "secret1")
	me, err := session.GetProfile(ctx)

# Error Handling

Every non-2xx response is returned as an *APIError holding the status code,
the envelope message and, for validation failures, the per-field messages:

	_, err := client.Register(ctx, req)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.IsValidation() {
		for _, f := range apiErr.Fields {
			fmt.Printf("%s: %s\n", f.Field, f.Message)
		}
	}

# Sessions

Tokens are not refreshed; once ExpiresAt has passed a new Login is required.
Sessions are safe for concurrent use.
*/
package authsdk
