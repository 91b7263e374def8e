package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/otpauth/internal/auth/service"
	"github.com/aussiebroadwan/otpauth/pkg/httpx"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
)

// Success messages.
const (
	msgRegistered = "Registration Success."
	msgLoggedIn   = "Login Success."
	msgConfirmed  = "Account confirmed success."
	msgOTPResent  = "Confirm otp sent."
	msgProfile    = "Profile."
	msgBadBody    = "Request body is malformed."
)

// Body field names.
const (
	fieldBody     = "body"
	formFirstName = "firstName"
	formLastName  = "lastName"
	formEmail     = "email"
	formPassword  = "password"
	formOTP       = "otp"
)

// RegisterRequest documents the /register body. Bodies may be JSON or form encoded.
type RegisterRequest struct {
	FirstName string `json:"firstName" example:"Ada"`
	LastName  string `json:"lastName" example:"Lovelace"`
	Email     string `json:"email" example:"ada@example.com"`
	Password  string `json:"password" example:"secret1"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"secret1"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" example:"ada@example.com"`
	OTP   string `json:"otp" example:"0421"`
}

type ResendOTPRequest struct {
	Email string `json:"email" example:"ada@example.com"`
}

type AccountHandler struct {
	AccountService *service.AccountService
	ExposeErrors   bool
}

// Register godoc
//
//	@Summary		Register a new account
//	@Description	Creates an unconfirmed user and emails a 4 digit confirmation code.
//	@Tags			Account
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"New account"
//	@Success		201		{object}	httpx.Envelope{data=domain.Profile}
//	@Failure		400		{object}	httpx.Envelope{data=[]service.FieldError}
//	@Failure		500		{object}	httpx.Envelope
//	@Router			/register [post].
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	f, ok := h.readFields(w, r)
	if !ok {
		return
	}

	profile, err := h.AccountService.Register(r.Context(), service.RegisterInput{
		FirstName: f.Get(formFirstName),
		LastName:  f.Get(formLastName),
		Email:     f.Get(formEmail),
		Password:  f.Get(formPassword),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteSuccessData(w, http.StatusCreated, msgRegistered, profile)
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Checks credentials, confirmation and active status, then issues a session token.
//	@Tags			Account
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	httpx.Envelope{data=service.LoginResult}
//	@Failure		400		{object}	httpx.Envelope{data=[]service.FieldError}
//	@Failure		401		{object}	httpx.Envelope
//	@Failure		500		{object}	httpx.Envelope
//	@Router			/login [post].
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	f, ok := h.readFields(w, r)
	if !ok {
		return
	}

	res, err := h.AccountService.Login(r.Context(), service.LoginInput{
		Email:    f.Get(formEmail),
		Password: f.Get(formPassword),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteSuccessData(w, http.StatusOK, msgLoggedIn, res)
}

// VerifyOTP godoc
//
//	@Summary		Confirm an account
//	@Description	Confirms the account when the code matches the one last emailed.
//	@Tags			Account
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		VerifyOTPRequest	true	"Email and code"
//	@Success		200		{object}	httpx.Envelope
//	@Failure		400		{object}	httpx.Envelope{data=[]service.FieldError}
//	@Failure		401		{object}	httpx.Envelope
//	@Failure		500		{object}	httpx.Envelope
//	@Router			/verify-otp [post].
func (h *AccountHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	f, ok := h.readFields(w, r)
	if !ok {
		return
	}

	err := h.AccountService.VerifyOTP(r.Context(), service.VerifyOTPInput{
		Email: f.Get(formEmail),
		OTP:   f.Get(formOTP),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, msgConfirmed)
}

// ResendOTP godoc
//
//	@Summary		Resend the confirmation code
//	@Description	Emails a new code to an unconfirmed account. The previous code stops working.
//	@Tags			Account
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		ResendOTPRequest	true	"Email"
//	@Success		200		{object}	httpx.Envelope
//	@Failure		400		{object}	httpx.Envelope{data=[]service.FieldError}
//	@Failure		401		{object}	httpx.Envelope
//	@Failure		500		{object}	httpx.Envelope
//	@Router			/resend-verify-otp [post].
func (h *AccountHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	f, ok := h.readFields(w, r)
	if !ok {
		return
	}

	if err := h.AccountService.ResendOTP(r.Context(), f.Get(formEmail)); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, msgOTPResent)
}

// Profile godoc
//
//	@Summary		Current user
//	@Description	Returns the profile of the user the bearer token was issued to.
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	httpx.Envelope{data=domain.Profile}
//	@Failure		401	{object}	httpx.Envelope
//	@Failure		500	{object}	httpx.Envelope
//	@Router			/profile [get].
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.AccountService.Profile(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteSuccessData(w, http.StatusOK, msgProfile, profile)
}

func (h *AccountHandler) readFields(w http.ResponseWriter, r *http.Request) (httpx.Fields, bool) {
	f, err := httpx.ReadFields(w, r)
	if err != nil {
		slogx.FromContext(r.Context()).Debug("unreadable body", "err", err)
		httpx.WriteValidationError(w, service.ValidationErrors{{Field: fieldBody, Message: msgBadBody}})
		return nil, false
	}
	return f, true
}

// writeError maps workflow errors onto envelopes. Anything that is not a
// validation or unauthorized outcome is logged and reported as a 500.
func (h *AccountHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if verrs, ok := service.IsValidation(err); ok {
		httpx.WriteValidationError(w, verrs)
		return
	}
	if authErr, ok := service.IsUnauthorized(err); ok {
		httpx.WriteUnauthorized(w, authErr.Message)
		return
	}

	slogx.FromContext(r.Context()).Error("request failed", "err", err)

	msg := httpx.MsgInternalError
	var dep *service.DependencyError
	if h.ExposeErrors && errors.As(err, &dep) {
		msg = dep.Err.Error()
	}
	httpx.WriteError(w, msg)
}
