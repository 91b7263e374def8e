package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/mailer"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/pkg/cryptox"
	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
	"github.com/aussiebroadwan/otpauth/pkg/tracex"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aussiebroadwan/otpauth/internal/auth/service"

// AccountService runs registration, login and email confirmation.
type AccountService struct {
	Store    store.Store
	Mailer   mailer.Sender
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
	MailFrom string

	// Now defaults to time.Now.
	Now func() time.Time
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginInput struct {
	Email    string
	Password string
}

type VerifyOTPInput struct {
	Email string
	OTP   string
}

// LoginResult is the profile of the logged-in user plus a session token.
type LoginResult struct {
	domain.Profile
	Token string `json:"token"`
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AccountService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracex.Tracer(tracerName).Start(ctx, "AccountService."+name)
}

// endSpan records err on span. Validation and unauthorized outcomes are not
// span errors.
func endSpan(span trace.Span, err error) {
	if _, ok := IsDependency(err); ok {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Register validates and sanitizes the input, mails a confirmation code and
// only then creates the unconfirmed user.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (_ domain.Profile, err error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer func() { endSpan(span, err) }()
	log := slogx.FromContext(ctx)

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	var errs ValidationErrors
	validateName(&errs, "firstName", firstName, msgFirstNameRequired, msgFirstNameAlnum)
	validateName(&errs, "lastName", lastName, msgLastNameRequired, msgLastNameAlnum)
	if validateEmailSyntax(&errs, email) {
		exists, err := s.Store.Users().EmailExists(ctx, sanitize(email))
		if err != nil {
			return domain.Profile{}, dependency("check email", err)
		}
		if exists {
			errs.add("email", msgEmailInUse)
		}
	}
	validatePasswordLength(&errs, password)
	if err := errs.orNil(); err != nil {
		return domain.Profile{}, err
	}

	// Mail goes to the address as typed; the store keeps the escaped form.
	mailTo := email
	firstName, lastName = sanitize(firstName), sanitize(lastName)
	email, password = sanitize(email), sanitize(password)

	otp, err := cryptox.GenerateOTP(cryptox.ConfirmOTPDigits)
	if err != nil {
		return domain.Profile{}, dependency("generate otp", err)
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Profile{}, dependency("hash password", err)
	}

	if err := s.sendConfirmation(ctx, mailTo, otp); err != nil {
		return domain.Profile{}, err
	}

	u, err := s.Store.Users().CreateUser(ctx, domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		IsConfirmed:  false,
		ConfirmOTP:   &otp,
		Status:       true,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Profile{}, ValidationErrors{{Field: "email", Message: msgEmailInUse}}
		}
		return domain.Profile{}, dependency("create user", err)
	}

	span.SetAttributes(attribute.String("user.id", u.ID))
	log.Info("user registered", "user_id", u.ID)
	return u.Profile(), nil
}

// Login checks existence, password, confirmation and active status, in that
// order, and issues a session token.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (_ LoginResult, err error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer func() { endSpan(span, err) }()

	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	var errs ValidationErrors
	validateEmailSyntax(&errs, email)
	validateRequired(&errs, "password", password, msgPasswordRequired)
	if err := errs.orNil(); err != nil {
		return LoginResult{}, err
	}
	email, password = sanitize(email), sanitize(password)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, dependency("get user", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, dependency("verify password", err)
	}
	if !u.IsConfirmed {
		return LoginResult{}, ErrAccountNotConfirmed
	}
	if !u.Status {
		return LoginResult{}, ErrAccountNotActive
	}

	claims := jwtx.NewUserClaims(u.ID, u.FirstName, u.LastName, u.Email, s.Issuer, s.TokenTTL, s.now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return LoginResult{}, dependency("sign token", err)
	}

	span.SetAttributes(attribute.String("user.id", u.ID))
	slogx.FromContext(ctx).Info("user logged in", "user_id", u.ID)
	return LoginResult{Profile: u.Profile(), Token: token}, nil
}

// VerifyOTP confirms the account when otp matches the pending code. The
// store update is conditional on the code still being pending.
func (s *AccountService) VerifyOTP(ctx context.Context, in VerifyOTPInput) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer func() { endSpan(span, err) }()

	email := strings.TrimSpace(in.Email)
	otp := strings.TrimSpace(in.OTP)

	var errs ValidationErrors
	validateEmailSyntax(&errs, email)
	validateRequired(&errs, "otp", otp, msgOTPRequired)
	if err := errs.orNil(); err != nil {
		return err
	}
	email, otp = sanitize(email), sanitize(otp)

	u, err := s.lookupUnconfirmed(ctx, email)
	if err != nil {
		return err
	}
	if u.ConfirmOTP == nil || !cryptox.EqualOTP(*u.ConfirmOTP, otp) {
		return ErrOTPMismatch
	}

	if err := s.Store.Users().ConfirmUser(ctx, u.ID, otp); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrEmailNotFound
		case errors.Is(err, store.ErrConflict):
			// Lost to a concurrent verify or resend.
			return s.conflictOutcome(ctx, u.ID)
		}
		return dependency("confirm user", err)
	}

	slogx.FromContext(ctx).Info("account confirmed", "user_id", u.ID)
	return nil
}

// ResendOTP mails a fresh code to an unconfirmed account and replaces the
// pending one.
func (s *AccountService) ResendOTP(ctx context.Context, rawEmail string) (err error) {
	ctx, span := s.startSpan(ctx, "ResendOTP")
	defer func() { endSpan(span, err) }()

	email := strings.TrimSpace(rawEmail)

	var errs ValidationErrors
	validateEmailSyntax(&errs, email)
	if err := errs.orNil(); err != nil {
		return err
	}
	mailTo := email
	email = sanitize(email)

	u, err := s.lookupUnconfirmed(ctx, email)
	if err != nil {
		return err
	}

	otp, err := cryptox.GenerateOTP(cryptox.ConfirmOTPDigits)
	if err != nil {
		return dependency("generate otp", err)
	}
	if err := s.sendConfirmation(ctx, mailTo, otp); err != nil {
		return err
	}

	if err := s.Store.Users().SetConfirmOTP(ctx, u.ID, otp); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrEmailNotFound
		case errors.Is(err, store.ErrConflict):
			return ErrAlreadyConfirmed
		}
		return dependency("store otp", err)
	}

	slogx.FromContext(ctx).Info("confirmation code resent", "user_id", u.ID)
	return nil
}

// Profile returns the public profile of an authenticated user.
func (s *AccountService) Profile(ctx context.Context, userID string) (_ domain.Profile, err error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer func() { endSpan(span, err) }()

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrUserNotFound
		}
		return domain.Profile{}, dependency("get user", err)
	}
	return u.Profile(), nil
}

func (s *AccountService) lookupUnconfirmed(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrEmailNotFound
		}
		return domain.User{}, dependency("get user", err)
	}
	if u.IsConfirmed {
		return domain.User{}, ErrAlreadyConfirmed
	}
	return u, nil
}

func (s *AccountService) conflictOutcome(ctx context.Context, userID string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmailNotFound
		}
		return dependency("get user", err)
	}
	if u.IsConfirmed {
		return ErrAlreadyConfirmed
	}
	return ErrOTPMismatch
}

func (s *AccountService) sendConfirmation(ctx context.Context, email, otp string) error {
	msg, err := mailer.ConfirmAccount(s.MailFrom, email, otp)
	if err != nil {
		return dependency("render mail", err)
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return dependency("send mail", err)
	}
	return nil
}
