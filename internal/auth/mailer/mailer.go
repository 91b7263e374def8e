// Package mailer sends the account confirmation email.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
)

// ErrInvalidMessage is returned for messages missing a sender or recipient.
var ErrInvalidMessage = errors.New("mailer: invalid message")

// Message is a single HTML email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

func (m Message) validate() error {
	if m.From == "" || m.To == "" {
		return fmt.Errorf("%w: from and to are required", ErrInvalidMessage)
	}
	return nil
}

// Sender delivers messages. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConfirmSubject is the subject line of confirmation emails.
const ConfirmSubject = "Confirm Account"

//go:embed templates/*.html
var templateFS embed.FS

var confirmTmpl = template.Must(template.ParseFS(templateFS, "templates/confirm_account.html"))

// ConfirmAccount renders the confirmation email carrying otp.
func ConfirmAccount(from, to, otp string) (Message, error) {
	var buf bytes.Buffer
	if err := confirmTmpl.Execute(&buf, struct{ OTP string }{OTP: otp}); err != nil {
		return Message{}, fmt.Errorf("mailer: render confirmation: %w", err)
	}
	return Message{
		From:    from,
		To:      to,
		Subject: ConfirmSubject,
		HTML:    buf.String(),
	}, nil
}
