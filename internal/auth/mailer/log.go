package mailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/otpauth/pkg/slogx"
)

// LogSender is a development sender. It writes each message to Out instead
// of delivering it, and logs only the envelope.
type LogSender struct {
	mu  sync.Mutex
	Out io.Writer
}

func NewLogSender(out io.Writer) *LogSender {
	return &LogSender{Out: out}
}

func (s *LogSender) Send(ctx context.Context, m Message) error {
	if err := m.validate(); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("mail not delivered, smtp disabled",
		slog.String("to", m.To),
		slog.String("subject", m.Subject),
	)

	if s.Out == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.Out, "From: %s\nTo: %s\nSubject: %s\n\n%s\n", m.From, m.To, m.Subject, m.HTML)
	return err
}
