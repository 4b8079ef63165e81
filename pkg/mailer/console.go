package mailer

import (
	"context"
	"sync"

	"skillify_backend/pkg/logger"

	"go.uber.org/zap"
)

// ConsoleSender logs messages instead of delivering them and keeps a copy of
// everything sent.
type ConsoleSender struct {
	mu   sync.Mutex
	sent []Message
}

func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{}
}

func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	logger.Log.Info("Email (console)",
		zap.String("to", msg.To.String()),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

func (s *ConsoleSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
