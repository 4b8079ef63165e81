// Package mailer delivers transactional email: OTP codes and admin messages.
package mailer

import (
	"context"
	"errors"
	"net/mail"

	"skillify_backend/internal/config"
)

var ErrNoRecipient = errors.New("mailer: message has no recipient")

type Message struct {
	To      mail.Address
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the sender named by cfg.Provider. Without an API key the console
// sender is used so local setups never need SendGrid.
func New(cfg *config.EmailConfig) Sender {
	if cfg.Provider == "sendgrid" && cfg.SendgridAPIKey != "" {
		return NewSendGridSender(cfg.SendgridAPIKey, cfg.FromName, cfg.FromAddress)
	}
	return NewConsoleSender()
}

func validate(msg Message) error {
	if msg.To.Address == "" {
		return ErrNoRecipient
	}
	return nil
}
