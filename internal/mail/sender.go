// Package mail sends customs correspondence over an SMTP relay and
// builds prefilled mail drafts for the desktop mail client.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the relay configuration.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// FromName is the display name on outgoing mail; the address is
	// always the authenticated account.
	FromName string
}

// ConfigFromEnv reads the SMTP configuration from environment variables.
func ConfigFromEnv() SMTPConfig {
	cfg := SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     587,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		FromName: "Ausfuhr",
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("SMTP_FROM_NAME"); v != "" {
		cfg.FromName = v
	}
	return cfg
}

// Attachment is a named file body for outgoing mail.
type Attachment struct {
	Name    string
	Content []byte
}

// Sender delivers mail through the configured SMTP relay.
type Sender struct {
	cfg SMTPConfig
}

// NewSender creates a new SMTP sender.
func NewSender(cfg SMTPConfig) (*Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is not configured")
	}
	return &Sender{cfg: cfg}, nil
}

// Send delivers a plain-text mail with the given attachments. The relay
// speaks STARTTLS on the submission port.
func (s *Sender) Send(ctx context.Context, to, subject, text string, attachments []Attachment) error {
	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.Username); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)

	for _, a := range attachments {
		if err := msg.AttachReader(a.Name, bytes.NewReader(a.Content)); err != nil {
			return fmt.Errorf("attach %s: %w", a.Name, err)
		}
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
