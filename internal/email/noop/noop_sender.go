package noop

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"remitra/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates a no-op EmailSender that logs reset URLs to stdout.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendPasswordResetEmail(_ context.Context, toEmail, toName, resetToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(resetToken))
	log.Printf("[NOOP EMAIL] Password reset for %s (%s): %s", toName, toEmail, resetURL)
	return nil
}
