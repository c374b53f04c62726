package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Sender performs one delivery attempt. Implementations may block; they
// always run outside ledger transactions and locks.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// WebhookSender delivers notifications as JSON POSTs to a configured URL.
type WebhookSender struct {
	url    string
	client *http.Client
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		url: url,
		// Slow receivers must not pile up worker goroutines.
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *WebhookSender) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes notifications to the application log. Used when no
// webhook URL is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, n Notification) error {
	log.Printf("notify wallet %d: received %s from wallet %d (group %s)",
		n.RecipientID, n.Amount.StringFixed(2), n.SenderID, n.GroupID)
	return nil
}
