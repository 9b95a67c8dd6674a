package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"text/template"
	"time"
)

// NotificationService delivers invitation emails. Callers treat delivery as
// fire-and-forget; a failed send never affects the invitation itself.
type NotificationService interface {
	SendInvitation(ctx context.Context, email, inviterName, acceptLink string) error
}

var invitationTemplate = template.Must(template.New("invitation").Parse(
	`{{.InviterName}} has invited you to join their team on QuoteGen.

Open the link below to set up your account. The invitation expires in 7 days.

{{.AcceptLink}}
`))

// NewNotificationService returns a webhook-backed sender, or a log-only
// sender when no endpoint is configured.
func NewNotificationService(endpoint string) NotificationService {
	if endpoint == "" {
		return &logNotificationService{}
	}
	return &webhookNotificationService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// webhookNotificationService hands the rendered message to the configured
// delivery provider.
type webhookNotificationService struct {
	endpoint string
	client   *http.Client
}

func (s *webhookNotificationService) SendInvitation(ctx context.Context, email, inviterName, acceptLink string) error {
	var body bytes.Buffer
	err := invitationTemplate.Execute(&body, map[string]string{
		"InviterName": inviterName,
		"AcceptLink":  acceptLink,
	})
	if err != nil {
		return fmt.Errorf("failed to render invitation message: %w", err)
	}

	payload, err := json.Marshal(map[string]string{
		"to":      email,
		"subject": fmt.Sprintf("%s invited you to QuoteGen", inviterName),
		"body":    body.String(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver invitation email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification provider returned status %d", resp.StatusCode)
	}
	return nil
}

// logNotificationService is the local-development sender.
type logNotificationService struct{}

func (s *logNotificationService) SendInvitation(ctx context.Context, email, inviterName, acceptLink string) error {
	log.Printf("Invitation for %s (invited by %s): %s", email, inviterName, acceptLink)
	return nil
}
