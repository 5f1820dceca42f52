package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"incentoro/internal/domain/ports/adapter"
)

var _ adapter.Mailer = (*ResendMailer)(nil)

const resendEndpoint = "https://api.resend.com/emails"

// ResendMailer delivers transactional mail through the Resend HTTP API.
type ResendMailer struct {
	apiKey string
	from   string
	client *http.Client
	log    zerolog.Logger
}

func NewResendMailer(apiKey, from string, logger zerolog.Logger) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key empty")
	}
	if from == "" {
		from = "Incentoro <notifications@incentoro.com>"
	}
	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logger.With().Str("component", "resend-mailer").Logger(),
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) SendClickTracking(ctx context.Context, email, toolName string) error {
	subject := fmt.Sprintf("We're tracking your cashback for %s", toolName)
	html := fmt.Sprintf(`
<h2>Cashback tracking started</h2>
<p>You just followed our link to <strong>%s</strong>.</p>
<p>If you complete a purchase, your cashback will appear as <em>pending</em> in your dashboard
and becomes withdrawable once the merchant confirms it.</p>
<p>&mdash; The Incentoro team</p>`, toolName)
	return m.send(ctx, email, subject, html)
}

func (m *ResendMailer) SendConfirmation(ctx context.Context, email string, amount decimal.Decimal, toolName string) error {
	subject := "Your cashback is now withdrawable"
	html := fmt.Sprintf(`
<h2>Cashback confirmed</h2>
<p>Your <strong>$%s</strong> cashback for <strong>%s</strong> has been confirmed
and is now withdrawable from your dashboard.</p>
<p>&mdash; The Incentoro team</p>`, amount.StringFixed(2), toolName)
	return m.send(ctx, email, subject, html)
}

func (m *ResendMailer) send(ctx context.Context, to, subject, html string) error {
	body, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		m.log.Warn().Int("status", resp.StatusCode).Str("to", to).Msg("resend rejected email")
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
