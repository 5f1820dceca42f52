package affiliate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"incentoro/internal/domain/ports/adapter"
)

var _ adapter.AffiliateNetwork = (*PartnerStackClient)(nil)

// PartnerStackClient pulls transactions from the PartnerStack REST API.
// Amounts arrive in cents.
type PartnerStackClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewPartnerStackClient(apiKey, baseURL string, logger zerolog.Logger) (*PartnerStackClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("partnerstack api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.partnerstack.com/v1"
	}
	return &PartnerStackClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logger.With().Str("component", "partnerstack").Logger(),
	}, nil
}

func (c *PartnerStackClient) Name() string { return "partnerstack" }

type psTransaction struct {
	Key           string `json:"key"`
	Status        string `json:"status"`
	AmountCents   int64  `json:"amount"`
	RewardCents   int64  `json:"reward_amount"`
	CustomerEmail string `json:"customer_email"`
	CreatedAtMS   int64  `json:"created_at"`
}

type psListResponse struct {
	Data struct {
		Items []psTransaction `json:"items"`
	} `json:"data"`
}

// ListTransactions fetches the transaction feed, retrying transient failures
// with exponential backoff. Rate-limit and 5xx responses are retryable;
// anything else fails the sync run.
func (c *PartnerStackClient) ListTransactions(ctx context.Context) ([]adapter.NetworkTransaction, error) {
	var out []adapter.NetworkTransaction

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		txs, err := c.fetchPage(ctx)
		if err != nil {
			return err
		}
		out = txs
		return nil
	})
	return out, err
}

func (c *PartnerStackClient) fetchPage(ctx context.Context) ([]adapter.NetworkTransaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transactions", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		c.log.Warn().Int("status", resp.StatusCode).Msg("transient partnerstack response, retrying")
		return nil, retry.RetryableError(fmt.Errorf("partnerstack: status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("partnerstack: status %d: %s", resp.StatusCode, snippet)
	}

	var body psListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("partnerstack: decode response: %w", err)
	}

	out := make([]adapter.NetworkTransaction, 0, len(body.Data.Items))
	for _, item := range body.Data.Items {
		out = append(out, adapter.NetworkTransaction{
			ID:            item.Key,
			Status:        item.Status,
			Amount:        decimal.New(item.AmountCents, -2),
			Commission:    decimal.New(item.RewardCents, -2),
			CustomerEmail: item.CustomerEmail,
			CreatedAt:     time.UnixMilli(item.CreatedAtMS).UTC(),
		})
	}
	return out, nil
}
