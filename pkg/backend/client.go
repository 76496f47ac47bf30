// Package backend is the HTTP client for the off-chain donation ledger API.
// Writes to it are best-effort mirrors of confirmed on-chain state: the chain
// always wins, so callers log failures instead of propagating them.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/givechain/donation-middleware/pkg/config"
)

// DonationEntry is the payload posted to /api/donations.
type DonationEntry struct {
	CampaignID      int64  `json:"campaignId"`
	Amount          string `json:"amount"`
	Donor           string `json:"donor"`
	TransactionHash string `json:"transactionHash"`
	IsBlockchain    bool   `json:"isBlockchain"`
	Status          string `json:"status"`
	IdempotencyKey  string `json:"idempotencyKey"`
}

// Donation is a donation row as returned by the backend.
type Donation struct {
	ID              string `json:"_id"`
	CampaignID      int64  `json:"campaignId"`
	Amount          string `json:"amount"`
	Donor           string `json:"donor"`
	TransactionHash string `json:"transactionHash"`
	IsBlockchain    bool   `json:"isBlockchain"`
	Status          string `json:"status"`
}

// Client talks to the backend donation ledger.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a backend client from config.
func NewClient(cfg *config.BackendConfig, logger *zap.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Enabled reports whether a backend URL is configured. Deployments without a
// backend simply skip the mirror step.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// RecordDonation mirrors a confirmed donation to the backend ledger. The
// idempotency key is generated here when the entry carries none, so retried
// mirrors of the same confirmation do not double-count server side.
func (c *Client) RecordDonation(ctx context.Context, entry DonationEntry) error {
	if entry.IdempotencyKey == "" {
		entry.IdempotencyKey = uuid.NewString()
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode donation entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/donations", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build donation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post donation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend rejected donation: status=%d body=%s", resp.StatusCode, string(payload))
	}

	c.logger.Debug("Mirrored donation to backend",
		zap.Int64("campaign_id", entry.CampaignID),
		zap.String("tx_hash", entry.TransactionHash))
	return nil
}

// ListDonations fetches all backend donation rows.
func (c *Client) ListDonations(ctx context.Context) ([]Donation, error) {
	return c.getDonations(ctx, c.baseURL+"/api/donations")
}

// ListCampaignDonations fetches backend donation rows for one campaign.
func (c *Client) ListCampaignDonations(ctx context.Context, campaignID int64) ([]Donation, error) {
	return c.getDonations(ctx, fmt.Sprintf("%s/api/donations/campaign/%d", c.baseURL, campaignID))
}

func (c *Client) getDonations(ctx context.Context, url string) ([]Donation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build donations request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get donations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var donations []Donation
	if err := json.NewDecoder(resp.Body).Decode(&donations); err != nil {
		return nil, fmt.Errorf("decode donations: %w", err)
	}
	return donations, nil
}
