// Package notifier is the HTTP client for the NFT minting service.
//
// The client makes exactly one attempt per call. Timeouts come from the
// underlying http.Client; a timed-out or refused call is returned like any
// other failure.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ecocycle/recycle-api/internal/domain"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// ErrNotConfigured is returned by Mint when no base URL was configured.
var ErrNotConfigured = errors.New("notifier: minting service URL not configured")

// StatusError reports a non-2xx answer from the minting service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("notifier: minting service returned %d: %s", e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the minting service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New constructs a Client. A zero Timeout defaults to 10 seconds.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type mintRequest struct {
	ReportID    string  `json:"reportId"`
	SubmitterID string  `json:"submitterId"`
	Material    string  `json:"material"`
	WeightKg    float64 `json:"weightKg"`
}

// Mint asks the minting service to mint a token for an audited report and
// returns the transaction hash it reports. The hash is read from either
// "txHash" or "result.txHash" in the response.
func (c *Client) Mint(ctx context.Context, report domain.Report) (domain.MintReceipt, error) {
	if c.baseURL == "" {
		return domain.MintReceipt{}, ErrNotConfigured
	}

	body, err := json.Marshal(mintRequest{
		ReportID:    report.ID,
		SubmitterID: report.SubmitterID,
		Material:    report.Material,
		WeightKg:    report.WeightKg,
	})
	if err != nil {
		return domain.MintReceipt{}, fmt.Errorf("notifier.Client.Mint: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mint", bytes.NewReader(body))
	if err != nil {
		return domain.MintReceipt{}, fmt.Errorf("notifier.Client.Mint: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.MintReceipt{}, fmt.Errorf("notifier.Client.Mint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.MintReceipt{}, fmt.Errorf("notifier.Client.Mint: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.MintReceipt{}, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	hash := gjson.GetBytes(raw, "txHash")
	if !hash.Exists() {
		hash = gjson.GetBytes(raw, "result.txHash")
	}
	if hash.String() == "" {
		return domain.MintReceipt{}, fmt.Errorf("notifier.Client.Mint: response has no txHash")
	}
	return domain.MintReceipt{ReportID: report.ID, TxHash: hash.String()}, nil
}
