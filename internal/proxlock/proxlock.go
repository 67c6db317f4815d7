// ABOUTME: Proxlock remote key-value client for saving surfaced deals
// ABOUTME: Best-effort: a missing key or failed request is not an error path for callers

package proxlock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	internalhttp "github.com/mauromedda/cli-saver/internal/http"
	"github.com/mauromedda/cli-saver/internal/seed"
)

const defaultBaseURL = "https://api.proxlock.dev/v1"

// Client saves found deals to the user's Proxlock vault.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient returns a Proxlock client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    internalhttp.SecureHTTPClient(10 * time.Second),
	}
}

// SaveDeal stores a deal under the key "cli-saver:<package>" (falling back
// to the product name for unmapped deals). Skips silently when no API key
// is configured.
func (c *Client) SaveDeal(ctx context.Context, deal seed.Deal) error {
	if c.apiKey == "" {
		return nil
	}

	keyName := deal.PackageName
	if keyName == "" {
		keyName = deal.ProductName
	}

	value, err := json.Marshal(map[string]string{
		"product": deal.ProductName,
		"text":    deal.RawText,
	})
	if err != nil {
		return fmt.Errorf("marshaling deal: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"name":  "cli-saver:" + keyName,
		"value": string(value),
		"tags":  []string{"cli-saver", "discount-code"},
	})
	if err != nil {
		return fmt.Errorf("marshaling key request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/keys", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building key request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("saving deal to proxlock: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("saving deal to proxlock: unexpected status %s", resp.Status)
	}
	return nil
}
