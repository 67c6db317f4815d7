// ABOUTME: Nevermined tip payment client, ordering the cli-saver plan over HTTP
// ABOUTME: Best-effort: callers log failures and never let them abort the pipeline

package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	internalhttp "github.com/mauromedda/cli-saver/internal/http"
)

const (
	defaultBaseURL = "https://api.nevermined.app/v1"

	// tipPlanDID is the cli-saver tip plan created on the Nevermined dashboard.
	tipPlanDID = "did:nv:cli-saver-tip-plan"
)

// Client orders the one-cent tip plan on behalf of the user.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient returns a payment client for the given API key. The key format
// is "address:key" as issued by Nevermined.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    internalhttp.SecureHTTPClient(10 * time.Second),
	}
}

// OrderTip places a one-cent plan order. Returns an error when the key is
// missing or malformed, or when the API rejects the order.
func (c *Client) OrderTip(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("nevermined not configured")
	}
	if !strings.Contains(c.apiKey, ":") {
		return fmt.Errorf("nevermined api key malformed: expected address:key format")
	}

	body, err := json.Marshal(map[string]string{
		"plan_did": tipPlanDID,
		"app_id":   "cli-saver",
	})
	if err != nil {
		return fmt.Errorf("marshaling order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/plans/order", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ordering tip plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("ordering tip plan: unexpected status %s", resp.Status)
	}
	return nil
}
