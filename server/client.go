package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client queries another riskgate instance's read surface. It satisfies
// risk.BuyingPowerSource; callers own the fallback when it errors or times
// out.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 2 * time.Second},
	}
}

func (c *Client) QueryBuyingPower(ctx context.Context, sessionID string) (float64, error) {
	u := fmt.Sprintf("%s/api/sessions/%s/buying-power", c.base, url.PathEscape(sessionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("buying power query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("buying power query: status %d", resp.StatusCode)
	}

	var body struct {
		BuyingPower float64 `json:"buying_power"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode buying power: %w", err)
	}
	return body.BuyingPower, nil
}
