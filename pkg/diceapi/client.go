// Package diceapi provides a client for the dice rolling web API.
package diceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"rollingdice-go/internal/config"
	"rollingdice-go/internal/model"
	"rollingdice-go/pkg/log"
	"strings"
	"time"
)

const (
	rollPath = "/api/dice/v1/roll"
	listPath = "/api/dice/v1/list"
)

// ErrUnavailable is returned when the dice API answers with a 5xx status.
var ErrUnavailable = errors.New("dice api unavailable")

// Client is a client to the dice API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a new dice API client. host may be "host:port" or a full
// base URL; a bare host is called over plain http. A zero TimeoutSeconds
// leaves the request context as the only deadline.
func NewClient(cfg config.WebAPIConfig, transport http.RoundTripper) *Client {
	base := strings.TrimRight(cfg.Host, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: base,
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Roll calls POST /api/dice/v1/roll with the given query and optional body.
func (c *Client) Roll(ctx context.Context, query url.Values, body *model.DiceValue) (*model.DiceValue, error) {
	u := c.baseURL + rollPath
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal roll request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	log.Infof("[DiceAPIClient] Calling API is: URL='%s', Method='%s', Body='%s'", u, http.MethodPost, bodyString(body))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create roll request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	var result model.DiceValue
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// List calls GET /api/dice/v1/list.
func (c *Client) List(ctx context.Context) ([]model.DiceHistory, error) {
	u := c.baseURL + listPath
	log.Infof("[DiceAPIClient] Calling API is: URL='%s', Method='%s'", u, http.MethodGet)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var result []model.DiceHistory
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call dice api: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode dice api response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s, body: %s", ErrUnavailable, resp.Status, string(body))
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("bad request: %s", resp.Status)
	default:
		return nil
	}
}

func bodyString(body *model.DiceValue) string {
	if body == nil || body.Value == nil {
		return ""
	}
	return fmt.Sprintf(`{"value":%d}`, *body.Value)
}
