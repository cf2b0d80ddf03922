// Package business is the client for the downstream service that persists
// reservations and orders.
package business

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

	"callbridge/internal/observability"
	"callbridge/internal/retry"
)

var (
	ErrUnreachable        = errors.New("business service unreachable")
	ErrUnexpectedResponse = errors.New("unexpected business service response")
)

// Action names understood by the business service.
const (
	ActionCreateReservation = "create_reservation"
	ActionCreateOrder       = "create_order"
	ActionMenuLookup        = "menu_lookup"
)

type request struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

// Result is the normalised reply of the business service.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Served  string          `json:"-"`
}

type rawResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// Client posts actions to the primary endpoint and falls back to the legacy one
// when the primary cannot be reached.
type Client struct {
	primaryURL string
	legacyURL  string
	httpClient *http.Client
	policy     retry.Policy
	logger     *observability.Logger
}

func NewClient(primaryURL, legacyURL string, timeout time.Duration, logger *observability.Logger) *Client {
	return &Client{
		primaryURL: primaryURL,
		legacyURL:  legacyURL,
		httpClient: &http.Client{Timeout: timeout},
		policy:     retry.SingleFallback(logger, IsUnreachable),
		logger:     logger,
	}
}

// IsUnreachable reports whether err means the request never got a usable answer.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// Do runs one action. A non-nil error means neither endpoint produced an answer.
func (c *Client) Do(ctx context.Context, action string, data interface{}) (Result, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "business_action", Value: action})

	payload, err := json.Marshal(request{Action: action, Data: data})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal business request: %w", err)
	}

	var result Result
	targets := []retry.Target{{
		Name: "primary",
		Do: func(ctx context.Context) error {
			result, err = c.post(ctx, c.primaryURL, payload)
			return err
		},
	}}
	if c.legacyURL != "" {
		targets = append(targets, retry.Target{
			Name: "legacy",
			Do: func(ctx context.Context) error {
				result, err = c.post(ctx, c.legacyURL, payload)
				return err
			},
		})
	}

	served, runErr := c.policy.Run(ctx, targets...)
	if runErr != nil {
		c.logger.Error(ctx, "business action failed", runErr)
		return Result{}, runErr
	}
	result.Served = served
	return result, nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to read response: %v", ErrUnreachable, err)
	}

	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return Result{}, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	var raw rawResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result{}, fmt.Errorf("%w: status %d: %v", ErrUnexpectedResponse, resp.StatusCode, err)
	}
	return normalise(raw, resp.StatusCode), nil
}

// normalise folds the service's loose error shapes into one string and treats
// non-2xx replies as failures whatever the body says.
func normalise(raw rawResult, status int) Result {
	result := Result{Success: raw.Success && status >= 200 && status < 300, Data: raw.Data}
	if result.Success {
		return result
	}

	result.Error = errorText(raw.Error)
	if result.Error == "" {
		result.Error = raw.Message
	}
	if result.Error == "" {
		result.Error = fmt.Sprintf("request failed with status %d", status)
	}
	return result
}

func errorText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	return strings.TrimSpace(string(raw))
}
