package checkoutform

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"paylink/internal/models"
)

// CheckoutAPI is the part of the server API the form talks to.
type CheckoutAPI interface {
	CreateCheckout(ctx context.Context, req models.CreateCheckoutRequest) (*models.CreateCheckoutResponse, error)
	SessionStatus(ctx context.Context, sessionID string) (*models.SessionStatusResponse, error)
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("server returned %d", e.StatusCode)
	}
	if e.Details != "" {
		return msg + ": " + e.Details
	}
	return msg
}

type APIClient struct {
	client *resty.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (c *APIClient) CreateCheckout(ctx context.Context, req models.CreateCheckoutRequest) (*models.CreateCheckoutResponse, error) {
	var out models.CreateCheckoutResponse
	apiErr := &APIError{}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		SetError(apiErr).
		Post("/api/create-checkout")
	if err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return nil, apiErr
	}
	if out.URL == "" {
		return nil, fmt.Errorf("create checkout: response without url")
	}
	return &out, nil
}

func (c *APIClient) SessionStatus(ctx context.Context, sessionID string) (*models.SessionStatusResponse, error) {
	var out models.SessionStatusResponse
	apiErr := &APIError{}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("session_id", sessionID).
		SetResult(&out).
		SetError(apiErr).
		Get("/api/session-status")
	if err != nil {
		return nil, fmt.Errorf("session status: %w", err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return nil, apiErr
	}
	return &out, nil
}
