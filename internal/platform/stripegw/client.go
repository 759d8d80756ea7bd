// Package stripegw is a thin client for the Stripe REST API covering the
// calls this service needs: customers, payment intents and refunds. Requests
// are form-encoded and authenticated with the secret key, per Stripe's API
// conventions.
package stripegw

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	ports "github.com/CoWorkHub/coworking_booking_app/internal/core/ports/services"
)

const apiBase = "https://api.stripe.com/v1"

// Client calls the Stripe API. The zero value is not usable; construct with
// NewClient.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

var _ ports.PaymentProvider = (*Client)(nil)

// NewClient builds a Stripe client with the given secret key.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   apiBase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError is the error envelope Stripe returns on non-2xx responses.
type apiError struct {
	Err struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Error is a failed Stripe API call.
type Error struct {
	Status  int
	Type    string
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("stripe: %s (status %d, type %s)", e.Message, e.Status, e.Type)
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope apiError
		_ = json.Unmarshal(body, &envelope)
		return &Error{
			Status:  resp.StatusCode,
			Type:    envelope.Err.Type,
			Code:    envelope.Err.Code,
			Message: envelope.Err.Message,
		}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode stripe response: %w", err)
		}
	}
	return nil
}

// CreateCustomer registers a customer and returns the Stripe customer ID.
func (c *Client) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)

	var customer struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/customers", form, &customer); err != nil {
		return "", err
	}
	return customer.ID, nil
}

// CreatePaymentIntent opens a payment intent for amountMinor in the given
// currency, attached to the customer.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string, customerID string, metadata map[string]string) (*ports.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", strings.ToLower(currency))
	if customerID != "" {
		form.Set("customer", customerID)
	}
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	var intent struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := c.post(ctx, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &ports.PaymentIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// CreateRefund refunds amountMinor from the payment intent; zero means the
// full charge. Returns the refund ID.
func (c *Client) CreateRefund(ctx context.Context, paymentIntentID string, amountMinor int64, reason string) (string, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)
	if amountMinor > 0 {
		form.Set("amount", strconv.FormatInt(amountMinor, 10))
	}
	if reason != "" {
		form.Set("metadata[reason]", reason)
	}

	var refund struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/refunds", form, &refund); err != nil {
		return "", err
	}
	return refund.ID, nil
}
