// Package espocrm is a minimal client for the EspoCRM REST API. Only the
// invoice partial-update surface is implemented; the CRM owns everything
// else about the records.
package espocrm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response from the CRM. The body text is kept for
// logs and operator-facing messages.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("espocrm update failed (%d): %s", e.StatusCode, e.Body)
}

// SetPaymentLink records the payment link URL on the invoice. Partial
// update: no other invoice fields are read or written.
func (c *Client) SetPaymentLink(ctx context.Context, invoiceID, url string) error {
	return c.patchInvoice(ctx, invoiceID, map[string]any{
		"stripePaymentLink": url,
	})
}

// MarkInvoicePaid sets status=Paid and the payment method. A pure overwrite
// of two fields, so repeated application is harmless.
func (c *Client) MarkInvoicePaid(ctx context.Context, invoiceID, paymentMethod string) error {
	return c.patchInvoice(ctx, invoiceID, map[string]any{
		"status":        "Paid",
		"paymentMethod": paymentMethod,
	})
}

func (c *Client) patchInvoice(ctx context.Context, invoiceID string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/Invoice/%s", c.baseURL, invoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("espocrm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	return nil
}

// Ping checks reachability and API-key validity by fetching the current
// API user. Used by the checkconfig tool.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/App/user", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("espocrm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	return nil
}
