package billing

import (
	"context"
	"net/http"
)

type CreateLinkRequest struct {
	InvoiceID   string
	AmountCents int64
	Currency    string
	Description string
}

type CreateLinkResponse struct {
	PriceID       string
	PaymentLinkID string
	URL           string
}

type WebhookEvent struct {
	EventID string
	Type    string // checkout.session.completed|payment_intent.succeeded|...

	// Metadata of the nested payment/session object. Carries the
	// correlation id back to the invoice.
	Metadata map[string]string
}

type Provider interface {
	Name() string
	CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (CreateLinkResponse, error)

	// Webhook: verify signature + parse event
	VerifyAndParseWebhook(headers http.Header, body []byte) (WebhookEvent, error)
}

// InvoiceUpdater is the CRM-side write surface. Updates are partial
// (PATCH semantics): only the named fields are touched.
type InvoiceUpdater interface {
	SetPaymentLink(ctx context.Context, invoiceID, url string) error
	MarkInvoicePaid(ctx context.Context, invoiceID, paymentMethod string) error
}
