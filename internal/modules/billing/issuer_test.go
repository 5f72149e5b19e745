package billing_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/modules/billing"
)

type fakeProvider struct {
	mu        sync.Mutex
	created   []billing.CreateLinkRequest
	resp      billing.CreateLinkResponse
	createErr error

	verifyFn func(headers http.Header, body []byte) (billing.WebhookEvent, error)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) CreatePaymentLink(_ context.Context, req billing.CreateLinkRequest) (billing.CreateLinkResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	if f.createErr != nil {
		return billing.CreateLinkResponse{}, f.createErr
	}
	return f.resp, nil
}

func (f *fakeProvider) VerifyAndParseWebhook(headers http.Header, body []byte) (billing.WebhookEvent, error) {
	if f.verifyFn != nil {
		return f.verifyFn(headers, body)
	}
	return billing.WebhookEvent{}, errors.New("not configured")
}

type linkCall struct{ InvoiceID, URL string }
type paidCall struct{ InvoiceID, Method string }

type fakeUpdater struct {
	mu      sync.Mutex
	links   []linkCall
	paid    []paidCall
	linkErr error
	paidErr error
}

func (f *fakeUpdater) SetPaymentLink(_ context.Context, invoiceID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links = append(f.links, linkCall{invoiceID, url})
	return nil
}

func (f *fakeUpdater) MarkInvoicePaid(_ context.Context, invoiceID, method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paidErr != nil {
		return f.paidErr
	}
	f.paid = append(f.paid, paidCall{invoiceID, method})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIssuer_IssueLink(t *testing.T) {
	provider := &fakeProvider{resp: billing.CreateLinkResponse{
		PriceID:       "price_123",
		PaymentLinkID: "plink_123",
		URL:           "https://buy.stripe.com/test_abc",
	}}
	crm := &fakeUpdater{}
	issuer := billing.NewIssuer(provider, crm, discardLogger())

	res, err := issuer.IssueLink(context.Background(), billing.IssueLinkInput{
		InvoiceID:   "inv-1",
		AmountCents: 120050,
		Description: "Tier 2 - Accelerate",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://buy.stripe.com/test_abc", res.URL)

	require.Len(t, provider.created, 1)
	req := provider.created[0]
	assert.Equal(t, "inv-1", req.InvoiceID)
	assert.Equal(t, int64(120050), req.AmountCents)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, "Tier 2 - Accelerate", req.Description)

	require.Len(t, crm.links, 1)
	assert.Equal(t, linkCall{"inv-1", "https://buy.stripe.com/test_abc"}, crm.links[0])
}

func TestIssuer_DescriptionFallback(t *testing.T) {
	provider := &fakeProvider{resp: billing.CreateLinkResponse{URL: "https://buy.stripe.com/x"}}
	issuer := billing.NewIssuer(provider, &fakeUpdater{}, discardLogger())

	_, err := issuer.IssueLink(context.Background(), billing.IssueLinkInput{
		InvoiceID:   "inv-7",
		AmountCents: 5000,
	})
	require.NoError(t, err)
	require.Len(t, provider.created, 1)
	assert.Equal(t, "Invoice inv-7", provider.created[0].Description)
}

func TestIssuer_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   billing.IssueLinkInput
	}{
		{"empty invoice id", billing.IssueLinkInput{AmountCents: 100}},
		{"zero amount", billing.IssueLinkInput{InvoiceID: "inv-1"}},
		{"negative amount", billing.IssueLinkInput{InvoiceID: "inv-1", AmountCents: -500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{}
			crm := &fakeUpdater{}
			issuer := billing.NewIssuer(provider, crm, discardLogger())

			_, err := issuer.IssueLink(context.Background(), tt.in)
			require.ErrorIs(t, err, billing.ErrInvalidInput)

			// fail fast: no network call of any kind
			assert.Empty(t, provider.created)
			assert.Empty(t, crm.links)
		})
	}
}

func TestIssuer_ProviderFailureAbortsBeforeCRM(t *testing.T) {
	provider := &fakeProvider{createErr: &billing.ProviderError{Op: "create price", Err: errors.New("api key invalid")}}
	crm := &fakeUpdater{}
	issuer := billing.NewIssuer(provider, crm, discardLogger())

	_, err := issuer.IssueLink(context.Background(), billing.IssueLinkInput{
		InvoiceID:   "inv-1",
		AmountCents: 100,
	})

	var perr *billing.ProviderError
	require.ErrorAs(t, err, &perr)
	var rerr *billing.ReconciliationError
	assert.False(t, errors.As(err, &rerr))

	assert.Empty(t, crm.links, "no CRM mutation after provider failure")
}

func TestIssuer_CRMFailureIsReconciliationError(t *testing.T) {
	provider := &fakeProvider{resp: billing.CreateLinkResponse{URL: "https://buy.stripe.com/live_1"}}
	crm := &fakeUpdater{linkErr: errors.New("espocrm update failed (502): bad gateway")}
	issuer := billing.NewIssuer(provider, crm, discardLogger())

	_, err := issuer.IssueLink(context.Background(), billing.IssueLinkInput{
		InvoiceID:   "inv-1",
		AmountCents: 100,
	})

	var rerr *billing.ReconciliationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "inv-1", rerr.InvoiceID)
	assert.Equal(t, "https://buy.stripe.com/live_1", rerr.PaymentLinkURL)

	var perr *billing.ProviderError
	assert.False(t, errors.As(err, &perr), "must be distinguishable from a provider failure")
}
