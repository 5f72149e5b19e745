package billing

import (
	"context"
	"fmt"
	"log/slog"
)

type Issuer struct {
	provider Provider
	crm      InvoiceUpdater
	logger   *slog.Logger
}

func NewIssuer(p Provider, crm InvoiceUpdater, logger *slog.Logger) *Issuer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Issuer{provider: p, crm: crm, logger: logger}
}

type IssueLinkInput struct {
	InvoiceID   string
	AmountCents int64
	Description string // falls back to "Invoice <id>" when empty
}

type IssueLinkResult struct {
	URL           string
	PriceID       string
	PaymentLinkID string
}

// IssueLink creates a priced Stripe payment link for the invoice and records
// its URL on the CRM record. Provider failure aborts before any CRM
// mutation; a CRM failure after the link exists is reported as
// *ReconciliationError so operators can tell the two cases apart.
func (s *Issuer) IssueLink(ctx context.Context, in IssueLinkInput) (IssueLinkResult, error) {
	if in.InvoiceID == "" {
		return IssueLinkResult{}, fmt.Errorf("%w: invoice id is required", ErrInvalidInput)
	}
	if in.AmountCents <= 0 {
		return IssueLinkResult{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	desc := in.Description
	if desc == "" {
		desc = "Invoice " + in.InvoiceID
	}

	resp, err := s.provider.CreatePaymentLink(ctx, CreateLinkRequest{
		InvoiceID:   in.InvoiceID,
		AmountCents: in.AmountCents,
		Currency:    DefaultCurrency,
		Description: desc,
	})
	if err != nil {
		return IssueLinkResult{}, err
	}

	s.logger.InfoContext(ctx, "payment link created",
		"provider", s.provider.Name(),
		"invoice_id", in.InvoiceID,
		"payment_link_id", resp.PaymentLinkID,
		"url", resp.URL,
	)

	if err := s.crm.SetPaymentLink(ctx, in.InvoiceID, resp.URL); err != nil {
		// Link is live provider-side; surface it for manual follow-up.
		return IssueLinkResult{}, &ReconciliationError{
			InvoiceID:      in.InvoiceID,
			PaymentLinkURL: resp.URL,
			Err:            err,
		}
	}

	return IssueLinkResult{URL: resp.URL, PriceID: resp.PriceID, PaymentLinkID: resp.PaymentLinkID}, nil
}
