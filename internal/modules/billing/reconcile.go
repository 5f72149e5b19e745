package billing

import (
	"context"
	"fmt"
	"log/slog"
)

// Handled event types. Everything else is acknowledged and ignored so Stripe
// does not retry event types we don't care about.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
)

var handledEvents = map[string]bool{
	EventCheckoutSessionCompleted: true,
	EventPaymentIntentSucceeded:   true,
}

type Result string

const (
	// ResultApplied: the invoice was marked paid.
	ResultApplied Result = "applied"
	// ResultIgnored: event type outside the allow-list.
	ResultIgnored Result = "ignored"
	// ResultSkipped: handled type but no correlation id in metadata.
	ResultSkipped Result = "skipped"
)

type Reconciler struct {
	crm    InvoiceUpdater
	logger *slog.Logger
}

func NewReconciler(crm InvoiceUpdater, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{crm: crm, logger: logger}
}

// Process applies a verified provider event to the CRM. The update is a pure
// overwrite of status/paymentMethod, so redelivery of the same event (or a
// second event for an already-paid invoice) converges to the same state.
// A non-nil error means the CRM update failed; the caller still acks the
// event and reports the failure out-of-band.
func (r *Reconciler) Process(ctx context.Context, ev WebhookEvent) (Result, error) {
	if !handledEvents[ev.Type] {
		r.logger.InfoContext(ctx, "unhandled event type, ignoring",
			"event_id", ev.EventID, "event_type", ev.Type)
		return ResultIgnored, nil
	}

	invoiceID := ev.Metadata[MetadataInvoiceKey]
	if invoiceID == "" {
		// Cannot be applied to any invoice; guessing is worse than skipping.
		r.logger.WarnContext(ctx, "no invoice id in event metadata, skipping",
			"event_id", ev.EventID, "event_type", ev.Type)
		return ResultSkipped, nil
	}

	if err := r.crm.MarkInvoicePaid(ctx, invoiceID, PaymentMethodCardStripe); err != nil {
		r.logger.ErrorContext(ctx, "failed to mark invoice paid",
			"event_id", ev.EventID, "event_type", ev.Type,
			"invoice_id", invoiceID, "err", err)
		return ResultApplied, fmt.Errorf("update invoice %s: %w", invoiceID, err)
	}

	r.logger.InfoContext(ctx, "invoice marked paid",
		"event_id", ev.EventID, "event_type", ev.Type, "invoice_id", invoiceID)
	return ResultApplied, nil
}
