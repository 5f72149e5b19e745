package billing

import (
	"errors"
	"fmt"
)

var ErrInvalidInput = errors.New("invalid input")

// ProviderError: a Stripe API call failed. The issuer aborts before any
// CRM mutation, so nothing needs manual cleanup.
type ProviderError struct {
	Op  string // "create price" | "create payment link"
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("stripe: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ReconciliationError: the payment link exists on the Stripe side but the
// CRM record could not be updated. Carries the live link URL so an operator
// can reconcile by hand.
type ReconciliationError struct {
	InvoiceID      string
	PaymentLinkURL string
	Err            error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("payment link created but not recorded on invoice %s (link: %s): %v",
		e.InvoiceID, e.PaymentLinkURL, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }
