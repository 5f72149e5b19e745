package billing

// Invoice status enum as defined on the CRM side.
const (
	StatusDraft     = "Draft"
	StatusSent      = "Sent"
	StatusPaid      = "Paid"
	StatusOverdue   = "Overdue"
	StatusCancelled = "Cancelled"
)

const (
	// PaymentMethodCardStripe is written to paymentMethod when a Stripe
	// payment is confirmed.
	PaymentMethodCardStripe = "Card/Stripe"

	// MetadataInvoiceKey is the metadata key carrying the CRM invoice id
	// on Stripe payment links and echoed back in webhook events. The sole
	// correlation mechanism between the two systems.
	MetadataInvoiceKey = "espocrm_invoice_id"

	DefaultCurrency = "usd"
)
