package billing

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

const SignatureHeader = "Stripe-Signature"

// StripeProvider implements Provider against the real Stripe API.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, webhookSecret: webhookSecret}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (CreateLinkResponse, error) {
	priceParams := &stripe.PriceParams{
		Currency:   stripe.String(req.Currency),
		UnitAmount: stripe.Int64(req.AmountCents),
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(req.Description),
		},
	}
	priceParams.Context = ctx

	price, err := p.api.Prices.New(priceParams)
	if err != nil {
		return CreateLinkResponse{}, &ProviderError{Op: "create price", Err: err}
	}

	linkParams := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{Price: stripe.String(price.ID), Quantity: stripe.Int64(1)},
		},
	}
	linkParams.Context = ctx
	linkParams.AddMetadata(MetadataInvoiceKey, req.InvoiceID)

	link, err := p.api.PaymentLinks.New(linkParams)
	if err != nil {
		return CreateLinkResponse{}, &ProviderError{Op: "create payment link", Err: err}
	}

	return CreateLinkResponse{PriceID: price.ID, PaymentLinkID: link.ID, URL: link.URL}, nil
}

// VerifyAndParseWebhook checks the Stripe-Signature header against the raw
// body (default timestamp tolerance) and extracts the nested object's
// metadata. Verification must run over the exact delivered bytes; the body
// is parsed only after the signature checks out.
func (p *StripeProvider) VerifyAndParseWebhook(headers http.Header, body []byte) (WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(body, headers.Get(SignatureHeader), p.webhookSecret,
		webhook.ConstructEventOptions{
			Tolerance:                webhook.DefaultTolerance,
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		return WebhookEvent{}, err
	}

	return WebhookEvent{
		EventID:  event.ID,
		Type:     string(event.Type),
		Metadata: objectMetadata(event.Data.Raw),
	}, nil
}

func objectMetadata(raw json.RawMessage) map[string]string {
	var obj struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Metadata == nil {
		return map[string]string{}
	}
	return obj.Metadata
}
