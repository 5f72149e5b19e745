package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/config"
	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/espocrm"
	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/modules/billing"
)

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: stripe-link <invoiceId> <amountInDollars> [description...]")
	}

	invoiceID := args[0]
	amountStr := args[1]
	description := strings.Join(args[2:], " ")

	if invoiceID == "" {
		return errors.New("invoice id must not be empty")
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return errors.New("amount must be a positive number (in dollars, e.g. 1200.00)")
	}
	amountCents := int64(math.Round(amount * 100))

	cfg, err := config.IssuerFromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	crm := espocrm.NewClient(cfg.EspoCRMURL, cfg.EspoCRMAPIKey, cfg.CRMTimeout)
	provider := billing.NewStripeProvider(cfg.StripeSecretKey, "")
	issuer := billing.NewIssuer(provider, crm, logger)

	fmt.Printf("Generating Stripe Payment Link for Invoice %s...\n", invoiceID)
	fmt.Printf("Amount: $%.2f USD\n", amount)

	res, err := issuer.IssueLink(context.Background(), billing.IssueLinkInput{
		InvoiceID:   invoiceID,
		AmountCents: amountCents,
		Description: description,
	})
	if err != nil {
		var rerr *billing.ReconciliationError
		if errors.As(err, &rerr) {
			// The link is live on the Stripe side; print it so the operator
			// can attach it to the invoice by hand.
			fmt.Printf("Payment Link: %s\n", rerr.PaymentLinkURL)
		}
		return err
	}

	fmt.Printf("Payment Link: %s\n", res.URL)
	fmt.Println("Updated EspoCRM Invoice record")
	return nil
}
