package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Stripe-shaped event envelope, enough for the receiver to verify,
// classify and correlate.
type eventPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID          string            `json:"id"`
			Metadata    map[string]string `json:"metadata"`
			AmountTotal int64             `json:"amount_total"`
			Currency    string            `json:"currency"`
		} `json:"object"`
	} `json:"data"`
}

func main() {
	url := flag.String("url", "http://localhost:3001/stripe-webhook", "Webhook URL")
	secret := flag.String("secret", os.Getenv("STRIPE_WEBHOOK_SECRET"), "Webhook signing secret")
	eventID := flag.String("event-id", "evt_"+uuid.NewString(), "Event ID")
	eventType := flag.String("type", "checkout.session.completed", "Event type (checkout.session.completed, payment_intent.succeeded, ...)")
	invoiceID := flag.String("invoice-id", "", "espocrm_invoice_id metadata value (empty to test the skip path)")
	amount := flag.Int64("amount", 120000, "Amount in cents")
	currency := flag.String("currency", "usd", "Currency")
	dryRun := flag.Bool("dry-run", false, "Only print signature header, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintf(os.Stderr, "Error: secret not provided and STRIPE_WEBHOOK_SECRET not set\n")
		os.Exit(1)
	}

	// Build payload
	payload := eventPayload{
		ID:   *eventID,
		Type: *eventType,
	}
	payload.Data.Object.ID = "cs_" + uuid.NewString()
	payload.Data.Object.AmountTotal = *amount
	payload.Data.Object.Currency = *currency
	if *invoiceID != "" {
		payload.Data.Object.Metadata = map[string]string{"espocrm_invoice_id": *invoiceID}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	// Stripe scheme: v1 = HMAC-SHA256(secret, "<timestamp>.<body>")
	t := time.Now().Unix()
	sigHeader := fmt.Sprintf("t=%d,v1=%s", t, computeSig([]byte(*secret), t, body))

	fmt.Printf("Stripe-Signature: %s\n", sigHeader)
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	// Send webhook
	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest("POST", *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", sigHeader)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func computeSig(secret []byte, t int64, body []byte) string {
	m := hmac.New(sha256.New, secret)
	m.Write([]byte(strconv.FormatInt(t, 10)))
	m.Write([]byte("."))
	m.Write(body)
	return hex.EncodeToString(m.Sum(nil))
}
