package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/espocrm"
)

// Diagnostic: report which required env vars are set and, optionally, probe
// the CRM API to confirm the URL and key actually work.
func main() {
	probe := flag.Bool("probe", false, "Probe the EspoCRM API with the configured key")
	flag.Parse()

	_ = godotenv.Load()

	required := []string{
		"STRIPE_SECRET_KEY",
		"STRIPE_WEBHOOK_SECRET",
		"ESPOCRM_URL",
		"ESPOCRM_API_KEY",
	}
	optional := []string{
		"WEBHOOK_PORT",
		"ESPOCRM_TIMEOUT_MS",
	}

	missing := 0
	for _, k := range required {
		if os.Getenv(k) == "" {
			fmt.Printf("  %-22s NOT SET\n", k)
			missing++
		} else {
			fmt.Printf("  %-22s set\n", k)
		}
	}
	for _, k := range optional {
		v := os.Getenv(k)
		if v == "" {
			v = "(default)"
		}
		fmt.Printf("  %-22s %s\n", k, v)
	}

	if missing > 0 {
		fmt.Printf("\n%d required value(s) missing\n", missing)
		os.Exit(1)
	}

	if !*probe {
		fmt.Println("\nConfig OK (use -probe to verify EspoCRM connectivity)")
		return
	}

	crm := espocrm.NewClient(os.Getenv("ESPOCRM_URL"), os.Getenv("ESPOCRM_API_KEY"), 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Println("\nProbing EspoCRM API...")
	if err := crm.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "EspoCRM probe failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("EspoCRM API reachable, key accepted")
}
