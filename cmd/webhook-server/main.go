package main

import (
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/config"
	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/espocrm"
	apphttp "github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/http"
	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/http/handlers"
	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/modules/billing"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.ServerFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	crm := espocrm.NewClient(cfg.EspoCRMURL, cfg.EspoCRMAPIKey, cfg.CRMTimeout)
	provider := billing.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	reconciler := billing.NewReconciler(crm, logger)

	r := apphttp.NewRouter(logger, handlers.NewWebhookHandler(logger, provider, reconciler))

	logger.Info("stripe webhook server starting",
		"port", cfg.Port,
		"webhook_path", "/stripe-webhook",
		"health_path", "/health",
	)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
