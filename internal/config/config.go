// Package config loads service configuration from the environment. Missing
// required values fail at startup, not at first request.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultPort         = "3001"
	defaultCRMTimeoutMs = 10_000

	envStripeSecretKey  = "STRIPE_SECRET_KEY"
	envStripeWebhookSec = "STRIPE_WEBHOOK_SECRET"
	envEspoCRMURL       = "ESPOCRM_URL"
	envEspoCRMAPIKey    = "ESPOCRM_API_KEY"
	envWebhookPort      = "WEBHOOK_PORT"
	envEspoCRMTimeoutMs = "ESPOCRM_TIMEOUT_MS"
)

// Server is everything the webhook receiver needs.
type Server struct {
	StripeSecretKey     string `validate:"required" env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `validate:"required" env:"STRIPE_WEBHOOK_SECRET"`
	EspoCRMURL          string `validate:"required,url" env:"ESPOCRM_URL"`
	EspoCRMAPIKey       string `validate:"required" env:"ESPOCRM_API_KEY"`
	Port                string
	CRMTimeout          time.Duration
}

// Issuer is the subset the stripe-link CLI needs (no webhook secret).
type Issuer struct {
	StripeSecretKey string `validate:"required" env:"STRIPE_SECRET_KEY"`
	EspoCRMURL      string `validate:"required,url" env:"ESPOCRM_URL"`
	EspoCRMAPIKey   string `validate:"required" env:"ESPOCRM_API_KEY"`
	CRMTimeout      time.Duration
}

func ServerFromEnv() (Server, error) {
	cfg := Server{
		StripeSecretKey:     os.Getenv(envStripeSecretKey),
		StripeWebhookSecret: os.Getenv(envStripeWebhookSec),
		EspoCRMURL:          os.Getenv(envEspoCRMURL),
		EspoCRMAPIKey:       os.Getenv(envEspoCRMAPIKey),
		Port:                envOr(envWebhookPort, defaultPort),
		CRMTimeout:          crmTimeout(),
	}
	if err := validate(cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func IssuerFromEnv() (Issuer, error) {
	cfg := Issuer{
		StripeSecretKey: os.Getenv(envStripeSecretKey),
		EspoCRMURL:      os.Getenv(envEspoCRMURL),
		EspoCRMAPIKey:   os.Getenv(envEspoCRMAPIKey),
		CRMTimeout:      crmTimeout(),
	}
	if err := validate(cfg); err != nil {
		return Issuer{}, err
	}
	return cfg, nil
}

// validate maps validator failures back to env var names so the startup
// error tells the operator exactly what to set.
func validate(cfg any) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	var problems []string
	for _, fe := range ve {
		name := envVarName(cfg, fe.StructField())
		switch fe.Tag() {
		case "required":
			problems = append(problems, name+" is required")
		case "url":
			problems = append(problems, name+" must be a valid URL")
		default:
			problems = append(problems, name+" is invalid")
		}
	}
	return fmt.Errorf("config: %s", strings.Join(problems, "; "))
}

func envVarName(cfg any, structField string) string {
	t := reflect.TypeOf(cfg)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		if tag := f.Tag.Get("env"); tag != "" {
			return tag
		}
	}
	return structField
}

func crmTimeout() time.Duration {
	ms := defaultCRMTimeoutMs
	if v := os.Getenv(envEspoCRMTimeoutMs); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ms = n
		}
	}
	return time.Duration(ms) * time.Millisecond
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
