package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/modules/billing"
)

type WebhookHandler struct {
	Logger     *slog.Logger
	Provider   billing.Provider
	Reconciler *billing.Reconciler
}

func NewWebhookHandler(logger *slog.Logger, p billing.Provider, r *billing.Reconciler) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Provider: p, Reconciler: r}
}

// POST /stripe-webhook
// Signature is computed over the literal request bytes, so the body is read
// raw and parsed only after verification succeeds.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: could not read body")
		return
	}

	ev, err := h.Provider.VerifyAndParseWebhook(c.Request.Header, body)
	if err != nil {
		h.Logger.Warn("webhook signature verification failed",
			"provider", h.Provider.Name(), "err", err)
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	h.Logger.Info("received event",
		"provider", h.Provider.Name(), "event_id", ev.EventID, "event_type", ev.Type)

	result, err := h.Reconciler.Process(c.Request.Context(), ev)
	if err != nil {
		// Still 200: the delivery was fine, the failure is on our side.
		// Non-2xx would only make Stripe redeliver an event whose failure
		// it cannot fix; the error field lets monitoring pick it up.
		c.JSON(http.StatusOK, gin.H{"received": true, "error": err.Error()})
		return
	}

	if result == billing.ResultSkipped {
		c.JSON(http.StatusOK, gin.H{"received": true, "skipped": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
