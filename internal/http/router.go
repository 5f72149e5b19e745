package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/http/handlers"
	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/http/middleware"
)

func NewRouter(logger *slog.Logger, webhooks *handlers.WebhookHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.ErrorHandler(logger),
	)

	r.POST("/stripe-webhook", webhooks.Handle)
	r.GET("/health", handlers.Health)

	return r
}
