package app

import (
	"github.com/devandref/payment-service/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *App) RegisterRoutes(h *handlers.PaymentHandler) {
	a.Router.GET("/health", h.Health)

	payments := a.Router.Group("/payments")
	payments.GET("/:orderId/:transactionId", h.GetPayment)

	metricsHandler := promhttp.Handler()
	if a.Registry != nil {
		metricsHandler = promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
	}
	a.Router.GET("/metrics", gin.WrapH(metricsHandler))
}
