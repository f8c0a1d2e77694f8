package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/devandref/payment-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PaymentReader interface {
	FindByOrderIDAndTransactionID(ctx context.Context, orderID, transactionID string) (*models.Payment, error)
}

type PaymentHandler struct {
	Repo PaymentReader
}

func NewPaymentHandler(r PaymentReader) *PaymentHandler {
	return &PaymentHandler{Repo: r}
}

// GET /payments/:orderId/:transactionId
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	orderID := c.Param("orderId")
	transactionID := c.Param("transactionId")

	payment, err := h.Repo.FindByOrderIDAndTransactionID(c.Request.Context(), orderID, transactionID)
	if errors.Is(err, models.ErrPaymentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"order_id":       orderID,
			"transaction_id": transactionID,
		}).Error("Error reading payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GET /health
func (h *PaymentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
