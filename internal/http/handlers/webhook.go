package handlers

import (
	"net/http"

	"tutorpay/internal/logger"

	"github.com/gin-gonic/gin"
)

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// PaystackWebhook acknowledges provider events and queues the
// reference for asynchronous verification. The webhook never verifies
// inline: the provider is retried on non-2xx, the queue is not.
func (h *Handler) PaystackWebhook(c *gin.Context) {
	var event paystackEvent
	if err := c.BindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if event.Event != "charge.success" || event.Data.Reference == "" {
		c.Status(http.StatusOK)
		return
	}

	if err := h.VerifyQueue.Enqueue(c.Request.Context(), event.Data.Reference); err != nil {
		logger.Error("failed to enqueue reference for verification",
			"reference", event.Data.Reference, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ClientReferenceID string `json:"client_reference_id"`
		} `json:"object"`
	} `json:"data"`
}

// StripeWebhook mirrors PaystackWebhook for checkout session events.
func (h *Handler) StripeWebhook(c *gin.Context) {
	var event stripeEvent
	if err := c.BindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	reference := event.Data.Object.ClientReferenceID
	if event.Type != "checkout.session.completed" || reference == "" {
		c.Status(http.StatusOK)
		return
	}

	if err := h.VerifyQueue.Enqueue(c.Request.Context(), reference); err != nil {
		logger.Error("failed to enqueue reference for verification",
			"reference", reference, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}
