package handlers

import (
	"tutorpay/internal/queue"
	"tutorpay/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler bundles the services the HTTP surface depends on.
type Handler struct {
	Transactions *service.TransactionService
	Earnings     *service.EarningsService
	Auth         *service.AuthService
	VerifyQueue  *queue.VerifyQueue
}

func NewHandler(
	transactions *service.TransactionService,
	earnings *service.EarningsService,
	auth *service.AuthService,
	verifyQueue *queue.VerifyQueue,
) *Handler {
	return &Handler{
		Transactions: transactions,
		Earnings:     earnings,
		Auth:         auth,
		VerifyQueue:  verifyQueue,
	}
}

// getUserID extracts the authenticated user's id from the gin context.
func getUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
