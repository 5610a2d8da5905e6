package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tutorpay/internal/domain"
	"tutorpay/internal/search"
	"tutorpay/internal/service"

	"github.com/gin-gonic/gin"
)

type initTransactionRequest struct {
	UserID          string   `json:"user_id" binding:"required"`
	UserType        string   `json:"user_type" binding:"required"`
	FirstName       string   `json:"first_name" binding:"required"`
	LastName        string   `json:"last_name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Amount          float64  `json:"amount" binding:"required,gt=0"`
	Currency        string   `json:"currency" binding:"required"`
	DiscountPercent *float64 `json:"discount_percent"`
	DiscountAmount  *float64 `json:"discount_amount"`
	Narration       string   `json:"narration"`
	Scope           string   `json:"scope" binding:"required"`
	Type            string   `json:"type" binding:"required"`
	Channel         string   `json:"channel" binding:"required"`
	ReferencePrefix string   `json:"reference_prefix" binding:"required"`
	SessionID       *string  `json:"session_id"`
	EngagementID    *string  `json:"engagement_id"`
	CallbackURL     string   `json:"callback_url"`
}

func (r *initTransactionRequest) toParams() service.InitParams {
	return service.InitParams{
		UserID:          r.UserID,
		UserType:        domain.UserType(r.UserType),
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Amount:          r.Amount,
		Currency:        r.Currency,
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		Narration:       r.Narration,
		Scope:           domain.TransactionScope(r.Scope),
		Type:            domain.TransactionType(r.Type),
		Channel:         domain.PaymentChannel(r.Channel),
		ReferencePrefix: domain.ReferencePrefix(r.ReferencePrefix),
		SessionID:       r.SessionID,
		EngagementID:    r.EngagementID,
		CallbackURL:     r.CallbackURL,
	}
}

// InitTransaction opens a pending transaction and, for hosted-checkout
// channels, returns the redirect handle.
func (h *Handler) InitTransaction(c *gin.Context) {
	var req initTransactionRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	res, err := h.Transactions.InitTransaction(c.Request.Context(), req.toParams())
	if err != nil {
		if errors.Is(err, service.ErrReferenceExhausted) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initialize transaction"})
		return
	}

	c.JSON(http.StatusCreated, res)
}

type externalTransactionRequest struct {
	initTransactionRequest
	Media []string `json:"media"`
}

// AddExternalTransaction records an out-of-band payment together with
// its proof-of-payment media.
func (h *Handler) AddExternalTransaction(c *gin.Context) {
	var req externalTransactionRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	txn, err := h.Transactions.AddExternalTransaction(c.Request.Context(), service.ExternalParams{
		InitParams: req.toParams(),
		Media:      req.Media,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record external transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// VerifyTransaction is the admin's manual verification path.
func (h *Handler) VerifyTransaction(c *gin.Context) {
	reference := c.Param("reference")
	admin, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	txn, err := h.Transactions.ManualVerify(c.Request.Context(), reference, admin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNothingNew):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// FulfilTransaction is the admin's manual fulfilment path.
func (h *Handler) FulfilTransaction(c *gin.Context) {
	reference := c.Param("reference")
	admin, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	txn, err := h.Transactions.ManualFulfil(c.Request.Context(), reference, admin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotSuccessful),
			errors.Is(err, service.ErrAlreadyFulfilled),
			errors.Is(err, service.ErrCannotFulfil):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fulfilment failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// GetTransaction returns a single transaction by id.
func (h *Handler) GetTransaction(c *gin.Context) {
	txn, err := h.Transactions.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// GetTransactionMedia returns the proof-of-payment attachments of an
// externally settled transaction.
func (h *Handler) GetTransactionMedia(c *gin.Context) {
	media, err := h.Transactions.GetTransactionMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if media == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no media found for transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": media})
}

// SearchTransactions queries the search boundary with the logical
// field vocabulary.
func (h *Handler) SearchTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))

	res, err := h.Transactions.SearchTransactions(c.Request.Context(), search.Params{
		Query:    c.Query("q"),
		FilterBy: c.Query("filter_by"),
		SortBy:   c.Query("sort_by"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		if errors.Is(err, search.ErrIndexUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, res)
}
