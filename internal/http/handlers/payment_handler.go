package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/http/handlers/common"
	"github.com/akazakov/workmarket-backend/internal/service"
)

// PaymentHandler предоставляет HTTP слой для платежей, баланса и вывода средств.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler создаёт хэндлер.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// ProcessPayment обрабатывает POST /jobs/:id/payment.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	payment, err := h.payments.ProcessPayment(c.Request.Context(), jobID, actor)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetJobPayment обрабатывает GET /jobs/:id/payment.
func (h *PaymentHandler) GetJobPayment(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	payment, err := h.payments.GetJobPayment(c.Request.Context(), jobID, actor)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetBalance обрабатывает GET /balance.
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	balance, err := h.payments.GetBalance(c.Request.Context(), actor.ID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// ListPayments обрабатывает GET /payments.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	payments, err := h.payments.ListPayments(c.Request.Context(), actor.ID, limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "limit": limit, "offset": offset})
}

// Withdraw обрабатывает POST /withdrawals.
func (h *PaymentHandler) Withdraw(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var req struct {
		Amount    string  `json:"amount" binding:"required"`
		CardLast4 *string `json:"card_last4"`
	}

	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "сумма должна быть десятичным числом"))
		return
	}

	withdrawal, err := h.payments.Withdraw(c.Request.Context(), actor, amount, req.CardLast4)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

// ListWithdrawals обрабатывает GET /withdrawals.
func (h *PaymentHandler) ListWithdrawals(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	withdrawals, err := h.payments.ListWithdrawals(c.Request.Context(), actor.ID, limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals, "limit": limit, "offset": offset})
}
