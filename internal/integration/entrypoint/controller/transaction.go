// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/insights/internal/application/usecase/transaction"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/middleware"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	recordUseCase *transaction.RecordTransactionUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(recordUseCase *transaction.RecordTransactionUseCase) *TransactionController {
	return &TransactionController{recordUseCase: recordUseCase}
}

// Create handles POST /transactions requests.
// The response carries the insights fired by the post_transaction trigger.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingTransactionFields),
		})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid date format. Use YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidTransactionDate),
		})
		return
	}

	output, err := c.recordUseCase.Execute(ctx.Request.Context(), transaction.RecordTransactionInput{
		UserID:      userID,
		Date:        date,
		Amount:      req.Amount,
		Type:        entity.TransactionType(req.Type),
		Category:    req.Category,
		Note:        req.Note,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.RecordTransactionResponse{
		Transaction: dto.ToTransactionResponse(output.Transaction),
		Insights:    dto.ToInsightResponses(output.Insights),
	})
}

// handleTransactionError handles transaction errors and returns appropriate HTTP responses.
func (c *TransactionController) handleTransactionError(ctx *gin.Context, err error) {
	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if date, err := time.Parse("2006-01-02", value); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, value)
}
