// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/insights/internal/application/usecase/budget"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/middleware"
)

// BudgetController handles the monthly plan, streak and war mode endpoints.
type BudgetController struct {
	upsertUseCase        *budget.UpsertBudgetUseCase
	upsertStreakUseCase  *budget.UpsertStreakUseCase
	upsertWarModeUseCase *budget.UpsertWarModeUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	upsertUseCase *budget.UpsertBudgetUseCase,
	upsertStreakUseCase *budget.UpsertStreakUseCase,
	upsertWarModeUseCase *budget.UpsertWarModeUseCase,
) *BudgetController {
	return &BudgetController{
		upsertUseCase:        upsertUseCase,
		upsertStreakUseCase:  upsertStreakUseCase,
		upsertWarModeUseCase: upsertWarModeUseCase,
	}
}

// Upsert handles PUT /budget requests.
func (c *BudgetController) Upsert(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.UpsertBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	output, err := c.upsertUseCase.Execute(ctx.Request.Context(), budget.UpsertBudgetInput{
		UserID:         userID,
		MonthlyIncome:  req.MonthlyIncome,
		MonthlyBudget:  req.MonthlyBudget,
		SavingsGoal:    req.SavingsGoal,
		CurrentSavings: req.CurrentSavings,
		CashBalance:    req.CashBalance,
	})
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget))
}

// UpsertStreak handles PUT /streak requests.
func (c *BudgetController) UpsertStreak(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.UpsertStreakRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	output, err := c.upsertStreakUseCase.Execute(ctx.Request.Context(), budget.UpsertStreakInput{
		UserID:        userID,
		CurrentStreak: req.CurrentStreak,
		BestStreak:    req.BestStreak,
	})
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStreakResponse(output.Streak))
}

// UpsertWarMode handles PUT /war-mode requests.
func (c *BudgetController) UpsertWarMode(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.UpsertWarModeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	output, err := c.upsertWarModeUseCase.Execute(ctx.Request.Context(), budget.UpsertWarModeInput{
		UserID:     userID,
		Active:     req.Active,
		Level:      entity.WarModeLevel(req.Level),
		CashOnHand: req.CashOnHand,
	})
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToWarModeResponse(output.Status))
}

// handleError maps budget errors to HTTP responses.
func (c *BudgetController) handleError(ctx *gin.Context, err error) {
	var budgetErr *domainerror.BudgetError
	if errors.As(err, &budgetErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: budgetErr.Message,
			Code:  string(budgetErr.Code),
		})
		return
	}
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
