// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/application/usecase/insight"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/middleware"
)

// InsightController handles insight endpoints.
type InsightController struct {
	evaluateUseCase  *insight.EvaluateInsightsUseCase
	recommendUseCase *insight.GetDailyRecommendationsUseCase
	dismissUseCase   *insight.DismissInsightUseCase
	listRulesUseCase *insight.ListRulesUseCase
}

// NewInsightController creates a new insight controller instance.
func NewInsightController(
	evaluateUseCase *insight.EvaluateInsightsUseCase,
	recommendUseCase *insight.GetDailyRecommendationsUseCase,
	dismissUseCase *insight.DismissInsightUseCase,
	listRulesUseCase *insight.ListRulesUseCase,
) *InsightController {
	return &InsightController{
		evaluateUseCase:  evaluateUseCase,
		recommendUseCase: recommendUseCase,
		dismissUseCase:   dismissUseCase,
		listRulesUseCase: listRulesUseCase,
	}
}

// List handles GET /insights requests.
// It returns today's personalized recommendations.
func (c *InsightController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	output, err := c.recommendUseCase.Execute(ctx.Request.Context(), insight.GetDailyRecommendationsInput{
		UserID: userID,
	})
	if err != nil {
		c.handleInsightError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.InsightListResponse{
		Insights: dto.ToInsightResponses(output.Insights),
		Total:    output.Total,
	})
}

// Evaluate handles POST /insights/evaluate requests.
func (c *InsightController) Evaluate(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	// An empty body means a manual evaluation
	var req dto.EvaluateInsightsRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid request body: " + err.Error(),
				Code:  string(domainerror.ErrCodeInvalidTrigger),
			})
			return
		}
	}

	output, err := c.evaluateUseCase.Execute(ctx.Request.Context(), insight.EvaluateInsightsInput{
		UserID:  userID,
		Trigger: entity.Trigger(req.Trigger),
	})
	if err != nil {
		c.handleInsightError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToEvaluationResponse(output.Result))
}

// Dismiss handles POST /insights/:id/dismiss requests.
func (c *InsightController) Dismiss(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	insightID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid insight ID format",
			Code:  string(domainerror.ErrCodeMissingFields),
		})
		return
	}

	err = c.dismissUseCase.Execute(ctx.Request.Context(), insight.DismissInsightInput{
		InsightID: insightID,
		UserID:    userID,
	})
	if err != nil {
		c.handleInsightError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListRules handles GET /insights/rules requests.
// The optional trigger query parameter restricts the list to rules listening for it.
func (c *InsightController) ListRules(ctx *gin.Context) {
	trigger := entity.Trigger(ctx.Query("trigger"))
	if trigger != "" && !trigger.IsValid() {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Unknown trigger",
			Code:  string(domainerror.ErrCodeInvalidTrigger),
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRuleListResponse(c.listRulesUseCase.Execute(trigger)))
}

// handleInsightError handles insight errors and returns appropriate HTTP responses.
func (c *InsightController) handleInsightError(ctx *gin.Context, err error) {
	var insightErr *domainerror.InsightError
	if errors.As(err, &insightErr) {
		statusCode := c.getStatusCodeForInsightError(insightErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: insightErr.Message,
			Code:  string(insightErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForInsightError maps insight error codes to HTTP status codes.
func (c *InsightController) getStatusCodeForInsightError(code domainerror.InsightErrorCode) int {
	switch code {
	case domainerror.ErrCodeInsightNotFound, domainerror.ErrCodeRuleNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeUnauthorizedInsight:
		return http.StatusForbidden
	case domainerror.ErrCodeRuleAlreadyExists:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidTrigger, domainerror.ErrCodeMissingFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeContextLoadFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondUnauthenticated writes the response for a request without a user in context.
func respondUnauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "User not authenticated",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}
