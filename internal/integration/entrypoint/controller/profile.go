// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/insights/internal/application/usecase/profile"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/middleware"
)

// ProfileController handles behavioral profile endpoints.
type ProfileController struct {
	getUseCase    *profile.GetProfileUseCase
	upsertUseCase *profile.UpsertProfileUseCase
}

// NewProfileController creates a new profile controller instance.
func NewProfileController(
	getUseCase *profile.GetProfileUseCase,
	upsertUseCase *profile.UpsertProfileUseCase,
) *ProfileController {
	return &ProfileController{
		getUseCase:    getUseCase,
		upsertUseCase: upsertUseCase,
	}
}

// Get handles GET /profile requests.
func (c *ProfileController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), profile.GetProfileInput{UserID: userID})
	if err != nil {
		c.handleProfileError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProfileResponse(output.Profile))
}

// Upsert handles PUT /profile requests.
func (c *ProfileController) Upsert(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}
	email, _ := middleware.GetUserEmailFromContext(ctx)

	var req dto.UpsertProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingProfileFields),
		})
		return
	}

	input := profile.UpsertProfileInput{
		UserID:                    userID,
		Email:                     email,
		Name:                      req.Name,
		Personality:               entity.PersonalityType(req.Personality),
		StressLevel:               entity.StressLevel(req.StressLevel),
		DailyInsightCap:           req.DailyInsightCap,
		PreferredNotificationTime: req.PreferredNotificationTime,
		Timezone:                  req.Timezone,
		DigestEnabled:             req.DigestEnabled,
	}
	if req.EnabledCategories != nil {
		input.EnabledCategories = make([]entity.InsightCategory, len(req.EnabledCategories))
		for i, c := range req.EnabledCategories {
			input.EnabledCategories[i] = entity.InsightCategory(c)
		}
	}

	output, err := c.upsertUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleProfileError(ctx, err)
		return
	}

	status := http.StatusOK
	if output.Created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.ToProfileResponse(output.Profile))
}

// handleProfileError handles profile errors and returns appropriate HTTP responses.
func (c *ProfileController) handleProfileError(ctx *gin.Context, err error) {
	var profileErr *domainerror.ProfileError
	if errors.As(err, &profileErr) {
		statusCode := http.StatusBadRequest
		if profileErr.Code == domainerror.ErrCodeProfileNotFound {
			statusCode = http.StatusNotFound
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: profileErr.Message,
			Code:  string(profileErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
