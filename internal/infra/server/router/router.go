// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/insights/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/insights/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	insightController     *controller.InsightController
	profileController     *controller.ProfileController
	budgetController      *controller.BudgetController
	transactionController *controller.TransactionController
	evaluateRateLimiter   *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	insightController *controller.InsightController,
	profileController *controller.ProfileController,
	budgetController *controller.BudgetController,
	transactionController *controller.TransactionController,
	evaluateRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		insightController:     insightController,
		profileController:     profileController,
		budgetController:      budgetController,
		transactionController: transactionController,
		evaluateRateLimiter:   evaluateRateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	if r.authMiddleware == nil {
		return
	}
	v1.Use(r.authMiddleware.Authenticate())

	if r.profileController != nil {
		profile := v1.Group("/profile")
		{
			profile.GET("", r.profileController.Get)
			profile.PUT("", r.profileController.Upsert)
		}
	}

	if r.budgetController != nil {
		v1.PUT("/budget", r.budgetController.Upsert)
		v1.PUT("/streak", r.budgetController.UpsertStreak)
		v1.PUT("/war-mode", r.budgetController.UpsertWarMode)
	}

	if r.transactionController != nil {
		v1.POST("/transactions", r.transactionController.Create)
	}

	if r.insightController != nil {
		insights := v1.Group("/insights")
		{
			insights.GET("", r.insightController.List)
			insights.GET("/rules", r.insightController.ListRules)
			insights.POST("/:id/dismiss", r.insightController.Dismiss)

			evaluate := []gin.HandlerFunc{r.insightController.Evaluate}
			if r.evaluateRateLimiter != nil {
				evaluate = append([]gin.HandlerFunc{r.evaluateRateLimiter.Middleware()}, evaluate...)
			}
			insights.POST("/evaluate", evaluate...)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
