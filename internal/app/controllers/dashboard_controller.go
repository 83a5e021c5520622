package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/error/response"
)

// InterfaceDashboardController defines the dashboard endpoints
type InterfaceDashboardController interface {
	GetStats()
	GetRecentActivity()
	GetFinancialSummary()
}

// DashboardController serves the portfolio overview
type DashboardController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(ctx *gin.Context, container *container.ServiceContainer) *DashboardController {
	return &DashboardController{
		Ctx:       ctx,
		Container: container,
	}
}

// RecentActivityQuery is bound from ?limit=
type RecentActivityQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (c *DashboardController) service() services.InterfaceDashboardService {
	return c.Container.GetService("dashboard").(services.InterfaceDashboardService)
}

// GetStats returns portfolio counters
// @Summary      Dashboard stats
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.DashboardStats
// @Failure      401  {object}  response.ErrorResponse
// @Router       /dashboard/stats [get]
func (c *DashboardController) GetStats() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	stats, err := c.service().GetStats(c.Ctx.Request.Context(), ownerID)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, stats)
}

// GetRecentActivity returns the latest payments and leases and upcoming dues
// @Summary      Recent activity
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Items per list, default 10"
// @Success      200  {object}  services.RecentActivity
// @Failure      400  {object}  response.ErrorResponse
// @Router       /dashboard/recent-activity [get]
func (c *DashboardController) GetRecentActivity() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var query RecentActivityQuery
	if !bindQuery(c.Ctx, &query) {
		return
	}
	if query.Limit == 0 {
		query.Limit = services.DefaultActivityLimit
	}

	activity, err := c.service().GetRecentActivity(c.Ctx.Request.Context(), ownerID, query.Limit)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, activity)
}

// GetFinancialSummary returns year-to-date and monthly revenue
// @Summary      Financial summary
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.FinancialSummary
// @Router       /dashboard/financial-summary [get]
func (c *DashboardController) GetFinancialSummary() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	summary, err := c.service().GetFinancialSummary(c.Ctx.Request.Context(), ownerID)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, summary)
}

// HandleDashboardFunc returns a gin handler for the named dashboard method
func HandleDashboardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDashboardController(ctx, container)

		switch method {
		case "getStats":
			controller.GetStats()
		case "getRecentActivity":
			controller.GetRecentActivity()
		case "getFinancialSummary":
			controller.GetFinancialSummary()
		default:
			invalidMethod(ctx)
		}
	}
}
