package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/error/response"
)

// InterfaceTenantController defines the tenant endpoints
type InterfaceTenantController interface {
	CreateTenant()
	GetTenants()
	GetTenant()
	UpdateTenant()
	DeleteTenant()
}

// TenantController handles the caller's tenants
type TenantController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTenantController creates a new tenant controller
func NewTenantController(ctx *gin.Context, container *container.ServiceContainer) *TenantController {
	return &TenantController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *TenantController) service() services.InterfaceTenantService {
	return c.Container.GetService("tenant").(services.InterfaceTenantService)
}

// CreateTenant adds a tenant in pending status
// @Summary      Create tenant
// @Tags         Tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.CreateTenantRequest true "Tenant"
// @Success      201  {object}  models.Tenant
// @Failure      400  {object}  response.ErrorResponse
// @Router       /tenants [post]
func (c *TenantController) CreateTenant() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.CreateTenantRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	tenant, err := c.service().Create(c.Ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, tenant)
}

// GetTenants lists tenants
// @Summary      List tenants
// @Tags         Tenants
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        limit query int false "Page size, default 10, max 100"
// @Param        status query string false "active, inactive, pending or evicted"
// @Param        search query string false "Matches name or email, case-insensitive"
// @Param        hasActiveLease query bool false "Only tenants with (or without) an active lease"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.ErrorResponse
// @Router       /tenants [get]
func (c *TenantController) GetTenants() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var query services.TenantQuery
	if !bindQuery(c.Ctx, &query) {
		return
	}

	result, err := c.service().FindAll(c.Ctx.Request.Context(), ownerID, query)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// GetTenant returns one tenant with leases and recent payments
// @Summary      Get tenant
// @Tags         Tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      200  {object}  models.Tenant
// @Failure      404  {object}  response.ErrorResponse
// @Router       /tenants/{id} [get]
func (c *TenantController) GetTenant() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	tenant, err := c.service().FindOne(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"))
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, tenant)
}

// UpdateTenant patches a tenant
// @Summary      Update tenant
// @Tags         Tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Param        request body services.UpdateTenantRequest true "Fields to change"
// @Success      200  {object}  models.Tenant
// @Failure      400  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /tenants/{id} [patch]
func (c *TenantController) UpdateTenant() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.UpdateTenantRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	tenant, err := c.service().Update(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"), req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, tenant)
}

// DeleteTenant removes a tenant and frees the properties they leased
// @Summary      Delete tenant
// @Tags         Tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      200  {object}  DeletedResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /tenants/{id} [delete]
func (c *TenantController) DeleteTenant() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	id := c.Ctx.Param("id")
	if err := c.service().Remove(c.Ctx.Request.Context(), ownerID, id); err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, DeletedResponse{ID: id})
}

// HandleTenantFunc returns a gin handler for the named tenant method
func HandleTenantFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTenantController(ctx, container)

		switch method {
		case "createTenant":
			controller.CreateTenant()
		case "getTenants":
			controller.GetTenants()
		case "getTenant":
			controller.GetTenant()
		case "updateTenant":
			controller.UpdateTenant()
		case "deleteTenant":
			controller.DeleteTenant()
		default:
			invalidMethod(ctx)
		}
	}
}
