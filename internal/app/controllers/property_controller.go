package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/error/response"
)

// InterfacePropertyController defines the property endpoints
type InterfacePropertyController interface {
	CreateProperty()
	GetProperties()
	GetProperty()
	UpdateProperty()
	DeleteProperty()
}

// PropertyController handles the caller's properties
type PropertyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPropertyController creates a new property controller
func NewPropertyController(ctx *gin.Context, container *container.ServiceContainer) *PropertyController {
	return &PropertyController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *PropertyController) service() services.InterfacePropertyService {
	return c.Container.GetService("property").(services.InterfacePropertyService)
}

// CreateProperty adds a property
// @Summary      Create property
// @Tags         Properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.CreatePropertyRequest true "Property"
// @Success      201  {object}  models.Property
// @Failure      400  {object}  response.ErrorResponse
// @Failure      401  {object}  response.ErrorResponse
// @Router       /properties [post]
func (c *PropertyController) CreateProperty() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.CreatePropertyRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	property, err := c.service().Create(c.Ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, property)
}

// GetProperties lists properties
// @Summary      List properties
// @Description  Paginated, newest first. Each property carries its active lease and tenant.
// @Tags         Properties
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        limit query int false "Page size, default 10, max 100"
// @Param        status query string false "available, occupied, maintenance or inactive"
// @Param        type query string false "Property type"
// @Param        city query string false "Case-insensitive substring"
// @Param        minRent query number false "Minimum monthly rent"
// @Param        maxRent query number false "Maximum monthly rent"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.ErrorResponse
// @Failure      401  {object}  response.ErrorResponse
// @Router       /properties [get]
func (c *PropertyController) GetProperties() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var query services.PropertyQuery
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

// GetProperty returns one property with its leases
// @Summary      Get property
// @Tags         Properties
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Property ID"
// @Success      200  {object}  models.Property
// @Failure      401  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /properties/{id} [get]
func (c *PropertyController) GetProperty() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	property, err := c.service().FindOne(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"))
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, property)
}

// UpdateProperty patches a property
// @Summary      Update property
// @Tags         Properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Property ID"
// @Param        request body services.UpdatePropertyRequest true "Fields to change"
// @Success      200  {object}  models.Property
// @Failure      400  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /properties/{id} [patch]
func (c *PropertyController) UpdateProperty() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.UpdatePropertyRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	property, err := c.service().Update(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"), req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, property)
}

// DeleteProperty removes a property with its leases and payments
// @Summary      Delete property
// @Tags         Properties
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Property ID"
// @Success      200  {object}  DeletedResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /properties/{id} [delete]
func (c *PropertyController) DeleteProperty() {
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

// HandlePropertyFunc returns a gin handler for the named property method
func HandlePropertyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPropertyController(ctx, container)

		switch method {
		case "createProperty":
			controller.CreateProperty()
		case "getProperties":
			controller.GetProperties()
		case "getProperty":
			controller.GetProperty()
		case "updateProperty":
			controller.UpdateProperty()
		case "deleteProperty":
			controller.DeleteProperty()
		default:
			invalidMethod(ctx)
		}
	}
}
