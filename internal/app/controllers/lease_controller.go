package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/app/validation"
	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/error/response"
)

// maxDocumentSize caps a single lease document upload
const maxDocumentSize = 10 << 20

// InterfaceLeaseController defines the lease and lease document endpoints
type InterfaceLeaseController interface {
	CreateLease()
	GetLeases()
	GetLease()
	UpdateLease()
	DeleteLease()
	UploadDocument()
	GetDocuments()
	DeleteDocument()
}

// LeaseController handles leases and their documents
type LeaseController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewLeaseController creates a new lease controller
func NewLeaseController(ctx *gin.Context, container *container.ServiceContainer) *LeaseController {
	return &LeaseController{
		Ctx:       ctx,
		Container: container,
	}
}

// UploadDocumentForm holds the non-file fields of a document upload
type UploadDocumentForm struct {
	Name string              `form:"name"`
	Type models.DocumentType `form:"type" binding:"omitempty,oneof=lease_agreement addendum notice other"`
}

func (c *LeaseController) service() services.InterfaceLeaseService {
	return c.Container.GetService("lease").(services.InterfaceLeaseService)
}

// documents returns nil when no storage backend is configured
func (c *LeaseController) documents() services.InterfaceDocumentService {
	svc, _ := c.Container.GetService("document").(services.InterfaceDocumentService)
	return svc
}

// CreateLease starts an active lease, occupying the property and activating the tenant
// @Summary      Create lease
// @Tags         Leases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.CreateLeaseRequest true "Lease"
// @Success      201  {object}  models.Lease
// @Failure      400  {object}  response.ErrorResponse "Validation failed or the property already has an active lease"
// @Failure      404  {object}  response.ErrorResponse "Property or tenant not found"
// @Router       /leases [post]
func (c *LeaseController) CreateLease() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.CreateLeaseRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	lease, err := c.service().Create(c.Ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, lease)
}

// GetLeases lists leases
// @Summary      List leases
// @Tags         Leases
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        limit query int false "Page size, default 10, max 100"
// @Param        status query string false "draft, active, expired, terminated or renewed"
// @Param        type query string false "fixed or month_to_month"
// @Param        propertyId query string false "Property ID"
// @Param        tenantId query string false "Tenant ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.ErrorResponse
// @Router       /leases [get]
func (c *LeaseController) GetLeases() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var query services.LeaseQuery
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

// GetLease returns a lease with payments and documents
// @Summary      Get lease
// @Tags         Leases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lease ID"
// @Success      200  {object}  models.Lease
// @Failure      404  {object}  response.ErrorResponse
// @Router       /leases/{id} [get]
func (c *LeaseController) GetLease() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	lease, err := c.service().FindOne(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"))
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, lease)
}

// UpdateLease patches a lease. Ending it frees the property.
// @Summary      Update lease
// @Tags         Leases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lease ID"
// @Param        request body services.UpdateLeaseRequest true "Fields to change"
// @Success      200  {object}  models.Lease
// @Failure      400  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /leases/{id} [patch]
func (c *LeaseController) UpdateLease() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.UpdateLeaseRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	lease, err := c.service().Update(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"), req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, lease)
}

// DeleteLease removes a lease and its payments
// @Summary      Delete lease
// @Tags         Leases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lease ID"
// @Success      200  {object}  DeletedResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /leases/{id} [delete]
func (c *LeaseController) DeleteLease() {
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

// UploadDocument attaches a file to a lease
// @Summary      Upload lease document
// @Tags         Leases
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lease ID"
// @Param        file formData file true "Document"
// @Param        name formData string false "Display name, defaults to the file name"
// @Param        type formData string false "lease_agreement, addendum, notice or other"
// @Success      201  {object}  models.LeaseDocument
// @Failure      400  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Failure      500  {object}  response.ErrorResponse
// @Router       /leases/{id}/documents [post]
func (c *LeaseController) UploadDocument() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}
	docs := c.documents()
	if docs == nil {
		response.FailWithMessage(c.Ctx, code.ErrStorage, "document storage is not configured")
		return
	}

	var form UploadDocumentForm
	if err := c.Ctx.ShouldBind(&form); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrValidation, validation.Message(err))
		return
	}

	header, err := c.Ctx.FormFile("file")
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrValidation, "file: is required")
		return
	}
	if header.Size > maxDocumentSize {
		response.FailWithMessage(c.Ctx, code.ErrValidation, fmt.Sprintf("file: must be at most %d MB", maxDocumentSize>>20))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "file could not be read")
		return
	}
	defer file.Close()

	doc, err := docs.Upload(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"), services.UploadDocumentInput{
		Name:        form.Name,
		Type:        form.Type,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, doc)
}

// GetDocuments lists a lease's documents, newest first
// @Summary      List lease documents
// @Tags         Leases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lease ID"
// @Success      200  {array}   models.LeaseDocument
// @Failure      404  {object}  response.ErrorResponse
// @Router       /leases/{id}/documents [get]
func (c *LeaseController) GetDocuments() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}
	docs := c.documents()
	if docs == nil {
		response.FailWithMessage(c.Ctx, code.ErrStorage, "document storage is not configured")
		return
	}

	list, err := docs.List(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"))
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, list)
}

// DeleteDocument removes a document and its stored file
// @Summary      Delete lease document
// @Tags         Leases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lease ID"
// @Param        documentId path string true "Document ID"
// @Success      200  {object}  DeletedResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /leases/{id}/documents/{documentId} [delete]
func (c *LeaseController) DeleteDocument() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}
	docs := c.documents()
	if docs == nil {
		response.FailWithMessage(c.Ctx, code.ErrStorage, "document storage is not configured")
		return
	}

	documentID := c.Ctx.Param("documentId")
	if err := docs.Remove(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"), documentID); err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, DeletedResponse{ID: documentID})
}

// HandleLeaseFunc returns a gin handler for the named lease method
func HandleLeaseFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewLeaseController(ctx, container)

		switch method {
		case "createLease":
			controller.CreateLease()
		case "getLeases":
			controller.GetLeases()
		case "getLease":
			controller.GetLease()
		case "updateLease":
			controller.UpdateLease()
		case "deleteLease":
			controller.DeleteLease()
		case "uploadDocument":
			controller.UploadDocument()
		case "getDocuments":
			controller.GetDocuments()
		case "deleteDocument":
			controller.DeleteDocument()
		default:
			invalidMethod(ctx)
		}
	}
}
