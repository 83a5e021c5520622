package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/error/response"
)

// InterfacePaymentController defines the payment endpoints
type InterfacePaymentController interface {
	CreatePayment()
	RecordPayment()
	GetPayments()
	GetSummary()
	GetPayment()
	UpdatePayment()
	DeletePayment()
}

// PaymentController handles rent and fee payments
type PaymentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPaymentController creates a new payment controller
func NewPaymentController(ctx *gin.Context, container *container.ServiceContainer) *PaymentController {
	return &PaymentController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *PaymentController) service() services.InterfacePaymentService {
	return c.Container.GetService("payment").(services.InterfacePaymentService)
}

// CreatePayment schedules a pending payment for a lease
// @Summary      Create payment
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.CreatePaymentRequest true "Payment"
// @Success      201  {object}  models.Payment
// @Failure      400  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /payments [post]
func (c *PaymentController) CreatePayment() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.CreatePaymentRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	payment, err := c.service().Create(c.Ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, payment)
}

// RecordPayment settles the oldest pending rent payment of a lease, or books
// a completed payment for the current month when none is pending
// @Summary      Record payment
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.RecordPaymentRequest true "Received payment"
// @Success      201  {object}  models.Payment
// @Failure      400  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /payments/record [post]
func (c *PaymentController) RecordPayment() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.RecordPaymentRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	payment, err := c.service().RecordPayment(c.Ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, payment)
}

// GetPayments lists payments
// @Summary      List payments
// @Tags         Payments
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, default 1"
// @Param        limit query int false "Page size, default 10, max 100"
// @Param        status query string false "pending, completed, failed, refunded or cancelled"
// @Param        type query string false "Payment type"
// @Param        method query string false "Payment method"
// @Param        leaseId query string false "Lease ID"
// @Param        tenantId query string false "Tenant ID"
// @Param        propertyId query string false "Property ID"
// @Param        dueDateFrom query string false "Inclusive lower bound, ISO 8601"
// @Param        dueDateTo query string false "Inclusive upper bound, ISO 8601"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  response.ErrorResponse
// @Router       /payments [get]
func (c *PaymentController) GetPayments() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var query services.PaymentQuery
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

// GetSummary totals the current month
// @Summary      Payment summary
// @Tags         Payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.PaymentSummary
// @Router       /payments/summary [get]
func (c *PaymentController) GetSummary() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	summary, err := c.service().GetSummary(c.Ctx.Request.Context(), ownerID)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, summary)
}

// GetPayment returns one payment
// @Summary      Get payment
// @Tags         Payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment ID"
// @Success      200  {object}  models.Payment
// @Failure      404  {object}  response.ErrorResponse
// @Router       /payments/{id} [get]
func (c *PaymentController) GetPayment() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	payment, err := c.service().FindOne(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"))
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, payment)
}

// UpdatePayment patches a payment and recomputes its total
// @Summary      Update payment
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment ID"
// @Param        request body services.UpdatePaymentRequest true "Fields to change"
// @Success      200  {object}  models.Payment
// @Failure      400  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /payments/{id} [patch]
func (c *PaymentController) UpdatePayment() {
	ownerID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.UpdatePaymentRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	payment, err := c.service().Update(c.Ctx.Request.Context(), ownerID, c.Ctx.Param("id"), req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, payment)
}

// DeletePayment removes a payment
// @Summary      Delete payment
// @Tags         Payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment ID"
// @Success      200  {object}  DeletedResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /payments/{id} [delete]
func (c *PaymentController) DeletePayment() {
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

// HandlePaymentFunc returns a gin handler for the named payment method
func HandlePaymentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPaymentController(ctx, container)

		switch method {
		case "createPayment":
			controller.CreatePayment()
		case "recordPayment":
			controller.RecordPayment()
		case "getPayments":
			controller.GetPayments()
		case "getSummary":
			controller.GetSummary()
		case "getPayment":
			controller.GetPayment()
		case "updatePayment":
			controller.UpdatePayment()
		case "deletePayment":
			controller.DeletePayment()
		default:
			invalidMethod(ctx)
		}
	}
}
