package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/app/middleware"
	"github.com/arasfeld/rent-app/internal/app/validation"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/error/response"
)

// DeletedResponse is returned by every DELETE endpoint
type DeletedResponse struct {
	ID string `json:"id" example:"5f0c2a8e-6d4b-4e51-9b1f-0c5a7e3d2b10"`
}

// bindJSON binds the request body and writes a 400 on failure
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		response.FailWithMessage(ctx, code.ErrValidation, validation.Message(err))
		return false
	}
	return true
}

// bindQuery binds the query string and writes a 400 on failure
func bindQuery(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindQuery(obj); err != nil {
		response.FailWithMessage(ctx, code.ErrValidation, validation.Message(err))
		return false
	}
	return true
}

// currentUser returns the authenticated user id, writing a 401 when absent
func currentUser(ctx *gin.Context) (string, bool) {
	userID := middleware.UserID(ctx)
	if userID == "" {
		response.Unauthorized(ctx, "")
		return "", false
	}
	return userID, true
}

func invalidMethod(ctx *gin.Context) {
	response.FailWithMessage(ctx, code.ErrBind, "invalid method")
}
