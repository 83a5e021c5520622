package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/pkg/logger"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success writes data with 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes data with 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Fail writes the default message of an error code
func Fail(c *gin.Context, errorCode int) {
	FailWithMessage(c, errorCode, code.GetMessage(errorCode))
}

// FailWithMessage writes an error code with a custom message
func FailWithMessage(c *gin.Context, errorCode int, message string) {
	c.AbortWithStatusJSON(code.GetStatus(errorCode), ErrorResponse{
		Code:    errorCode,
		Message: message,
	})
}

// HandleError maps a service error to its response. Errors that are not
// *code.Error are logged and reported as 500 without leaking details.
func HandleError(c *gin.Context, err error) {
	if appErr, ok := code.As(err); ok {
		if appErr.Status() >= http.StatusInternalServerError {
			logger.L().Error("request failed",
				zap.String("path", c.Request.URL.Path),
				zap.Int("code", appErr.Code),
				zap.Error(err))
		}
		FailWithMessage(c, appErr.Code, appErr.Message)
		return
	}

	logger.L().Error("unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	Fail(c, code.ErrUnknown)
}

// Unauthorized reports a missing or invalid token
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrTokenInvalid)
	}
	FailWithMessage(c, code.ErrTokenInvalid, message)
}
