package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/error/response"
)

// InterfaceAuthController defines the account endpoints
type InterfaceAuthController interface {
	Register()
	Login()
	Refresh()
	GetProfile()
	UpdateProfile()
}

// AuthController handles registration, login and the profile of the caller
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController creates a new auth controller
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"demo@rentapp.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

func (c *AuthController) service() services.InterfaceAuthService {
	return c.Container.GetService("auth").(services.InterfaceAuthService)
}

// Register creates an account
// @Summary      Register
// @Description  Create a landlord account and receive a token pair
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body services.RegisterRequest true "Account details"
// @Success      201  {object}  services.AuthResult
// @Failure      400  {object}  response.ErrorResponse
// @Failure      409  {object}  response.ErrorResponse
// @Router       /auth/register [post]
func (c *AuthController) Register() {
	var req services.RegisterRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	result, err := c.service().Register(c.Ctx.Request.Context(), req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, result)
}

// Login exchanges credentials for a token pair
// @Summary      Login
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  services.AuthResult
// @Failure      400  {object}  response.ErrorResponse
// @Failure      401  {object}  response.ErrorResponse
// @Router       /auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	result, err := c.service().Login(c.Ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// Refresh issues a new token pair for the bearer of a valid token
// @Summary      Refresh tokens
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.AuthResult
// @Failure      401  {object}  response.ErrorResponse
// @Router       /auth/refresh [post]
func (c *AuthController) Refresh() {
	userID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	result, err := c.service().RefreshToken(c.Ctx.Request.Context(), userID)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, result)
}

// GetProfile returns the caller's account
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /auth/me [get]
func (c *AuthController) GetProfile() {
	userID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	user, err := c.service().GetProfile(c.Ctx.Request.Context(), userID)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, user)
}

// UpdateProfile changes the caller's name or phone
// @Summary      Update profile
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.UpdateProfileRequest true "Fields to change"
// @Success      200  {object}  models.User
// @Failure      400  {object}  response.ErrorResponse
// @Failure      401  {object}  response.ErrorResponse
// @Router       /auth/profile [patch]
func (c *AuthController) UpdateProfile() {
	userID, ok := currentUser(c.Ctx)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if !bindJSON(c.Ctx, &req) {
		return
	}

	user, err := c.service().UpdateProfile(c.Ctx.Request.Context(), userID, req)
	if err != nil {
		response.HandleError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, user)
}

// HandleAuthFunc returns a gin handler for the named auth method
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "register":
			controller.Register()
		case "login":
			controller.Login()
		case "refresh":
			controller.Refresh()
		case "getProfile":
			controller.GetProfile()
		case "updateProfile":
			controller.UpdateProfile()
		default:
			invalidMethod(ctx)
		}
	}
}
