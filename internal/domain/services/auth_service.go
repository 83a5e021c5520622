package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/pkg/utils"
)

// InterfaceAuthService covers account and session operations
type InterfaceAuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, userID string) (*AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error)
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"demo@rentapp.com"`
	Password  string `json:"password" binding:"required,min=8" example:"password123"`
	FirstName string `json:"firstName" binding:"required" example:"John"`
	LastName  string `json:"lastName" binding:"required" example:"Landlord"`
	Phone     string `json:"phone" example:"555-123-4567"`
}

// UpdateProfileRequest is the body of PATCH /auth/profile
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1"`
	Phone     *string `json:"phone"`
}

// AuthResult is the sanitized user plus a fresh token pair
type AuthResult struct {
	User *models.User `json:"user"`
	TokenPair
}

// AuthService implements InterfaceAuthService
type AuthService struct {
	DB         *gorm.DB
	Config     *config.Config
	JWTService InterfaceJWTService
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, cfg *config.Config, jwtService InterfaceJWTService) InterfaceAuthService {
	return &AuthService{
		DB:         db,
		Config:     cfg,
		JWTService: jwtService,
	}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.TrimSpace(req.Email)

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, code.Wrap(code.ErrDatabase, "", err)
	}
	if count > 0 {
		return nil, code.New(code.ErrUserAlreadyExist, "")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, code.Wrap(code.ErrUnknown, "", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, code.Wrap(code.ErrDatabase, "", err)
	}

	return s.issue(user)
}

// Login answers "Invalid credentials" for both an unknown email and a wrong
// password so accounts cannot be enumerated
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.New(code.ErrInvalidCredentials, "")
	}
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, "", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, code.New(code.ErrInvalidCredentials, "")
	}

	return s.issue(&user)
}

func (s *AuthService) RefreshToken(ctx context.Context, userID string) (*AuthResult, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.New(code.ErrUserNotFound, "")
	}
	if err != nil {
		return nil, code.Wrap(code.ErrDatabase, "", err)
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, code.Wrap(code.ErrDatabase, "", err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	tokens, err := s.JWTService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, code.Wrap(code.ErrUnknown, "", err)
	}
	return &AuthResult{User: user, TokenPair: *tokens}, nil
}
