package service

import (
	"context"

	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"github.com/nirmalkarki/udharo-api/pkg/apperror"
	"github.com/nirmalkarki/udharo-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles login and token issuance.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	policy     *access.Policy
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, policy *access.Policy) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		policy:     policy,
	}
}

// LoginInput contains the credentials for login.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is the login response: token, user and the capability
// set the client uses to show or hide actions.
type LoginResult struct {
	AccessToken string               `json:"access_token"`
	User        *entity.User         `json:"user"`
	Permissions access.PermissionSet `json:"permissions"`
}

// Login verifies the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Role, user.BusinessID, user.StoreID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		User:        user,
		Permissions: s.policy.PermissionsFor(user.Role),
	}, nil
}
