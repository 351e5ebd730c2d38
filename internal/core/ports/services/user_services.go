package services

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
)

// UserSvcFacade exposes user administration and credential checks.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
	// Authenticate verifies username/password and returns the active user.
	Authenticate(ctx context.Context, username string, password string) (*domain.User, error)
}
