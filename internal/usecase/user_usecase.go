// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"usersvc/internal/domain/entity"
)

// CreateUserInput defines the data required to create a user.
type CreateUserInput struct {
	Name  string
	Email string
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
}
