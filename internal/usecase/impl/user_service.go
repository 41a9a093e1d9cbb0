package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "usersvc/internal/delivery/context"
	"usersvc/internal/domain/entity"
	domainerrors "usersvc/internal/domain/errors"
	"usersvc/internal/domain/repository"
	"usersvc/internal/domain/service"
	"usersvc/internal/usecase"

	"go.uber.org/fx"
)

// UserServiceParams holds dependencies for the user service, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo  repository.UserRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

type userService struct {
	userRepo  repository.UserRepository
	publisher service.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewUserService creates a new user service instance
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:  params.UserRepo,
		publisher: params.Publisher,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// CreateUser builds a user with a fresh ID and appends it to the store.
// A failed event publish is logged and does not fail the call.
func (s *userService) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*entity.User, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	user := entity.NewUser(input.Name, input.Email)
	if err := s.userRepo.Add(ctx, user); err != nil {
		logger.Error("Failed to persist user",
			slog.String("user_id", user.ID.String()),
			slog.Any("error", err),
		)

		return nil, domainerrors.ErrUserCreationFailed.Wrap(err)
	}

	logger.Info("User created", slog.String("user_id", user.ID.String()))

	if s.publisher != nil {
		event := &service.UserCreatedEvent{
			RequestID: deliverycontext.GetRequestIDFromContext(ctx),
			UserID:    user.ID.String(),
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: s.now().UTC(),
		}
		if err := s.publisher.PublishUserCreated(ctx, event); err != nil {
			logger.Warn("Failed to publish user created event",
				slog.String("user_id", event.UserID),
				slog.Any("error", err),
			)
		}
	}

	return user, nil
}

// ListUsers returns every user in insertion order.
func (s *userService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, s.logger).Error("Failed to list users", slog.Any("error", err))

		return nil, domainerrors.ErrUserListFailed.Wrap(err)
	}

	return users, nil
}
