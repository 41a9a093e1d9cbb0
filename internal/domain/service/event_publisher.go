package service

import (
	"context"
	"time"
)

// UserCreatedEvent is published after a user has been persisted.
type UserCreatedEvent struct {
	RequestID string    `json:"request_id,omitempty"` // For distributed tracing
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishUserCreated publishes a user creation event
	PublishUserCreated(ctx context.Context, event *UserCreatedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
