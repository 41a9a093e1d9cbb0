// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"usersvc/internal/domain/entity"
)

// UserRepository is the ordered, append-only user collection.
type UserRepository interface {
	// Add appends user to the end of the collection and persists the whole collection.
	Add(ctx context.Context, user *entity.User) error

	// List returns an independent copy of the collection in insertion order.
	List(ctx context.Context) ([]*entity.User, error)
}

// HealthReporter is implemented by repositories that can report their load state.
type HealthReporter interface {
	Status() StoreHealth
}

// StoreState is the lifecycle state of a store.
type StoreState string

const (
	StoreUninitialized StoreState = "uninitialized"
	StoreLoaded        StoreState = "loaded"
	StoreDegraded      StoreState = "degraded" // load failed and the store fell back to empty
)

// StoreHealth is a point-in-time view of a store.
type StoreHealth struct {
	State     StoreState `json:"state"`
	Location  string     `json:"location"`
	Records   int        `json:"records"`
	LoadError string     `json:"load_error,omitempty"`
}

// Healthy reports whether the store is usable without data loss.
func (h StoreHealth) Healthy() bool {
	return h.State != StoreDegraded
}
