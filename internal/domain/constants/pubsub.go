// Package constants holds identifiers shared across layers.
package constants

// Pub/Sub providers accepted in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// EventTypeUserCreated is the event_type attribute of user creation events.
const EventTypeUserCreated = "user.created"

// Deployment environments (env.env).
const (
	EnvLocal = "local"
	EnvProd  = "prod"
)
