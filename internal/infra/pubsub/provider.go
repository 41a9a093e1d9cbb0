package pubsub

import (
	"context"
	"log/slog"
	"strings"

	"usersvc/config"
	"usersvc/internal/domain/constants"
	"usersvc/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ErrInvalidPublisherConfig is returned when the pubsub section cannot produce a publisher.
var ErrInvalidPublisherConfig = errors.New("invalid pubsub configuration")

// noopPublisher drops user.created events when no provider is configured.
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishUserCreated(_ context.Context, event *service.UserCreatedEvent) error {
	p.logger.Debug("[NoopPubSub] Dropping event",
		slog.String("event_type", constants.EventTypeUserCreated),
		slog.String("user_id", event.UserID),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher picks the user.created publisher named by pubsub.provider.
// An absent or empty section disables publishing; user creation never depends on it.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	logger := params.Logger.With(slog.String("event_type", constants.EventTypeUserCreated))

	cfg := params.Config.PubSub
	if cfg == nil || strings.TrimSpace(cfg.Provider) == "" {
		logger.Info("User events disabled, no pubsub provider configured")

		return &noopPublisher{logger: logger}, nil
	}

	publisher, err := openPublisher(params.Ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			logger.Info("Closing user event publisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func openPublisher(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))

	switch provider {
	case constants.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.Wrap(ErrInvalidPublisherConfig, "pubsub.localEndpoint is required for the local provider")
		}
		logger.Info("Publishing user events over local HTTP push",
			slog.String("endpoint", cfg.LocalEndpoint),
		)

		return NewLocalHTTPPublisher(cfg.LocalEndpoint, logger), nil

	case constants.PubSubProviderGoogle:
		var missing []string
		if cfg.ProjectID == "" {
			missing = append(missing, "pubsub.projectId")
		}
		if cfg.TopicID == "" {
			missing = append(missing, "pubsub.topicId")
		}
		if len(missing) > 0 {
			return nil, errors.Wrapf(ErrInvalidPublisherConfig, "google provider requires %s", strings.Join(missing, ", "))
		}
		logger.Info("Publishing user events to Google Pub/Sub",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		return NewGooglePubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID, logger)

	default:
		return nil, errors.Wrapf(ErrInvalidPublisherConfig, "unknown provider %q", cfg.Provider)
	}
}
