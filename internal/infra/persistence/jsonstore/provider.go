package jsonstore

import (
	"context"
	"log/slog"

	"usersvc/config"
	"usersvc/internal/domain/lifecycle"
	"usersvc/internal/errors"

	"go.uber.org/fx"
)

// Params defines the dependencies of the process-wide store.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewStore builds the store from configuration. The mirror is loaded in the fx start
// hook, so with the "fail" policy an unreadable store stops the process from starting.
func NewStore(params Params) (*Store, error) {
	cfg := params.Config.Store

	mirror, err := newMirror(params.Ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := New(mirror, Options{
		OnLoadError: LoadPolicy(cfg.OnLoadError),
		Logger:      params.Logger,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			return errors.Wrap(store.Load(ctx), "failed to load user store")
		},
		OnStop: func(_ context.Context) error {
			params.Logger.Info("Closing user store", slog.String("location", store.Path()))

			return store.Close()
		},
	})

	return store, nil
}

func newMirror(ctx context.Context, cfg config.StoreConfig) (Mirror, error) {
	switch cfg.Driver {
	case config.StoreDriverFile, "":
		return NewFileMirror(cfg.Path, cfg.AtomicWrite), nil
	case config.StoreDriverBlob:
		return OpenBlobMirror(ctx, cfg.BucketURL, cfg.Path)
	default:
		return nil, errors.Errorf("unknown store driver: %s", cfg.Driver)
	}
}
