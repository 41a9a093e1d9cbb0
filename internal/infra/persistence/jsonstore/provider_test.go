package jsonstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"usersvc/config"
	"usersvc/internal/domain/repository"
	"usersvc/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newProviderParams(t *testing.T, lc *fxtest.Lifecycle, store config.StoreConfig) Params {
	t.Helper()

	return Params{
		Lc:     lc,
		Ctx:    context.Background(),
		Config: &config.Config{Store: store},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNewStore_LoadsOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	lc := fxtest.NewLifecycle(t)

	store, err := NewStore(newProviderParams(t, lc, config.StoreConfig{Driver: config.StoreDriverFile, Path: path}))
	require.NoError(t, err)
	assert.Equal(t, repository.StoreUninitialized, store.Status().State)

	lc.RequireStart()
	assert.Equal(t, repository.StoreLoaded, store.Status().State)
	assert.FileExists(t, path)

	lc.RequireStop()
}

func TestNewStore_FailPolicyRefusesStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"broken":`), 0o600))

	lc := fxtest.NewLifecycle(t)
	store, err := NewStore(newProviderParams(t, lc, config.StoreConfig{
		Path:        path,
		OnLoadError: config.OnLoadErrorFail,
	}))
	require.NoError(t, err)

	err = lc.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreParse))
	assert.Equal(t, repository.StoreUninitialized, store.Status().State)
}

func TestNewStore_EmptyPolicyStartsDegraded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"broken":`), 0o600))

	lc := fxtest.NewLifecycle(t)
	store, err := NewStore(newProviderParams(t, lc, config.StoreConfig{
		Path:        path,
		OnLoadError: config.OnLoadErrorEmpty,
	}))
	require.NoError(t, err)

	lc.RequireStart()
	health := store.Status()
	assert.Equal(t, repository.StoreDegraded, health.State)
	assert.False(t, health.Healthy())
	assert.NotEmpty(t, health.LoadError)

	lc.RequireStop()
}

func TestNewStore_UnknownDriver(t *testing.T) {
	_, err := NewStore(newProviderParams(t, fxtest.NewLifecycle(t), config.StoreConfig{Driver: "sqlite"}))
	assert.Error(t, err)
}
