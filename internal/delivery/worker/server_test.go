package worker

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"usersvc/config"
	"usersvc/internal/delivery/worker/handler"
	"usersvc/internal/domain/constants"
	"usersvc/internal/domain/service"
	"usersvc/internal/infra/pubsub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPushHandler() *handler.PushHandler {
	return handler.NewPushHandler(handler.PushHandlerParams{Config: &config.Config{}, Logger: newDiscardLogger()})
}

// The local publisher and the worker must agree on the push wire format.
func TestWorker_AcceptsLocalPublisherPushes(t *testing.T) {
	e := NewEcho(&config.Config{}, newDiscardLogger(), newPushHandler())
	ts := httptest.NewServer(e)
	defer ts.Close()

	publisher := pubsub.NewLocalHTTPPublisher(ts.URL+"/push", newDiscardLogger())
	err := publisher.PublishUserCreated(context.Background(), &service.UserCreatedEvent{
		RequestID: "req-1",
		UserID:    "6f1c7f5e-2a9b-4c47-9f5e-1d2b3c4d5e6f",
		Name:      "Ada",
		Email:     "ada@example.com",
		CreatedAt: time.Now().UTC(),
	})

	require.NoError(t, err)
}

func TestWorker_Health(t *testing.T) {
	e := NewEcho(&config.Config{}, newDiscardLogger(), newPushHandler())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewServer_Lifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderLocal}}

	srv, err := NewServer(ServerParams{Lc: lc, Cfg: cfg, Logger: newDiscardLogger(), PushHandler: newPushHandler()})
	require.NoError(t, err)
	require.NotNil(t, srv)

	lc.RequireStart()
	lc.RequireStop()
}
