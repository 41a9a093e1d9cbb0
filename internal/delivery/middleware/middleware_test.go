package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"usersvc/config"
	deliverycontext "usersvc/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func TestRequestIDMiddleware_Process(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		keepsID bool
	}{
		{name: "generated when absent", header: ""},
		{name: "reused from client", header: "client-123", keepsID: true},
		{name: "replaced when too long", header: strings.Repeat("x", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seenCtxID string
			var seenLogger *slog.Logger
			mw := NewRequestIDMiddleware(slog.Default())
			err := mw.Process(func(c echo.Context) error {
				seenCtxID = deliverycontext.GetRequestIDFromContext(c.Request().Context())
				seenLogger = deliverycontext.GetLoggerOrDefault(c.Request().Context(), nil)

				return nil
			})(c)
			require.NoError(t, err)

			id := deliverycontext.GetRequestID(c)
			assert.NotEmpty(t, id)
			assert.Equal(t, id, seenCtxID)
			assert.Equal(t, id, rec.Header().Get(deliverycontext.HeaderXRequestID))
			assert.NotNil(t, seenLogger)
			if tt.keepsID {
				assert.Equal(t, tt.header, id)
			} else {
				assert.NotEqual(t, tt.header, id)
			}
		})
	}
}

func TestLoggerMiddleware_Handle(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Env.Debug = true

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewLoggerMiddleware(newBufferLogger(&buf), cfg)
	err := mw.Handle(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "down")
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"status":503`)
	assert.Contains(t, buf.String(), `"uri":"/v1/users"`)
}

func TestLoggerMiddleware_DisabledPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggerMiddleware(newBufferLogger(&buf), &config.Config{})

	sentinel := echo.NewHTTPError(http.StatusTeapot)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := mw.Handle(func(echo.Context) error { return sentinel })(c)

	assert.Equal(t, sentinel, err)
	assert.Empty(t, buf.String())
}
