// Package handler contains the Pub/Sub push handlers of the event worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"usersvc/config"
	deliverycontext "usersvc/internal/delivery/context"
	"usersvc/internal/domain/constants"
	"usersvc/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// seenCapacity bounds the message IDs remembered for redelivery detection.
const seenCapacity = 1024

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// tokenValidator checks a push request's bearer token against the expected audience.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PushHandler consumes user lifecycle events pushed by Pub/Sub and writes them to the audit log.
type PushHandler struct {
	verifyPushAuth bool
	validateToken  tokenValidator
	logger         *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
	ring []string
	next int
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Google signs push requests; the local publisher does not.
	verifyPushAuth := params.Config.PubSub != nil &&
		strings.EqualFold(strings.TrimSpace(params.Config.PubSub.Provider), constants.PubSubProviderGoogle) &&
		params.Config.Env.Env != constants.EnvLocal

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		validateToken:  idtoken.Validate,
		logger:         params.Logger,
		seen:           make(map[string]struct{}, seenCapacity),
		ring:           make([]string, seenCapacity),
	}
}

// HandlePush handles incoming Pub/Sub push messages. Any 2xx acks the message;
// malformed payloads are answered 400 so they are dead-lettered rather than retried forever.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	eventType := pushMsg.Message.Attributes["event_type"]
	if eventType != constants.EventTypeUserCreated {
		h.logger.Info("[Worker] Ignoring unsupported event",
			slog.String("event_type", eventType),
			slog.String("message_id", pushMsg.Message.MessageID),
		)

		return c.NoContent(http.StatusOK)
	}

	event, err := decodeUserCreated(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode user created event",
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	if h.markSeen(pushMsg.Message.MessageID) {
		reqLogger.Info("[Worker] Duplicate delivery acknowledged",
			slog.String("message_id", pushMsg.Message.MessageID),
		)

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] User created",
		slog.String("message_id", pushMsg.Message.MessageID),
		slog.String("user_id", event.UserID),
		slog.String("name", event.Name),
		slog.String("email", event.Email),
		slog.Time("created_at", event.CreatedAt),
	)

	return c.NoContent(http.StatusOK)
}

func decodeUserCreated(data string) (*service.UserCreatedEvent, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode message data")
	}

	var event service.UserCreatedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, errors.Wrap(err, "unmarshal event")
	}

	if _, err := uuid.Parse(event.UserID); err != nil {
		return nil, errors.Wrapf(err, "invalid user_id %q", event.UserID)
	}

	return &event, nil
}

// extractRequestID prefers the message attribute, then the event payload, then the
// request context set by RequestIDMiddleware.
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.UserCreatedEvent) string {
	if requestID := pushMsg.Message.Attributes["request_id"]; requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// markSeen records id and reports whether it had already been recorded.
// Only the most recent seenCapacity IDs are remembered.
func (h *PushHandler) markSeen(id string) bool {
	if id == "" {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.seen[id]; ok {
		return true
	}

	if evicted := h.ring[h.next]; evicted != "" {
		delete(h.seen, evicted)
	}
	h.ring[h.next] = id
	h.next = (h.next + 1) % len(h.ring)
	h.seen[id] = struct{}{}

	return false
}

// verifyPubSubToken verifies the OIDC token Google attaches to authenticated push requests.
func (h *PushHandler) verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := h.validateToken(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
