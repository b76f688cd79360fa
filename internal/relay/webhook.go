package relay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WebhookPayload is the body FastSpring posts to webhook endpoints.
type WebhookPayload struct {
	Events []fastspring.Event `json:"events"`
}

// WebhookHandler receives webhook deliveries and publishes their events.
type WebhookHandler struct {
	secret    []byte
	publisher Publisher
	logger    fastspring.Logger
	metrics   *WebhookMetrics
}

// NewWebhookHandler creates a handler verifying deliveries with secret.
func NewWebhookHandler(secret string, publisher Publisher, logger fastspring.Logger) (*WebhookHandler, error) {
	if secret == "" {
		return nil, constants.ErrWebhookSecretUnset
	}

	return &WebhookHandler{
		secret:    []byte(secret),
		publisher: publisher,
		logger:    logger,
	}, nil
}

// WithMetrics records every delivery in metrics.
func (h *WebhookHandler) WithMetrics(metrics *WebhookMetrics) *WebhookHandler {
	h.metrics = metrics

	return h
}

// Routes mounts the receiver at path, constants.DefaultWebhookPath when empty.
func (h *WebhookHandler) Routes(path string) chi.Router {
	if path == "" {
		path = constants.DefaultWebhookPath
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Post(path, h.ServeHTTP)

	return router
}

// Sign returns the signature FastSpring sends for body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write(body)

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks signature against body.
func (h *WebhookHandler) Verify(body []byte, signature string) error {
	expected, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: %w", constants.ErrInvalidSignature, err)
	}

	mac := hmac.New(sha256.New, h.secret)
	_, _ = mac.Write(body)

	if !hmac.Equal(expected, mac.Sum(nil)) {
		return constants.ErrInvalidSignature
	}

	return nil
}

// ServeHTTP verifies, decodes and publishes one delivery.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxWebhookBodySize))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, ResultInvalidPayload, fmt.Errorf("%w: %w", constants.ErrInvalidPayload, err))

		return
	}

	err = h.Verify(body, r.Header.Get(constants.SignatureHeader))
	if err != nil {
		h.fail(w, r, http.StatusUnauthorized, ResultInvalidSignature, err)

		return
	}

	var payload WebhookPayload

	err = json.Unmarshal(body, &payload)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, ResultInvalidPayload, fmt.Errorf("%w: %w", constants.ErrInvalidPayload, err))

		return
	}

	var errs []error

	for _, event := range payload.Events {
		err := h.publisher.Publish(r.Context(), event)
		h.metrics.event(err == nil)

		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		// FastSpring redelivers on a non-2xx answer.
		h.fail(w, r, http.StatusInternalServerError, ResultPublishFailed, errors.Join(errs...))

		return
	}

	if h.logger != nil {
		h.logger.Debug("Webhook delivery relayed", map[string]interface{}{
			"events":     len(payload.Events),
			"request_id": middleware.GetReqID(r.Context()),
		})
	}

	h.metrics.delivery(ResultAccepted)
	w.WriteHeader(http.StatusAccepted)
}

func (h *WebhookHandler) fail(w http.ResponseWriter, r *http.Request, status int, result string, err error) {
	h.metrics.delivery(result)

	if h.logger != nil {
		h.logger.Warn("Webhook delivery rejected", map[string]interface{}{
			"status":     status,
			"error":      err.Error(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	}

	http.Error(w, http.StatusText(status), status)
}
