package constants

import "errors"

// Configuration errors.
var (
	ErrNoCredentials      = errors.New("no FastSpring credentials configured, use 'fastspring login' first")
	ErrConfigKeyUnknown   = errors.New("unknown configuration key")
	ErrWebhookSecretUnset = errors.New("webhook secret is required, set --secret or FASTSPRING_WEBHOOK_SECRET")
)

// Validation errors.
var (
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidOutputFormat = errors.New("invalid output format, expected table, json or yaml")
	ErrPasswordRequired    = errors.New("password is required")
	ErrUsernameRequired    = errors.New("username is required")
)

// Operation errors.
var (
	ErrJobFailed          = errors.New("report job failed")
	ErrJobPollTimeout     = errors.New("timed out waiting for report job")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrPublisherClosed    = errors.New("publisher is closed")
	ErrEmptyEventType     = errors.New("event type is required")
	ErrOperationCancelled = errors.New("operation cancelled")
)
