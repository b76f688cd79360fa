// Package fsclient provides the main entry point for creating FastSpring API clients
package fsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/fastspring-client/internal/client"
	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/internal/spec"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// New creates a new FastSpring API client. An empty BaseURL selects the
// production endpoint.
func New(ctx context.Context, config *fastspring.Config) (fastspring.Client, error) {
	if config == nil {
		return nil, fastspring.ErrConfigRequired
	}

	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	config.BaseURL = normalizeBaseURL(config.BaseURL)

	err = config.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Fail fast on a broken embedded API description instead of on first call.
	_, err = spec.Load()
	if err != nil {
		return nil, fmt.Errorf("loading API description: %w", err)
	}

	fsClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return fsClient, nil
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return constants.DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

// NewWithEndpoint creates a new client with just an API endpoint (no auth).
func NewWithEndpoint(ctx context.Context, endpoint string) (fastspring.Client, error) {
	return New(ctx, &fastspring.Config{
		BaseURL: endpoint,
	})
}

// NewWithBasicAuth creates a new client authenticating with the API
// credentials of a FastSpring store.
func NewWithBasicAuth(ctx context.Context, endpoint, username, password string) (fastspring.Client, error) {
	return New(ctx, &fastspring.Config{
		BaseURL:  endpoint,
		Username: username,
		Password: password,
	})
}

// NewWithToken creates a new client with an API endpoint and bearer token.
func NewWithToken(ctx context.Context, endpoint, token string) (fastspring.Client, error) {
	return New(ctx, &fastspring.Config{
		BaseURL:     endpoint,
		AccessToken: token,
	})
}

// NewFromEnv creates a new client from FASTSPRING_* environment variables.
func NewFromEnv(ctx context.Context) (fastspring.Client, error) {
	config, err := fastspring.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("reading config from environment: %w", err)
	}

	return New(ctx, config)
}
