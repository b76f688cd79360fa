package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// WebhooksClient implements fastspring.WebhooksClient.
type WebhooksClient struct {
	httpClient *http.Client
}

// NewWebhooksClient creates a new webhooks client.
func NewWebhooksClient(httpClient *http.Client) *WebhooksClient {
	return &WebhooksClient{
		httpClient: httpClient,
	}
}

// List implements fastspring.WebhooksClient.List.
func (c *WebhooksClient) List(ctx context.Context) (*fastspring.WebhookList, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/webhooks",
	})
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	return decode[fastspring.WebhookList](resp, "webhooks list")
}

// Upsert implements fastspring.WebhooksClient.Upsert.
func (c *WebhooksClient) Upsert(ctx context.Context, request *fastspring.WebhookRequest) (*fastspring.WebhookList, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/webhooks",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("saving webhooks: %w", err)
	}

	return decode[fastspring.WebhookList](resp, "webhooks list")
}

// Get implements fastspring.WebhooksClient.Get.
func (c *WebhooksClient) Get(ctx context.Context, webhookID string) (*fastspring.Webhook, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/webhooks/{webhook_id}",
		Params:   map[string]string{"webhook_id": webhookID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting webhook: %w", err)
	}

	return decode[fastspring.Webhook](resp, "webhook")
}

// Delete implements fastspring.WebhooksClient.Delete.
func (c *WebhooksClient) Delete(ctx context.Context, webhookID string) (*fastspring.ActionResult, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodDelete,
		Template: "/webhooks/{webhook_id}",
		Params:   map[string]string{"webhook_id": webhookID},
	})
	if err != nil {
		return nil, fmt.Errorf("deleting webhook: %w", err)
	}

	return decode[fastspring.ActionResult](resp, "webhook delete response")
}
