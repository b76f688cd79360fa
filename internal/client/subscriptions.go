package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// SubscriptionsClient implements fastspring.SubscriptionsClient.
type SubscriptionsClient struct {
	httpClient *http.Client
}

// NewSubscriptionsClient creates a new subscriptions client.
func NewSubscriptionsClient(httpClient *http.Client) *SubscriptionsClient {
	return &SubscriptionsClient{
		httpClient: httpClient,
	}
}

// List implements fastspring.SubscriptionsClient.List.
func (c *SubscriptionsClient) List(ctx context.Context, params *fastspring.SubscriptionListParams) (*fastspring.SubscriptionList, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/subscriptions",
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	return decode[fastspring.SubscriptionList](resp, "subscriptions list")
}

// Update implements fastspring.SubscriptionsClient.Update.
func (c *SubscriptionsClient) Update(ctx context.Context, request *fastspring.SubscriptionsUpdateRequest) (*fastspring.SubscriptionsResult, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/subscriptions",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("updating subscriptions: %w", err)
	}

	return decode[fastspring.SubscriptionsResult](resp, "subscriptions response")
}

// Get implements fastspring.SubscriptionsClient.Get.
func (c *SubscriptionsClient) Get(ctx context.Context, subscriptionID string) (*fastspring.Subscription, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/subscriptions/{subscription_id}",
		Params:   map[string]string{"subscription_id": subscriptionID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting subscription: %w", err)
	}

	return decode[fastspring.Subscription](resp, "subscription")
}

// Cancel implements fastspring.SubscriptionsClient.Cancel.
func (c *SubscriptionsClient) Cancel(ctx context.Context, subscriptionID string, params *fastspring.SubscriptionCancelParams) (*fastspring.SubscriptionsResult, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodDelete,
		Template: "/subscriptions/{subscription_id}",
		Params:   map[string]string{"subscription_id": subscriptionID},
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("canceling subscription: %w", err)
	}

	return decode[fastspring.SubscriptionsResult](resp, "subscriptions response")
}

// Entries implements fastspring.SubscriptionsClient.Entries.
func (c *SubscriptionsClient) Entries(ctx context.Context, subscriptionID string) ([]fastspring.SubscriptionEntry, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/subscriptions/{subscription_id}/entries",
		Params:   map[string]string{"subscription_id": subscriptionID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting subscription entries: %w", err)
	}

	var entries []fastspring.SubscriptionEntry

	err = json.Unmarshal(resp.Body, &entries)
	if err != nil {
		return nil, fmt.Errorf("parsing subscription entries: %w", err)
	}

	return entries, nil
}

// History implements fastspring.SubscriptionsClient.History.
func (c *SubscriptionsClient) History(ctx context.Context, subscriptionID string, params *fastspring.SubscriptionHistoryParams) (*fastspring.SubscriptionHistory, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/subscriptions/{subscription_id}/history",
		Params:   map[string]string{"subscription_id": subscriptionID},
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("getting subscription history: %w", err)
	}

	return decode[fastspring.SubscriptionHistory](resp, "subscription history")
}

// Pause implements fastspring.SubscriptionsClient.Pause.
func (c *SubscriptionsClient) Pause(ctx context.Context, subscriptionID string, request *fastspring.SubscriptionPauseRequest) (*fastspring.SubscriptionStatus, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/subscriptions/{subscription_id}/pause",
		Params:   map[string]string{"subscription_id": subscriptionID},
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("pausing subscription: %w", err)
	}

	return decode[fastspring.SubscriptionStatus](resp, "subscription status")
}

// Resume implements fastspring.SubscriptionsClient.Resume.
func (c *SubscriptionsClient) Resume(ctx context.Context, subscriptionID string) (*fastspring.SubscriptionStatus, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/subscriptions/{subscription_id}/resume",
		Params:   map[string]string{"subscription_id": subscriptionID},
	})
	if err != nil {
		return nil, fmt.Errorf("resuming subscription: %w", err)
	}

	return decode[fastspring.SubscriptionStatus](resp, "subscription status")
}

// ConvertTrial implements fastspring.SubscriptionsClient.ConvertTrial.
func (c *SubscriptionsClient) ConvertTrial(ctx context.Context, subscriptionID string) (*fastspring.SubscriptionStatus, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/subscriptions/{subscription_id}/convert",
		Params:   map[string]string{"subscription_id": subscriptionID},
	})
	if err != nil {
		return nil, fmt.Errorf("converting trial subscription: %w", err)
	}

	return decode[fastspring.SubscriptionStatus](resp, "subscription status")
}

// EstimateProration implements fastspring.SubscriptionsClient.EstimateProration.
func (c *SubscriptionsClient) EstimateProration(ctx context.Context, request *fastspring.ProrationEstimateRequest) (*fastspring.ProrationEstimate, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/subscriptions/estimate",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("estimating proration: %w", err)
	}

	return decode[fastspring.ProrationEstimate](resp, "proration estimate")
}

// Charge implements fastspring.SubscriptionsClient.Charge.
func (c *SubscriptionsClient) Charge(ctx context.Context, request *fastspring.SubscriptionChargeRequest) (*fastspring.SubscriptionsResult, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/subscriptions/charge",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("charging subscriptions: %w", err)
	}

	return decode[fastspring.SubscriptionsResult](resp, "subscriptions response")
}
