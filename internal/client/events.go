package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// EventsClient implements fastspring.EventsClient.
type EventsClient struct {
	httpClient *http.Client
}

// NewEventsClient creates a new events client.
func NewEventsClient(httpClient *http.Client) *EventsClient {
	return &EventsClient{
		httpClient: httpClient,
	}
}

// ListProcessed implements fastspring.EventsClient.ListProcessed.
func (c *EventsClient) ListProcessed(ctx context.Context, params *fastspring.EventListParams) (*fastspring.EventList, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/events/processed",
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("listing processed events: %w", err)
	}

	return decode[fastspring.EventList](resp, "events list")
}

// ListUnprocessed implements fastspring.EventsClient.ListUnprocessed.
func (c *EventsClient) ListUnprocessed(ctx context.Context, params *fastspring.EventListParams) (*fastspring.EventList, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/events/unprocessed",
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("listing unprocessed events: %w", err)
	}

	return decode[fastspring.EventList](resp, "events list")
}

// Update implements fastspring.EventsClient.Update.
func (c *EventsClient) Update(ctx context.Context, eventID string, request *fastspring.EventUpdateRequest) (*fastspring.ActionResult, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/events/{event_id}",
		Params:   map[string]string{"event_id": eventID},
		Body:     optionalBody(request),
	})
	if err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}

	return decode[fastspring.ActionResult](resp, "event update response")
}
