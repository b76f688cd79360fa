package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// QuotesClient implements fastspring.QuotesClient.
type QuotesClient struct {
	httpClient *http.Client
}

// NewQuotesClient creates a new quotes client.
func NewQuotesClient(httpClient *http.Client) *QuotesClient {
	return &QuotesClient{
		httpClient: httpClient,
	}
}

// List implements fastspring.QuotesClient.List.
func (c *QuotesClient) List(ctx context.Context, params *fastspring.QuoteListParams) (*fastspring.QuoteList, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/quotes",
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	return decode[fastspring.QuoteList](resp, "quotes list")
}

// Create implements fastspring.QuotesClient.Create.
func (c *QuotesClient) Create(ctx context.Context, request *fastspring.QuoteRequest) (*fastspring.Quote, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/quotes",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("creating quote: %w", err)
	}

	return decode[fastspring.Quote](resp, "quote")
}

// Get implements fastspring.QuotesClient.Get.
func (c *QuotesClient) Get(ctx context.Context, quoteID string) (*fastspring.Quote, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/quotes/{id}",
		Params:   map[string]string{"id": quoteID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting quote: %w", err)
	}

	return decode[fastspring.Quote](resp, "quote")
}

// Update implements fastspring.QuotesClient.Update.
func (c *QuotesClient) Update(ctx context.Context, quoteID string, request *fastspring.QuoteRequest) (*fastspring.Quote, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPut,
		Template: "/quotes/{id}",
		Params:   map[string]string{"id": quoteID},
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("updating quote: %w", err)
	}

	return decode[fastspring.Quote](resp, "quote")
}

// Cancel implements fastspring.QuotesClient.Cancel.
func (c *QuotesClient) Cancel(ctx context.Context, quoteID string, request *fastspring.QuoteCancelRequest) (*fastspring.Quote, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/quotes/{id}/cancel",
		Params:   map[string]string{"id": quoteID},
		Body:     optionalBody(request),
	})
	if err != nil {
		return nil, fmt.Errorf("canceling quote: %w", err)
	}

	return decode[fastspring.Quote](resp, "quote")
}
