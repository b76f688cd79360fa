package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// OrdersClient implements fastspring.OrdersClient.
type OrdersClient struct {
	httpClient *http.Client
}

// NewOrdersClient creates a new orders client.
func NewOrdersClient(httpClient *http.Client) *OrdersClient {
	return &OrdersClient{
		httpClient: httpClient,
	}
}

// List implements fastspring.OrdersClient.List.
func (c *OrdersClient) List(ctx context.Context, params *fastspring.OrderListParams) (*fastspring.OrderList, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/orders",
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	return decode[fastspring.OrderList](resp, "orders list")
}

// ListByProduct implements fastspring.OrdersClient.ListByProduct.
func (c *OrdersClient) ListByProduct(ctx context.Context, productPath string) (*fastspring.OrderList, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/orders?products={product_path}",
		Params:   map[string]string{"product_path": productPath},
	})
	if err != nil {
		return nil, fmt.Errorf("listing orders by product: %w", err)
	}

	return decode[fastspring.OrderList](resp, "orders list")
}

// Get implements fastspring.OrdersClient.Get.
func (c *OrdersClient) Get(ctx context.Context, orderID string) (*fastspring.Order, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/orders/{order_id}",
		Params:   map[string]string{"order_id": orderID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}

	return decode[fastspring.Order](resp, "order")
}

// Update implements fastspring.OrdersClient.Update.
func (c *OrdersClient) Update(ctx context.Context, request *fastspring.OrderUpdateRequest) (*fastspring.OrderUpdateResult, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/orders",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("updating orders: %w", err)
	}

	return decode[fastspring.OrderUpdateResult](resp, "order update response")
}
