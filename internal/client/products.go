package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// ProductsClient implements fastspring.ProductsClient.
type ProductsClient struct {
	httpClient *http.Client
}

// NewProductsClient creates a new products client.
func NewProductsClient(httpClient *http.Client) *ProductsClient {
	return &ProductsClient{
		httpClient: httpClient,
	}
}

// List implements fastspring.ProductsClient.List.
func (c *ProductsClient) List(ctx context.Context) (*fastspring.ProductIDs, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/products",
	})
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return decode[fastspring.ProductIDs](resp, "products list")
}

// Upsert implements fastspring.ProductsClient.Upsert.
func (c *ProductsClient) Upsert(ctx context.Context, request *fastspring.ProductsRequest) (*fastspring.ProductsResult, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/products",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("saving products: %w", err)
	}

	return decode[fastspring.ProductsResult](resp, "products response")
}

// Get implements fastspring.ProductsClient.Get. productPath may list several
// comma-separated paths.
func (c *ProductsClient) Get(ctx context.Context, productPath string) (*fastspring.ProductList, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/products/{product_path}",
		Params:   map[string]string{"product_path": productPath},
	})
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}

	return decode[fastspring.ProductList](resp, "product")
}

// Delete implements fastspring.ProductsClient.Delete.
func (c *ProductsClient) Delete(ctx context.Context, productPath string) (*fastspring.ProductsResult, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodDelete,
		Template: "/products/{product_path}",
		Params:   map[string]string{"product_path": productPath},
	})
	if err != nil {
		return nil, fmt.Errorf("deleting product: %w", err)
	}

	return decode[fastspring.ProductsResult](resp, "products response")
}

// Offers implements fastspring.ProductsClient.Offers.
func (c *ProductsClient) Offers(ctx context.Context, productPath string) (*fastspring.ProductOffers, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/products/offers/{product_path}",
		Params:   map[string]string{"product_path": productPath},
	})
	if err != nil {
		return nil, fmt.Errorf("getting product offers: %w", err)
	}

	return decode[fastspring.ProductOffers](resp, "product offers")
}

// UpdateOffers implements fastspring.ProductsClient.UpdateOffers.
func (c *ProductsClient) UpdateOffers(ctx context.Context, productPath string, request *fastspring.ProductOffersRequest) (*fastspring.ProductOffers, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/products/offers/{product_path}",
		Params:   map[string]string{"product_path": productPath},
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("updating product offers: %w", err)
	}

	return decode[fastspring.ProductOffers](resp, "product offers")
}

// Prices implements fastspring.ProductsClient.Prices.
func (c *ProductsClient) Prices(ctx context.Context, params *fastspring.PriceParams) (*fastspring.ProductPriceList, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/products/price",
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("listing product prices: %w", err)
	}

	return decode[fastspring.ProductPriceList](resp, "product prices")
}

// Price implements fastspring.ProductsClient.Price.
func (c *ProductsClient) Price(ctx context.Context, productPath string, params *fastspring.PriceParams) (*fastspring.ProductPriceList, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/products/price/{product_path}",
		Params:   map[string]string{"product_path": productPath},
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("getting product price: %w", err)
	}

	return decode[fastspring.ProductPriceList](resp, "product prices")
}

// Locales implements fastspring.ProductsClient.Locales.
func (c *ProductsClient) Locales(ctx context.Context, productPath string) (*fastspring.ProductLocaleList, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/products/locales/{product_path}",
		Params:   map[string]string{"product_path": productPath},
	})
	if err != nil {
		return nil, fmt.Errorf("getting product locales: %w", err)
	}

	return decode[fastspring.ProductLocaleList](resp, "product locales")
}
