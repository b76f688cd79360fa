package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// CouponsClient implements fastspring.CouponsClient.
type CouponsClient struct {
	httpClient *http.Client
}

// NewCouponsClient creates a new coupons client.
func NewCouponsClient(httpClient *http.Client) *CouponsClient {
	return &CouponsClient{
		httpClient: httpClient,
	}
}

// Upsert implements fastspring.CouponsClient.Upsert.
func (c *CouponsClient) Upsert(ctx context.Context, request *fastspring.CouponRequest) (*fastspring.Coupon, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/coupons",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("saving coupon: %w", err)
	}

	return decode[fastspring.Coupon](resp, "coupon")
}

// List implements fastspring.CouponsClient.List.
func (c *CouponsClient) List(ctx context.Context) (*fastspring.CouponList, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/coupons",
	})
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}

	return decode[fastspring.CouponList](resp, "coupons list")
}

// Get implements fastspring.CouponsClient.Get.
func (c *CouponsClient) Get(ctx context.Context, couponID string) (*fastspring.Coupon, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/coupons/{coupon_id}",
		Params:   map[string]string{"coupon_id": couponID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting coupon: %w", err)
	}

	return decode[fastspring.Coupon](resp, "coupon")
}

// Delete implements fastspring.CouponsClient.Delete.
func (c *CouponsClient) Delete(ctx context.Context, couponID string) (*fastspring.CouponDeleteResult, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodDelete,
		Template: "/coupons/{coupon_id}",
		Params:   map[string]string{"coupon_id": couponID},
	})
	if err != nil {
		return nil, fmt.Errorf("deleting coupon: %w", err)
	}

	return decode[fastspring.CouponDeleteResult](resp, "coupon delete response")
}

// AddCodes implements fastspring.CouponsClient.AddCodes.
func (c *CouponsClient) AddCodes(ctx context.Context, couponID string, request *fastspring.CouponCodesRequest) (*fastspring.CouponCodes, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/coupons/{coupon_id}",
		Params:   map[string]string{"coupon_id": couponID},
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("adding coupon codes: %w", err)
	}

	return decode[fastspring.CouponCodes](resp, "coupon codes")
}

// LookupCodes implements fastspring.CouponsClient.LookupCodes. The endpoint
// accepts an optional body; a nil lookup sends the request without one.
func (c *CouponsClient) LookupCodes(ctx context.Context, couponID string, lookup *fastspring.CouponCodesLookup) (*fastspring.CouponCodes, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/coupons/{coupon_id}/codes",
		Params:   map[string]string{"coupon_id": couponID},
		Body:     optionalBody(lookup),
	})
	if err != nil {
		return nil, fmt.Errorf("getting coupon codes: %w", err)
	}

	return decode[fastspring.CouponCodes](resp, "coupon codes")
}

// DeleteCodes implements fastspring.CouponsClient.DeleteCodes.
func (c *CouponsClient) DeleteCodes(ctx context.Context, couponID string) (*fastspring.CouponCodes, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodDelete,
		Template: "/coupons/{coupon_id}/codes",
		Params:   map[string]string{"coupon_id": couponID},
	})
	if err != nil {
		return nil, fmt.Errorf("deleting coupon codes: %w", err)
	}

	return decode[fastspring.CouponCodes](resp, "coupon codes")
}
