package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// AccountsClient implements fastspring.AccountsClient.
type AccountsClient struct {
	httpClient *http.Client
}

// NewAccountsClient creates a new accounts client.
func NewAccountsClient(httpClient *http.Client) *AccountsClient {
	return &AccountsClient{
		httpClient: httpClient,
	}
}

// List implements fastspring.AccountsClient.List.
func (c *AccountsClient) List(ctx context.Context, params *fastspring.AccountListParams) (*fastspring.AccountList, error) {
	query, err := optionalQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/accounts",
		Query:    query,
	})
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	return decode[fastspring.AccountList](resp, "accounts list")
}

// Create implements fastspring.AccountsClient.Create.
func (c *AccountsClient) Create(ctx context.Context, request *fastspring.AccountCreateRequest) (*fastspring.AccountResult, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/accounts",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return decode[fastspring.AccountResult](resp, "account response")
}

// Get implements fastspring.AccountsClient.Get.
func (c *AccountsClient) Get(ctx context.Context, accountID string) (*fastspring.Account, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/accounts/{account_id}",
		Params:   map[string]string{"account_id": accountID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}

	return decode[fastspring.Account](resp, "account")
}

// Update implements fastspring.AccountsClient.Update.
func (c *AccountsClient) Update(ctx context.Context, accountID string, request *fastspring.AccountUpdateRequest) (*fastspring.AccountResult, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/accounts/{account_id}",
		Params:   map[string]string{"account_id": accountID},
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}

	return decode[fastspring.AccountResult](resp, "account response")
}

// ManagementURL implements fastspring.AccountsClient.ManagementURL.
func (c *AccountsClient) ManagementURL(ctx context.Context, accountID string) (*fastspring.AccountManagementURL, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/accounts/{account_id}/authenticate",
		Params:   map[string]string{"account_id": accountID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting account management URL: %w", err)
	}

	return decode[fastspring.AccountManagementURL](resp, "account management URL")
}
