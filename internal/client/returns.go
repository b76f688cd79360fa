package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// ReturnsClient implements fastspring.ReturnsClient.
type ReturnsClient struct {
	httpClient *http.Client
}

// NewReturnsClient creates a new returns client.
func NewReturnsClient(httpClient *http.Client) *ReturnsClient {
	return &ReturnsClient{
		httpClient: httpClient,
	}
}

// Create implements fastspring.ReturnsClient.Create.
func (c *ReturnsClient) Create(ctx context.Context, request *fastspring.ReturnRequest) (*fastspring.ReturnList, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/returns",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("creating returns: %w", err)
	}

	return decode[fastspring.ReturnList](resp, "returns")
}

// Get implements fastspring.ReturnsClient.Get.
func (c *ReturnsClient) Get(ctx context.Context, returnID string) (*fastspring.ReturnList, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/returns/{return_id}",
		Params:   map[string]string{"return_id": returnID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting return: %w", err)
	}

	return decode[fastspring.ReturnList](resp, "returns")
}

// SessionsClient implements fastspring.SessionsClient.
type SessionsClient struct {
	httpClient *http.Client
}

// NewSessionsClient creates a new sessions client.
func NewSessionsClient(httpClient *http.Client) *SessionsClient {
	return &SessionsClient{
		httpClient: httpClient,
	}
}

// Create implements fastspring.SessionsClient.Create.
func (c *SessionsClient) Create(ctx context.Context, request *fastspring.SessionRequest) (*fastspring.Session, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: "/sessions",
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return decode[fastspring.Session](resp, "session")
}
