package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	internalhttp "github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "jane@example.com", r.URL.Query().Get("email"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.False(t, r.URL.Query().Has("global"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"action": "account.lookup",
			"result": "success",
			"page": 2,
			"limit": 50,
			"nextPage": 3,
			"accounts": [
				"acc-1",
				{"id": "acc-2", "contact": {"first": "Jane", "email": "jane@example.com"}}
			]
		}`))
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	accounts := NewAccountsClient(client.httpClient)

	list, err := accounts.List(context.Background(), &fastspring.AccountListParams{Email: "jane@example.com", Page: 2})
	require.NoError(t, err)
	require.Len(t, list.Accounts, 2)

	assert.Equal(t, "acc-1", list.Accounts[0].ID)
	assert.Nil(t, list.Accounts[0].Object)

	assert.Equal(t, "acc-2", list.Accounts[1].ID)
	require.NotNil(t, list.Accounts[1].Object)
	assert.Equal(t, "Jane", list.Accounts[1].Object.Contact.First)

	assert.True(t, list.HasMore())
	require.NotNil(t, list.NextPage)
	assert.Equal(t, 3, *list.NextPage)
}

func TestAccountsClient_Create(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var request fastspring.AccountCreateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "jane@example.com", request.Contact.Email)
		assert.Equal(t, "US", request.Country)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fastspring.AccountResult{
			ActionResult: fastspring.ActionResult{Action: "account.create", Result: "success"},
			ID:           "acc-new",
			Account:      "acc-new",
		})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	accounts := NewAccountsClient(client.httpClient)

	result, err := accounts.Create(context.Background(), &fastspring.AccountCreateRequest{
		Contact: fastspring.Contact{First: "Jane", Last: "Doe", Email: "jane@example.com"},
		Country: "US",
	})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, "acc-new", result.ID)
}

func TestAccountsClient_Create_InvalidCountry(t *testing.T) {
	t.Parallel()

	called := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	accounts := NewAccountsClient(internalhttp.NewClient(server.URL, nil))

	_, err := accounts.Create(context.Background(), &fastspring.AccountCreateRequest{
		Contact: fastspring.Contact{Email: "jane@example.com"},
		Country: "USA",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, fastspring.ErrInvalidRequest)
	assert.False(t, called)
}

func TestAccountsClient_ManagementURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/acc-1/authenticate", r.URL.Path)

		_, _ = w.Write([]byte(`{"accounts":[{"account":"acc-1","url":"https://store.example.com/account?token=x"}]}`))
	}))
	defer server.Close()

	accounts := NewAccountsClient(internalhttp.NewClient(server.URL, nil))

	result, err := accounts.ManagementURL(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, result.Accounts, 1)
	assert.Equal(t, "https://store.example.com/account?token=x", result.Accounts[0].URL)
}

func TestOrdersClient_ListByProduct(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "pro,basic", r.URL.Query().Get("products"))

		_, _ = w.Write([]byte(`{"orders":["ord-1","ord-2"]}`))
	}))
	defer server.Close()

	orders := NewOrdersClient(internalhttp.NewClient(server.URL, nil))

	list, err := orders.ListByProduct(context.Background(), "pro,basic")
	require.NoError(t, err)
	require.Len(t, list.Orders, 2)
	assert.Equal(t, "ord-2", list.Orders[1].ID)
}

func TestEventsClient_ListUnprocessed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/unprocessed", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))

		_, _ = w.Write([]byte(`{"events":[{"id":"ev-1","type":"order.completed","live":true,"processed":false,"created":1700000000000,"data":{"id":"ord-1"}}]}`))
	}))
	defer server.Close()

	events := NewEventsClient(internalhttp.NewClient(server.URL, nil))

	list, err := events.ListUnprocessed(context.Background(), &fastspring.EventListParams{Days: 7})
	require.NoError(t, err)
	require.Len(t, list.Events, 1)
	assert.Equal(t, "order.completed", list.Events[0].Type)
	assert.JSONEq(t, `{"id":"ord-1"}`, string(list.Events[0].Data))
}
