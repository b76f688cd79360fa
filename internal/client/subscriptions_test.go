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

func TestSubscriptionsClient_Cancel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		params    *fastspring.SubscriptionCancelParams
		wantQuery string
	}{
		{name: "at period end", params: nil, wantQuery: ""},
		{name: "immediately", params: fastspring.CancelImmediately(), wantQuery: "billingPeriod=0"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/subscriptions/sub-1", r.URL.Path)
				assert.Equal(t, "DELETE", r.Method)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)

				_, _ = w.Write([]byte(`{"subscriptions":[{"action":"subscription.cancel","result":"success","subscription":"sub-1"}]}`))
			}))
			defer server.Close()

			subscriptions := NewSubscriptionsClient(internalhttp.NewClient(server.URL, nil))

			result, err := subscriptions.Cancel(context.Background(), "sub-1", tt.params)
			require.NoError(t, err)
			require.Len(t, result.Subscriptions, 1)
			assert.True(t, result.Subscriptions[0].Succeeded())
		})
	}
}

func TestSubscriptionsClient_Entries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/sub-1/entries", r.URL.Path)

		_, _ = w.Write([]byte(`[
			{"beginPeriodDate":"2024-01-01","endPeriodDate":"2024-01-31","order":{"id":"ord-1"}},
			{"beginPeriodDate":"2024-02-01","endPeriodDate":"2024-02-29","order":{"id":"ord-2"}}
		]`))
	}))
	defer server.Close()

	subscriptions := NewSubscriptionsClient(internalhttp.NewClient(server.URL, nil))

	entries, err := subscriptions.Entries(context.Background(), "sub-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-02-01", entries[1].BeginPeriodDate)
	assert.Equal(t, "ord-2", entries[1].Order.Identifier())
}

func TestSubscriptionsClient_Pause(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/sub-1/pause", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var request fastspring.SubscriptionPauseRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, 2, request.PausePeriodCount)

		_, _ = w.Write([]byte(`{"action":"subscription.pause","result":"success","subscription":"sub-1","resumeDate":"2024-04-01"}`))
	}))
	defer server.Close()

	subscriptions := NewSubscriptionsClient(internalhttp.NewClient(server.URL, nil))

	status, err := subscriptions.Pause(context.Background(), "sub-1", &fastspring.SubscriptionPauseRequest{PausePeriodCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", status.ResumeDate)

	_, err = subscriptions.Pause(context.Background(), "sub-1", &fastspring.SubscriptionPauseRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, fastspring.ErrInvalidRequest)
}

func TestSubscriptionsClient_History(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/sub-1/history", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("includeAdditionalInfo"))

		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	subscriptions := NewSubscriptionsClient(internalhttp.NewClient(server.URL, nil))

	_, err := subscriptions.History(context.Background(), "sub-1", &fastspring.SubscriptionHistoryParams{IncludeAdditionalInfo: true})
	require.NoError(t, err)
}
