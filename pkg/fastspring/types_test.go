package fastspring_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountList_IDsOrObjects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		expectedIDs []string
		objects     bool
	}{
		{
			name:        "ids",
			body:        `{"action":"account.getall","result":"success","nextPage":2,"accounts":["a1","a2"]}`,
			expectedIDs: []string{"a1", "a2"},
		},
		{
			name:        "objects",
			body:        `{"accounts":[{"id":"a1","contact":{"email":"a@example.com"}},{"account":"a2","contact":{}}]}`,
			expectedIDs: []string{"a1", "a2"},
			objects:     true,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var list fastspring.AccountList

			err := json.Unmarshal([]byte(tt.body), &list)
			require.NoError(t, err)
			require.Len(t, list.Accounts, len(tt.expectedIDs))

			for i, ref := range list.Accounts {
				assert.Equal(t, tt.expectedIDs[i], ref.ID)
				assert.Equal(t, tt.objects, ref.Object != nil)
			}
		})
	}
}

func TestRef_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]fastspring.Ref[fastspring.Account]{
		{ID: "a1"},
		{ID: "a2", Object: &fastspring.Account{ID: "a2"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `["a1",{"id":"a2"`)
}

func TestPage_HasMore(t *testing.T) {
	t.Parallel()

	next := 3

	assert.False(t, fastspring.Page{Page: 1}.HasMore())
	assert.True(t, fastspring.Page{Page: 1, More: true}.HasMore())
	assert.True(t, fastspring.Page{Page: 2, NextPage: &next}.HasMore())
}

func TestEvent_CreatedAt(t *testing.T) {
	t.Parallel()

	var event fastspring.Event

	err := json.Unmarshal([]byte(`{"id":"evt","type":"order.completed","live":false,"processed":false,"created":1700000000000,"data":{"order":"o1"}}`), &event)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), event.CreatedAt())
	assert.JSONEq(t, `{"order":"o1"}`, string(event.Data))
}

func TestReportJob_Done(t *testing.T) {
	t.Parallel()

	for status, done := range map[string]bool{
		"COMPLETED":   true,
		"FAILED":      true,
		"CANCELED":    true,
		"IN_PROGRESS": false,
		"QUEUED":      false,
	} {
		job := fastspring.ReportJob{Status: status}
		assert.Equal(t, done, job.Done(), status)
	}
}

func TestActionResult_Succeeded(t *testing.T) {
	t.Parallel()

	assert.True(t, fastspring.ActionResult{Result: "success"}.Succeeded())
	assert.False(t, fastspring.ActionResult{Result: "error"}.Succeeded())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  fastspring.Config
		wantErr bool
	}{
		{name: "empty", config: fastspring.Config{}},
		{name: "basic", config: fastspring.Config{Username: "u", Password: "p", BaseURL: "https://api.fastspring.com"}},
		{name: "token", config: fastspring.Config{AccessToken: "t"}},
		{name: "username without password", config: fastspring.Config{Username: "u"}, wantErr: true},
		{name: "token with basic", config: fastspring.Config{Username: "u", Password: "p", AccessToken: "t"}, wantErr: true},
		{name: "bad url", config: fastspring.Config{BaseURL: "not a url"}, wantErr: true},
		{name: "too many retries", config: fastspring.Config{RetryMax: 50}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, fastspring.ErrInvalidRequest)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_Credentials(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"u", "p"}, (&fastspring.Config{Username: "u", Password: "p"}).Credentials())
	assert.Equal(t, []string{"t"}, (&fastspring.Config{AccessToken: "t"}).Credentials())
	assert.Equal(t, []string{"k"}, (&fastspring.Config{APIKey: "k"}).Credentials())
	assert.Nil(t, (&fastspring.Config{}).Credentials())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("FASTSPRING_USERNAME", "user")
	t.Setenv("FASTSPRING_PASSWORD", "pass")
	t.Setenv("FASTSPRING_TIMEOUT", "12s")
	t.Setenv("FASTSPRING_RETRY_MAX", "2")

	config, err := fastspring.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "user", config.Username)
	assert.Equal(t, "pass", config.Password)
	assert.Equal(t, 12*time.Second, config.Timeout)
	assert.Equal(t, 2, config.RetryMax)
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	err := fastspring.ValidateRequest(&fastspring.SessionRequest{Account: "a1"})
	require.ErrorIs(t, err, fastspring.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "SessionRequest.Items")

	err = fastspring.ValidateRequest(&fastspring.SessionRequest{
		Account: "a1",
		Items:   []fastspring.SessionItem{{Product: "p", Quantity: 1}},
	})
	require.NoError(t, err)
}
