package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAccounts() *fastspring.AccountList {
	return &fastspring.AccountList{
		Accounts: []fastspring.Ref[fastspring.Account]{
			{ID: "acc-1", Object: &fastspring.Account{ID: "acc-1", Contact: fastspring.Contact{Email: "ada@example.com"}}},
			{ID: "acc-2"},
		},
	}
}

//nolint:paralleltest // render reads global viper state
func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		query    string
		contains []string
		excludes []string
		wantErr  error
	}{
		{name: "table", output: "table", contains: []string{"acc-1", "ada@example.com", "acc-2"}},
		{name: "empty format means table", output: "", contains: []string{"ada@example.com"}},
		{name: "json keeps api field names", output: "json", contains: []string{`"email": "ada@example.com"`, `"acc-2"`}},
		{name: "yaml", output: "yaml", contains: []string{"email: ada@example.com", "- acc-2"}},
		{name: "query on json", output: "json", query: "accounts[0].contact.email", contains: []string{`"ada@example.com"`}, excludes: []string{"acc-2"}},
		{name: "query switches table to json", output: "table", query: "accounts[1]", contains: []string{`"acc-2"`}, excludes: []string{"ada@example.com"}},
		{name: "invalid format", output: "xml", wantErr: constants.ErrInvalidOutputFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			viper.Set("output", tt.output)
			viper.Set("query", tt.query)

			var out bytes.Buffer

			cmd := &cobra.Command{}
			cmd.SetOut(&out)

			accounts := sampleAccounts()

			err := render(cmd, accounts, func(table *tablewriter.Table) {
				table.Header("ID", "Email")

				for _, ref := range accounts.Accounts {
					email := ""
					if ref.Object != nil {
						email = ref.Object.Contact.Email
					}

					_ = table.Append(ref.ID, email)
				}
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}

			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out.String(), unwanted)
			}
		})
	}
}

//nolint:paralleltest // render reads global viper state
func TestRender_InvalidQuery(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("output", "json")
	viper.Set("query", "accounts[")

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	err := render(cmd, sampleAccounts(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluating query")
}

func TestReadRequestFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "account.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
contact:
  first: Ada
  email: ada@example.com
address:
  addressLine1: 1 Analytical Way
  country: GB
`), 0o600))

	jsonPath := filepath.Join(dir, "account.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"contact":{"first":"Grace"},"country":"US"}`), 0o600))

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("contact: [unclosed"), 0o600))

	t.Run("yaml honors json field names", func(t *testing.T) {
		t.Parallel()

		request, err := readRequestFile[fastspring.AccountCreateRequest](&cobra.Command{}, yamlPath)
		require.NoError(t, err)
		assert.Equal(t, "Ada", request.Contact.First)
		require.NotNil(t, request.Address)
		assert.Equal(t, "1 Analytical Way", request.Address.AddressLine1)
		assert.Equal(t, "GB", request.Address.Country)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		request, err := readRequestFile[fastspring.AccountCreateRequest](&cobra.Command{}, jsonPath)
		require.NoError(t, err)
		assert.Equal(t, "Grace", request.Contact.First)
		assert.Equal(t, "US", request.Country)
	})

	t.Run("stdin", func(t *testing.T) {
		t.Parallel()

		cmd := &cobra.Command{}
		cmd.SetIn(strings.NewReader(`{"codes":["SPRING"]}`))

		request, err := readRequestFile[fastspring.CouponCodesRequest](cmd, "-")
		require.NoError(t, err)
		assert.Equal(t, []string{"SPRING"}, request.Codes)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		_, err := readRequestFile[fastspring.AccountCreateRequest](&cobra.Command{}, badPath)
		require.ErrorIs(t, err, constants.ErrInvalidPayload)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := readRequestFile[fastspring.AccountCreateRequest](&cobra.Command{}, filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}

func TestRequireDate(t *testing.T) {
	t.Parallel()

	require.NoError(t, requireDate("begin", ""))
	require.NoError(t, requireDate("begin", "2024-02-29"))
	require.ErrorIs(t, requireDate("begin", "29/02/2024"), constants.ErrInvalidDate)
	require.ErrorIs(t, requireDate("end", "2024-13-01"), constants.ErrInvalidDate)
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, constants.NotAvailable, formatMillis(0))
	assert.Equal(t, "2023-11-14 22:13:20", formatMillis(1700000000000))
	assert.Equal(t, constants.NotAvailable, orNA(""))
	assert.Equal(t, "x", orNA("x"))
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "10 EUR, 12.5 USD", describePrice(fastspring.Price{"USD": 12.5, "EUR": 10}))
}

func TestConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		force bool
		input string
		want  error
	}{
		{name: "forced", force: true},
		{name: "confirmed", input: "yes\n"},
		{name: "confirmed loudly", input: "YES\n"},
		{name: "declined", input: "no\n", want: constants.ErrOperationCancelled},
		{name: "no answer", input: "", want: constants.ErrOperationCancelled},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := &cobra.Command{}
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetIn(strings.NewReader(tt.input))

			err := confirm(cmd, tt.force, "Really?")
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)

				return
			}

			require.NoError(t, err)
		})
	}
}
