package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

// setupCLI points the global viper state at a fake API and a temporary config
// file. Tests using it mutate global state and must not run in parallel.
func setupCLI(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	viper.Set("config", filepath.Join(t.TempDir(), "config.yml"))
	viper.Set("api", server.URL)
	viper.Set("username", "store-user")
	viper.Set("password", "store-pass")
	viper.Set("output", "json")

	return server
}

// execute runs cmd with args and returns everything it printed.
func execute(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func subcommandNames(cmd *cobra.Command) []string {
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	return names
}

func TestCommandGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  *cobra.Command
		want []string
	}{
		{NewAccountsCommand(), []string{"list", "get", "create", "update", "management-url"}},
		{NewCouponsCommand(), []string{"list", "get", "upsert", "delete", "codes"}},
		{NewEventsCommand(), []string{"list", "mark", "relay"}},
		{NewOrdersCommand(), []string{"list", "get", "update"}},
		{NewProductsCommand(), []string{"list", "get", "upsert", "delete", "offers", "prices", "locales"}},
		{NewQuotesCommand(), []string{"list", "get", "create", "update", "cancel"}},
		{NewReturnsCommand(), []string{"get", "create"}},
		{NewSessionsCommand(), []string{"create"}},
		{NewSubscriptionsCommand(), []string{
			"list", "get", "update", "cancel", "entries", "history",
			"pause", "resume", "convert-trial", "estimate", "charge",
		}},
		{NewWebhooksCommand(), []string{"list", "get", "upsert", "delete", "serve"}},
		{NewReportsCommand(), []string{"revenue", "subscription", "jobs", "job", "wait", "download"}},
		{NewConfigCommand(), []string{"show", "set", "unset"}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.cmd.Name(), func(t *testing.T) {
			t.Parallel()

			assert.ElementsMatch(t, tt.want, subcommandNames(tt.cmd))

			for _, sub := range tt.cmd.Commands() {
				if len(sub.Commands()) == 0 {
					assert.NotNil(t, sub.RunE, "%s %s has no RunE", tt.cmd.Name(), sub.Name())
				}
			}
		})
	}
}

func TestEventsRelayCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := newEventsRelayCommand()

	for _, name := range []string{"nats-url", "subject-prefix", "interval", "days", "once"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s should exist", name)
	}

	assert.Equal(t, "fastspring.events", cmd.Flags().Lookup("subject-prefix").DefValue)
	assert.Equal(t, "30s", cmd.Flags().Lookup("interval").DefValue)
}

func TestWebhooksServeCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := newWebhooksServeCommand()

	assert.Equal(t, "/webhooks/fastspring", cmd.Flags().Lookup("path").DefValue)
	assert.Equal(t, ":8080", cmd.Flags().Lookup("listen").DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("secret"))
}

//nolint:paralleltest // render reads global viper state
func TestVersionCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("output", "yaml")

	out, err := execute(NewVersionCommand("1.2.3", "abc123", "2024-05-01"), "")
	assert.NoError(t, err)
	assert.Contains(t, out, "version: 1.2.3")
	assert.Contains(t, out, "commit: abc123")
}
