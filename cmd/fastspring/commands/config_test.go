package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func setupConfigFile(t *testing.T) string {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	viper.Set("config", path)

	return path
}

func readConfigFile(t *testing.T, path string) Config {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var config Config
	require.NoError(t, yaml.Unmarshal(data, &config))

	return config
}

//nolint:paralleltest // config commands share global viper state
func TestConfigSetAndUnset(t *testing.T) {
	path := setupConfigFile(t)

	out, err := execute(NewConfigCommand(), "", "set", "output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Set output to yaml")

	out, err = execute(NewConfigCommand(), "", "set", "webhook_secret", "hush")
	require.NoError(t, err)
	assert.Contains(t, out, constants.MaskedSecret)
	assert.NotContains(t, out, "hush")

	config := readConfigFile(t, path)
	assert.Equal(t, "yaml", config.Output)
	assert.Equal(t, "hush", config.WebhookSecret)
	assert.Equal(t, "yaml", viper.GetString("output"))

	_, err = execute(NewConfigCommand(), "", "unset", "webhook_secret")
	require.NoError(t, err)

	config = readConfigFile(t, path)
	assert.Empty(t, config.WebhookSecret)
	assert.Equal(t, "yaml", config.Output)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())
}

//nolint:paralleltest // config commands share global viper state
func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "unknown key", args: []string{"set", "colour", "blue"}, wantErr: constants.ErrConfigKeyUnknown},
		{name: "bad output", args: []string{"set", "output", "xml"}, wantErr: constants.ErrInvalidOutputFormat},
		{name: "unset unknown key", args: []string{"unset", "colour"}, wantErr: constants.ErrConfigKeyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := setupConfigFile(t)

			_, err := execute(NewConfigCommand(), "", tt.args...)
			require.ErrorIs(t, err, tt.wantErr)

			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr), "nothing should be written")
		})
	}

	t.Run("bad timeout", func(t *testing.T) {
		setupConfigFile(t)

		_, err := execute(NewConfigCommand(), "", "set", "timeout", "soon")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid timeout")
	})
}

//nolint:paralleltest // config commands share global viper state
func TestConfigShow_MasksSecrets(t *testing.T) {
	setupConfigFile(t)
	viper.Set("username", "store-user")
	viper.Set("password", "store-pass")
	viper.Set("token", "bearer-token")
	viper.Set("output", "json")

	out, err := execute(NewConfigCommand(), "", "show")
	require.NoError(t, err)

	assert.Contains(t, out, `"username": "store-user"`)
	assert.Contains(t, out, `"password": "`+constants.MaskedSecret+`"`)
	assert.NotContains(t, out, "store-pass")
	assert.NotContains(t, out, "bearer-token")
}

//nolint:paralleltest // persister writes through global viper state
func TestConfigPersister_SaveCredentials(t *testing.T) {
	path := setupConfigFile(t)
	viper.Set("output", "yaml")

	persister := NewConfigPersister()

	require.NoError(t, persister.SaveCredentials("https://api.fastspring.com", []string{"user", "pass"}))

	config := readConfigFile(t, path)
	assert.Equal(t, "https://api.fastspring.com", config.API)
	assert.Equal(t, "user", config.Username)
	assert.Equal(t, "pass", config.Password)
	assert.Empty(t, config.Token)
	assert.Equal(t, "yaml", config.Output, "unrelated settings survive")

	require.NoError(t, persister.SaveCredentials("https://api.fastspring.com", []string{"token"}))

	config = readConfigFile(t, path)
	assert.Equal(t, "token", config.Token)
	assert.Empty(t, config.Username)
	assert.Empty(t, config.Password)
	assert.Equal(t, "token", viper.GetString("token"))
	assert.Empty(t, viper.GetString("username"))
}

//nolint:paralleltest // reads global viper state
func TestBuildClientConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := buildClientConfig(&Config{})
	require.ErrorIs(t, err, constants.ErrNoCredentials)

	config, err := buildClientConfig(&Config{API: "https://example.test", Username: "user", Password: "pass", Token: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "user", config.Username)
	assert.Empty(t, config.AccessToken, "basic credentials win over a stored token")
	assert.Equal(t, constants.DefaultHTTPTimeout, config.Timeout)

	viper.Set("timeout", "5s")

	config, err = buildClientConfig(&Config{Token: "bearer"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", config.AccessToken)
	assert.Equal(t, "5s", config.Timeout.String())
}
