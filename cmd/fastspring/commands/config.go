package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration file.
type Config struct {
	API           string `json:"api,omitempty"            yaml:"api,omitempty"`
	Username      string `json:"username,omitempty"       yaml:"username,omitempty"`
	Password      string `json:"password,omitempty"       yaml:"password,omitempty"`
	Token         string `json:"token,omitempty"          yaml:"token,omitempty"`
	Output        string `json:"output,omitempty"         yaml:"output,omitempty"`
	Timeout       string `json:"timeout,omitempty"        yaml:"timeout,omitempty"`
	NATSURL       string `json:"nats_url,omitempty"       yaml:"nats_url,omitempty"`
	WebhookSecret string `json:"webhook_secret,omitempty" yaml:"webhook_secret,omitempty"`
}

// configKeys maps settable keys to their fields.
var configKeys = map[string]func(*Config) *string{
	"api":            func(c *Config) *string { return &c.API },
	"username":       func(c *Config) *string { return &c.Username },
	"password":       func(c *Config) *string { return &c.Password },
	"token":          func(c *Config) *string { return &c.Token },
	"output":         func(c *Config) *string { return &c.Output },
	"timeout":        func(c *Config) *string { return &c.Timeout },
	"nats_url":       func(c *Config) *string { return &c.NATSURL },
	"webhook_secret": func(c *Config) *string { return &c.WebhookSecret },
}

var secretKeys = map[string]bool{
	"password":       true,
	"token":          true,
	"webhook_secret": true,
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the FastSpring CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			masked := *config
			for key := range secretKeys {
				field := configKeys[key](&masked)
				if *field != "" {
					*field = constants.MaskedSecret
				}
			}

			return render(cmd, masked, func(table *tablewriter.Table) {
				table.Header("Property", "Value")

				for _, key := range sortedConfigKeys() {
					value := *configKeys[key](&masked)
					if value == "" {
						value = constants.NotAvailable
					}

					_ = table.Append(key, value)
				}
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: api, username, password, token, output, timeout, nats_url, webhook_secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			field, ok := configKeys[key]
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrConfigKeyUnknown, key)
			}

			err := validateConfigValue(key, value)
			if err != nil {
				return err
			}

			config := loadConfig()
			*field(config) = value

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if secretKeys[key] {
				value = constants.MaskedSecret
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", key, value)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, ok := configKeys[args[0]]
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrConfigKeyUnknown, args[0])
			}

			config := loadConfig()
			*field(config) = ""

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func validateConfigValue(key, value string) error {
	switch key {
	case "output":
		return validateOutputFormat(value)
	case "timeout":
		_, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
	}

	return nil
}

func sortedConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// loadConfig reads the configuration file merged with flags and environment.
func loadConfig() *Config {
	return &Config{
		API:           viper.GetString("api"),
		Username:      viper.GetString("username"),
		Password:      viper.GetString("password"),
		Token:         viper.GetString("token"),
		Output:        viper.GetString("output"),
		Timeout:       viper.GetString("timeout"),
		NATSURL:       viper.GetString("nats_url"),
		WebhookSecret: viper.GetString("webhook_secret"),
	}
}

// configFilePath returns where the configuration is written.
func configFilePath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}

	if explicit := viper.GetString("config"); explicit != "" {
		return explicit, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".fastspring", "config.yml"), nil
}

// saveConfigStruct writes config and reloads it into viper.
func saveConfigStruct(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Keep viper in step with the file for the rest of the process.
	var values map[string]interface{}

	raw, _ := json.Marshal(config)
	_ = json.Unmarshal(raw, &values)

	for key := range configKeys {
		value, ok := values[key]
		if !ok {
			value = ""
		}

		viper.Set(key, value)
	}

	return nil
}
