package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/fastspring-client/internal/auth"
	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/fivetwenty-io/fastspring-client/pkg/fsclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		token      string
		skipVerify bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the FastSpring API",
		Long: `Store API credentials in the CLI configuration.

FastSpring API credentials are a username and password pair created under
Developer Tools > APIs > API Credentials. The credentials are checked against
the API before they are saved unless --skip-verify is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiEndpoint := viper.GetString("api")

			values, err := promptCredentials(cmd, token)
			if err != nil {
				return err
			}

			if !skipVerify {
				err = verifyCredentials(cmd, apiEndpoint, values)
				if err != nil {
					return err
				}
			}

			store, err := auth.NewConfigStore(NewConfigPersister(), apiEndpoint)
			if err != nil {
				return err
			}

			err = store.Set(values...)
			if err != nil {
				return err
			}

			printResult(cmd, "Logged in to %s", orDefault(apiEndpoint, constants.DefaultBaseURL))

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "log in with a single bearer token instead of a username and password")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "save the credentials without calling the API")

	return cmd
}

func promptCredentials(cmd *cobra.Command, token string) ([]string, error) {
	if token != "" {
		return []string{token}, nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	username := viper.GetString("username")
	if username == "" {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "Username: ")
		line, _ := reader.ReadString('\n')
		username = strings.TrimSpace(line)
	}

	if username == "" {
		return nil, constants.ErrUsernameRequired
	}

	password := viper.GetString("password")
	if password == "" {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")

		stdin := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
		if cmd.InOrStdin() == os.Stdin && term.IsTerminal(stdin) {
			bytePassword, err := term.ReadPassword(stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read password: %w", err)
			}

			password = string(bytePassword)
		} else {
			line, _ := reader.ReadString('\n')
			password = strings.TrimSpace(line)
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	if password == "" {
		return nil, constants.ErrPasswordRequired
	}

	return []string{username, password}, nil
}

func verifyCredentials(cmd *cobra.Command, apiEndpoint string, values []string) error {
	config := &fastspring.Config{
		BaseURL: apiEndpoint,
		Timeout: constants.ShortHTTPTimeout,
		Tracing: tracingEnabled,
	}

	client, err := fsclient.New(cmd.Context(), config)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	err = client.Auth(values...)
	if err != nil {
		return err
	}

	_, err = client.Products().List(cmd.Context())
	if err != nil {
		return fmt.Errorf("verifying credentials: %w", err)
	}

	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
