package commands

import (
	"fmt"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/fivetwenty-io/fastspring-client/pkg/fsclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newLogger builds the CLI logger from --verbose.
func newLogger() (fastspring.Logger, error) {
	logger, err := fastspring.NewDevelopmentLogger(viper.GetBool("verbose"))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return logger, nil
}

// buildClientConfig assembles the library config from file, env and flags.
func buildClientConfig(config *Config) (*fastspring.Config, error) {
	if config.Username == "" && config.Token == "" {
		return nil, constants.ErrNoCredentials
	}

	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	clientConfig := &fastspring.Config{
		BaseURL:  config.API,
		Username: config.Username,
		Password: config.Password,
		Timeout:  timeout,
		Debug:    viper.GetBool("verbose"),
		Tracing:  tracingEnabled,
	}

	if config.Username == "" {
		clientConfig.AccessToken = config.Token
	}

	return clientConfig, nil
}

// newClient creates an API client for the current command.
func newClient(cmd *cobra.Command) (fastspring.Client, error) {
	clientConfig, err := buildClientConfig(loadConfig())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger()
	if err != nil {
		return nil, err
	}

	clientConfig.Logger = logger

	chain := fastspring.NewInterceptorChain()
	chain.AddRequestInterceptor(fastspring.RequestIDInterceptor())

	if clientConfig.Debug {
		chain.AddRequestInterceptor(fastspring.LoggingInterceptor(logger))
		chain.AddResponseInterceptor(fastspring.LoggingResponseInterceptor(logger))
	}

	clientConfig.Interceptors = chain

	client, err := fsclient.New(cmd.Context(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// pollTimeout bounds report waits.
func pollTimeout(value time.Duration) time.Duration {
	if value <= 0 {
		return constants.DefaultJobPollTimeout
	}

	return value
}
