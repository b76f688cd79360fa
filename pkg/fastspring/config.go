package fastspring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes the environment variables read by ConfigFromEnv.
const EnvPrefix = "FASTSPRING"

// ErrInvalidRequest marks a request or config rejected before dispatch.
var ErrInvalidRequest = errors.New("invalid request")

var validate = validator.New()

// Validate checks the config for inconsistent or malformed values.
func (c *Config) Validate() error {
	return ValidateRequest(c)
}

// ConfigFromEnv reads a Config from FASTSPRING_* environment variables, e.g.
// FASTSPRING_USERNAME, FASTSPRING_PASSWORD and FASTSPRING_TIMEOUT=10s.
func ConfigFromEnv() (*Config, error) {
	var config Config

	err := envconfig.Process(EnvPrefix, &config)
	if err != nil {
		return nil, fmt.Errorf("processing environment variables: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// ValidateRequest runs the struct validation tags of a request body.
func ValidateRequest(request interface{}) error {
	if request == nil {
		return nil
	}

	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, ve.Namespace()+": failed "+ve.Tag())
	}

	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(messages, "; "))
}
