package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/fastspring-client/internal/spec"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

// ConfigPersister defines the interface for persisting credential changes.
type ConfigPersister interface {
	SaveCredentials(apiDomain string, values []string) error
}

// ConfigStore wraps Store and writes every accepted credential change through
// to the CLI configuration.
type ConfigStore struct {
	store     *Store
	persister ConfigPersister
	apiDomain string
}

// NewConfigStore creates a persisting store seeded with initial, if any.
func NewConfigStore(persister ConfigPersister, apiDomain string, initial ...string) (*ConfigStore, error) {
	store := NewStore()

	if len(initial) > 0 {
		err := store.Set(initial...)
		if err != nil {
			return nil, err
		}
	}

	return &ConfigStore{
		store:     store,
		persister: persister,
		apiDomain: apiDomain,
	}, nil
}

// Set validates and stores values, then persists them.
func (s *ConfigStore) Set(values ...string) error {
	err := s.store.Set(values...)
	if err != nil {
		return err
	}

	if s.persister == nil {
		return ErrNoConfigPersister
	}

	err = s.persister.SaveCredentials(s.apiDomain, values)
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	return nil
}

// Get returns the current credentials.
func (s *ConfigStore) Get() Credentials {
	return s.store.Get()
}

// Authenticate applies the stored credentials to req.
func (s *ConfigStore) Authenticate(req *http.Request, schemes []spec.SecurityScheme) error {
	return s.store.Authenticate(req, schemes)
}
