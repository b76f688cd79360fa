package auth

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/internal/spec"
)

// Static errors for err113 compliance.
var (
	ErrInvalidCredentials = errors.New("credentials must be one value (token or API key) or two values (username, password)")
	ErrEmptyCredential    = errors.New("credential values must not be empty")
)

// Credentials holds the raw values handed to Auth. The authentication scheme
// is derived per operation when a request is dispatched.
type Credentials struct {
	values []string
}

// NewCredentials validates values and returns them as credentials.
func NewCredentials(values ...string) (Credentials, error) {
	if len(values) < constants.SingleCredential || len(values) > constants.CredentialPair {
		return Credentials{}, fmt.Errorf("%w: got %d", ErrInvalidCredentials, len(values))
	}

	for _, v := range values {
		if v == "" {
			return Credentials{}, ErrEmptyCredential
		}
	}

	return Credentials{values: append([]string(nil), values...)}, nil
}

// IsZero reports whether no credentials were provided.
func (c Credentials) IsZero() bool {
	return len(c.values) == 0
}

// Basic returns the username and password when two values were provided.
func (c Credentials) Basic() (string, string, bool) {
	if len(c.values) != constants.CredentialPair {
		return "", "", false
	}

	return c.values[0], c.values[1], true
}

// Token returns the single value when one value was provided.
func (c Credentials) Token() (string, bool) {
	if len(c.values) != constants.SingleCredential {
		return "", false
	}

	return c.values[0], true
}

// Apply attaches creds to req. Two values always mean HTTP basic. A single
// value follows the first bearer or API key scheme declared in schemes and
// falls back to a bearer token.
func Apply(req *http.Request, creds Credentials, schemes []spec.SecurityScheme) {
	if username, password, ok := creds.Basic(); ok {
		req.SetBasicAuth(username, password)

		return
	}

	token, ok := creds.Token()
	if !ok {
		return
	}

	for _, scheme := range schemes {
		switch {
		case scheme.IsBearer():
			req.Header.Set("Authorization", "Bearer "+token)

			return
		case scheme.IsAPIKey():
			applyAPIKey(req, scheme, token)

			return
		}
	}

	req.Header.Set("Authorization", "Bearer "+token)
}

func applyAPIKey(req *http.Request, scheme spec.SecurityScheme, key string) {
	switch scheme.In {
	case "query":
		query := req.URL.Query()
		query.Set(scheme.ParamName, key)
		req.URL.RawQuery = query.Encode()
	case "cookie":
		req.AddCookie(&http.Cookie{Name: scheme.ParamName, Value: key})
	default:
		req.Header.Set(scheme.ParamName, key)
	}
}

// Store is the process-wide credential holder shared by every request.
type Store struct {
	mutex sync.RWMutex
	creds Credentials
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the stored credentials.
func (s *Store) Set(values ...string) error {
	creds, err := NewCredentials(values...)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.creds = creds

	return nil
}

// Get returns the current credentials.
func (s *Store) Get() Credentials {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.creds
}

// Authenticate applies a snapshot of the stored credentials to req.
func (s *Store) Authenticate(req *http.Request, schemes []spec.SecurityScheme) error {
	Apply(req, s.Get(), schemes)

	return nil
}
