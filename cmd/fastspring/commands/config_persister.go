package commands

import (
	"sync"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
)

// ConfigPersister implements the auth.ConfigPersister interface.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// SaveCredentials stores values for apiDomain in the config file. A pair is
// saved as username and password, a single value as a token.
func (p *ConfigPersister) SaveCredentials(apiDomain string, values []string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()
	config.API = apiDomain

	switch len(values) {
	case constants.CredentialPair:
		config.Username = values[0]
		config.Password = values[1]
		config.Token = ""
	case constants.SingleCredential:
		config.Username = ""
		config.Password = ""
		config.Token = values[0]
	}

	return saveConfigStruct(config)
}
