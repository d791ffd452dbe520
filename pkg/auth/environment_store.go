package auth

import (
	"os"
	"time"
)

const (
	envVKToken   = "VKBACKUP_VK_TOKEN"
	envDiskToken = "VKBACKUP_DISK_TOKEN"

	// EnvironmentName is the name reported for environment credentials
	EnvironmentName = "env"
)

// EnvironmentStore reads tokens from VKBACKUP_VK_TOKEN and
// VKBACKUP_DISK_TOKEN. It is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment tokens for "" or EnvironmentName
func (e *EnvironmentStore) Retrieve(name string) (*Credentials, error) {
	if name != "" && name != EnvironmentName {
		return nil, ErrCredentialsNotFound
	}

	vkToken := os.Getenv(envVKToken)
	diskToken := os.Getenv(envDiskToken)
	if vkToken == "" && diskToken == "" {
		return nil, ErrCredentialsNotFound
	}

	return &Credentials{
		Name:         EnvironmentName,
		VKToken:      vkToken,
		DiskToken:    diskToken,
		LastModified: time.Now(),
	}, nil
}

// List returns a single entry if either variable is set
func (e *EnvironmentStore) List() ([]*Credentials, error) {
	creds, err := e.Retrieve("")
	if err != nil {
		return []*Credentials{}, nil
	}
	return []*Credentials{creds}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}
