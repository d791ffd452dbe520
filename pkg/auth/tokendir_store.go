package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// VKTokenFile and DiskTokenFile hold one raw token each
	VKTokenFile   = ".vk"
	DiskTokenFile = ".yd"

	// TokenDirName is the name reported for token directory credentials
	TokenDirName = "tokens"
)

// TokenDirStore reads tokens from a directory holding .vk and .yd files.
// Surrounding whitespace is trimmed. It is read-only.
type TokenDirStore struct {
	dir string
}

// NewTokenDirStore creates a store over dir
func NewTokenDirStore(dir string) *TokenDirStore {
	return &TokenDirStore{dir: dir}
}

// Store is not supported; edit the files instead
func (s *TokenDirStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve returns the tokens for "" or TokenDirName
func (s *TokenDirStore) Retrieve(name string) (*Credentials, error) {
	if name != "" && name != TokenDirName {
		return nil, ErrCredentialsNotFound
	}

	vkToken, vkMod, err := s.readToken(VKTokenFile)
	if err != nil {
		return nil, err
	}
	diskToken, diskMod, err := s.readToken(DiskTokenFile)
	if err != nil {
		return nil, err
	}
	if vkToken == "" && diskToken == "" {
		return nil, ErrCredentialsNotFound
	}

	creds := &Credentials{
		Name:         TokenDirName,
		VKToken:      vkToken,
		DiskToken:    diskToken,
		LastModified: vkMod,
	}
	if diskMod.After(vkMod) {
		creds.LastModified = diskMod
	}
	return creds, nil
}

// List returns a single entry if either file is present
func (s *TokenDirStore) List() ([]*Credentials, error) {
	creds, err := s.Retrieve("")
	if err != nil {
		return []*Credentials{}, nil
	}
	return []*Credentials{creds}, nil
}

// Delete is not supported
func (s *TokenDirStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if either token file is present
func (s *TokenDirStore) Exists(name string) bool {
	_, err := s.Retrieve(name)
	return err == nil
}

// readToken returns "" without error for a missing file
func (s *TokenDirStore) readToken(file string) (string, time.Time, error) {
	path := filepath.Join(s.dir, file)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), info.ModTime(), nil
}
