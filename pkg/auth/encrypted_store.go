package auth

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// PassphraseEnv overrides the generated vault passphrase
const PassphraseEnv = "VKBACKUP_PASSPHRASE"

const (
	vaultVersion   = 2
	vaultSaltSize  = 16
	vaultKeySize   = 32
	vaultKDFRounds = 100000
	passphraseFile = ".passphrase"
)

// tokenKind names a sealed token inside a vault entry. It is bound to the
// ciphertext so a VK token cannot be swapped into the disk slot.
type tokenKind string

const (
	kindVK   tokenKind = "vk"
	kindDisk tokenKind = "disk"
)

// vaultFile is the on-disk layout. Account names and timestamps are stored
// in the clear; each token is sealed on its own.
type vaultFile struct {
	Version  int          `json:"version"`
	Salt     []byte       `json:"salt"`
	Rounds   int          `json:"rounds"`
	Accounts []vaultEntry `json:"accounts"`
}

type vaultEntry struct {
	Name     string    `json:"name"`
	Modified time.Time `json:"modified"`
	VK       []byte    `json:"vk,omitempty"`
	Disk     []byte    `json:"disk,omitempty"`
}

// EncryptedFileStore keeps token pairs in an AES-GCM sealed vault file.
// The key is derived with PBKDF2 from VKBACKUP_PASSPHRASE or, when unset,
// from a random passphrase kept beside the vault.
type EncryptedFileStore struct {
	path       string
	passphrase string

	mu      sync.Mutex
	key     []byte
	keySalt []byte
}

// NewEncryptedFileStore opens (or prepares) the vault at path
func NewEncryptedFileStore(path string) (*EncryptedFileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	passphrase, err := loadPassphrase(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get passphrase: %w", err)
	}

	return &EncryptedFileStore{path: path, passphrase: passphrase}, nil
}

// Store seals both tokens and replaces any entry with the same name
func (e *EncryptedFileStore) Store(creds *Credentials) error {
	if creds == nil || creds.Name == "" {
		return ErrInvalidCredentials
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	vault, err := e.read()
	if errors.Is(err, os.ErrNotExist) {
		vault, err = newVault()
	}
	if err != nil {
		return err
	}

	key := e.deriveKey(vault)
	entry := vaultEntry{Name: creds.Name, Modified: creds.LastModified}
	if entry.VK, err = seal(key, creds.Name, kindVK, creds.VKToken); err != nil {
		return err
	}
	if entry.Disk, err = seal(key, creds.Name, kindDisk, creds.DiskToken); err != nil {
		return err
	}

	if i := vault.find(creds.Name); i >= 0 {
		vault.Accounts[i] = entry
	} else {
		vault.Accounts = append(vault.Accounts, entry)
	}
	sort.Slice(vault.Accounts, func(i, j int) bool { return vault.Accounts[i].Name < vault.Accounts[j].Name })

	return e.write(vault)
}

// Retrieve opens the entry stored under name
func (e *EncryptedFileStore) Retrieve(name string) (*Credentials, error) {
	if name == "" {
		return nil, ErrInvalidCredentials
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	vault, err := e.read()
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCredentialsNotFound
	}
	if err != nil {
		return nil, err
	}

	i := vault.find(name)
	if i < 0 {
		return nil, ErrCredentialsNotFound
	}
	return open(e.deriveKey(vault), vault.Accounts[i])
}

// List opens every entry; entries that cannot be decrypted are skipped
func (e *EncryptedFileStore) List() ([]*Credentials, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	vault, err := e.read()
	if errors.Is(err, os.ErrNotExist) {
		return []*Credentials{}, nil
	}
	if err != nil {
		return nil, err
	}

	key := e.deriveKey(vault)
	result := make([]*Credentials, 0, len(vault.Accounts))
	for _, entry := range vault.Accounts {
		creds, err := open(key, entry)
		if err != nil {
			continue
		}
		result = append(result, creds)
	}
	return result, nil
}

// Delete drops the entry; the vault file goes away with its last entry
func (e *EncryptedFileStore) Delete(name string) error {
	if name == "" {
		return ErrInvalidCredentials
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	vault, err := e.read()
	if errors.Is(err, os.ErrNotExist) {
		return ErrCredentialsNotFound
	}
	if err != nil {
		return err
	}

	i := vault.find(name)
	if i < 0 {
		return ErrCredentialsNotFound
	}
	vault.Accounts = append(vault.Accounts[:i], vault.Accounts[i+1:]...)

	if len(vault.Accounts) == 0 {
		return os.Remove(e.path)
	}
	return e.write(vault)
}

// Exists reports whether an entry is stored under name, without decrypting it
func (e *EncryptedFileStore) Exists(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	vault, err := e.read()
	return err == nil && vault.find(name) >= 0
}

func newVault() (*vaultFile, error) {
	salt := make([]byte, vaultSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return &vaultFile{Version: vaultVersion, Salt: salt, Rounds: vaultKDFRounds}, nil
}

func (v *vaultFile) find(name string) int {
	for i, entry := range v.Accounts {
		if entry.Name == name {
			return i
		}
	}
	return -1
}

func (e *EncryptedFileStore) read() (*vaultFile, error) {
	content, err := os.ReadFile(e.path)
	if err != nil {
		return nil, err
	}

	var vault vaultFile
	if err := json.Unmarshal(content, &vault); err != nil {
		return nil, fmt.Errorf("failed to parse vault: %w", err)
	}
	if vault.Version != vaultVersion || len(vault.Salt) == 0 || vault.Rounds <= 0 {
		return nil, fmt.Errorf("unsupported vault format (version %d)", vault.Version)
	}
	return &vault, nil
}

func (e *EncryptedFileStore) write(vault *vaultFile) error {
	content, err := json.MarshalIndent(vault, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode vault: %w", err)
	}

	tmp := e.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0600); err != nil {
		return fmt.Errorf("failed to write vault: %w", err)
	}
	return os.Rename(tmp, e.path)
}

// deriveKey caches the PBKDF2 key for the vault's salt
func (e *EncryptedFileStore) deriveKey(vault *vaultFile) []byte {
	if e.key == nil || !bytes.Equal(e.keySalt, vault.Salt) {
		e.key = pbkdf2.Key([]byte(e.passphrase), vault.Salt, vault.Rounds, vaultKeySize, sha256.New)
		e.keySalt = vault.Salt
	}
	return e.key
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func additionalData(name string, kind tokenKind) []byte {
	return []byte(name + "/" + string(kind))
}

// seal encrypts token as nonce||ciphertext; an empty token stays empty
func seal(key []byte, name string, kind tokenKind, token string) ([]byte, error) {
	if token == "" {
		return nil, nil
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, []byte(token), additionalData(name, kind)), nil
}

func unseal(key []byte, name string, kind tokenKind, sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(sealed) < gcm.NonceSize() {
		return "", errors.New("sealed token too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, additionalData(name, kind))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func open(key []byte, entry vaultEntry) (*Credentials, error) {
	vkToken, err := unseal(key, entry.Name, kindVK, entry.VK)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt VK token for %q: %w", entry.Name, err)
	}
	diskToken, err := unseal(key, entry.Name, kindDisk, entry.Disk)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt disk token for %q: %w", entry.Name, err)
	}

	return &Credentials{
		Name:         entry.Name,
		VKToken:      vkToken,
		DiskToken:    diskToken,
		LastModified: entry.Modified,
	}, nil
}

// loadPassphrase returns VKBACKUP_PASSPHRASE, else the passphrase file in
// dir, creating it with random content on first use
func loadPassphrase(dir string) (string, error) {
	if pass := os.Getenv(PassphraseEnv); pass != "" {
		return pass, nil
	}

	path := filepath.Join(dir, passphraseFile)
	if content, err := os.ReadFile(path); err == nil && len(content) > 0 {
		return string(content), nil
	}

	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	pass := base64.RawURLEncoding.EncodeToString(b)

	if err := os.WriteFile(path, []byte(pass), 0600); err != nil {
		return "", fmt.Errorf("failed to save passphrase: %w", err)
	}
	return pass, nil
}
