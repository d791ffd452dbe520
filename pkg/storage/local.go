package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// LocalDir stores files in a directory on the local disk
type LocalDir struct {
	dir string
	mu  sync.Mutex
}

// NewLocalDir returns a LocalDir rooted at dir. The directory is created on
// the first Save, so constructing one never touches the disk.
func NewLocalDir(dir string) *LocalDir {
	return &LocalDir{dir: dir}
}

// Dir returns the directory path
func (l *LocalDir) Dir() string {
	return l.dir
}

// Save writes data to name inside the directory and returns the full path.
// The write is atomic: data goes to a temporary file that is then renamed.
func (l *LocalDir) Save(name string, data []byte) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(l.dir, name)
	tempFile := filename + ".tmp"

	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return filename, nil
}

// List returns the names of files matching pattern (filepath.Match syntax),
// sorted. A missing directory yields an empty list.
func (l *LocalDir) List(pattern string) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
