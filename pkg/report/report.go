package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// SizeBase is the only size label a backup records: the original rendition
const SizeBase = "base"

const (
	filePrefix = "backup "
	fileSuffix = ".json"

	// FilePattern matches report file names (filepath.Match syntax)
	FilePattern = filePrefix + "*" + fileSuffix
)

// Entry records one photo saved to the cloud
type Entry struct {
	FileName string `json:"file_name"`
	Size     string `json:"size"`
}

// NewEntry returns the entry for a saved file
func NewEntry(fileName string) Entry {
	return Entry{FileName: fileName, Size: SizeBase}
}

// Manifest is the ordered list of entries of one run
type Manifest []Entry

// Add appends an entry for fileName
func (m *Manifest) Add(fileName string) {
	*m = append(*m, NewEntry(fileName))
}

// FileNames returns the file names in manifest order
func (m Manifest) FileNames() []string {
	names := make([]string, len(m))
	for i, e := range m {
		names[i] = e.FileName
	}
	return names
}

// Marshal encodes the manifest as a JSON array indented with four spaces.
// Non-ASCII and HTML characters are written as-is.
func (m Manifest) Marshal() ([]byte, error) {
	entries := m
	if entries == nil {
		entries = Manifest{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode([]Entry(entries)); err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal decodes a manifest previously written by Marshal
func Unmarshal(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return m, nil
}

// Load reads a manifest file from disk
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return Unmarshal(data)
}

// FileName returns the report name for a run started at t
func FileName(t time.Time) string {
	return filePrefix + strconv.FormatInt(t.Unix(), 10) + fileSuffix
}

// ParseFileName extracts the run time from a report name
func ParseFileName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	ts, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(ts, 0), true
}
