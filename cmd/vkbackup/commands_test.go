package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vkbackup/pkg/auth"
	"vkbackup/pkg/report"
)

// fakeAPIs serves photos.get, photo bytes and the Yandex.Disk endpoints
type fakeAPIs struct {
	mu      sync.Mutex
	server  *httptest.Server
	query   url.Values
	folders []string
	files   map[string][]byte
	vkError string
}

func newFakeAPIs(t *testing.T) *fakeAPIs {
	t.Helper()
	f := &fakeAPIs{files: map[string][]byte{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/method/photos.get", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.query = r.URL.Query()
		f.mu.Unlock()
		if f.vkError != "" {
			fmt.Fprintf(w, `{"error":{"error_code":5,"error_msg":%q}}`, f.vkError)
			return
		}
		fmt.Fprintf(w, `{"response":{"count":2,"items":[`+
			`{"id":1,"date":100,"likes":{"count":7},"orig_photo":{"url":"%[1]s/img/1"}},`+
			`{"id":2,"date":200,"likes":{"count":7},"orig_photo":{"url":"%[1]s/img/2"}}]}}`, f.server.URL)
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "jpeg"+r.URL.Path)
	})
	mux.HandleFunc("/v1/disk/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"total_space":10737418240,"used_space":1073741824,"trash_size":0,"user":{"login":"ivan"}}`)
	})
	mux.HandleFunc("/v1/disk/resources", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.folders = append(f.folders, r.URL.Query().Get("path"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"href":"x","method":"GET"}`)
	})
	mux.HandleFunc("/v1/disk/resources/upload", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"href":"%s/put/?target=%s","method":"PUT"}`, f.server.URL, url.QueryEscape(r.URL.Query().Get("path")))
	})
	mux.HandleFunc("/put/", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.files[r.URL.Query().Get("target")] = data
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// useConfig writes a config file pointing at the fake APIs and selects it
func useConfig(t *testing.T, apis *fakeAPIs, reportDir string) {
	t.Helper()

	content := fmt.Sprintf(`vk:
  base_url: %s/method/
disk:
  type: yd
  base_url: %s/v1/disk/
backup:
  folder_label: Test Photos
  report_directory: %s
`, apis.server.URL, apis.server.URL, reportDir)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	oldConfig, oldLevel, oldNoColor := configFile, logLevel, noColor
	configFile, logLevel, noColor = path, "error", true
	t.Cleanup(func() { configFile, logLevel, noColor = oldConfig, oldLevel, oldNoColor })

	for _, name := range []string{"VKBACKUP_VK_TOKEN", "VKBACKUP_DISK_TOKEN", "VKBACKUP_REPORT_DIR", "VKBACKUP_TOKEN_DIR"} {
		t.Setenv(name, "")
	}
}

// fakeCredentials stands in for auth.Manager
type fakeCredentials struct {
	named     map[string]*auth.Credentials
	fallback  *auth.Credentials
	openedDir string
}

func (f *fakeCredentials) Retrieve(name string) (*auth.Credentials, error) {
	if creds, ok := f.named[name]; ok {
		return creds, nil
	}
	return nil, auth.ErrCredentialsNotFound
}

func (f *fakeCredentials) RetrieveDefault() (*auth.Credentials, error) {
	if f.fallback == nil {
		return nil, auth.ErrCredentialsNotFound
	}
	return f.fallback, nil
}

func useCredentials(t *testing.T, fake *fakeCredentials) {
	t.Helper()
	old := openCredentials
	openCredentials = func(tokenDir string) (credentialSource, error) {
		fake.openedDir = tokenDir
		return fake, nil
	}
	t.Cleanup(func() { openCredentials = old })
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"photo_sizes=1", "feed_type=photo", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"photo_sizes": "1", "feed_type": "photo", "empty": ""}, params)

	params, err = parseParams(nil)
	require.NoError(t, err)
	assert.Nil(t, params)

	for _, bad := range []string{"novalue", "=1", " =x"} {
		_, err := parseParams([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestRunBackup(t *testing.T) {
	apis := newFakeAPIs(t)
	reportDir := filepath.Join(t.TempDir(), "reports")
	useConfig(t, apis, reportDir)

	var out bytes.Buffer
	opts := backupOptions{
		credentialFlags: credentialFlags{vkToken: "vk", diskToken: "yd"},
		count:           DefaultPhotoCount,
		rev:             true,
		params:          []string{"photo_sizes=1"},
		folder:          "Fixed",
	}

	require.NoError(t, runBackup(context.Background(), &out, "42", opts))

	assert.Equal(t, "42", apis.query.Get("owner_id"))
	assert.Equal(t, "profile", apis.query.Get("album_id"))
	assert.Equal(t, "5", apis.query.Get("count"))
	assert.Equal(t, "1", apis.query.Get("rev"))
	assert.Equal(t, "1", apis.query.Get("photo_sizes"))
	assert.Equal(t, "vk", apis.query.Get("access_token"))

	assert.Equal(t, []string{"Fixed"}, apis.folders)
	assert.Equal(t, []byte("jpeg/img/1"), apis.files["Fixed/7.jpg"])
	assert.Equal(t, []byte("jpeg/img/2"), apis.files["Fixed/7-200.jpg"])

	entries, err := os.ReadDir(reportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	manifest, err := report.Load(filepath.Join(reportDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []string{"7.jpg", "7-200.jpg"}, manifest.FileNames())

	assert.Contains(t, out.String(), "2/2")
	assert.Contains(t, out.String(), "Saved 7.jpg")
}

func TestRunBackupDefaultFolderUsesLabel(t *testing.T) {
	apis := newFakeAPIs(t)
	useConfig(t, apis, t.TempDir())

	opts := backupOptions{credentialFlags: credentialFlags{vkToken: "vk", diskToken: "yd"}, album: "wall"}
	require.NoError(t, runBackup(context.Background(), io.Discard, "1", opts))

	require.Len(t, apis.folders, 1)
	assert.True(t, strings.HasPrefix(apis.folders[0], "Test Photos ("), apis.folders[0])
	assert.Equal(t, "wall", apis.query.Get("album_id"))
}

func TestRunBackupFetchFailure(t *testing.T) {
	apis := newFakeAPIs(t)
	apis.vkError = "User authorization failed: invalid access_token"
	reportDir := filepath.Join(t.TempDir(), "reports")
	useConfig(t, apis, reportDir)

	opts := backupOptions{credentialFlags: credentialFlags{vkToken: "bad", diskToken: "yd"}}
	err := runBackup(context.Background(), io.Discard, "1", opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User authorization failed")

	assert.Empty(t, apis.folders)
	_, statErr := os.Stat(reportDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunBackupValidation(t *testing.T) {
	apis := newFakeAPIs(t)
	useConfig(t, apis, t.TempDir())
	useCredentials(t, &fakeCredentials{})

	err := runBackup(context.Background(), io.Discard, "", backupOptions{})
	assert.EqualError(t, err, "owner id is required")

	err = runBackup(context.Background(), io.Discard, "1", backupOptions{count: -1})
	assert.Error(t, err)

	err = runBackup(context.Background(), io.Discard, "1", backupOptions{params: []string{"bad"}})
	assert.Error(t, err)

	err = runBackup(context.Background(), io.Discard, "1", backupOptions{})
	assert.ErrorIs(t, err, errMissingVKToken)

	err = runBackup(context.Background(), io.Discard, "1", backupOptions{credentialFlags: credentialFlags{vkToken: "vk"}})
	assert.ErrorIs(t, err, errMissingDiskToken)
}

func TestRunBackupWithStoredAccount(t *testing.T) {
	apis := newFakeAPIs(t)
	useConfig(t, apis, t.TempDir())
	fake := &fakeCredentials{named: map[string]*auth.Credentials{
		"work": {Name: "work", VKToken: "stored-vk", DiskToken: "stored-yd"},
	}}
	useCredentials(t, fake)

	opts := backupOptions{credentialFlags: credentialFlags{account: "work", tokenDir: "tokens"}}
	require.NoError(t, runBackup(context.Background(), io.Discard, "1", opts))
	assert.Equal(t, "stored-vk", apis.query.Get("access_token"))
	assert.Equal(t, "tokens", fake.openedDir)

	opts.account = "missing"
	err := runBackup(context.Background(), io.Discard, "1", opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrCredentialsNotFound)
}

func TestResolveCredentialsFillsGaps(t *testing.T) {
	apis := newFakeAPIs(t)
	useConfig(t, apis, t.TempDir())
	useCredentials(t, &fakeCredentials{fallback: &auth.Credentials{Name: "tokens", VKToken: "file-vk", DiskToken: "file-yd"}})

	cfg, err := loadConfig(map[string]interface{}{"vk-token": "flag-vk"})
	require.NoError(t, err)

	require.NoError(t, resolveCredentials(cfg, ""))
	assert.Equal(t, "flag-vk", cfg.VK.Token, "configured token wins")
	assert.Equal(t, "file-yd", cfg.Disk.Token)
}

func TestRunDiskInfo(t *testing.T) {
	apis := newFakeAPIs(t)
	useConfig(t, apis, t.TempDir())

	var out bytes.Buffer
	require.NoError(t, runDiskInfo(context.Background(), &out, credentialFlags{diskToken: "yd"}))

	text := out.String()
	assert.Contains(t, text, "yandex.disk")
	assert.Contains(t, text, "ivan")
	assert.Contains(t, text, "10.0 GiB")
	assert.Contains(t, text, "9.0 GiB")
}

func TestConfigCommands(t *testing.T) {
	apis := newFakeAPIs(t)
	useConfig(t, apis, t.TempDir())

	var out bytes.Buffer
	require.NoError(t, runConfigShow(&out))
	assert.Contains(t, out.String(), "folder_label: Test Photos")

	t.Setenv("VKBACKUP_VK_TOKEN", "vk1.a.secret-token-value")
	out.Reset()
	require.NoError(t, runConfigShow(&out))
	assert.NotContains(t, out.String(), "secret-token")
	assert.Contains(t, out.String(), "vk1....alue")

	out.Reset()
	require.NoError(t, runConfigValidate(&out))
	assert.Contains(t, out.String(), "Configuration is valid")
	assert.Contains(t, out.String(), "disk.token not set")

	path := filepath.Join(t.TempDir(), "new.yaml")
	require.NoError(t, runConfigInit(io.Discard, path))
	assert.FileExists(t, path)
	assert.Error(t, runConfigInit(io.Discard, path), "existing file is not overwritten")
}

func TestRunReportsList(t *testing.T) {
	apis := newFakeAPIs(t)
	dir := t.TempDir()
	useConfig(t, apis, dir)

	var out bytes.Buffer
	require.NoError(t, runReportsList(&out, ""))
	assert.Contains(t, out.String(), "No reports")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "backup 1700000000.json"),
		[]byte(`[{"file_name":"1.jpg","size":"base"},{"file_name":"2.jpg","size":"base"}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backup 1700000001.json"), []byte("not json"), 0644))

	out.Reset()
	require.NoError(t, runReportsList(&out, ""))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "backup 1700000000.json")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), "2"))
	assert.Contains(t, lines[2], "unreadable")
}

func TestRunLoginAndList(t *testing.T) {
	store := auth.NewMockStore()
	input := strings.NewReader("vk1.a.login-vk-token\ny0_login-disk-token\n")

	var out bytes.Buffer
	require.NoError(t, runLogin(&out, input, store, "home"))

	creds, err := store.Get("home")
	require.NoError(t, err)
	assert.Equal(t, "vk1.a.login-vk-token", creds.VKToken)
	assert.Equal(t, "y0_login-disk-token", creds.DiskToken)

	// declining replacement keeps the stored pair
	input = strings.NewReader("n\n")
	require.NoError(t, runLogin(io.Discard, input, store, "home"))
	creds, _ = store.Get("home")
	assert.Equal(t, "vk1.a.login-vk-token", creds.VKToken)

	out.Reset()
	require.NoError(t, runList(&out, store))
	assert.Contains(t, out.String(), "home")
	assert.Contains(t, out.String(), "vk1....oken")
	assert.NotContains(t, out.String(), "login-vk-token")

	out.Reset()
	require.NoError(t, runList(&out, auth.NewMockStore()))
	assert.Contains(t, out.String(), "No tokens stored")
}
