package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vkbackup/pkg/config"
	"vkbackup/pkg/errors"
	"vkbackup/pkg/logger"
)

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.DiskConfig
		wantErr string
	}{
		{name: "yandex", cfg: config.DiskConfig{Type: "yd", Token: "t"}},
		{name: "yandex upper case", cfg: config.DiskConfig{Type: "YD", Token: "t"}},
		{name: "missing token", cfg: config.DiskConfig{Type: "yd"}, wantErr: "disk token is required"},
		{name: "unknown type", cfg: config.DiskConfig{Type: "gd", Token: "t"}, wantErr: `unsupported disk type "gd"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg, Options{Timeout: time.Second, Logger: logger.NewNopLogger()})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "yandex.disk", p.Name())
		})
	}
}

func TestYandexProvider(t *testing.T) {
	var uploaded []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/disk/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OAuth tok", r.Header.Get("Authorization"))
		assert.Equal(t, "vkbackup-test", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, `{"total_space":100,"used_space":40,"trash_size":5,"user":{"login":"owner"}}`)
	})
	mux.HandleFunc("/v1/disk/resources", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"DiskPathPointsToExistentDirectoryError","description":"exists"}`)
	})
	var server *httptest.Server
	mux.HandleFunc("/v1/disk/resources/upload", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"href":"`+server.URL+`/put","method":"PUT"}`)
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		uploaded, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	p, err := New(config.DiskConfig{Type: "yd", Token: "tok", BaseURL: server.URL + "/v1/disk/"},
		Options{Timeout: time.Second, UserAgent: "vkbackup-test", Logger: logger.NewNopLogger()})
	require.NoError(t, err)
	ctx := context.Background()

	usage, err := p.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "owner", usage.Owner)
	assert.Equal(t, int64(60), usage.FreeSpace())

	err = p.CreateFolder(ctx, "VK Photos")
	require.Error(t, err)
	assert.True(t, p.IsAlreadyExists(err))
	assert.True(t, errors.Is(err, errors.ErrorTypeDomain))

	require.NoError(t, p.UploadFile(ctx, []byte("data"), "VK Photos/1.jpg", false))
	assert.Equal(t, []byte("data"), uploaded)
}

func TestUsageFreeSpace(t *testing.T) {
	assert.Equal(t, int64(0), Usage{TotalSpace: 10, UsedSpace: 20}.FreeSpace())
	assert.Equal(t, int64(7), Usage{TotalSpace: 10, UsedSpace: 3}.FreeSpace())
}

func TestLocalDirSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output", "nested")
	local := NewLocalDir(dir)

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "directory is created lazily")

	path, err := local.Save("backup 1700000000.json", []byte("[]"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup 1700000000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is removed")

	path, err = local.Save("backup 1700000000.json", []byte("[1]"))
	require.NoError(t, err)
	data, _ = os.ReadFile(path)
	assert.Equal(t, "[1]", string(data))
}

func TestLocalDirSaveRejectsPaths(t *testing.T) {
	local := NewLocalDir(t.TempDir())

	for _, name := range []string{"", "../escape.json", `a\b.json`} {
		_, err := local.Save(name, []byte("x"))
		assert.Error(t, err, name)
	}
}

func TestLocalDirSaveFailsWhenDirIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewLocalDir(blocker).Save("a.json", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory")
}

func TestLocalDirList(t *testing.T) {
	dir := t.TempDir()
	local := NewLocalDir(dir)

	for _, name := range []string{"backup 2.json", "backup 1.json", "notes.txt"} {
		_, err := local.Save(name, []byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "backup 3.json"), 0755))

	names, err := local.List("backup *.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"backup 1.json", "backup 2.json"}, names)

	missing, err := NewLocalDir(filepath.Join(dir, "nope")).List("*")
	require.NoError(t, err)
	assert.Empty(t, missing)
}
