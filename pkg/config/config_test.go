package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "5.199", cfg.VK.APIVersion)
	assert.Equal(t, "https://api.vk.com/method/", cfg.VK.BaseURL)
	assert.Empty(t, cfg.VK.Token)

	assert.Equal(t, DiskTypeYandex, cfg.Disk.Type)
	assert.Equal(t, "https://cloud-api.yandex.net/v1/disk/", cfg.Disk.BaseURL)

	assert.Equal(t, "VK Photos", cfg.Backup.FolderLabel)
	assert.Equal(t, "output", cfg.Backup.ReportDirectory)
	assert.Equal(t, "profile", cfg.Backup.AlbumID)
	assert.False(t, cfg.Backup.Overwrite)

	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.NotEmpty(t, cfg.HTTP.UserAgent)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VKBACKUP_VK_TOKEN", "env-vk-token")
	t.Setenv("VKBACKUP_DISK_TOKEN", "env-disk-token")
	t.Setenv("VKBACKUP_FOLDER_LABEL", "Archive")
	t.Setenv("VKBACKUP_REPORT_DIR", "/tmp/reports")
	t.Setenv("VKBACKUP_OVERWRITE", "TRUE")
	t.Setenv("VKBACKUP_TIMEOUT", "5s")
	t.Setenv("VKBACKUP_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-vk-token", cfg.VK.Token)
	assert.Equal(t, "env-disk-token", cfg.Disk.Token)
	assert.Equal(t, "Archive", cfg.Backup.FolderLabel)
	assert.Equal(t, "/tmp/reports", cfg.Backup.ReportDirectory)
	assert.True(t, cfg.Backup.Overwrite)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidTimeout(t *testing.T) {
	t.Setenv("VKBACKUP_TIMEOUT", "soon")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VKBACKUP_TIMEOUT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:      "missing api version",
			modify:    func(c *Config) { c.VK.APIVersion = "" },
			wantError: "VK API version is required",
		},
		{
			name:      "unsupported disk type",
			modify:    func(c *Config) { c.Disk.Type = "gdrive" },
			wantError: `unsupported disk type "gdrive"`,
		},
		{
			name:      "empty disk type",
			modify:    func(c *Config) { c.Disk.Type = "" },
			wantError: "disk type is required",
		},
		{
			name:      "zero timeout",
			modify:    func(c *Config) { c.HTTP.Timeout = 0 },
			wantError: "HTTP timeout must be positive",
		},
		{
			name:      "invalid log level",
			modify:    func(c *Config) { c.Logging.Level = "verbose" },
			wantError: "invalid log level",
		},
		{
			name:      "invalid log format",
			modify:    func(c *Config) { c.Logging.Format = "xml" },
			wantError: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backup.FolderLabel = ""
	cfg.Backup.ReportDirectory = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "folder label is required")
	assert.Contains(t, err.Error(), "report directory is required")
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"vk-token":   "flag-vk",
		"disk-token": "flag-disk",
		"report-dir": "/flag/reports",
		"token-dir":  "/flag/tokens",
		"overwrite":  true,
		"timeout":    10 * time.Second,
		"log-level":  "error",
	})

	assert.Equal(t, "flag-vk", cfg.VK.Token)
	assert.Equal(t, "flag-disk", cfg.Disk.Token)
	assert.Equal(t, "/flag/reports", cfg.Backup.ReportDirectory)
	assert.Equal(t, "/flag/tokens", cfg.Backup.TokenDirectory)
	assert.True(t, cfg.Backup.Overwrite)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestMergeCommandLineFlagsIgnoresEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VK.Token = "kept"

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"vk-token":  "",
		"overwrite": false,
	})

	assert.Equal(t, "kept", cfg.VK.Token)
	assert.False(t, cfg.Backup.Overwrite)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Backup.FolderLabel = "Фото"
	cfg.Backup.Overwrite = true
	cfg.HTTP.Timeout = 45 * time.Second
	require.NoError(t, cfg.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))

	assert.Equal(t, "Фото", loaded.Backup.FolderLabel)
	assert.True(t, loaded.Backup.Overwrite)
	assert.Equal(t, 45*time.Second, loaded.HTTP.Timeout)
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
disk:
  token: file-disk-token
backup:
  report_directory: reports
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(configPath))

	assert.Equal(t, "file-disk-token", cfg.Disk.Token)
	assert.Equal(t, "reports", cfg.Backup.ReportDirectory)
	assert.Equal(t, DiskTypeYandex, cfg.Disk.Type)
	assert.Equal(t, "VK Photos", cfg.Backup.FolderLabel)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("vk: [unclosed"), 0600))

	cfg := DefaultConfig()
	err := cfg.LoadFromFile(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yamlContent := `
vk:
  token: file-vk
disk:
  token: file-disk
backup:
  folder_label: From File
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0600))

	t.Setenv("HOME", dir)
	t.Setenv("VKBACKUP_DISK_TOKEN", "env-disk")
	t.Setenv("VKBACKUP_VK_TOKEN", "env-vk")

	cfg, err := Load(configPath, map[string]interface{}{"vk-token": "flag-vk"})
	require.NoError(t, err)

	assert.Equal(t, "flag-vk", cfg.VK.Token)
	assert.Equal(t, "env-disk", cfg.Disk.Token)
	assert.Equal(t, "From File", cfg.Backup.FolderLabel)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("disk:\n  type: s3\n"), 0600))

	_, err := Load(configPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
