package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DiskTypeYandex selects the Yandex.Disk storage provider
	DiskTypeYandex = "yd"

	envPrefix = "VKBACKUP_"
)

// Config holds all configuration options for the backup tool
type Config struct {
	// VK API access
	VK VKConfig `yaml:"vk" json:"vk"`

	// Cloud disk to back up to
	Disk DiskConfig `yaml:"disk" json:"disk"`

	// Backup run defaults
	Backup BackupConfig `yaml:"backup" json:"backup"`

	// Outbound HTTP settings
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// VKConfig holds VK API configuration
type VKConfig struct {
	Token      string `yaml:"token" json:"token"`
	APIVersion string `yaml:"api_version" json:"api_version"`
	BaseURL    string `yaml:"base_url" json:"base_url"`
}

// DiskConfig selects and configures the storage provider
type DiskConfig struct {
	Type    string `yaml:"type" json:"type"`
	Token   string `yaml:"token" json:"token"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// BackupConfig holds defaults for a backup run
type BackupConfig struct {
	FolderLabel     string `yaml:"folder_label" json:"folder_label"`
	ReportDirectory string `yaml:"report_directory" json:"report_directory"`
	Overwrite       bool   `yaml:"overwrite" json:"overwrite"`
	AlbumID         string `yaml:"album_id" json:"album_id"`
	TokenDirectory  string `yaml:"token_directory" json:"token_directory"`
}

// HTTPConfig holds settings shared by every API client
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	File   string `yaml:"file" json:"file"`
	Format string `yaml:"format" json:"format"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		VK: VKConfig{
			APIVersion: "5.199",
			BaseURL:    "https://api.vk.com/method/",
		},
		Disk: DiskConfig{
			Type:    DiskTypeYandex,
			BaseURL: "https://cloud-api.yandex.net/v1/disk/",
		},
		Backup: BackupConfig{
			FolderLabel:     "VK Photos",
			ReportDirectory: "output",
			Overwrite:       false,
			AlbumID:         "profile",
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "vkbackup/1.0",
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "text",
		},
	}
}

// LoadFromEnv loads configuration from VKBACKUP_* environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv(envPrefix + "VK_TOKEN"); token != "" {
		c.VK.Token = token
	}
	if version := os.Getenv(envPrefix + "VK_API_VERSION"); version != "" {
		c.VK.APIVersion = version
	}
	if diskType := os.Getenv(envPrefix + "DISK_TYPE"); diskType != "" {
		c.Disk.Type = diskType
	}
	if token := os.Getenv(envPrefix + "DISK_TOKEN"); token != "" {
		c.Disk.Token = token
	}
	if label := os.Getenv(envPrefix + "FOLDER_LABEL"); label != "" {
		c.Backup.FolderLabel = label
	}
	if dir := os.Getenv(envPrefix + "REPORT_DIR"); dir != "" {
		c.Backup.ReportDirectory = dir
	}
	if dir := os.Getenv(envPrefix + "TOKEN_DIR"); dir != "" {
		c.Backup.TokenDirectory = dir
	}
	if overwrite := os.Getenv(envPrefix + "OVERWRITE"); overwrite != "" {
		c.Backup.Overwrite = strings.ToLower(overwrite) == "true"
	}

	if timeout := os.Getenv(envPrefix + "TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", envPrefix, err)
		}
		c.HTTP.Timeout = d
	}

	if logLevel := os.Getenv(envPrefix + "LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv(envPrefix + "LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".vkbackup.yaml",
		".vkbackup.yml",
		filepath.Join(home, ".config", "vkbackup", "config.yaml"),
		filepath.Join(home, ".config", "vkbackup", "config.yml"),
		filepath.Join(home, ".vkbackup.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
// Tokens are not checked here: they may still come from the credential store.
func (c *Config) Validate() error {
	var errs []error

	if c.VK.APIVersion == "" {
		errs = append(errs, errors.New("VK API version is required"))
	}
	if c.VK.BaseURL == "" {
		errs = append(errs, errors.New("VK base URL is required"))
	}

	switch strings.ToLower(c.Disk.Type) {
	case DiskTypeYandex:
	case "":
		errs = append(errs, errors.New("disk type is required"))
	default:
		errs = append(errs, fmt.Errorf("unsupported disk type %q", c.Disk.Type))
	}
	if c.Disk.BaseURL == "" {
		errs = append(errs, errors.New("disk base URL is required"))
	}

	if c.Backup.FolderLabel == "" {
		errs = append(errs, errors.New("folder label is required"))
	}
	if c.Backup.ReportDirectory == "" {
		errs = append(errs, errors.New("report directory is required"))
	}

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("HTTP timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validFormats := map[string]bool{"text": true, "json": true, "": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["vk-token"].(string); ok && token != "" {
		c.VK.Token = token
	}
	if token, ok := flags["disk-token"].(string); ok && token != "" {
		c.Disk.Token = token
	}
	if diskType, ok := flags["disk-type"].(string); ok && diskType != "" {
		c.Disk.Type = diskType
	}
	if dir, ok := flags["report-dir"].(string); ok && dir != "" {
		c.Backup.ReportDirectory = dir
	}
	if dir, ok := flags["token-dir"].(string); ok && dir != "" {
		c.Backup.TokenDirectory = dir
	}
	if overwrite, ok := flags["overwrite"].(bool); ok && overwrite {
		c.Backup.Overwrite = true
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.HTTP.Timeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".vkbackup.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
