package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vkbackup/pkg/auth"
	"vkbackup/pkg/config"
	"vkbackup/pkg/logger"
	"vkbackup/pkg/storage"
	"vkbackup/pkg/vk"
)

var (
	errMissingVKToken   = errors.New("no VK token: use --vk-token, VKBACKUP_VK_TOKEN, --token-dir or 'vkbackup auth login'")
	errMissingDiskToken = errors.New("no disk token: use --disk-token, VKBACKUP_DISK_TOKEN, --token-dir or 'vkbackup auth login'")
)

// credentialFlags are shared by every command that talks to an API
type credentialFlags struct {
	account   string
	tokenDir  string
	vkToken   string
	diskToken string
	diskType  string
	timeout   time.Duration
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.account, "account", "a", "", "use a specific stored account")
	cmd.Flags().StringVar(&f.tokenDir, "token-dir", "", "directory holding .vk and .yd token files")
	cmd.Flags().StringVar(&f.vkToken, "vk-token", "", "VK access token")
	cmd.Flags().StringVar(&f.diskToken, "disk-token", "", "Yandex.Disk OAuth token")
	cmd.Flags().StringVar(&f.diskType, "disk-type", "", "storage provider (yd)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "HTTP timeout (default from config, 30s)")
}

func (f *credentialFlags) toMap() map[string]interface{} {
	flags := map[string]interface{}{
		"vk-token":   f.vkToken,
		"disk-token": f.diskToken,
		"disk-type":  f.diskType,
		"token-dir":  f.tokenDir,
	}
	if f.timeout > 0 {
		flags["timeout"] = f.timeout
	}
	return flags
}

// credentialSource is the part of auth.Manager the commands need
type credentialSource interface {
	Retrieve(name string) (*auth.Credentials, error)
	RetrieveDefault() (*auth.Credentials, error)
}

// openCredentials is replaced in tests
var openCredentials = func(tokenDir string) (credentialSource, error) {
	manager, err := auth.NewManager(tokenDir)
	if err != nil {
		return nil, err
	}
	return manager, nil
}

// loadConfig runs config.Load with the global flags folded in
func loadConfig(flags map[string]interface{}) (*config.Config, error) {
	if flags == nil {
		flags = map[string]interface{}{}
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// resolveCredentials fills the tokens cfg lacks. A named account overrides
// configured tokens; otherwise stored credentials only fill the gaps.
func resolveCredentials(cfg *config.Config, account string) error {
	if account == "" && cfg.VK.Token != "" && cfg.Disk.Token != "" {
		return nil
	}

	source, err := openCredentials(cfg.Backup.TokenDirectory)
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if account != "" {
		creds, err := source.Retrieve(account)
		if err != nil {
			return fmt.Errorf("account %q: %w", account, err)
		}
		if creds.VKToken != "" {
			cfg.VK.Token = creds.VKToken
		}
		if creds.DiskToken != "" {
			cfg.Disk.Token = creds.DiskToken
		}
		logger.GetLogger().WithField("account", creds.Name).Info("Using stored credentials")
		return nil
	}

	creds, err := source.RetrieveDefault()
	if err != nil {
		// Nothing stored; the caller reports which token is missing
		return nil
	}
	if cfg.VK.Token == "" {
		cfg.VK.Token = creds.VKToken
	}
	if cfg.Disk.Token == "" {
		cfg.Disk.Token = creds.DiskToken
	}
	logger.GetLogger().WithField("account", creds.Name).Info("Using stored credentials")
	return nil
}

func newVKClient(cfg *config.Config, log logger.Logger) *vk.Client {
	return vk.NewClient(cfg.VK.Token, cfg.HTTP.Timeout, log,
		vk.WithBaseURL(cfg.VK.BaseURL),
		vk.WithAPIVersion(cfg.VK.APIVersion),
		vk.WithUserAgent(cfg.HTTP.UserAgent),
	)
}

func newProvider(cfg *config.Config, log logger.Logger) (storage.Provider, error) {
	return storage.New(cfg.Disk, storage.Options{
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
		Logger:    log,
	})
}
