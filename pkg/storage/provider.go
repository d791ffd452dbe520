package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vkbackup/pkg/config"
	"vkbackup/pkg/logger"
	"vkbackup/pkg/yadisk"
)

// Provider is the cloud storage capability a backup run needs
type Provider interface {
	// Name identifies the provider in logs and reports
	Name() string
	// CreateFolder creates path; an existing folder is an error IsAlreadyExists recognises
	CreateFolder(ctx context.Context, path string) error
	// UploadFile stores data at path
	UploadFile(ctx context.Context, data []byte, path string, overwrite bool) error
	// IsAlreadyExists reports whether err means the target already exists
	IsAlreadyExists(err error) bool
	// Usage reports disk space figures
	Usage(ctx context.Context) (*Usage, error)
}

// Usage is the provider-neutral view of disk space
type Usage struct {
	Owner      string
	TotalSpace int64
	UsedSpace  int64
	TrashSize  int64
}

// FreeSpace returns the bytes still available
func (u Usage) FreeSpace() int64 {
	if free := u.TotalSpace - u.UsedSpace; free > 0 {
		return free
	}
	return 0
}

// Options carries settings shared by every provider
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Logger    logger.Logger
}

// New selects a Provider by cfg.Type
func New(cfg config.DiskConfig, opts Options) (Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case config.DiskTypeYandex:
		if cfg.Token == "" {
			return nil, fmt.Errorf("disk token is required for %q", cfg.Type)
		}
		clientOpts := []yadisk.Option{}
		if cfg.BaseURL != "" {
			clientOpts = append(clientOpts, yadisk.WithBaseURL(cfg.BaseURL))
		}
		if opts.UserAgent != "" {
			clientOpts = append(clientOpts, yadisk.WithUserAgent(opts.UserAgent))
		}
		return NewYandex(yadisk.NewClient(cfg.Token, opts.Timeout, opts.Logger, clientOpts...)), nil
	default:
		return nil, fmt.Errorf("unsupported disk type %q", cfg.Type)
	}
}
