package storage

import (
	"context"

	"vkbackup/pkg/yadisk"
)

// Yandex adapts a yadisk.Client to Provider
type Yandex struct {
	client *yadisk.Client
}

// NewYandex wraps client
func NewYandex(client *yadisk.Client) *Yandex {
	return &Yandex{client: client}
}

func (y *Yandex) Name() string { return "yandex.disk" }

func (y *Yandex) CreateFolder(ctx context.Context, path string) error {
	_, err := y.client.CreateFolder(ctx, path)
	return err
}

func (y *Yandex) UploadFile(ctx context.Context, data []byte, path string, overwrite bool) error {
	return y.client.UploadFile(ctx, data, path, overwrite)
}

func (y *Yandex) IsAlreadyExists(err error) bool {
	return yadisk.IsAlreadyExists(err)
}

func (y *Yandex) Usage(ctx context.Context) (*Usage, error) {
	info, err := y.client.Capacity(ctx)
	if err != nil {
		return nil, err
	}

	usage := &Usage{
		TotalSpace: info.TotalSpace,
		UsedSpace:  info.UsedSpace,
		TrashSize:  info.TrashSize,
	}
	if info.User != nil {
		usage.Owner = info.User.Login
	}
	return usage, nil
}
