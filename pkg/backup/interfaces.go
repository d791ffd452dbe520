package backup

import (
	"context"

	"vkbackup/pkg/vk"
)

// SourceClient is the photo source a backup reads from
type SourceClient interface {
	FetchPhotos(ctx context.Context, filter vk.PhotosFilter) ([]vk.Photo, error)
	DownloadPhoto(ctx context.Context, url string) ([]byte, error)
}

// ReportStore persists the local copy of a run's manifest
type ReportStore interface {
	// Save writes data under name and returns where it went
	Save(name string, data []byte) (string, error)
}

// Reporter receives operator-facing progress messages
type Reporter interface {
	LogInfo(format string, args ...interface{})
	LogSuccess(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
}

type nopReporter struct{}

func (nopReporter) LogInfo(string, ...interface{})    {}
func (nopReporter) LogSuccess(string, ...interface{}) {}
func (nopReporter) LogWarning(string, ...interface{}) {}
func (nopReporter) LogError(string, ...interface{})   {}
