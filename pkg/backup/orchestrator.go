package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vkbackup/pkg/logger"
	"vkbackup/pkg/report"
	"vkbackup/pkg/storage"
	"vkbackup/pkg/vk"
)

// DefaultFolderLabel prefixes the dated default folder name
const DefaultFolderLabel = "VK Photos"

// Options tune a single Backup call
type Options struct {
	// Folder is the remote destination; empty means "<label> (YYYY-MM-DD)"
	Folder string
	// Overwrite replaces photos that already exist remotely
	Overwrite bool
}

// Result describes a finished run
type Result struct {
	RunID  string
	Folder string
	// Manifest lists the photos that reached the cloud, in fetch order
	Manifest   report.Manifest
	ReportFile string
	// ReportPath is empty when the local report could not be written
	ReportPath string
	// ReportUploaded is false when the remote report copy failed
	ReportUploaded bool

	Found           int
	Saved           int
	FailedDownloads int
	FailedUploads   int
	Cancelled       bool

	StartedAt time.Time
	Duration  time.Duration
}

// Orchestrator copies photos from a SourceClient to a storage.Provider
type Orchestrator struct {
	source      SourceClient
	provider    storage.Provider
	reports     ReportStore
	clock       Clock
	reporter    Reporter
	logger      logger.Logger
	folderLabel string
}

// Option customises an Orchestrator
type Option func(*Orchestrator)

// WithClock sets the clock used for folder and report names
func WithClock(c Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithReporter sets where operator messages go
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithLogger sets the structured logger
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithFolderLabel changes the prefix of the default folder name
func WithFolderLabel(label string) Option {
	return func(o *Orchestrator) {
		if label != "" {
			o.folderLabel = label
		}
	}
}

// New creates an Orchestrator
func New(source SourceClient, provider storage.Provider, reports ReportStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:      source,
		provider:    provider,
		reports:     reports,
		clock:       RealClock{},
		reporter:    nopReporter{},
		logger:      logger.GetLogger(),
		folderLabel: DefaultFolderLabel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DefaultFolder returns "<label> (YYYY-MM-DD)" for the given day
func DefaultFolder(label string, t time.Time) string {
	return fmt.Sprintf("%s (%s)", label, t.Format("2006-01-02"))
}

// Backup fetches the photos selected by filter and copies each one to the
// provider, then writes the manifest locally and next to the photos.
//
// Only a fetch failure is returned as an error. Download, upload and
// report failures are reported and the run carries on.
//
// Cancelling ctx stops the run before the next photo. A photo that was
// already downloaded is still uploaded, and both report copies are written.
func (o *Orchestrator) Backup(ctx context.Context, filter vk.PhotosFilter, opts Options) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		Manifest:  report.Manifest{},
		StartedAt: o.clock.Now(),
	}
	log := o.logger.WithFields(map[string]interface{}{
		"run_id":   result.RunID,
		"owner_id": filter.OwnerID,
	})

	o.reporter.LogInfo("Fetching photos information...")
	photos, err := o.source.FetchPhotos(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to fetch photos")
		return nil, fmt.Errorf("fetch photos: %w", err)
	}
	result.Found = len(photos)

	result.Folder = opts.Folder
	if result.Folder == "" {
		result.Folder = DefaultFolder(o.folderLabel, o.clock.Now())
	}
	log = log.WithField("folder", result.Folder)

	// writes are bounded by the HTTP client timeout, not by ctx
	writeCtx := context.WithoutCancel(ctx)

	o.reporter.LogInfo("Saving %d photos to %s, folder %q.", len(photos), o.provider.Name(), result.Folder)
	o.ensureFolder(writeCtx, result.Folder, log)

	names := newNameRegistry()
	for i, photo := range photos {
		if ctx.Err() != nil {
			result.Cancelled = true
			o.reporter.LogWarning("Backup interrupted after %d of %d photos", i, len(photos))
			log.WithError(ctx.Err()).Warn("Backup interrupted")
			break
		}

		o.reporter.LogInfo("Processing photo %d of %d", i+1, len(photos))
		o.copyPhoto(ctx, writeCtx, photo, result, opts, names, log)
	}

	o.writeReport(writeCtx, result, log)

	result.Duration = o.clock.Now().Sub(result.StartedAt)
	logger.LogRunSummary(log, result.RunID, result.Found, result.Saved, result.FailedDownloads, result.FailedUploads)

	return result, nil
}

// ensureFolder creates the destination folder. Failure is never fatal: an
// existing folder is expected on repeated runs, and for anything else the
// uploads will report their own errors.
func (o *Orchestrator) ensureFolder(ctx context.Context, folder string, log logger.Logger) {
	o.reporter.LogInfo("Creating folder %q...", folder)

	err := o.provider.CreateFolder(ctx, folder)
	switch {
	case err == nil:
		o.reporter.LogSuccess("Folder created")
	case o.provider.IsAlreadyExists(err):
		o.reporter.LogWarning("Folder %q already exists", folder)
		log.WithError(err).Warn("Folder already exists")
	default:
		o.reporter.LogError("Could not create folder %q: %v", folder, err)
		log.WithError(err).Error("Failed to create folder")
	}
}

func (o *Orchestrator) copyPhoto(ctx, writeCtx context.Context, photo vk.Photo, result *Result, opts Options, names nameRegistry, log logger.Logger) {
	photoLog := log.WithField("photo_id", photo.ID)

	url := photo.OriginalURL()
	if url == "" {
		result.FailedDownloads++
		o.reporter.LogError("Photo %d has no downloadable rendition", photo.ID)
		photoLog.Error("Photo has no original URL")
		return
	}

	data, err := o.source.DownloadPhoto(ctx, url)
	if err != nil {
		result.FailedDownloads++
		o.reporter.LogError("Error downloading photo %d: %v", photo.ID, err)
		photoLog.WithError(err).Error("Failed to download photo")
		return
	}

	name := names.claim(photo)
	path := result.Folder + "/" + name
	photoLog = photoLog.WithField("file_name", name)

	if err := o.provider.UploadFile(writeCtx, data, path, opts.Overwrite); err != nil {
		result.FailedUploads++
		o.reporter.LogWarning("Could not save %s: %v", name, err)
		photoLog.WithError(err).Error("Failed to upload photo")
		return
	}

	result.Manifest.Add(name)
	result.Saved++
	o.reporter.LogSuccess("Saved %s (%d bytes)", name, len(data))
	photoLog.DebugWithFields("Photo saved", map[string]interface{}{"size": len(data)})
}

// writeReport stores the manifest locally and uploads a copy next to the
// photos. The remote copy always overwrites.
func (o *Orchestrator) writeReport(ctx context.Context, result *Result, log logger.Logger) {
	data, err := result.Manifest.Marshal()
	if err != nil {
		o.reporter.LogError("Could not encode report: %v", err)
		log.WithError(err).Error("Failed to encode report")
		return
	}

	result.ReportFile = report.FileName(o.clock.Now())
	log = log.WithField("report", result.ReportFile)

	o.reporter.LogInfo("Saving report (%s) locally...", result.ReportFile)
	path, err := o.reports.Save(result.ReportFile, data)
	if err != nil {
		o.reporter.LogError("Could not save report: %v", err)
		log.WithError(err).Error("Failed to save local report")
	} else {
		result.ReportPath = path
		o.reporter.LogSuccess("Report saved to %s", path)
	}

	o.reporter.LogInfo("Saving report (%s) to %s...", result.ReportFile, o.provider.Name())
	if err := o.provider.UploadFile(ctx, data, result.Folder+"/"+result.ReportFile, true); err != nil {
		o.reporter.LogError("Could not upload report: %v", err)
		log.WithError(err).Error("Failed to upload report")
		return
	}
	result.ReportUploaded = true
	o.reporter.LogSuccess("Report uploaded")
}
