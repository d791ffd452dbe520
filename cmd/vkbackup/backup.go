package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"vkbackup/pkg/backup"
	"vkbackup/pkg/logger"
	"vkbackup/pkg/storage"
	"vkbackup/pkg/ui"
	"vkbackup/pkg/vk"
)

// DefaultPhotoCount is how many photos a run asks for when --count is not given
const DefaultPhotoCount = 5

var errInterrupted = errors.New("backup interrupted")

// backupOptions holds the flags of the backup command
type backupOptions struct {
	credentialFlags

	album     string
	folder    string
	count     int
	offset    int
	rev       bool
	overwrite bool
	params    []string
	reportDir string
	notify    bool
}

func (o *backupOptions) toMap() map[string]interface{} {
	flags := o.credentialFlags.toMap()
	flags["report-dir"] = o.reportDir
	flags["overwrite"] = o.overwrite
	return flags
}

var backupOpts backupOptions

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup <owner_id>",
	Short: "Copy photos of a VK profile to Yandex.Disk",
	Long: `Copy the photos of a VK user (or community, with a negative id) to a
folder on Yandex.Disk.

Each photo is saved as <likes>.jpg, or <likes>-<date>.jpg when that name is
already taken in this run. A report listing the saved files is written to the
report directory and uploaded next to the photos.

Tokens are taken, in order, from --account, flags, environment variables,
the configuration file, the token directory and stored credentials.`,
	Example: `  # Back up the last 5 profile photos of user 1
  vkbackup backup 1

  # Wall photos, newest first, 20 of them, into a fixed folder
  vkbackup backup 1 --album wall --rev --count 20 --folder "VK wall"

  # Pass any other photos.get parameter
  vkbackup backup 1 --param photo_sizes=1

  # Tokens from files like tokens/.vk and tokens/.yd
  vkbackup backup 1 --token-dir tokens`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runBackup(ctx, consoleOutput(cmd), strings.TrimSpace(args[0]), backupOpts)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupOpts.credentialFlags.register(backupCmd)
	backupCmd.Flags().StringVar(&backupOpts.album, "album", "", "album id: profile, wall, saved or a numeric id (default from config, profile)")
	backupCmd.Flags().StringVarP(&backupOpts.folder, "folder", "f", "", `destination folder (default "<label> (YYYY-MM-DD)")`)
	backupCmd.Flags().IntVarP(&backupOpts.count, "count", "n", DefaultPhotoCount, "number of photos to fetch")
	backupCmd.Flags().IntVar(&backupOpts.offset, "offset", 0, "skip this many photos")
	backupCmd.Flags().BoolVar(&backupOpts.rev, "rev", false, "newest photos first")
	backupCmd.Flags().BoolVar(&backupOpts.overwrite, "overwrite", false, "replace photos that already exist on the disk")
	backupCmd.Flags().StringArrayVarP(&backupOpts.params, "param", "p", nil, "extra photos.get parameter as key=value (repeatable)")
	backupCmd.Flags().StringVarP(&backupOpts.reportDir, "report-dir", "o", "", "local report directory (default from config, output)")
	backupCmd.Flags().BoolVar(&backupOpts.notify, "notify", false, "show a desktop notification when the run ends")
}

// parseParams turns key=value pairs into a map
func parseParams(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

func runBackup(ctx context.Context, out io.Writer, ownerID string, opts backupOptions) error {
	if ownerID == "" {
		return errors.New("owner id is required")
	}
	if opts.count < 0 || opts.offset < 0 {
		return errors.New("--count and --offset must not be negative")
	}

	extra, err := parseParams(opts.params)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.toMap())
	if err != nil {
		return err
	}
	log := logger.GetLogger()

	if err := resolveCredentials(cfg, opts.account); err != nil {
		return err
	}
	if cfg.VK.Token == "" {
		return errMissingVKToken
	}
	if cfg.Disk.Token == "" {
		return errMissingDiskToken
	}

	provider, err := newProvider(cfg, log)
	if err != nil {
		return err
	}

	album := opts.album
	if album == "" {
		album = cfg.Backup.AlbumID
	}
	filter := vk.PhotosFilter{
		OwnerID: ownerID,
		AlbumID: album,
		Count:   opts.count,
		Offset:  opts.offset,
		Rev:     opts.rev,
		Extra:   extra,
	}

	console := ui.NewConsole(out, noColor)
	ui.FprintInfo(out, "Owner", ownerID)
	ui.FprintInfo(out, "Album", album)

	orch := backup.New(newVKClient(cfg, log), provider, storage.NewLocalDir(cfg.Backup.ReportDirectory),
		backup.WithReporter(console),
		backup.WithLogger(log),
		backup.WithFolderLabel(cfg.Backup.FolderLabel),
	)

	notifier := ui.NewNotifier()
	result, err := orch.Backup(ctx, filter, backup.Options{
		Folder:    opts.folder,
		Overwrite: cfg.Backup.Overwrite,
	})
	if err != nil {
		if opts.notify {
			notifier.Notify("vkbackup failed", err.Error())
		}
		return err
	}

	console.Summary(result.Found, result.Saved, result.FailedDownloads, result.FailedUploads)
	if result.ReportPath != "" {
		ui.FprintInfo(out, "Report", result.ReportPath)
	}
	ui.FprintInfo(out, "Folder", result.Folder)

	if opts.notify {
		notifier.Notify("vkbackup finished",
			fmt.Sprintf("%d of %d photos saved to %s", result.Saved, result.Found, result.Folder))
	}

	if result.Cancelled {
		return errInterrupted
	}
	return nil
}
