package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vkbackup/pkg/logger"
	"vkbackup/pkg/ui"
)

var diskOpts credentialFlags

// diskCmd groups commands about the destination disk
var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Inspect the destination disk",
}

// diskInfoCmd represents the disk info command
var diskInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show disk owner and space usage",
	Long: `Show the owner, total, used, free and trash space of the configured
disk. Useful to check a token and the free space before a backup.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiskInfo(cmd.Context(), consoleOutput(cmd), diskOpts)
	},
}

func init() {
	rootCmd.AddCommand(diskCmd)
	diskCmd.AddCommand(diskInfoCmd)
	diskOpts.register(diskInfoCmd)
}

func runDiskInfo(ctx context.Context, out io.Writer, opts credentialFlags) error {
	cfg, err := loadConfig(opts.toMap())
	if err != nil {
		return err
	}

	if err := resolveCredentials(cfg, opts.account); err != nil {
		return err
	}
	if cfg.Disk.Token == "" {
		return errMissingDiskToken
	}

	provider, err := newProvider(cfg, logger.GetLogger())
	if err != nil {
		return err
	}

	usage, err := provider.Usage(ctx)
	if err != nil {
		return fmt.Errorf("failed to read disk info: %w", err)
	}

	ui.FprintInfo(out, "Provider", provider.Name())
	if usage.Owner != "" {
		ui.FprintInfo(out, "Owner", usage.Owner)
	}
	ui.FprintInfo(out, "Total", ui.FormatBytes(usage.TotalSpace))
	ui.FprintInfo(out, "Used", ui.FormatBytes(usage.UsedSpace))
	ui.FprintInfo(out, "Free", ui.FormatBytes(usage.FreeSpace()))
	ui.FprintInfo(out, "Trash", ui.FormatBytes(usage.TrashSize))
	return nil
}
