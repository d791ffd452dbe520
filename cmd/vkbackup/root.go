package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"vkbackup/pkg/logger"
	"vkbackup/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vkbackup",
	Short: "Back up VK profile photos to Yandex.Disk",
	Long: `vkbackup copies the photos of a VK profile album to a dated folder on
Yandex.Disk and writes a JSON report of what was saved.

Features:
  - Photos named after their like count, with the upload date on collision
  - Report kept locally and next to the photos
  - Tokens from flags, environment, token directory, system keychain or
    an encrypted credentials file`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Version = version

		// Logs stay quiet unless asked for; the console carries progress
		if !verbose && logLevel == "" {
			logLevel = "error"
		}

		if !quiet && cmd.Name() != "version" && cmd.Name() != "help" {
			if noColor {
				fmt.Fprint(cmd.OutOrStdout(), ui.Banner)
			} else {
				fmt.Fprint(cmd.OutOrStdout(), ui.Cyan(ui.Banner))
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.PrintError("Error", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .vkbackup.yaml or ~/.config/vkbackup/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show log output alongside progress")

	rootCmd.SetVersionTemplate(`vkbackup {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// consoleOutput returns where operator messages go
func consoleOutput(cmd *cobra.Command) io.Writer {
	if quiet {
		return io.Discard
	}
	return cmd.OutOrStdout()
}
