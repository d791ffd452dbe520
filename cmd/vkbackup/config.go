package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vkbackup/pkg/auth"
	"vkbackup/pkg/config"
	"vkbackup/pkg/ui"
)

const defaultConfigPath = ".vkbackup.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage vkbackup configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (VKBACKUP_*)
  - .env and ~/.vkbackup.env files
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with the defaults",
	Long: `Create a configuration file holding every option at its default value.

The file is created as '.vkbackup.yaml' in the current directory unless a
different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			path = defaultConfigPath
		}
		return runConfigInit(cmd.OutOrStdout(), path)
	},
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after merging every source. Tokens are masked.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd.OutOrStdout())
	},
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigValidate(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(out io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	fmt.Fprintln(out, ui.Green("Configuration file created: "+path))
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "1. Store your tokens with 'vkbackup auth login' (or set vk.token and disk.token)")
	fmt.Fprintln(out, "2. Run 'vkbackup config validate' to check the configuration")
	fmt.Fprintln(out, "3. Start a backup with 'vkbackup backup <owner_id>'")
	return nil
}

func runConfigShow(out io.Writer) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	display := *cfg
	masked := auth.Sanitize(&auth.Credentials{VKToken: cfg.VK.Token, DiskToken: cfg.Disk.Token})
	display.VK.Token = masked.VKToken
	display.Disk.Token = masked.DiskToken

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprintln(out, ui.Cyan("Current configuration"))
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigValidate(out io.Writer) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	var warnings []string
	if cfg.VK.Token == "" {
		warnings = append(warnings, "vk.token not set; a stored account or token directory is needed")
	}
	if cfg.Disk.Token == "" {
		warnings = append(warnings, "disk.token not set; a stored account or token directory is needed")
	}
	if cfg.Backup.TokenDirectory != "" {
		if info, err := os.Stat(cfg.Backup.TokenDirectory); err != nil || !info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("token directory %s is not readable", cfg.Backup.TokenDirectory))
		}
	}
	if info, err := os.Stat(cfg.Backup.ReportDirectory); err == nil && !info.IsDir() {
		return errors.New("report directory is a file: " + cfg.Backup.ReportDirectory)
	}

	for _, w := range warnings {
		fmt.Fprintln(out, ui.Yellow("warning: "+w))
	}
	fmt.Fprintln(out, ui.Green("Configuration is valid"))

	fmt.Fprintln(out, "\nConfiguration summary:")
	fmt.Fprintf(out, "  Disk type: %s\n", cfg.Disk.Type)
	fmt.Fprintf(out, "  Folder label: %s\n", cfg.Backup.FolderLabel)
	fmt.Fprintf(out, "  Report directory: %s\n", cfg.Backup.ReportDirectory)
	fmt.Fprintf(out, "  Album: %s\n", cfg.Backup.AlbumID)
	fmt.Fprintf(out, "  HTTP timeout: %s\n", cfg.HTTP.Timeout)
	fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
