package main

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vkbackup/pkg/report"
	"vkbackup/pkg/storage"
)

var reportsDir string

// reportsCmd groups commands about local run reports
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect local backup reports",
}

// reportsListCmd represents the reports list command
var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports in the report directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportsList(cmd.OutOrStdout(), reportsDir)
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd)
	reportsListCmd.Flags().StringVarP(&reportsDir, "report-dir", "o", "", "local report directory (default from config, output)")
}

func runReportsList(out io.Writer, dir string) error {
	cfg, err := loadConfig(map[string]interface{}{"report-dir": dir})
	if err != nil {
		return err
	}

	local := storage.NewLocalDir(cfg.Backup.ReportDirectory)
	names, err := local.List(report.FilePattern)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(out, "No reports in %s\n", local.Dir())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPORT\tCREATED\tPHOTOS")
	for _, name := range names {
		created := "-"
		if t, ok := report.ParseFileName(name); ok {
			created = t.Local().Format("2006-01-02 15:04:05")
		}

		photos := "unreadable"
		if manifest, err := report.Load(filepath.Join(local.Dir(), name)); err == nil {
			photos = fmt.Sprint(len(manifest))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, created, photos)
	}
	return w.Flush()
}
