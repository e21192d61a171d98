package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var kpiPDFPath string

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Print the KPI snapshot for a date range",
	Example: `
  attendancectl kpi --start 2024-01-01 --end 2024-01-31
  attendancectl kpi --start 2024-01-01 --end 2024-01-31 --user 0190a000-0000-7000-8000-000000000011
  attendancectl kpi --start 2024-01-01 --end 2024-01-31 --pdf ./kpi-january.pdf
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := systemContext(cmd)

		if kpiPDFPath == "" {
			snapshot, err := svc.kpi.GetKPIs(ctx, rangeQuery())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snapshot)
		}

		err = writeExport(kpiPDFPath, func(w io.Writer) error {
			return svc.kpi.ExportKPIs(ctx, rangeQuery(), w)
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "KPI report written to %s\n", kpiPDFPath)
		return nil
	},
}

var weeklyXLSXPath string

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Export the weekly timesheet workbook for a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		err = writeExport(weeklyXLSXPath, func(w io.Writer) error {
			return svc.report.ExportWeeklyReport(systemContext(cmd), rangeQuery(), w)
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Weekly report written to %s\n", weeklyXLSXPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kpiCmd)
	rootCmd.AddCommand(weeklyCmd)

	kpiCmd.Flags().StringVar(&kpiPDFPath, "pdf", "", "Write the snapshot as a PDF to this path instead of printing JSON")
	weeklyCmd.Flags().StringVarP(&weeklyXLSXPath, "output", "o", "weekly-report.xlsx", "Path of the XLSX file to write")
}

// writeExport renders into path and removes the file again if rendering or
// closing fails, so a failed export leaves nothing behind.
func writeExport(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	err = render(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Warn("failed to remove partial export", "path", path, "error", rmErr)
		}
		return err
	}
	return nil
}
