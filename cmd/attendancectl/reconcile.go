package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileDryRun bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Create pending absences for past workdays without any attendance record",
	Long: `Create pending absences (type "other") for every past workday in the range on
which a user has neither a clock event nor an absence record.

Running it twice over the same range creates nothing the second time.`,
	Example: `
  # Reconcile last week for everyone
  attendancectl reconcile --start 2024-01-08 --end 2024-01-14

  # Preview without writing
  attendancectl reconcile --start 2024-01-08 --end 2024-01-14 --dry-run
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := systemContext(cmd)

		if reconcileDryRun {
			potential, err := svc.absence.PotentialAbsences(ctx, rangeQuery())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), potential)
		}

		result, err := svc.absence.AutoMark(ctx, rangeQuery())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"Reconcile completed. Range: %s to %s, Absences created: %d, Already recorded: %d\n",
			result.StartDate,
			result.EndDate,
			result.Created,
			result.Skipped,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "List potential absences without creating records")
}
