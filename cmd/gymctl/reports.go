package main

import (
	"fmt"
	"os"

	"github.com/2beens/gympro/internal/workouts"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history EXERCISE_ID",
		Short: "Show the logged sets of an exercise, per session",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(_ *cobra.Command, args []string, service *workouts.Service) error {
			return a.printJSON(service.ExerciseHistory(args[0]))
		}),
	}
}

func newVolumeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "volume EXERCISE_ID",
		Short: "Show the training volume of an exercise per day",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(_ *cobra.Command, args []string, service *workouts.Service) error {
			return a.printJSON(service.VolumeSeries(args[0]))
		}),
	}
}

func newExportCmd(a *app) *cobra.Command {
	var outPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions and weigh-ins as CSV",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(cmd *cobra.Command, _ []string, service *workouts.Service) (err error) {
			if outPath == "" {
				return service.ExportCSV(cmd.Context(), a.out)
			}
			if outPath == "." {
				outPath = service.ExportFileName()
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer func() {
				if cErr := f.Close(); cErr != nil && err == nil {
					err = cErr
				}
			}()
			if err := service.ExportCSV(cmd.Context(), f); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "exported to %s\n", outPath)
			return err
		}),
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, '.' for the dated default name (stdout when empty)")
	return exportCmd
}
