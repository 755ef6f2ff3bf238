package main

import (
	"fmt"
	"strconv"

	"github.com/2beens/gympro/internal/workouts"

	"github.com/spf13/cobra"
)

func newWeightCmd(a *app) *cobra.Command {
	weightCmd := &cobra.Command{Use: "weight", Short: "Body weight log"}

	addCmd := &cobra.Command{
		Use:     "add KG",
		Short:   "Record today's body weight",
		Example: "  gymctl weight add 81.5\n  gymctl weight add -- -3   (values starting with '-' go after --)",
		Args:    cobra.ExactArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, args []string, service *workouts.Service) error {
			weight, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: %q", workouts.ErrInvalidWeight, args[0])
			}
			weightLog, err := service.AddWeightLog(cmd.Context(), weight)
			if err != nil {
				return err
			}
			return a.printJSON(weightLog)
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the weigh-ins",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(_ *cobra.Command, _ []string, service *workouts.Service) error {
			if service.ShowWeightReminder() {
				if _, err := fmt.Fprintln(a.out, "# time for a new weigh-in"); err != nil {
					return err
				}
			}
			return a.printJSON(service.WeightSeries())
		}),
	}

	weightCmd.AddCommand(addCmd, listCmd)
	return weightCmd
}
