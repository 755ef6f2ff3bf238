package main

import (
	"fmt"

	"github.com/2beens/gympro/internal/workouts"

	"github.com/spf13/cobra"
)

func newRoutineCmd(a *app) *cobra.Command {
	routineCmd := &cobra.Command{Use: "routine", Short: "Routine operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List routines",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(_ *cobra.Command, _ []string, service *workouts.Service) error {
			return a.printJSON(service.State().Routines)
		}),
	}

	var (
		routineID   string
		exerciseIDs []string
	)
	saveCmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Create a routine, or replace the routine with --id",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, args []string, service *workouts.Service) error {
			routine, err := service.SaveRoutine(cmd.Context(), workouts.Routine{
				ID:          routineID,
				Name:        args[0],
				ExerciseIDs: exerciseIDs,
			})
			if err != nil {
				return err
			}
			return a.printJSON(routine)
		}),
	}
	saveCmd.Flags().StringVar(&routineID, "id", "", "routine id to replace")
	saveCmd.Flags().StringSliceVarP(&exerciseIDs, "exercises", "x", nil, "exercise ids, in order")

	deleteCmd := &cobra.Command{
		Use:   "delete ROUTINE_ID",
		Short: "Delete a routine, its sessions are kept",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, args []string, service *workouts.Service) error {
			found, err := service.DeleteRoutine(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("routine %s not found", args[0])
			}
			_, err = fmt.Fprintf(a.out, "deleted routine %s\n", args[0])
			return err
		}),
	}

	routineCmd.AddCommand(listCmd, saveCmd, deleteCmd)
	return routineCmd
}
