package main

import (
	"fmt"
	"strconv"

	"github.com/2beens/gympro/internal/workouts"

	"github.com/spf13/cobra"
)

func newSetCmd(a *app) *cobra.Command {
	setCmd := &cobra.Command{Use: "set", Short: "Log sets in today's session of a routine"}

	addCmd := &cobra.Command{
		Use:   "add ROUTINE EXERCISE_ID",
		Short: "Add an empty set to the exercise",
		Args:  cobra.ExactArgs(2),
		RunE: a.withService(func(cmd *cobra.Command, args []string, service *workouts.Service) error {
			session, err := service.AddSet(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.printJSON(session)
		}),
	}

	updateCmd := &cobra.Command{
		Use:     "update ROUTINE EXERCISE_ID INDEX reps|weight|note VALUE",
		Short:   "Update one field of a set",
		Example: "  gymctl set update Push 1 0 weight 80\n  gymctl set update -- Push 1 0 note \"-2 reps in reserve\"",
		Args:    cobra.ExactArgs(5),
		RunE: a.withService(func(cmd *cobra.Command, args []string, service *workouts.Service) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid set index %q", args[2])
			}
			update, err := workouts.ParseSetUpdate(args[3], args[4])
			if err != nil {
				return err
			}
			session, ok, err := service.UpdateSet(cmd.Context(), args[0], args[1], index, update)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("set %d of exercise %s not found today", index, args[1])
			}
			return a.printJSON(session)
		}),
	}

	removeCmd := &cobra.Command{
		Use:   "remove ROUTINE EXERCISE_ID INDEX",
		Short: "Remove a set",
		Args:  cobra.ExactArgs(3),
		RunE: a.withService(func(cmd *cobra.Command, args []string, service *workouts.Service) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid set index %q", args[2])
			}
			session, ok, err := service.RemoveSet(cmd.Context(), args[0], args[1], index)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("set %d of exercise %s not found today", index, args[1])
			}
			return a.printJSON(session)
		}),
	}

	setCmd.AddCommand(addCmd, updateCmd, removeCmd)
	return setCmd
}
