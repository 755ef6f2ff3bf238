package main

import (
	"fmt"

	"github.com/2beens/gympro/internal/workouts"

	"github.com/spf13/cobra"
)

func newExerciseCmd(a *app) *cobra.Command {
	exerciseCmd := &cobra.Command{Use: "exercise", Short: "Exercise library operations"}

	var group string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the exercise library, optionally by muscle group",
		Args:  cobra.NoArgs,
		RunE: a.withService(func(_ *cobra.Command, _ []string, service *workouts.Service) error {
			state := service.State()
			if group == "" {
				return a.printJSON(state.CustomExercises)
			}
			mg, err := workouts.ParseMuscleGroup(group)
			if err != nil {
				return err
			}
			return a.printJSON(state.ExercisesByGroup(mg))
		}),
	}
	listCmd.Flags().StringVarP(&group, "group", "g", "", "muscle group filter")

	var addGroup string
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an exercise to the library",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, args []string, service *workouts.Service) error {
			mg, err := workouts.ParseMuscleGroup(addGroup)
			if err != nil {
				return err
			}
			exercise, err := service.AddExercise(cmd.Context(), args[0], mg)
			if err != nil {
				return err
			}
			return a.printJSON(exercise)
		}),
	}
	addCmd.Flags().StringVarP(&addGroup, "group", "g", "", "muscle group (required)")
	_ = addCmd.MarkFlagRequired("group")

	deleteCmd := &cobra.Command{
		Use:   "delete EXERCISE_ID",
		Short: "Delete an exercise and drop it from every routine",
		Args:  cobra.ExactArgs(1),
		RunE: a.withService(func(cmd *cobra.Command, args []string, service *workouts.Service) error {
			found, err := service.DeleteExercise(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("exercise %s not found", args[0])
			}
			_, err = fmt.Fprintf(a.out, "deleted exercise %s\n", args[0])
			return err
		}),
	}

	moveCmd := &cobra.Command{
		Use:   "move EXERCISE_ID up|down",
		Short: "Swap an exercise with its neighbour in the library order",
		Args:  cobra.ExactArgs(2),
		RunE: a.withService(func(cmd *cobra.Command, args []string, service *workouts.Service) error {
			dir, err := workouts.ParseDirection(args[1])
			if err != nil {
				return err
			}
			exercises, err := service.ReorderExercise(cmd.Context(), args[0], dir)
			if err != nil {
				return err
			}
			return a.printJSON(exercises)
		}),
	}

	exerciseCmd.AddCommand(listCmd, addCmd, deleteCmd, moveCmd)
	return exerciseCmd
}
