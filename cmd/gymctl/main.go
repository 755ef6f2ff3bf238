// Package main is a small CLI running workout intents against the
// configured state store, without the HTTP service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/2beens/gympro/internal/config"
	"github.com/2beens/gympro/internal/workouts"
	"github.com/2beens/gympro/internal/workouts/store"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type serviceOpener func(ctx context.Context) (*workouts.Service, func(), error)

type app struct {
	env        string
	configPath string
	dotEnvPath string
	backend    string

	out  io.Writer
	open serviceOpener
}

func main() {
	log.SetLevel(log.WarnLevel)

	a := &app{out: os.Stdout}
	a.open = a.openConfiguredService

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gymctl",
		Short:         "CLI for the gympro workout state",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&a.env, "env", "e", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "./config.toml", "path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.dotEnvPath, "dotenv", ".env", "optional dotenv file with the secrets")
	rootCmd.PersistentFlags().StringVar(&a.backend, "backend", "", "override the configured store backend [file | redis | postgres | memory]")

	rootCmd.AddCommand(
		newRoutineCmd(a),
		newExerciseCmd(a),
		newSetCmd(a),
		newWeightCmd(a),
		newHistoryCmd(a),
		newVolumeCmd(a),
		newExportCmd(a),
	)
	return rootCmd
}

func (a *app) openConfiguredService(ctx context.Context) (*workouts.Service, func(), error) {
	cfg, err := config.Load(a.env, a.configPath)
	if err != nil {
		return nil, nil, err
	}
	secrets, err := config.LoadSecrets(a.dotEnvPath)
	if err != nil {
		return nil, nil, err
	}

	openParams := store.ParamsFromConfig(cfg, secrets)
	openParams.TracingEnabled = false
	if a.backend != "" {
		openParams.Backend = a.backend
	}
	stateStore, closeStore, err := store.Open(ctx, openParams)
	if err != nil {
		return nil, nil, fmt.Errorf("open state store: %w", err)
	}

	service, err := workouts.NewService(ctx, workouts.NewServiceParams{
		Store:                  stateStore,
		Tracker:                workouts.NewTracker(workouts.WithDateLayout(cfg.DateLayout)),
		WeightReminderInterval: cfg.WeightReminderInterval(),
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return service, closeStore, nil
}

// withService opens the service for a single command run.
func (a *app) withService(run func(cmd *cobra.Command, args []string, service *workouts.Service) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		service, closeFn, err := a.open(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		return run(cmd, args, service)
	}
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}
