// Package main runs the gympro MCP server over stdio (for local editor or
// assistant use). The same tools are mounted on the main service at /mcp.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/gympro/internal/config"
	"github.com/2beens/gympro/internal/workouts"
	workoutsmcp "github.com/2beens/gympro/internal/workouts/mcp"
	"github.com/2beens/gympro/internal/workouts/store"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	dotEnvPath := flag.String("dotenv", ".env", "optional dotenv file with the secrets")
	flag.Parse()

	// stdout belongs to the MCP transport
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secrets, err := config.LoadSecrets(*dotEnvPath)
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	openParams := store.ParamsFromConfig(cfg, secrets)
	openParams.TracingEnabled = false
	stateStore, closeStore, err := store.Open(ctx, openParams)
	if err != nil {
		log.Fatalf("open state store: %v", err)
	}
	defer closeStore()

	service, err := workouts.NewService(ctx, workouts.NewServiceParams{
		Store:                  stateStore,
		Tracker:                workouts.NewTracker(workouts.WithDateLayout(cfg.DateLayout)),
		WeightReminderInterval: cfg.WeightReminderInterval(),
	})
	if err != nil {
		log.Fatalf("new workouts service: %v", err)
	}

	server := workoutsmcp.NewServer(service, nil, "")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Error(err)
	}
}
