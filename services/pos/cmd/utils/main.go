package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aquamarinepk/aqm"
	"github.com/joho/godotenv"

	"github.com/appetiteclub/cafepos/services/pos/internal/commands"
	"github.com/appetiteclub/cafepos/services/pos/internal/pos"
)

const (
	appName    = "pos-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	// Same namespace as the station so both read one .env.
	config, err := aqm.LoadConfig("POS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := aqm.NewLogger(logLevel)

	opts, err := pos.OptionsFromConfig(config)
	if err != nil {
		log.Fatalf("Cannot load options: %v", err)
	}

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "outbox":
		if err := commands.ListOutbox(ctx, opts, logger, os.Stdout); err != nil {
			log.Fatalf("Listing outbox failed: %v", err)
		}

	case "clear-outbox":
		if err := commands.ClearOutbox(ctx, opts, logger); err != nil {
			log.Fatalf("Clearing outbox failed: %v", err)
		}

	case "reset-station":
		if err := commands.ResetStation(ctx, opts, logger); err != nil {
			log.Fatalf("Station reset failed: %v", err)
		}
		logger.Info("Station reset completed", "station", opts.StationID)

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - station maintenance commands

Usage:
  %s <command> [options]

Commands:
  outbox         List table occupancy updates still waiting to be applied
  clear-outbox   Drop every pending occupancy update
  reset-station  Sign the station out and clear waiter notifications
  version        Print version information
  help           Show this help message

Environment Variables:
  POS_DB_MONGO_URL   MongoDB URL of the occupancy outbox
  POS_REDIS_ADDR     Redis address of the station state
  POS_STATION_ID     Station whose state is reset (default: cashier)
  POS_LOG_LEVEL      Log level: debug, info, warn, error (default: info)

Examples:
  %s outbox
  POS_STATION_ID=waiter %s reset-station

`, appName, appName, appName, appName)
}
