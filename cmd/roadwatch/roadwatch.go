package main

import (
	"os"
	"time"

	"github.com/roadwatch/roadwatch/pkg/api"
	"github.com/roadwatch/roadwatch/pkg/monitor"
	"github.com/roadwatch/roadwatch/pkg/notify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("ROADWATCH_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("ROADWATCH_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "roadwatch",
		Description: "Single binary of truth for roadwatch - runs all the services",

		Commands: []*cli.Command{
			monitor.RegisterCLI(),
			notify.RegisterCLI(),
			api.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
