package monitor

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/roadwatch/roadwatch/pkg/alerts"
	"github.com/roadwatch/roadwatch/pkg/geocoding"
	"github.com/roadwatch/roadwatch/pkg/notify"
	"github.com/roadwatch/roadwatch/pkg/redis_client"
	"github.com/roadwatch/roadwatch/pkg/traffic"
	"github.com/roadwatch/roadwatch/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Provides the periodic traffic monitor",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "watch the configured regions and queue alerts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Usage:    "path to the regions config file",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					config, err := LoadConfig(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					env := util.GetEnvironmentVariables()
					apiKey := env["ROADWATCH_GOOGLE_MAPS_API_KEY"]
					if apiKey == "" {
						log.Fatal().Msg("ROADWATCH_GOOGLE_MAPS_API_KEY must be set")
					}

					geocoder := geocoding.NewCachedGeocoder(geocoding.NewClient(apiKey))
					scanner := traffic.NewScanner(traffic.NewDirectionsClient(apiKey), geocoder)

					queue, err := redis_client.QueueConnection.OpenQueue(notify.QueueName)
					if err != nil {
						return err
					}

					interval := time.Duration(config.IntervalMinutes) * time.Minute

					var monitors []*Monitor
					for _, region := range config.Regions {
						region := region
						regionMonitor := NewMonitor(scanner, interval)

						publish := func(batch []alerts.Alert) {
							for _, alert := range batch {
								publishDispatchJob(queue, region, alert)
							}
						}
						regionMonitor.Start(region.Center(), region.RadiusMiles, publish, publish)

						monitors = append(monitors, regionMonitor)

						log.Info().Str("region", region.Name).Msg("Watching region")
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT)
					defer signal.Stop(signals)

					<-signals // wait for signal

					for _, regionMonitor := range monitors {
						regionMonitor.Stop()
					}

					return nil
				},
			},
		},
	}
}

func publishDispatchJob(queue rmq.Queue, region Region, alert alerts.Alert) {
	job := notify.DispatchJob{
		PushToken: region.PushToken,
		UserID:    region.UserID,
		Alert:     alert,
	}

	jobBytes, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal dispatch job")
		return
	}

	if err := queue.PublishBytes(jobBytes); err != nil {
		log.Error().Err(err).Str("region", region.Name).Msg("Failed to queue dispatch job")
	}
}
