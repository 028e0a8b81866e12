package tracker

import (
	"github.com/urfave/cli/v2"

	"github.com/biketrail/biketrail/pkg/nextbike"
	"github.com/biketrail/biketrail/pkg/ridelog"
	"github.com/biketrail/biketrail/pkg/stations"
	"github.com/biketrail/biketrail/pkg/util"
)

func pathFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "rides-path",
			Value: "rides.bin",
			Usage: "path to the binary ride log",
		},
		&cli.StringFlag{
			Name:  "stations-path",
			Value: "stations.json",
			Usage: "path to the station registry document",
		},
		&cli.StringFlag{
			Name:  "snapshot-dir",
			Value: "./data",
			Usage: "directory holding raw snapshot payloads",
		},
	}
}

func buildProcessor(c *cli.Context, rebuild bool) (*Processor, error) {
	registry, err := stations.NewRegistry(c.String("stations-path"))
	if err != nil {
		return nil, err
	}

	open := ridelog.NewWriter
	if rebuild {
		open = ridelog.NewRebuildWriter
	}

	writer, err := open(c.String("rides-path"))
	if err != nil {
		return nil, err
	}

	return NewProcessor(registry, writer, stations.NewNameCleaner()), nil
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "tracker",
		Usage: "Derive ride events from fleet snapshots",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "poll the live API and append rides as they are observed",
				Flags: append(pathFlags(), &cli.StringFlag{
					Name:  "interval",
					Value: "60s",
					Usage: "poll interval (s|m|h|d suffix, bare number is seconds)",
				}),
				Action: func(c *cli.Context) error {
					interval, err := util.ParseDuration(c.String("interval"))
					if err != nil {
						return err
					}

					processor, err := buildProcessor(c, false)
					if err != nil {
						return err
					}

					poller := &Poller{
						Processor:   processor,
						Client:      nextbike.NewClient(),
						Interval:    interval,
						SnapshotDir: c.String("snapshot-dir"),
					}
					poller.Run()

					return nil
				},
			},
			{
				Name:  "rebuild",
				Usage: "rebuild the ride log from stored raw snapshots",
				Flags: pathFlags(),
				Action: func(c *cli.Context) error {
					processor, err := buildProcessor(c, true)
					if err != nil {
						return err
					}

					_, err = Replay(c.String("snapshot-dir"), processor)
					return err
				},
			},
		},
	}
}
