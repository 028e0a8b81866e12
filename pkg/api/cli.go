package api

import (
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the ride query web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
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
				},
				Action: func(c *cli.Context) error {
					return SetupServer(c.String("listen"), c.String("rides-path"), c.String("stations-path"))
				},
			},
		},
	}
}
