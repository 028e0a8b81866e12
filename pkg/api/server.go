package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biketrail/biketrail/pkg/api/routes"
)

// NewServer builds the query gateway. It only ever reads: each rides
// request opens its own memory map over the log, so it can run next to
// an ingesting tracker with no coordination beyond sharing the files.
func NewServer(ridesPath string, stationsPath string) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	webApp.Get("/version", routes.APIVersion)
	webApp.Get("/rides.json", routes.NewRidesHandler(ridesPath))
	webApp.Get("/stations.json", routes.NewStationsHandler(stationsPath))

	return webApp
}

func SetupServer(listen string, ridesPath string, stationsPath string) error {
	return NewServer(ridesPath, stationsPath).Listen(listen)
}
