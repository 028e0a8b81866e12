package routes

import (
	"errors"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/biketrail/biketrail/pkg/ridelog"
)

type RidesResponse struct {
	Rides       []ridelog.RideEvent `json:"rides"`
	LastEventID int                 `json:"last_event_id"`
}

// NewRidesHandler serves time-range and cursor queries over the ride
// log. Incremental clients pass back the last_event_id from their
// previous response to get only what was appended since.
func NewRidesHandler(logPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := ridelog.NewFilter()

		if value := c.Query("from"); value != "" {
			from, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				c.SendStatus(fiber.StatusBadRequest)
				return c.JSON(fiber.Map{
					"error": "Parameter from should be a unix timestamp",
				})
			}

			filter.From = from
		}

		if value := c.Query("last_event_id"); value != "" {
			lastEventID, err := strconv.Atoi(value)
			if err != nil || lastEventID < 0 {
				c.SendStatus(fiber.StatusBadRequest)
				return c.JSON(fiber.Map{
					"error": "Parameter last_event_id should be a non-negative integer",
				})
			}

			filter.LastEventID = lastEventID
		}

		if value := c.Query("limit"); value != "" {
			limit, err := strconv.Atoi(value)
			if err != nil || limit <= 0 {
				c.SendStatus(fiber.StatusBadRequest)
				return c.JSON(fiber.Map{
					"error": "Parameter limit should be a positive integer",
				})
			}

			filter.Limit = limit
		}

		response := RidesResponse{Rides: []ridelog.RideEvent{}}

		reader, err := ridelog.NewReader(logPath, filter)
		if errors.Is(err, os.ErrNotExist) {
			// No rides recorded yet
			return c.JSON(response)
		} else if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Could not open the ride log",
			})
		}
		defer reader.Close()

		for {
			eventID, event, ok := reader.Next()
			if !ok {
				break
			}

			response.Rides = append(response.Rides, event)
			response.LastEventID = eventID
		}

		return c.JSON(response)
	}
}
