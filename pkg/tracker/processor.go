package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/biketrail/biketrail/pkg/nextbike"
	"github.com/biketrail/biketrail/pkg/ridelog"
	"github.com/biketrail/biketrail/pkg/stations"
)

// StateResetGap is the longest tolerated silence between accepted
// snapshots. Past it the per-bike memory could turn several missed
// rides into one long fictitious one, so tracking restarts from
// scratch instead.
const StateResetGap = 10 * time.Minute

// Station names carrying this prefix are virtual placeholders for
// free-floating bikes, not real stations.
const virtualStationPrefix = "BIKE"

// Non-fatal snapshot rejections. Anything else returned by Process is
// an I/O failure the caller must treat as fatal.
var (
	ErrCountryShape        = errors.New("snapshot does not contain exactly one country")
	ErrTimestampRegression = errors.New("snapshot timestamp is older than the previous one")
)

// IsRejection reports whether err is a structural rejection of one
// snapshot rather than a persistence failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrCountryShape) || errors.Is(err, ErrTimestampRegression)
}

type stateRecord struct {
	stationID uint32
	timestamp uint64
}

// Processor derives ride events from a stream of fleet snapshots fed
// in non-decreasing timestamp order. It remembers each bike's last
// sighting in memory only; a restart starts tracking fresh, which
// forfeits rides spanning the restart by design.
type Processor struct {
	registry *stations.Registry
	writer   *ridelog.Writer
	cleaner  *stations.NameCleaner

	state         map[nextbike.BikeID]stateRecord
	lastTimestamp uint64
}

func NewProcessor(registry *stations.Registry, writer *ridelog.Writer, cleaner *stations.NameCleaner) *Processor {
	return &Processor{
		registry: registry,
		writer:   writer,
		cleaner:  cleaner,
		state:    map[nextbike.BikeID]stateRecord{},
	}
}

// Process consumes one snapshot and returns the number of ride events
// it emitted. Rejected snapshots mutate nothing. A gap larger than
// StateResetGap clears all bike state and emits nothing, but the new
// timestamp still becomes the baseline for the calls after it.
func (p *Processor) Process(timestamp uint64, snapshot *nextbike.Snapshot) (int, error) {
	if len(snapshot.Countries) != 1 {
		return 0, fmt.Errorf("%w: got %d at %d", ErrCountryShape, len(snapshot.Countries), timestamp)
	}

	previous := p.lastTimestamp
	if previous != 0 {
		if timestamp < previous {
			return 0, fmt.Errorf("%w: %d < %d", ErrTimestampRegression, timestamp, previous)
		}

		if gap := time.Duration(timestamp-previous) * time.Second; gap > StateResetGap {
			log.Warn().
				Str("gap", gap.String()).
				Uint64("timestamp", timestamp).
				Msg("Time gap found, resetting bike state")

			p.state = map[nextbike.BikeID]stateRecord{}
			p.lastTimestamp = timestamp
			return 0, nil
		}
	}
	p.lastTimestamp = timestamp

	rides := 0
	for _, city := range snapshot.Countries[0].Cities {
		for _, place := range city.Places {
			if strings.HasPrefix(place.Name, virtualStationPrefix) {
				continue
			}

			if err := p.registry.Add(place.UID, place.Name, place.Lat, place.Lng); err != nil {
				return rides, err
			}

			for _, bike := range place.Bikes {
				if prev, seen := p.state[bike.Number]; seen && prev.stationID != place.UID {
					if err := p.emitRide(bike.Number, prev, timestamp, &place); err != nil {
						return rides, err
					}

					rides++
				}

				p.state[bike.Number] = stateRecord{
					stationID: place.UID,
					timestamp: timestamp,
				}
			}
		}
	}

	return rides, nil
}

func (p *Processor) emitRide(bike nextbike.BikeID, prev stateRecord, timestamp uint64, place *nextbike.Place) error {
	event := ridelog.RideEvent{
		BikeID: uint32(bike),
		Src: ridelog.RideLocation{
			Timestamp: prev.timestamp,
			StationID: prev.stationID,
		},
		Dst: ridelog.RideLocation{
			Timestamp: timestamp,
			StationID: place.UID,
		},
	}

	if err := p.writer.Write(&event); err != nil {
		return err
	}

	srcName := fmt.Sprintf("station %d", prev.stationID)
	if station, exists := p.registry.Get(prev.stationID); exists {
		srcName = p.cleaner.Clean(station.Name)
	}

	log.Info().
		Uint32("bike", uint32(bike)).
		Str("from", srcName).
		Str("to", p.cleaner.Clean(place.Name)).
		Uint64("minutes", (timestamp-prev.timestamp)/60).
		Msg("Bike moved")

	return nil
}
