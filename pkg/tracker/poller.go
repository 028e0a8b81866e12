package tracker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/biketrail/biketrail/pkg/nextbike"
)

// Poller drives online ingestion: one fetch/decode/process pass per
// interval, strictly sequential. A slow cycle just delays the next
// one, nothing overlaps.
type Poller struct {
	Processor   *Processor
	Client      *nextbike.Client
	Interval    time.Duration
	SnapshotDir string
}

func (p *Poller) Run() {
	log.Info().
		Str("interval", p.Interval.String()).
		Str("endpoint", p.Client.Endpoint).
		Msg("Starting snapshot poller")

	for {
		startTime := time.Now()

		p.poll()

		waitTime := p.Interval - time.Since(startTime)
		if waitTime > 0 {
			time.Sleep(waitTime)
		}
	}
}

func (p *Poller) poll() {
	timestamp := uint64(time.Now().Unix())

	log.Debug().Uint64("timestamp", timestamp).Msg("Downloading new snapshot")

	body, err := p.Client.Fetch()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch snapshot")
		return
	}

	// Keep the raw payload around so the log can be rebuilt offline
	rawPath := filepath.Join(p.SnapshotDir, fmt.Sprintf("%d.json", timestamp))
	if err := os.WriteFile(rawPath, body, 0644); err != nil {
		log.Error().Err(err).Str("path", rawPath).Msg("Failed to store raw snapshot")
	}

	snapshot, err := nextbike.Decode(body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse snapshot")
		return
	}

	rides, err := p.Processor.Process(timestamp, snapshot)
	if err != nil {
		if IsRejection(err) {
			log.Error().Err(err).Msg("Snapshot rejected")
			return
		}

		log.Fatal().Err(err).Msg("Failed to record rides")
	}

	log.Debug().Int("rides", rides).Msg("Snapshot processed")
}
