package tracker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/biketrail/biketrail/pkg/nextbike"
)

const replayProgressEvery = 500

type snapshotFile struct {
	path      string
	timestamp uint64
}

// listSnapshots returns the stored raw snapshots in timestamp order.
// File stems are the capture timestamps; anything else in the
// directory is skipped with a log line.
func listSnapshots(dir string) ([]snapshotFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot directory %s: %w", dir, err)
	}

	var files []snapshotFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		timestamp, err := strconv.ParseUint(stem, 10, 64)
		if err != nil {
			log.Error().Str("file", entry.Name()).Msg("Could not parse timestamp from file name")
			continue
		}

		files = append(files, snapshotFile{
			path:      filepath.Join(dir, entry.Name()),
			timestamp: timestamp,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].timestamp < files[j].timestamp
	})

	return files, nil
}

// Replay rebuilds the ride log from a directory of stored raw
// snapshots and returns the total number of rides derived. The
// processor's writer must have been opened in rebuild mode; running a
// replay against a live appending writer would interleave two
// incompatible views of the file.
func Replay(dir string, processor *Processor) (int, error) {
	files, err := listSnapshots(dir)
	if err != nil {
		return 0, err
	}

	log.Info().Int("files", len(files)).Str("dir", dir).Msg("Replaying stored snapshots")

	totalRides := 0
	for i, file := range files {
		data, err := os.ReadFile(file.path)
		if err != nil {
			log.Error().Err(err).Str("path", file.path).Msg("Failed to read snapshot")
			continue
		}

		snapshot, err := nextbike.Decode(data)
		if err != nil {
			log.Error().Err(err).Str("path", file.path).Msg("Failed to parse snapshot")
			continue
		}

		rides, err := processor.Process(file.timestamp, snapshot)
		if err != nil {
			if IsRejection(err) {
				log.Error().Err(err).Str("path", file.path).Msg("Snapshot rejected")
				continue
			}

			return totalRides, err
		}

		totalRides += rides

		if (i+1)%replayProgressEvery == 0 {
			log.Info().
				Int("processed", i+1).
				Int("total", len(files)).
				Int("rides", totalRides).
				Msg("Replay progress")
		}
	}

	log.Info().Int("files", len(files)).Int("rides", totalRides).Msg("Replay finished")

	return totalRides, nil
}
