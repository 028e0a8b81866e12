package stations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Station struct {
	Name string  `json:"name"`
	Lat  float32 `json:"lat"`
	Lng  float32 `json:"lng"`
}

// Registry is the append-only station identity store. Entries are
// first-write-wins: once a station id is registered its name and
// coordinates never change, even if the upstream feed renames it.
// Every newly discovered station synchronously rewrites the whole
// document, which stays cheap because fleets have at most a few
// hundred stations and discoveries are rare after the first day.
type Registry struct {
	stations map[uint32]Station
	path     string
}

func NewRegistry(path string) (*Registry, error) {
	registry := &Registry{
		stations: map[uint32]Station{},
		path:     path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return registry, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read station registry %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &registry.stations); err != nil {
		return nil, fmt.Errorf("failed to decode station registry %s: %w", path, err)
	}

	return registry, nil
}

// Add registers a station if its id has not been seen before. Already
// known ids are a no-op regardless of the observed values.
func (r *Registry) Add(id uint32, name string, lat float32, lng float32) error {
	if _, exists := r.stations[id]; exists {
		return nil
	}

	r.stations[id] = Station{
		Name: name,
		Lat:  lat,
		Lng:  lng,
	}

	return r.persist()
}

func (r *Registry) persist() error {
	data, err := json.MarshalIndent(r.stations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode station registry: %w", err)
	}

	// Write through a temp file so a crash mid-write never leaves a
	// torn registry behind
	tempPath := filepath.Join(filepath.Dir(r.path), "."+filepath.Base(r.path)+".tmp")
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write station registry %s: %w", tempPath, err)
	}

	if err := os.Rename(tempPath, r.path); err != nil {
		return fmt.Errorf("failed to replace station registry %s: %w", r.path, err)
	}

	return nil
}

func (r *Registry) Get(id uint32) (Station, bool) {
	station, exists := r.stations[id]
	return station, exists
}

func (r *Registry) Count() int {
	return len(r.stations)
}

func (r *Registry) Path() string {
	return r.path
}
