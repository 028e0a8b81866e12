package nextbike

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// BikeID is the fleet-wide bike number. The live API has historically
// served it both as a JSON number and as a quoted string, so it gets a
// custom decoder.
type BikeID uint32

func (id *BikeID) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}

		number, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("bike number %q is not numeric: %w", value, err)
		}

		*id = BikeID(number)
		return nil
	}

	var number uint32
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}

	*id = BikeID(number)
	return nil
}

type Bike struct {
	Number BikeID `json:"number"`
}

// Place is one station observation: where it is and which bikes are
// currently docked there.
type Place struct {
	UID   uint32  `json:"uid"`
	Lat   float32 `json:"lat"`
	Lng   float32 `json:"lng"`
	Name  string  `json:"name"`
	Bikes []Bike  `json:"bike_list"`
}

type City struct {
	Name   string  `json:"name"`
	Places []Place `json:"places"`
}

type Country struct {
	Cities []City `json:"cities"`
}

// Snapshot is one decoded poll of the live API
type Snapshot struct {
	Countries []Country `json:"countries"`
}

func Decode(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
