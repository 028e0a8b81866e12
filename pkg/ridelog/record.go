package ridelog

import (
	"encoding/binary"
	"fmt"
)

// RecordSize is the exact on-disk size of one encoded RideEvent:
// u32 bike id + 2 * (u64 timestamp + u32 station id), little-endian,
// no header and no padding. The event id of a record is its 0-based
// position in the file, so offsets are always id * RecordSize.
const RecordSize = 4 + 2*(8+4)

type RideLocation struct {
	Timestamp uint64 `json:"timestamp"`
	StationID uint32 `json:"station_id"`
}

type RideEvent struct {
	BikeID uint32 `json:"bike_id"`

	Src RideLocation `json:"src"`
	Dst RideLocation `json:"dst"`
}

func encodeRecord(event *RideEvent) [RecordSize]byte {
	var record [RecordSize]byte

	binary.LittleEndian.PutUint32(record[0:4], event.BikeID)
	binary.LittleEndian.PutUint64(record[4:12], event.Src.Timestamp)
	binary.LittleEndian.PutUint32(record[12:16], event.Src.StationID)
	binary.LittleEndian.PutUint64(record[16:24], event.Dst.Timestamp)
	binary.LittleEndian.PutUint32(record[24:28], event.Dst.StationID)

	return record
}

func decodeRecord(record []byte) (RideEvent, error) {
	if len(record) < RecordSize {
		return RideEvent{}, fmt.Errorf("truncated ride record: %d of %d bytes", len(record), RecordSize)
	}

	return RideEvent{
		BikeID: binary.LittleEndian.Uint32(record[0:4]),
		Src: RideLocation{
			Timestamp: binary.LittleEndian.Uint64(record[4:12]),
			StationID: binary.LittleEndian.Uint32(record[12:16]),
		},
		Dst: RideLocation{
			Timestamp: binary.LittleEndian.Uint64(record[16:24]),
			StationID: binary.LittleEndian.Uint32(record[24:28]),
		},
	}, nil
}
