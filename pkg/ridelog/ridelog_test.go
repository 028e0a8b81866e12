package ridelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestLog(t *testing.T, events []RideEvent) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rides.bin")

	writer, err := NewWriter(path)
	require.NoError(t, err)

	for i := range events {
		require.NoError(t, writer.Write(&events[i]))
	}
	require.NoError(t, writer.Close())

	return path
}

func readAll(t *testing.T, path string, filter Filter) ([]int, []RideEvent) {
	t.Helper()

	reader, err := NewReader(path, filter)
	require.NoError(t, err)
	defer reader.Close()

	var ids []int
	var events []RideEvent
	for {
		id, event, ok := reader.Next()
		if !ok {
			break
		}

		ids = append(ids, id)
		events = append(events, event)
	}

	return ids, events
}

func testEvents() []RideEvent {
	return []RideEvent{
		{BikeID: 7, Src: RideLocation{Timestamp: 100, StationID: 1}, Dst: RideLocation{Timestamp: 160, StationID: 2}},
		{BikeID: 9, Src: RideLocation{Timestamp: 150, StationID: 3}, Dst: RideLocation{Timestamp: 300, StationID: 1}},
		{BikeID: 7, Src: RideLocation{Timestamp: 220, StationID: 2}, Dst: RideLocation{Timestamp: 280, StationID: 4}},
		{BikeID: 3, Src: RideLocation{Timestamp: 400, StationID: 4}, Dst: RideLocation{Timestamp: 460, StationID: 5}},
		{BikeID: 9, Src: RideLocation{Timestamp: 400, StationID: 1}, Dst: RideLocation{Timestamp: 520, StationID: 3}},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	events := testEvents()
	path := writeTestLog(t, events)

	ids, got := readAll(t, path, NewFilter())

	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids)
	assert.Equal(t, events, got)
}

func TestRecordEncodingLayout(t *testing.T) {
	event := RideEvent{
		BikeID: 0x01020304,
		Src:    RideLocation{Timestamp: 0x1122334455667788, StationID: 0xAABBCCDD},
		Dst:    RideLocation{Timestamp: 0x99, StationID: 0x42},
	}

	record := encodeRecord(&event)

	assert.Equal(t, byte(0x04), record[0])
	assert.Equal(t, byte(0x01), record[3])
	assert.Equal(t, byte(0x88), record[4])
	assert.Equal(t, byte(0x11), record[11])
	assert.Equal(t, byte(0xDD), record[12])
	assert.Equal(t, byte(0x99), record[16])
	assert.Equal(t, byte(0x42), record[24])

	decoded, err := decodeRecord(record[:])
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestReaderFromLowerBound(t *testing.T) {
	events := testEvents()
	path := writeTestLog(t, events)

	filter := NewFilter()
	filter.From = 220

	ids, got := readAll(t, path, filter)

	assert.Equal(t, []int{2, 3, 4}, ids)
	assert.Equal(t, events[2:], got)
}

func TestReaderCursorWithFromChecksBothEndpoints(t *testing.T) {
	path := writeTestLog(t, testEvents())

	filter := NewFilter()
	filter.LastEventID = 0
	filter.From = 300

	ids, _ := readAll(t, path, filter)

	// Event 1 spans the boundary (src 150, dst 300) and still counts;
	// event 2 ends before it and is dropped
	assert.Equal(t, []int{1, 3, 4}, ids)
}

func TestReaderFromPastEnd(t *testing.T) {
	path := writeTestLog(t, testEvents())

	filter := NewFilter()
	filter.From = 10_000

	ids, _ := readAll(t, path, filter)
	assert.Empty(t, ids)
}

func TestReaderCursorIsExclusive(t *testing.T) {
	events := testEvents()
	path := writeTestLog(t, events)

	filter := NewFilter()
	filter.LastEventID = 2

	ids, got := readAll(t, path, filter)

	assert.Equal(t, []int{3, 4}, ids)
	assert.Equal(t, events[3:], got)
}

func TestReaderCursorTakesPrecedenceOverFrom(t *testing.T) {
	events := testEvents()
	path := writeTestLog(t, events)

	filter := NewFilter()
	filter.LastEventID = 3
	filter.From = 0

	ids, _ := readAll(t, path, filter)
	assert.Equal(t, []int{4}, ids)
}

func TestReaderLimit(t *testing.T) {
	path := writeTestLog(t, testEvents())

	filter := NewFilter()
	filter.Limit = 2

	ids, _ := readAll(t, path, filter)
	assert.Equal(t, []int{0, 1}, ids)
}

func TestReaderEmptyLog(t *testing.T) {
	path := writeTestLog(t, nil)

	ids, _ := readAll(t, path, NewFilter())
	assert.Empty(t, ids)
}

func TestReaderIgnoresPartialTrailingRecord(t *testing.T) {
	events := testEvents()[:2]
	path := writeTestLog(t, events)

	// Simulate a crash mid-append
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = file.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	require.NoError(t, file.Close())

	ids, got := readAll(t, path, NewFilter())

	assert.Equal(t, []int{0, 1}, ids)
	assert.Equal(t, events, got)
}

func TestRebuildWriterTruncates(t *testing.T) {
	events := testEvents()
	path := writeTestLog(t, events)

	writer, err := NewRebuildWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(&events[0]))
	require.NoError(t, writer.Close())

	ids, got := readAll(t, path, NewFilter())
	assert.Equal(t, []int{0}, ids)
	assert.Equal(t, events[:1], got)
}

func TestAppendWriterResumesExistingLog(t *testing.T) {
	events := testEvents()
	path := writeTestLog(t, events[:3])

	writer, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(&events[3]))
	require.NoError(t, writer.Close())

	ids, got := readAll(t, path, NewFilter())
	assert.Equal(t, []int{0, 1, 2, 3}, ids)
	assert.Equal(t, events[:4], got)
}
