package ridelog

import (
	"fmt"
	"sort"

	"golang.org/x/exp/mmap"
)

const DefaultLimit = 100

// Filter narrows a read over the log. From is a timestamp lower bound
// (a ride qualifies if either endpoint is at or after it, so rides
// spanning the boundary still show). LastEventID is a resume cursor:
// when >= 0 it takes precedence over From and reading starts at the
// record after it. Limit <= 0 falls back to DefaultLimit.
type Filter struct {
	From        uint64
	LastEventID int
	Limit       int
}

// NewFilter returns an unconstrained filter: no time bound, no cursor,
// default limit.
func NewFilter() Filter {
	return Filter{LastEventID: -1}
}

// Reader scans ride records forward from a seek position decided by
// the filter. Each Reader owns an independent read-only memory map
// opened at construction, so concurrent queries share nothing and a
// growing log never disturbs an open reader: bytes appended after the
// map was taken are simply not part of its view.
type Reader struct {
	filter  Filter
	mapped  *mmap.ReaderAt
	records int
	pos     int
	yielded int
}

func NewReader(path string, filter Filter) (*Reader, error) {
	mapped, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to map ride log %s: %w", path, err)
	}

	// A partially written trailing record is simply ignored
	records := mapped.Len() / RecordSize

	reader := &Reader{
		filter:  filter,
		mapped:  mapped,
		records: records,
	}

	if filter.LastEventID >= 0 {
		reader.pos = filter.LastEventID + 1
	} else if filter.From > 0 {
		reader.pos = reader.searchFrom(filter.From)
	}

	return reader, nil
}

// searchFrom finds the first record whose source timestamp is at or
// after the bound. Records are appended in non-decreasing source
// timestamp order, which is what makes the lower-bound search valid.
func (r *Reader) searchFrom(from uint64) int {
	return sort.Search(r.records, func(i int) bool {
		event, err := r.decodeAt(i)
		if err != nil {
			// Can only happen on a torn tail, which sorts after
			// everything readable
			return true
		}

		return event.Src.Timestamp >= from
	})
}

func (r *Reader) decodeAt(index int) (RideEvent, error) {
	var record [RecordSize]byte

	if _, err := r.mapped.ReadAt(record[:], int64(index)*RecordSize); err != nil {
		return RideEvent{}, err
	}

	return decodeRecord(record[:])
}

// Next returns the next matching record and its event id. ok is false
// once the limit is reached, the end of the mapped region is passed or
// a record fails to decode; a decode failure ends the stream quietly
// so a crash-truncated log still serves its valid prefix.
func (r *Reader) Next() (int, RideEvent, bool) {
	for r.yielded < r.limit() && r.pos < r.records {
		eventID := r.pos
		r.pos++

		event, err := r.decodeAt(eventID)
		if err != nil {
			return 0, RideEvent{}, false
		}

		if r.matches(&event) {
			r.yielded++
			return eventID, event, true
		}
	}

	return 0, RideEvent{}, false
}

func (r *Reader) matches(event *RideEvent) bool {
	if r.filter.From > 0 && event.Src.Timestamp < r.filter.From && event.Dst.Timestamp < r.filter.From {
		return false
	}

	return true
}

func (r *Reader) limit() int {
	if r.filter.Limit <= 0 {
		return DefaultLimit
	}

	return r.filter.Limit
}

func (r *Reader) Close() error {
	return r.mapped.Close()
}
