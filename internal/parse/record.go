package parse

import (
	"strings"
	"time"
)

// Record is one raw row from a bookings snapshot, indexed by field name.
// All values are plain text exactly as exported.
type Record map[string]string

// Booking is a normalized booking record. Timestamp fields that were absent
// or unparseable in the source are nil; downstream analysis treats them as
// "cannot be analyzed" rather than failing.
type Booking struct {
	BookingID string
	RoomID    string // "" means the room reference is missing
	Start     *time.Time
	End       *time.Time
	Created   *time.Time
}

// Accepted local-time layouts, tried in order. Snapshots are exported with
// naive local timestamps; no timezone handling happens here.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp converts a raw timestamp string into a time.Time, or nil
// when the value is empty or matches none of the accepted layouts.
func ParseTimestamp(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// FromRecord builds a Booking from a raw snapshot row. It never fails: bad
// timestamps become nil and a missing room stays empty, so partially corrupt
// snapshots still yield analyzable records.
func FromRecord(r Record) Booking {
	return Booking{
		BookingID: strings.TrimSpace(r["booking_id"]),
		RoomID:    strings.TrimSpace(r["room_id"]),
		Start:     ParseTimestamp(r["start_time"]),
		End:       ParseTimestamp(r["end_time"]),
		Created:   ParseTimestamp(r["created_at"]),
	}
}

// NormalizeAll converts a snapshot batch into bookings, preserving row order.
func NormalizeAll(records []Record) []Booking {
	bookings := make([]Booking, len(records))
	for i, r := range records {
		bookings[i] = FromRecord(r)
	}
	return bookings
}
