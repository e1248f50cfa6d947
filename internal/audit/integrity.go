package audit

import (
	"fmt"
	"sort"
	"time"

	"booking-audit-backend/internal/parse"
)

// Issue kinds reported by the integrity checks.
const (
	KindInvalidTimeRange = "invalid_time_range"
	KindOverlap          = "overlap"
)

// Issue is a single integrity finding. Times are display strings copied from
// the offending booking; an Issue has no identity beyond its construction.
type Issue struct {
	Kind      string `json:"issue_type"`
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Detail    string `json:"details"`
}

// IntegritySummary aggregates all findings of one integrity pass.
type IntegritySummary struct {
	TotalBookings     int     `json:"total_bookings"`
	IssuesTotal       int     `json:"issues_total"`
	InvalidRangeCount int     `json:"invalid_time_range_count"`
	OverlapCount      int     `json:"overlap_count"`
	Issues            []Issue `json:"issues"`
}

const displayLayout = "2006-01-02 15:04:05"

func displayTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(displayLayout)
}

// FindInvalidRanges flags every booking whose end time is not strictly after
// its start time. Bookings with a missing timestamp cannot be judged and are
// skipped. Emission order follows the input order.
func FindInvalidRanges(bookings []parse.Booking) []Issue {
	var issues []Issue
	for _, b := range bookings {
		if b.Start == nil || b.End == nil {
			continue
		}
		if !b.End.After(*b.Start) {
			issues = append(issues, Issue{
				Kind:      KindInvalidTimeRange,
				BookingID: b.BookingID,
				RoomID:    b.RoomID,
				StartTime: displayTime(b.Start),
				EndTime:   displayTime(b.End),
				Detail:    "end_time is less than or equal to start_time",
			})
		}
	}
	return issues
}

// FindOverlaps detects overlapping bookings within each room using a
// sweep-line pass. Only bookings with both timestamps present, a strictly
// positive duration and a known room take part; everything else was already
// flagged (or is unanalyzable) and must not distort detection.
//
// The sweep keeps the maximum end time seen so far, not just the previous
// booking's end: an early long booking can still be active past a later,
// shorter one that started and ended inside it (chained overlap).
func FindOverlaps(bookings []parse.Booking) []Issue {
	byRoom := make(map[string][]parse.Booking)
	for _, b := range bookings {
		if b.RoomID == "" || b.Start == nil || b.End == nil || !b.End.After(*b.Start) {
			continue
		}
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}

	rooms := make([]string, 0, len(byRoom))
	for room := range byRoom {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)

	var issues []Issue
	for _, room := range rooms {
		candidates := byRoom[room]
		// Three-key sort keeps output deterministic when bookings share a
		// start time.
		sort.Slice(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if !a.Start.Equal(*b.Start) {
				return a.Start.Before(*b.Start)
			}
			if !a.End.Equal(*b.End) {
				return a.End.Before(*b.End)
			}
			return a.BookingID < b.BookingID
		})

		var maxEnd *time.Time
		var maxEndBookingID string
		for _, b := range candidates {
			if maxEnd != nil && b.Start.Before(*maxEnd) {
				issues = append(issues, Issue{
					Kind:      KindOverlap,
					BookingID: b.BookingID,
					RoomID:    room,
					StartTime: displayTime(b.Start),
					EndTime:   displayTime(b.End),
					Detail: fmt.Sprintf("Overlaps prior booking %s (prior end_time=%s)",
						maxEndBookingID, displayTime(maxEnd)),
				})
			}
			// Advance the tracker only on a strict increase so ties keep the
			// earlier booking in the diagnostic text.
			if maxEnd == nil || b.End.After(*maxEnd) {
				maxEnd = b.End
				maxEndBookingID = b.BookingID
			}
		}
	}
	return issues
}

// AnalyzeIntegrity runs both integrity checks over a normalized batch and
// returns the combined summary, invalid-range findings first.
func AnalyzeIntegrity(bookings []parse.Booking) IntegritySummary {
	invalid := FindInvalidRanges(bookings)
	overlaps := FindOverlaps(bookings)

	issues := make([]Issue, 0, len(invalid)+len(overlaps))
	issues = append(issues, invalid...)
	issues = append(issues, overlaps...)

	return IntegritySummary{
		TotalBookings:     len(bookings),
		IssuesTotal:       len(issues),
		InvalidRangeCount: len(invalid),
		OverlapCount:      len(overlaps),
		Issues:            issues,
	}
}
