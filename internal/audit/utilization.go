package audit

import (
	"fmt"
	"sort"
	"time"

	"booking-audit-backend/internal/parse"
)

// Default analysis parameters. Callers override them through config.
const (
	DefaultLowUtilizationThreshold = 0.30
	DefaultPeakWindowHours         = 4
)

// TimeOfDay is a naive wall-clock time within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// minutes returns the offset from midnight.
func (t TimeOfDay) minutes() int { return t.Hour*60 + t.Minute }

// On places the clock time onto the given calendar day.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// OperatingWindow is the daily clock-time range during which a room counts
// as available. The window must fall within a single calendar day; windows
// crossing midnight are not supported.
type OperatingWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewOperatingWindow validates that end is strictly after start.
func NewOperatingWindow(start, end TimeOfDay) (OperatingWindow, error) {
	if end.minutes() <= start.minutes() {
		return OperatingWindow{}, fmt.Errorf("operating window end %s must be after start %s (overnight windows are unsupported)", end, start)
	}
	return OperatingWindow{Start: start, End: end}, nil
}

// DefaultOperatingWindow is the documented default of 10:00-22:00.
func DefaultOperatingWindow() OperatingWindow {
	return OperatingWindow{Start: TimeOfDay{Hour: 10}, End: TimeOfDay{Hour: 22}}
}

// HoursPerDay returns the window length in hours.
func (w OperatingWindow) HoursPerDay() float64 {
	return float64(w.End.minutes()-w.Start.minutes()) / 60.0
}

// RoomUtilization holds the computed metrics for one room.
type RoomUtilization struct {
	RoomID           string  `json:"room_id"`
	BookedMinutes    float64 `json:"booked_minutes"`
	AvailableMinutes float64 `json:"available_minutes"`
	Ratio            float64 `json:"utilization_ratio"`
}

// UtilizationSummary is the full output of one utilization pass. Rooms are
// ordered by ascending room id so repeated runs are byte-identical.
type UtilizationSummary struct {
	TotalBookings  int               `json:"total_bookings"`
	DaysAnalyzed   int               `json:"days_analyzed"`
	WindowStart    string            `json:"window_start"`
	WindowEnd      string            `json:"window_end"`
	HoursPerDay    float64           `json:"window_hours_per_day"`
	Threshold      float64           `json:"low_utilization_threshold"`
	Rooms          []RoomUtilization `json:"utilization_by_room"`
	UnderThreshold []string          `json:"rooms_under_threshold"`
	Peak           PeakSummary       `json:"peak_booking"`
}

// overlapMinutes computes the intersection of [aStart, aEnd) and
// [bStart, bEnd) in minutes, never negative.
func overlapMinutes(aStart, aEnd, bStart, bEnd time.Time) float64 {
	latestStart := aStart
	if bStart.After(latestStart) {
		latestStart = bStart
	}
	earliestEnd := aEnd
	if bEnd.Before(earliestEnd) {
		earliestEnd = bEnd
	}
	d := earliestEnd.Sub(latestStart)
	if d <= 0 {
		return 0
	}
	return d.Minutes()
}

// BookedMinutesInWindow computes the minutes of [start, end) that fall inside
// the operating window, walking calendar days so that multi-day bookings are
// split correctly. The loop is bounded by days spanned, not booking length.
func BookedMinutesInWindow(start, end time.Time, w OperatingWindow) float64 {
	if !end.After(start) {
		return 0
	}

	var total float64
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	lastDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	for !day.After(lastDay) {
		total += overlapMinutes(start, end, w.Start.On(day), w.End.On(day))
		day = day.AddDate(0, 0, 1)
	}
	return total
}

// AnalyzeUtilization computes per-room utilization against the operating
// window, flags rooms below the threshold and locates the peak demand
// window. An invalid window or peak length is a configuration error and
// fails immediately.
//
// Available minutes scale with the number of distinct calendar days observed
// in the data, not a fixed reporting period. That basis is a documented
// approximation, not a capacity model.
func AnalyzeUtilization(bookings []parse.Booking, w OperatingWindow, threshold float64, peakHours int) (UtilizationSummary, error) {
	if w.HoursPerDay() <= 0 {
		return UtilizationSummary{}, fmt.Errorf("operating window %s-%s has no usable hours", w.Start, w.End)
	}
	peak, err := AnalyzePeak(bookings, peakHours)
	if err != nil {
		return UtilizationSummary{}, err
	}

	// Distinct calendar dates over bookings with a present start time.
	daysSeen := make(map[string]struct{})
	for _, b := range bookings {
		if b.Start != nil {
			daysSeen[b.Start.Format("2006-01-02")] = struct{}{}
		}
	}
	daysCount := len(daysSeen)

	// Booked minutes per room, window-bounded. Only bookings with a valid
	// positive range may contribute; invalid ranges were reported by the
	// integrity pass and must not leak into the sums.
	bookedByRoom := make(map[string]float64)
	roomSet := make(map[string]struct{})
	for _, b := range bookings {
		if b.RoomID == "" {
			continue
		}
		roomSet[b.RoomID] = struct{}{}
		if b.Start == nil || b.End == nil || !b.End.After(*b.Start) {
			continue
		}
		bookedByRoom[b.RoomID] += BookedMinutesInWindow(*b.Start, *b.End, w)
	}

	rooms := make([]string, 0, len(roomSet))
	for room := range roomSet {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)

	availableMinutes := float64(daysCount) * w.HoursPerDay() * 60.0

	utilization := make([]RoomUtilization, 0, len(rooms))
	var under []string
	for _, room := range rooms {
		booked := bookedByRoom[room]
		ratio := 0.0
		if availableMinutes > 0 {
			ratio = booked / availableMinutes
		}
		utilization = append(utilization, RoomUtilization{
			RoomID:           room,
			BookedMinutes:    booked,
			AvailableMinutes: availableMinutes,
			Ratio:            ratio,
		})
		if ratio < threshold {
			under = append(under, room)
		}
	}

	return UtilizationSummary{
		TotalBookings:  len(bookings),
		DaysAnalyzed:   daysCount,
		WindowStart:    w.Start.String(),
		WindowEnd:      w.End.String(),
		HoursPerDay:    w.HoursPerDay(),
		Threshold:      threshold,
		Rooms:          utilization,
		UnderThreshold: under,
		Peak:           peak,
	}, nil
}
