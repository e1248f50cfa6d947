package audit

import (
	"fmt"
	"sort"
	"time"

	"booking-audit-backend/internal/parse"
)

// HourMinutes is one hour-of-day bucket with its accumulated booked minutes.
type HourMinutes struct {
	Hour    int     `json:"hour"`
	Minutes float64 `json:"booked_minutes"`
}

// PeakWindow is the best contiguous block of hours by total booked minutes.
type PeakWindow struct {
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
	Label     string  `json:"label"`
	Minutes   float64 `json:"booked_minutes"`
}

// PeakSummary is the hour-of-day demand profile plus the derived peak window.
type PeakSummary struct {
	MinutesByHour [24]float64   `json:"minutes_by_hour"`
	TopHours      []HourMinutes `json:"top_hours"`
	Window        PeakWindow    `json:"peak_window"`
}

// HourProfile accumulates booked minutes into 24 hour-of-day buckets. Unlike
// the utilization sums, the profile is NOT restricted to the operating
// window: every valid booking contributes across the full day, so off-window
// demand is still visible. Multi-day bookings fold onto the same 24 buckets.
func HourProfile(bookings []parse.Booking) [24]float64 {
	var profile [24]float64
	for _, b := range bookings {
		if b.Start == nil || b.End == nil || !b.End.After(*b.Start) {
			continue
		}
		start, end := *b.Start, *b.End
		cursor := time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), 0, 0, 0, start.Location())
		for cursor.Before(end) {
			hourEnd := cursor.Add(time.Hour)
			profile[cursor.Hour()] += overlapMinutes(start, end, cursor, hourEnd)
			cursor = hourEnd
		}
	}
	return profile
}

// TopHours returns the n busiest hours, descending by minutes with ties
// broken by ascending hour number.
func TopHours(profile [24]float64, n int) []HourMinutes {
	hours := make([]int, 24)
	for h := range hours {
		hours[h] = h
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return profile[hours[i]] > profile[hours[j]]
	})

	if n > len(hours) {
		n = len(hours)
	}
	top := make([]HourMinutes, n)
	for i := 0; i < n; i++ {
		top[i] = HourMinutes{Hour: hours[i], Minutes: profile[hours[i]]}
	}
	return top
}

// BestWindow finds the contiguous block of `hours` buckets with the highest
// total. The first (lowest start hour) maximum wins ties. The window never
// wraps past hour 23.
func BestWindow(profile [24]float64, hours int) (PeakWindow, error) {
	if hours < 1 || hours > 24 {
		return PeakWindow{}, fmt.Errorf("peak window length %d is outside 1..24", hours)
	}

	bestStart := 0
	bestMinutes := -1.0
	for h := 0; h <= 24-hours; h++ {
		var sum float64
		for i := h; i < h+hours; i++ {
			sum += profile[i]
		}
		if sum > bestMinutes {
			bestMinutes = sum
			bestStart = h
		}
	}

	end := bestStart + hours
	return PeakWindow{
		StartHour: bestStart,
		EndHour:   end,
		Label:     fmt.Sprintf("%02d:00–%02d:00", bestStart, end),
		Minutes:   bestMinutes,
	}, nil
}

// AnalyzePeak builds the hour profile and derives the top hours and the best
// contiguous peak window from it.
func AnalyzePeak(bookings []parse.Booking, hours int) (PeakSummary, error) {
	profile := HourProfile(bookings)
	window, err := BestWindow(profile, hours)
	if err != nil {
		return PeakSummary{}, err
	}
	return PeakSummary{
		MinutesByHour: profile,
		TopHours:      TopHours(profile, 5),
		Window:        window,
	}, nil
}
