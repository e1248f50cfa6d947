package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-audit-backend/internal/parse"
)

func mustWindow(t *testing.T, start, end string) OperatingWindow {
	t.Helper()
	s, err := ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := ParseTimeOfDay(end)
	require.NoError(t, err)
	w, err := NewOperatingWindow(s, e)
	require.NoError(t, err)
	return w
}

func TestNewOperatingWindow(t *testing.T) {
	start := TimeOfDay{Hour: 10}

	_, err := NewOperatingWindow(start, TimeOfDay{Hour: 22})
	assert.NoError(t, err)

	_, err = NewOperatingWindow(start, TimeOfDay{Hour: 10})
	assert.Error(t, err, "zero-length window must be rejected")

	_, err = NewOperatingWindow(start, TimeOfDay{Hour: 2})
	assert.Error(t, err, "overnight window must be rejected")
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 30}, tod)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("noonish")
	assert.Error(t, err)
}

func TestBookedMinutesInWindow(t *testing.T) {
	window := mustWindow(t, "10:00", "22:00")

	testCases := []struct {
		name     string
		start    string
		end      string
		expected float64
	}{
		{
			name:     "Fully inside the window",
			start:    "2025-03-10 10:00:00",
			end:      "2025-03-10 12:00:00",
			expected: 120,
		},
		{
			name:     "Clipped at the window start",
			start:    "2025-03-10 09:00:00",
			end:      "2025-03-10 10:30:00",
			expected: 30,
		},
		{
			name:     "Clipped at the window end",
			start:    "2025-03-10 21:00:00",
			end:      "2025-03-10 23:00:00",
			expected: 60,
		},
		{
			name:     "Entirely before the window",
			start:    "2025-03-10 07:00:00",
			end:      "2025-03-10 09:00:00",
			expected: 0,
		},
		{
			name:     "Overnight booking outside both days' windows",
			start:    "2025-03-10 23:00:00",
			end:      "2025-03-11 01:00:00",
			expected: 0,
		},
		{
			name:     "Multi-day booking splits per day",
			start:    "2025-03-10 21:00:00",
			end:      "2025-03-12 11:00:00",
			expected: 60 + 720 + 60,
		},
		{
			name:     "Inverted range contributes nothing",
			start:    "2025-03-10 12:00:00",
			end:      "2025-03-10 10:00:00",
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start := parse.ParseTimestamp(tc.start)
			end := parse.ParseTimestamp(tc.end)
			require.NotNil(t, start)
			require.NotNil(t, end)

			assert.InDelta(t, tc.expected, BookedMinutesInWindow(*start, *end, window), 1e-9)
		})
	}
}

func TestAnalyzeUtilization_EndToEnd(t *testing.T) {
	// Three rooms on one calendar day: one invalid range in R1, one
	// two-booking overlap in R2.
	bookings := []parse.Booking{
		mkBooking("B-1", "R1", "2025-03-10 10:00:00", "2025-03-10 12:00:00"),
		mkBooking("B-2", "R2", "2025-03-10 10:00:00", "2025-03-10 11:00:00"),
		mkBooking("B-3", "R2", "2025-03-10 10:30:00", "2025-03-10 11:30:00"),
		mkBooking("B-4", "R3", "2025-03-10 09:00:00", "2025-03-10 10:30:00"),
		mkBooking("B-5", "R1", "2025-03-10 15:00:00", "2025-03-10 14:00:00"),
	}

	integrity := AnalyzeIntegrity(bookings)
	assert.Equal(t, 5, integrity.TotalBookings)
	assert.Equal(t, 2, integrity.IssuesTotal)
	assert.Equal(t, 1, integrity.InvalidRangeCount)
	assert.Equal(t, 1, integrity.OverlapCount)
	assert.Equal(t, "B-3", integrity.Issues[1].BookingID)
	assert.Equal(t, "R2", integrity.Issues[1].RoomID)

	window := mustWindow(t, "10:00", "22:00")
	summary, err := AnalyzeUtilization(bookings, window, DefaultLowUtilizationThreshold, DefaultPeakWindowHours)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalBookings)
	assert.Equal(t, 1, summary.DaysAnalyzed)
	assert.InDelta(t, 12.0, summary.HoursPerDay, 1e-9)

	require.Len(t, summary.Rooms, 3)
	byRoom := make(map[string]RoomUtilization)
	for _, r := range summary.Rooms {
		byRoom[r.RoomID] = r
	}

	// The invalid B-5 must not contribute to R1.
	assert.InDelta(t, 120, byRoom["R1"].BookedMinutes, 1e-9)
	assert.InDelta(t, 120, byRoom["R2"].BookedMinutes, 1e-9)
	// B-4 starts before the window opens; only 10:00-10:30 counts.
	assert.InDelta(t, 30, byRoom["R3"].BookedMinutes, 1e-9)

	for _, r := range summary.Rooms {
		assert.InDelta(t, 720, r.AvailableMinutes, 1e-9)
		assert.InDelta(t, r.BookedMinutes/720, r.Ratio, 1e-9)
	}

	assert.Equal(t, []string{"R1", "R2", "R3"}, summary.UnderThreshold)

	// Hour profile ignores the operating window: B-4's 09:00 hour counts.
	assert.InDelta(t, 60, summary.Peak.MinutesByHour[9], 1e-9)
	assert.InDelta(t, 180, summary.Peak.MinutesByHour[10], 1e-9)
	assert.InDelta(t, 90, summary.Peak.MinutesByHour[11], 1e-9)

	// 08:00-12:00 and 09:00-13:00 both total 330; the earlier window wins.
	assert.Equal(t, 8, summary.Peak.Window.StartHour)
	assert.Equal(t, 12, summary.Peak.Window.EndHour)
	assert.Equal(t, "08:00–12:00", summary.Peak.Window.Label)
	assert.InDelta(t, 330, summary.Peak.Window.Minutes, 1e-9)
}

func TestAnalyzeUtilization_ZeroAvailableMinutes(t *testing.T) {
	// A room is known but no booking carries a usable start time, so zero
	// days are observed and available minutes collapse to zero.
	bookings := []parse.Booking{
		mkBooking("B-1", "R1", "", "2025-03-10 12:00:00"),
	}

	summary, err := AnalyzeUtilization(bookings, DefaultOperatingWindow(), DefaultLowUtilizationThreshold, DefaultPeakWindowHours)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.DaysAnalyzed)
	require.Len(t, summary.Rooms, 1)
	assert.InDelta(t, 0, summary.Rooms[0].AvailableMinutes, 1e-9)
	assert.InDelta(t, 0, summary.Rooms[0].Ratio, 1e-9)
}

func TestAnalyzeUtilization_DistinctDaysObserved(t *testing.T) {
	// Two bookings on the same date and one on another; the invalid range
	// still has a present start time, so its date counts too.
	bookings := []parse.Booking{
		mkBooking("B-1", "R1", "2025-03-10 10:00:00", "2025-03-10 11:00:00"),
		mkBooking("B-2", "R1", "2025-03-10 12:00:00", "2025-03-10 13:00:00"),
		mkBooking("B-3", "R1", "2025-03-11 10:00:00", "2025-03-11 11:00:00"),
		mkBooking("B-4", "R1", "2025-03-12 10:00:00", "2025-03-12 09:00:00"),
	}

	summary, err := AnalyzeUtilization(bookings, DefaultOperatingWindow(), DefaultLowUtilizationThreshold, DefaultPeakWindowHours)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.DaysAnalyzed)
	require.Len(t, summary.Rooms, 1)
	assert.InDelta(t, 3*12*60, summary.Rooms[0].AvailableMinutes, 1e-9)
}

func TestAnalyzeUtilization_RejectsBadPeakLength(t *testing.T) {
	_, err := AnalyzeUtilization(nil, DefaultOperatingWindow(), DefaultLowUtilizationThreshold, 0)
	assert.Error(t, err)

	_, err = AnalyzeUtilization(nil, DefaultOperatingWindow(), DefaultLowUtilizationThreshold, 25)
	assert.Error(t, err)
}

func TestAnalyzeUtilization_RejectsZeroValueWindow(t *testing.T) {
	_, err := AnalyzeUtilization(nil, OperatingWindow{}, DefaultLowUtilizationThreshold, DefaultPeakWindowHours)
	assert.Error(t, err)
}
