package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-audit-backend/internal/audit"
)

func TestWriteOpsReport(t *testing.T) {
	integrity := audit.IntegritySummary{
		TotalBookings:     5,
		IssuesTotal:       2,
		InvalidRangeCount: 1,
		OverlapCount:      1,
		Issues: []audit.Issue{
			{Kind: audit.KindInvalidTimeRange, BookingID: "B-5", RoomID: "R1",
				StartTime: "2025-03-10 15:00:00", EndTime: "2025-03-10 14:00:00",
				Detail: "end_time is less than or equal to start_time"},
			{Kind: audit.KindOverlap, BookingID: "B-3", RoomID: "R2",
				StartTime: "2025-03-10 10:30:00", EndTime: "2025-03-10 11:30:00",
				Detail: "Overlaps prior booking B-2 (prior end_time=2025-03-10 11:00:00)"},
		},
	}

	utilization := audit.UtilizationSummary{
		TotalBookings: 5,
		DaysAnalyzed:  1,
		WindowStart:   "10:00",
		WindowEnd:     "22:00",
		HoursPerDay:   12,
		Threshold:     0.30,
		Rooms: []audit.RoomUtilization{
			{RoomID: "R1", BookedMinutes: 120, AvailableMinutes: 720, Ratio: 120.0 / 720},
			{RoomID: "R2", BookedMinutes: 120, AvailableMinutes: 720, Ratio: 120.0 / 720},
		},
		UnderThreshold: []string{"R1", "R2"},
		Peak: audit.PeakSummary{
			Window: audit.PeakWindow{StartHour: 8, EndHour: 12, Label: "08:00–12:00", Minutes: 330},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOpsReport(&buf, integrity, utilization))
	out := buf.String()

	assert.Contains(t, out, "# Booking Operations Report")
	assert.Contains(t, out, "**Total bookings analyzed**: 5")
	assert.Contains(t, out, "invalid time ranges: 1, overlaps: 1")
	assert.Contains(t, out, "**Peak booking window**: 08:00–12:00")
	assert.Contains(t, out, "**Rooms under 30.0% utilization**: R1, R2")
	assert.Contains(t, out, "| R1 | 2.00 | 12.00 | 16.7% |")
	assert.Contains(t, out, "[overlap] B-3 | R2")
}

func TestWriteOpsReport_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOpsReport(&buf, audit.IntegritySummary{TotalBookings: 1}, audit.UtilizationSummary{})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "## Integrity Issues")
	assert.Contains(t, out, "**Rooms under 0.0% utilization**: None")
}
