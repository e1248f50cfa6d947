package report

import (
	"fmt"
	"io"
	"strings"

	"booking-audit-backend/internal/audit"
)

// WriteOpsReport renders the internal markdown operations report from the
// structured audit outputs. All computation happened upstream; this layer
// only formats.
func WriteOpsReport(w io.Writer, integrity audit.IntegritySummary, utilization audit.UtilizationSummary) error {
	var b strings.Builder

	b.WriteString("# Booking Operations Report\n\n")
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total bookings analyzed**: %d\n", integrity.TotalBookings)
	fmt.Fprintf(&b, "- **Integrity issues**: %d (invalid time ranges: %d, overlaps: %d)\n",
		integrity.IssuesTotal, integrity.InvalidRangeCount, integrity.OverlapCount)
	fmt.Fprintf(&b, "- **Days analyzed**: %d\n", utilization.DaysAnalyzed)
	fmt.Fprintf(&b, "- **Operating window**: %s–%s (%.2f h/day)\n",
		utilization.WindowStart, utilization.WindowEnd, utilization.HoursPerDay)
	fmt.Fprintf(&b, "- **Peak booking window**: %s\n", utilization.Peak.Window.Label)

	under := "None"
	if len(utilization.UnderThreshold) > 0 {
		under = strings.Join(utilization.UnderThreshold, ", ")
	}
	fmt.Fprintf(&b, "- **Rooms under %.1f%% utilization**: %s\n", utilization.Threshold*100, under)

	b.WriteString("\n## Utilization by Room\n\n")
	b.WriteString("| Room | Booked Hours | Available Hours | Utilization |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, room := range utilization.Rooms {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.1f%% |\n",
			room.RoomID, room.BookedMinutes/60, room.AvailableMinutes/60, room.Ratio*100)
	}

	if integrity.IssuesTotal > 0 {
		b.WriteString("\n## Integrity Issues\n\n")
		// Cap the listing; full detail is available from the API.
		issues := integrity.Issues
		if len(issues) > 20 {
			issues = issues[:20]
			fmt.Fprintf(&b, "First 20 of %d issues:\n\n", integrity.IssuesTotal)
		}
		for _, issue := range issues {
			fmt.Fprintf(&b, "- [%s] %s | %s | %s -> %s | %s\n",
				issue.Kind, issue.BookingID, issue.RoomID, issue.StartTime, issue.EndTime, issue.Detail)
		}
	}

	b.WriteString("\n## Operational Notes\n\n")
	b.WriteString("- **Data hygiene**: Overlaps and invalid time ranges should be triaged first; they can skew downstream utilization and SLA reporting.\n")
	b.WriteString("- **Capacity alignment**: Rooms below the utilization threshold are candidates for consolidation, repurposing, or targeted demand generation.\n")
	b.WriteString("- **Peak demand**: The peak window can inform staffing, on-call coverage, and housekeeping/turnover scheduling.\n")

	_, err := io.WriteString(w, b.String())
	return err
}
