package model

import "time"

// AuditRun is the persisted summary of one completed audit cycle, kept for
// trend tracking across runs.
type AuditRun struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RanAt               time.Time `gorm:"not null;index" json:"ran_at"`
	TotalBookings       int       `gorm:"not null" json:"total_bookings"`
	IssuesTotal         int       `gorm:"not null" json:"issues_total"`
	InvalidRangeCount   int       `gorm:"not null" json:"invalid_time_range_count"`
	OverlapCount        int       `gorm:"not null" json:"overlap_count"`
	DaysAnalyzed        int       `gorm:"not null" json:"days_analyzed"`
	PeakWindowLabel     string    `gorm:"size:32" json:"peak_window_label"`
	PeakWindowMinutes   float64   `json:"peak_window_minutes"`
	RoomsUnderThreshold string    `gorm:"size:1024" json:"rooms_under_threshold"`
}
