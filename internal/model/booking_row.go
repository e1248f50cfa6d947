package model

import "booking-audit-backend/internal/parse"

// BookingRow is one row of the imported bookings snapshot. Field values are
// kept as the raw text from the export; normalization and timestamp parsing
// happen inside the audit pipeline so corrupt values survive the round trip
// and are flagged instead of silently dropped.
type BookingRow struct {
	ID              uint   `gorm:"primaryKey"`
	BookingID       string `gorm:"size:64;index"`
	RoomID          string `gorm:"size:64;index"`
	StartTime       string `gorm:"size:32"`
	EndTime         string `gorm:"size:32"`
	CreatedAtSource string `gorm:"size:32"`
}

// Record converts the row back into the raw field map the normalizer takes.
func (r BookingRow) Record() parse.Record {
	return parse.Record{
		"booking_id": r.BookingID,
		"room_id":    r.RoomID,
		"start_time": r.StartTime,
		"end_time":   r.EndTime,
		"created_at": r.CreatedAtSource,
	}
}
