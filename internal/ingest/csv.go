package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"booking-audit-backend/internal/parse"
)

// ReadSnapshot reads a bookings snapshot CSV into raw records, keyed by the
// header row. Rows shorter than the header are padded with empty values so a
// truncated row degrades to missing fields instead of failing the batch.
func ReadSnapshot(r io.Reader) ([]parse.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var records []parse.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		record := make(parse.Record, len(header))
		for i, field := range header {
			if i < len(row) {
				record[field] = row[i]
			} else {
				record[field] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}
