package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV decodes a CSV stream into raw header-keyed rows. Ragged rows are
// tolerated; short rows leave trailing columns empty.
func ReadCSV(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}

	headers := all[0]
	rows := make([]map[string]string, 0, len(all)-1)
	for _, record := range all[1:] {
		if isBlankRow(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
