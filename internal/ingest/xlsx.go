package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX decodes the first sheet of an XLSX stream into raw header-keyed
// rows, mirroring ReadCSV's contract.
func ReadXLSX(r io.Reader) ([]string, []map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("xlsx has no sheets")
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read xlsx rows: %w", err)
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
