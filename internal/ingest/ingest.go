package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/noah-isme/sra-panel-api/internal/models"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
)

// Parse reads a spreadsheet file by extension and normalises it into course
// records plus diagnostics. Only the file type itself is a hard error.
func Parse(fileName string, r io.Reader) (*models.ParseReport, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))

	var (
		headers []string
		rows    []map[string]string
		err     error
	)
	switch ext {
	case "csv":
		headers, rows, err = ReadCSV(r)
	case "xlsx":
		headers, rows, err = ReadXLSX(r)
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFile, fmt.Sprintf("unsupported file type: .%s", ext))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse file")
	}

	return Normalize(headers, rows), nil
}
