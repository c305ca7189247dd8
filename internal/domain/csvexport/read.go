package csvexport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrMalformed reports an export file that does not follow the layout.
var ErrMalformed = errors.New("malformed export")

// Row is one student line of an export file.
type Row struct {
	Name   string
	Grade  string
	Scores map[string]int
}

// Sheet is a parsed export file.
type Sheet struct {
	Competencies []string
	Rows         []Row
}

// Read parses text produced by Export.
func Read(r io.Reader) (Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return Sheet{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) == 0 {
		return Sheet{}, fmt.Errorf("%w: missing header", ErrMalformed)
	}
	header := records[0]
	if len(header) < 2 || header[0] != HeaderName || header[1] != HeaderGrade {
		return Sheet{}, fmt.Errorf("%w: unexpected header %q", ErrMalformed, header)
	}

	sheet := Sheet{Competencies: header[2:]}
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return Sheet{}, fmt.Errorf("%w: row %d has %d fields, want %d", ErrMalformed, i+1, len(rec), len(header))
		}
		row := Row{Name: rec[0], Grade: rec[1], Scores: make(map[string]int, len(sheet.Competencies))}
		for j, name := range sheet.Competencies {
			v, err := strconv.Atoi(rec[j+2])
			if err != nil {
				return Sheet{}, fmt.Errorf("%w: row %d column %q: %v", ErrMalformed, i+1, name, err)
			}
			row.Scores[name] = v
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
