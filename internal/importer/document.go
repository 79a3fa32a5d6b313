// Package importer reconciles spreadsheet exports into assets, controls and
// risk assessments.
package importer

import "strings"

// Document is the storage-agnostic view of a workbook: named sheets, each a
// header row plus data rows. The reconciler operates only on this model; see
// workbook.go for the xlsx loader.
type Document struct {
	Sheets []Sheet
}

type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Cell returns the trimmed value at (row, col), tolerating ragged rows.
func (s *Sheet) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// riskSheet is the first sheet whose name contains both "risk" and "detail"
// (case-insensitive), falling back to the first sheet in the document.
func (d *Document) riskSheet() *Sheet {
	for i := range d.Sheets {
		name := strings.ToLower(d.Sheets[i].Name)
		if strings.Contains(name, "risk") && strings.Contains(name, "detail") {
			return &d.Sheets[i]
		}
	}
	if len(d.Sheets) > 0 {
		return &d.Sheets[0]
	}
	return nil
}

// controlsSheet is the first sheet whose name contains "control"; nil when
// absent, in which case control import is skipped.
func (d *Document) controlsSheet() *Sheet {
	for i := range d.Sheets {
		if strings.Contains(strings.ToLower(d.Sheets[i].Name), "control") {
			return &d.Sheets[i]
		}
	}
	return nil
}
