package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook loads an .xlsx file into the Document model. The first row of
// each sheet is taken as the header row.
func ReadWorkbook(path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	doc := &Document{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}

		sheet := Sheet{Name: name}
		if len(rows) > 0 {
			sheet.Headers = rows[0]
			sheet.Rows = rows[1:]
		}
		doc.Sheets = append(doc.Sheets, sheet)
	}

	return doc, nil
}
