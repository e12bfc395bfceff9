package report

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

const (
	dataSheet     = "Report"
	metadataSheet = "Metadata"
)

func renderXLSX(t *table, meta Metadata) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	// ── data sheet ──
	header := make([]interface{}, len(t.headers))
	for i, h := range t.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(t.headers))
	if err := f.SetCellStyle(dataSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, row := range t.rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := row
		if err := f.SetSheetRow(dataSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	for i, w := range t.weights {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(dataSheet, col, col, 12*w); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(dataSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	// ── metadata sheet ──
	if _, err := f.NewSheet(metadataSheet); err != nil {
		return nil, err
	}
	for i, kv := range meta.pairs() {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		pair := []interface{}{kv.Name, kv.Value}
		if err := f.SetSheetRow(metadataSheet, cell, &pair); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(metadataSheet, "A", "A", 22); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(metadataSheet, "B", "B", 40); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
