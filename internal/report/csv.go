package report

import (
	"bytes"
	"encoding/csv"
	"strings"
)

// renderCSV writes the metadata as "# name,value" records followed by the
// table header and rows
func renderCSV(t *table, meta Metadata) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	for _, kv := range meta.pairs() {
		if err := w.Write([]string{"# " + kv.Name, csvSafe(kv.Value)}); err != nil {
			return nil, err
		}
	}
	if err := w.Write(t.headers); err != nil {
		return nil, err
	}

	record := make([]string, len(t.headers))
	for _, row := range t.rows {
		for i, v := range row {
			if text, ok := v.(string); ok {
				record[i] = csvSafe(text)
			} else {
				record[i] = cellText(v)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}

// csvSafe quotes text that a spreadsheet would evaluate as a formula
func csvSafe(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
