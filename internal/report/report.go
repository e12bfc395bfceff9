// Package report renders attendance data into downloadable artifacts
// (xlsx workbook, csv, pdf). It never returns an empty artifact: a daily
// report is zero-filled over its interval and a student summary without rows
// carries one placeholder row.
package report

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"od-portal/backend/internal/academic"
	pkgerrors "od-portal/backend/pkg/errors"
)

// Format output format of an export
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts xlsx, csv or pdf; empty defaults to xlsx
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// ContentType MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Provenance where the report rows came from
type Provenance string

const (
	ProvenanceComputed    Provenance = "computed"
	ProvenanceFallback    Provenance = "fallback"
	ProvenancePlaceholder Provenance = "placeholder"
)

// Filter one applied query filter, shown in the metadata block
type Filter struct {
	Name  string
	Value string
}

// Metadata travels with every export: second sheet in xlsx, header block in csv and pdf
type Metadata struct {
	Title       string
	Institution string
	GeneratedAt time.Time
	Filters     []Filter
	RowCount    int
	Source      Provenance
}

func (m Metadata) pairs() []Filter {
	pairs := []Filter{
		{Name: "Report", Value: m.Title},
		{Name: "Institution", Value: m.Institution},
		{Name: "Generated At", Value: m.GeneratedAt.Format(time.RFC3339)},
		{Name: "Data Source", Value: string(m.Source)},
		{Name: "Row Count", Value: strconv.Itoa(m.RowCount)},
	}
	if len(m.Filters) == 0 {
		return append(pairs, Filter{Name: "Filters", Value: "none"})
	}
	for _, f := range m.Filters {
		pairs = append(pairs, Filter{Name: "Filter: " + f.Name, Value: f.Value})
	}
	return pairs
}

// SummaryRow per-student totals of approved requests
type SummaryRow struct {
	StudentID      string
	Name           string
	RegisterNumber string
	Batch          int
	Semester       int
	LeaveCount     int
	ODCount        int
	Tutor          string
	Email          string
	Phone          string
}

// PlaceholderSummaryRow the single row of an empty summary
func PlaceholderSummaryRow() SummaryRow {
	return SummaryRow{
		Name:           "No records found",
		RegisterNumber: "N/A",
		Tutor:          "N/A",
		Email:          "N/A",
		Phone:          "N/A",
	}
}

// Artifact a rendered export
type Artifact struct {
	Filename    string
	ContentType string
	Body        *bytes.Buffer
	Meta        Metadata
}

// table format-independent grid handed to the renderers
type table struct {
	headers []string
	weights []float64 // relative column widths
	numeric []bool    // right-aligned columns
	rows    [][]interface{}
}

type renderFunc func(t *table, meta Metadata) (*bytes.Buffer, error)

var renderers = map[Format]renderFunc{
	FormatXLSX: renderXLSX,
	FormatCSV:  renderCSV,
	FormatPDF:  renderPDF,
}

// ────────────────────── MaterializeDaily ──────────────────────

// MaterializeDaily renders a daily series. An empty series is replaced by one
// zero row per day of iv.
func MaterializeDaily(iv academic.Interval, series []academic.DailyCount, meta Metadata, format Format) (*Artifact, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		series = academic.ComputeDailySeries(iv, nil, nil, nil)
	}

	t := &table{
		headers: []string{"Date", "Weekday", "Students on Leave", "Students on OD"},
		weights: []float64{1.2, 1.2, 1, 1},
		numeric: []bool{false, false, true, true},
		rows:    make([][]interface{}, 0, len(series)),
	}
	for _, dc := range series {
		t.rows = append(t.rows, []interface{}{
			academic.FormatDate(dc.Date),
			dc.Date.Weekday().String(),
			dc.LeaveCount,
			dc.ODCount,
		})
	}

	meta.RowCount = len(t.rows)
	if meta.Title == "" {
		meta.Title = "Daily Leave and OD Attendance"
	}
	return render(t, meta, format)
}

// ────────────────────── MaterializeSummary ──────────────────────

// MaterializeSummary renders per-student totals. No rows yields exactly one
// placeholder row.
func MaterializeSummary(rows []SummaryRow, meta Metadata, format Format) (*Artifact, error) {
	if len(rows) == 0 {
		rows = []SummaryRow{PlaceholderSummaryRow()}
	}

	t := &table{
		headers: []string{"Name", "Register Number", "Batch", "Semester", "Leave Count", "OD Count", "Tutor", "Email", "Phone"},
		weights: []float64{1.8, 1.4, 0.7, 0.8, 0.8, 0.8, 1.4, 2, 1.2},
		numeric: []bool{false, false, true, true, true, true, false, false, false},
		rows:    make([][]interface{}, 0, len(rows)),
	}
	for _, r := range rows {
		t.rows = append(t.rows, []interface{}{
			r.Name, r.RegisterNumber, r.Batch, r.Semester, r.LeaveCount, r.ODCount, r.Tutor, r.Email, r.Phone,
		})
	}

	meta.RowCount = len(t.rows)
	if meta.Title == "" {
		meta.Title = "Student Leave and OD Summary"
	}
	return render(t, meta, format)
}

// render runs the format renderer; failures and panics inside the underlying
// document libraries surface as *ExportGenerationError
func render(t *table, meta Metadata, format Format) (artifact *Artifact, err error) {
	fn, ok := renderers[format]
	if !ok {
		return nil, &pkgerrors.ExportGenerationError{Format: string(format), Err: fmt.Errorf("no renderer")}
	}

	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			err = &pkgerrors.ExportGenerationError{Format: string(format), Err: fmt.Errorf("renderer panic: %v", r)}
		}
	}()

	buf, rerr := fn(t, meta)
	if rerr != nil {
		return nil, &pkgerrors.ExportGenerationError{Format: string(format), Err: rerr}
	}
	if buf == nil || buf.Len() == 0 {
		return nil, &pkgerrors.ExportGenerationError{Format: string(format), Err: fmt.Errorf("empty output")}
	}

	return &Artifact{
		Filename:    filename(meta, format),
		ContentType: format.ContentType(),
		Body:        buf,
		Meta:        meta,
	}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func filename(meta Metadata, format Format) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(meta.Title), "_"), "_")
	if slug == "" {
		slug = "report"
	}
	return fmt.Sprintf("%s_%s.%s", slug, meta.GeneratedAt.Format("20060102_150405"), format)
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
