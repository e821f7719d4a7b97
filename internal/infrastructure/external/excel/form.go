// Package excel reads operator-filled report forms from .xlsx workbooks and
// writes blank form templates for each report kind.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/station-report/internal/domain/report"
)

// SheetName is the worksheet that carries the form
const SheetName = "报告表单"

// Reserved keys in column A
const (
	keyHeader  = "key"
	keyKind    = "kind"
	keyStation = "station"
)

// Form is the content of one filled workbook
type Form struct {
	Kind    report.Kind
	Station string
	Fields  report.FieldSet
}

// FormReader parses filled report workbooks
type FormReader struct {
	logger *zap.Logger
}

// NewFormReader creates a new FormReader
func NewFormReader(logger *zap.Logger) *FormReader {
	return &FormReader{logger: logger}
}

// ReadFile opens and parses the workbook at path
func (r *FormReader) ReadFile(path string) (*Form, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open form: %w", err)
	}
	defer f.Close()

	return r.parse(f)
}

// Read parses a workbook from a stream
func (r *FormReader) Read(src io.Reader) (*Form, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open form: %w", err)
	}
	defer f.Close()

	return r.parse(f)
}

func (r *FormReader) parse(f *excelize.File) (*Form, error) {
	sheet := SheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	form := &Form{Fields: report.FieldSet{}}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		var value string
		if len(row) > 1 {
			value = row[1]
		}

		switch key {
		case "", keyHeader:
			continue
		case keyKind:
			kind, err := report.ParseKind(value)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			form.Kind = kind
		case keyStation:
			form.Station = strings.TrimSpace(value)
		default:
			form.Fields[key] = value
		}
	}

	if form.Kind == "" {
		return nil, fmt.Errorf("form does not declare a report kind")
	}

	r.logger.Debug("Report form parsed",
		zap.String("sheet", sheet),
		zap.String("kind", form.Kind.String()),
		zap.Int("fields", len(form.Fields)))
	return form, nil
}
