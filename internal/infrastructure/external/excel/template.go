package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/station-report/internal/domain/report"
)

// textNumFmt is the builtin "@" format; it stops Excel from turning times into serial numbers
const textNumFmt = 49

// FormWriter produces blank workbooks for operators to fill in
type FormWriter struct {
	logger *zap.Logger
}

// NewFormWriter creates a new FormWriter
func NewFormWriter(logger *zap.Logger) *FormWriter {
	return &FormWriter{logger: logger}
}

// Template builds a blank form for kind, pre-filled with station when non-empty.
// The caller owns the returned file and must Close it.
func (w *FormWriter) Template(kind report.Kind, station string) (*excelize.File, error) {
	schema, ok := report.SchemaFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", report.ErrUnknownKind, kind)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := [][]string{
		{keyHeader, "value", "说明"},
		{keyKind, kind.String(), "报告类型：" + schema.Title},
		{keyStation, station, "站名（留空则使用上次保存的站名）"},
	}
	for _, sec := range schema.Sections {
		rows = append(rows, sectionRows(sec)...)
	}

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set %s: %w", cell, err)
			}
		}
	}

	if err := w.style(f, len(rows)); err != nil {
		f.Close()
		return nil, err
	}

	w.logger.Debug("Form template built", zap.String("kind", kind.String()), zap.Int("rows", len(rows)))
	return f, nil
}

// SaveTemplate writes a blank form for kind to path
func (w *FormWriter) SaveTemplate(kind report.Kind, station, path string) error {
	f, err := w.Template(kind, station)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	w.logger.Info("Form template saved", zap.String("kind", kind.String()), zap.String("path", path))
	return nil
}

func sectionRows(sec report.Section) [][]string {
	switch sec.Layout {
	case report.LayoutSignature:
		return [][]string{
			{sec.Key, "", sec.Label + "（" + sec.Role + "）姓名"},
			{sec.IDKey, "", sec.Label + "工号"},
		}
	case report.LayoutDateTime:
		return [][]string{{sec.Key, "", sec.Label + "，格式 2024-03-15T08:05"}}
	case report.LayoutMultiline:
		return [][]string{{sec.Key, "", sec.Label + "（可多行）"}}
	default:
		return [][]string{{sec.Key, "", sec.Label}}
	}
}

func (w *FormWriter) style(f *excelize.File, rows int) error {
	if err := f.SetColWidth(SheetName, "A", "A", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 48); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "C", "C", 36); err != nil {
		return err
	}

	valueStyle, err := f.NewStyle(&excelize.Style{
		NumFmt:    textNumFmt,
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(2, rows)
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, "B2", last, valueStyle)
}
