package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Exporter renders a tabular report into a downloadable document.
type Exporter interface {
	ContentType() string
	Extension() string
	Render(sheet string, header []string, rows [][]string) ([]byte, error)
}

// New returns the exporter for the requested format ("csv" or "excel").
func New(format string) (Exporter, error) {
	switch format {
	case "csv", "":
		return &csvExporter{}, nil
	case "excel":
		return &excelExporter{}, nil
	default:
		return nil, fmt.Errorf("formato no soportado: %s", format)
	}
}

type csvExporter struct{}

func (e *csvExporter) ContentType() string { return "text/csv" }
func (e *csvExporter) Extension() string   { return "csv" }

func (e *csvExporter) Render(_ string, header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type excelExporter struct{}

func (e *excelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *excelExporter) Extension() string { return "xlsx" }

func (e *excelExporter) Render(sheet string, header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Reporte"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	widths := make([]int, len(header))
	for i, title := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, boldStyle); err != nil {
			return nil, err
		}
		widths[i] = len(title)
	}

	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
			if col < len(widths) && len(value) > widths[col] {
				widths[col] = len(value)
			}
		}
	}

	for i, width := range widths {
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		w := float64(width) + 2
		if w > 60 {
			w = 60
		}
		if err := f.SetColWidth(sheet, colName, colName, w); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
