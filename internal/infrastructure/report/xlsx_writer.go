package report

import (
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cte-report/internal/domain/entity"
	"github.com/jhoicas/cte-report/pkg/cte"
)

// SheetName hoja donde se escriben las filas.
const SheetName = "CTe"

const dateNumFmt = "yyyy-mm-dd"

// XLSXWriter escribe el reporte como libro de Excel.
type XLSXWriter struct{}

// NewXLSXWriter crea el writer.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Write crea el libro con encabezado y una fila por registro.
func (w *XLSXWriter) Write(path string, rows []entity.ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	header := make([]any, len(cte.Columns))
	for i, c := range cte.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: encabezado: %w", err)
	}

	fmtStr := dateNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr})
	if err != nil {
		return fmt.Errorf("xlsx: estilo de fecha: %w", err)
	}

	for i, r := range rows {
		rowNum := i + 2
		for j, v := range cellValues(r) {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return fmt.Errorf("xlsx: celda (%d,%d): %w", j+1, rowNum, err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("xlsx: escribir %s: %w", cell, err)
			}
			if _, ok := v.(time.Time); ok {
				if err := f.SetCellStyle(SheetName, cell, cell, dateStyle); err != nil {
					return fmt.Errorf("xlsx: estilo %s: %w", cell, err)
				}
			}
		}
	}

	return replaceFile(path, func(tmp string) error {
		out, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("xlsx: crear archivo: %w", err)
		}
		if err := f.Write(out); err != nil {
			out.Close()
			return fmt.Errorf("xlsx: guardar: %w", err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("xlsx: cerrar archivo: %w", err)
		}
		return nil
	})
}
