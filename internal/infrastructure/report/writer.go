// Package report serializa las filas del reporte de CT-e en un archivo tabular (XLSX o CSV).
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cte-report/internal/domain/entity"
)

// Writer escribe el reporte completo de una vez, reemplazando cualquier archivo previo.
type Writer interface {
	Write(path string, rows []entity.ReportRow) error
}

// NewWriterFor elige el formato por extensión: .csv -> CSV; cualquier otra -> XLSX.
func NewWriterFor(path string) Writer {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return NewCSVWriter()
	}
	return NewXLSXWriter()
}

// ContentType tipo MIME del archivo según extensión.
func ContentType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// cellValues valores de la fila en el orden de cte.Columns. nil = celda vacía; los montos van como float64.
func cellValues(r entity.ReportRow) []any {
	return []any{
		str(r.IssuerName),
		date(r.IssueDate),
		str(r.PartnerDocNumber),
		str(r.DocumentNumber),
		str(r.SenderName),
		str(r.ReceiverName),
		num(r.FreightValue),
		num(r.FretePeso),
		num(r.GRIS),
		num(r.Pedagio),
		num(r.M3),
		num(r.PesoReal),
		num(r.PesoBaseCalculo),
		num(r.CargoValue),
	}
}

func str(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func date(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func num(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Float64()
	return f
}

const reportFileMode = 0o644

// replaceFile escribe con write en un temporal del mismo directorio y lo renombra al destino.
func replaceFile(path string, write func(tmp string) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".*-"+filepath.Base(path))
	if err != nil {
		return fmt.Errorf("report: crear temporal en %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	// CreateTemp crea con 0600
	if err := tmp.Chmod(reportFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("report: permisos de %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: cerrar temporal %s: %w", tmpName, err)
	}

	if err := write(tmpName); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("report: reemplazar %s: %w", path, err)
	}
	return nil
}
