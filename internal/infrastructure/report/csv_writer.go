package report

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cte-report/internal/domain/entity"
	"github.com/jhoicas/cte-report/pkg/cte"
)

// csvRow misma forma y orden que cte.Columns; los valores ausentes quedan como cadena vacía.
type csvRow struct {
	IssuerName       string `csv:"Nome"`
	IssueDate        string `csv:"Data de Emissão"`
	PartnerDocNumber string `csv:"CTE Parceiro"`
	DocumentNumber   string `csv:"CTE"`
	SenderName       string `csv:"Remetente"`
	ReceiverName     string `csv:"Destinatario"`
	FreightValue     string `csv:"Vlr frete"`
	FretePeso        string `csv:"Frete Peso"`
	GRIS             string `csv:"GRIS"`
	Pedagio          string `csv:"Pedágio"`
	M3               string `csv:"M3"`
	PesoReal         string `csv:"PESO REAL"`
	PesoBaseCalculo  string `csv:"PESO BASE DE CALCULO"`
	CargoValue       string `csv:"Vlr mercadoria"`
}

// CSVWriter escribe el reporte como CSV separado por comas.
type CSVWriter struct{}

// NewCSVWriter crea el writer.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Write serializa las filas. Con cero filas igual se escribe el encabezado.
func (w *CSVWriter) Write(path string, rows []entity.ReportRow) error {
	out := make([]*csvRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toCSVRow(r))
	}

	return replaceFile(path, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("csv: crear archivo: %w", err)
		}
		// con cero filas gocsv escribe solo el encabezado
		if err := gocsv.Marshal(&out, f); err != nil {
			f.Close()
			return fmt.Errorf("csv: serializar: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("csv: cerrar archivo: %w", err)
		}
		return nil
	})
}

func toCSVRow(r entity.ReportRow) *csvRow {
	row := &csvRow{
		IssuerName:       deref(r.IssuerName),
		PartnerDocNumber: deref(r.PartnerDocNumber),
		DocumentNumber:   deref(r.DocumentNumber),
		SenderName:       deref(r.SenderName),
		ReceiverName:     deref(r.ReceiverName),
		FreightValue:     decStr(r.FreightValue),
		FretePeso:        decStr(r.FretePeso),
		GRIS:             decStr(r.GRIS),
		Pedagio:          decStr(r.Pedagio),
		M3:               decStr(r.M3),
		PesoReal:         decStr(r.PesoReal),
		PesoBaseCalculo:  decStr(r.PesoBaseCalculo),
		CargoValue:       decStr(r.CargoValue),
	}
	if r.IssueDate != nil {
		row.IssueDate = r.IssueDate.Format(cte.IssueDateLayout)
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decStr(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
