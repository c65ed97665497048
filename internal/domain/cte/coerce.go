// Package cte convierte los registros de texto crudo de un CT-e en filas tipadas del reporte.
package cte

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cte-report/internal/domain/entity"
	pkgcte "github.com/jhoicas/cte-report/pkg/cte"
)

// ToReportRow aplica la conversión de tipos columna por columna.
// Un valor que no se puede convertir queda como "sin valor" y no afecta al resto de la fila.
func ToReportRow(rec *entity.ShipmentRecord) entity.ReportRow {
	if rec == nil {
		return entity.ReportRow{}
	}
	return entity.ReportRow{
		Source:           rec.Source,
		IssuerName:       rec.IssuerName,
		IssueDate:        ParseDate(rec.IssueDate),
		PartnerDocNumber: rec.PartnerDocNumber,
		DocumentNumber:   rec.DocumentNumber,
		SenderName:       rec.SenderName,
		ReceiverName:     rec.ReceiverName,
		FreightValue:     ParseDecimal(rec.FreightValue),
		FretePeso:        ParseDecimal(rec.Charges.Get(pkgcte.ChargeFretePeso)),
		GRIS:             ParseDecimal(rec.Charges.Get(pkgcte.ChargeGRIS)),
		Pedagio:          ParseDecimal(rec.Charges.Get(pkgcte.ChargePedagio)),
		M3:               ParseDecimal(rec.Measures.Get(pkgcte.MeasureM3)),
		PesoReal:         ParseDecimal(rec.Measures.Get(pkgcte.MeasurePesoReal)),
		PesoBaseCalculo:  ParseDecimal(rec.Measures.Get(pkgcte.MeasurePesoBaseCalculo)),
		CargoValue:       ParseDecimal(rec.CargoValue),
	}
}

// ParseDecimal convierte el texto del XML (punto decimal, sin separador de miles).
// nil, vacío o basura -> NullDecimal inválido.
func ParseDecimal(s *string) decimal.NullDecimal {
	if s == nil {
		return decimal.NullDecimal{}
	}
	raw := strings.TrimSpace(*s)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseDate interpreta la fecha con el único formato aceptado (YYYY-MM-DD); si falla devuelve nil.
func ParseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(pkgcte.IssueDateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &t
}
