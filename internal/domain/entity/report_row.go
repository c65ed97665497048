package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow fila del reporte con tipos ya convertidos.
// decimal.NullDecimal{Valid: false} y los punteros nil son el marcador explícito de "sin valor".
type ReportRow struct {
	Source string

	IssuerName       *string
	IssueDate        *time.Time
	PartnerDocNumber *string
	DocumentNumber   *string
	SenderName       *string
	ReceiverName     *string

	FreightValue    decimal.NullDecimal
	FretePeso       decimal.NullDecimal
	GRIS            decimal.NullDecimal
	Pedagio         decimal.NullDecimal
	M3              decimal.NullDecimal
	PesoReal        decimal.NullDecimal
	PesoBaseCalculo decimal.NullDecimal
	CargoValue      decimal.NullDecimal
}
