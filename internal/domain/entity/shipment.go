package entity

import "github.com/jhoicas/cte-report/pkg/cte"

// ShipmentRecord texto crudo extraído de un CT-e. Todos los campos son opcionales:
// nil significa que el elemento no estaba en el documento.
type ShipmentRecord struct {
	Source string // mensaje + nombre del adjunto, solo para trazabilidad

	IssuerName       *string // emit/xNome
	IssueDate        *string // dhEmi, solo la parte fecha (YYYY-MM-DD)
	PartnerDocNumber *string // "CT-e: 123-45" en el texto
	DocumentNumber   *string // <nCT>
	SenderName       *string // rem/xNome
	ReceiverName     *string // receb/xNome
	FreightValue     *string // vTPrest
	CargoValue       *string // vCarga

	Charges  ChargeComponents
	Measures CargoMeasures
}

// ChargeComponents componentes de cobro del catálogo cerrado cte.ChargeKinds.
type ChargeComponents struct {
	FretePeso *string
	GRIS      *string
	Pedagio   *string
}

// Set asigna el valor del componente; la última ocurrencia en el documento gana.
func (c *ChargeComponents) Set(kind cte.ChargeKind, value string) {
	v := value
	switch kind {
	case cte.ChargeFretePeso:
		c.FretePeso = &v
	case cte.ChargeGRIS:
		c.GRIS = &v
	case cte.ChargePedagio:
		c.Pedagio = &v
	}
}

// Get devuelve el valor del componente o nil.
func (c ChargeComponents) Get(kind cte.ChargeKind) *string {
	switch kind {
	case cte.ChargeFretePeso:
		return c.FretePeso
	case cte.ChargeGRIS:
		return c.GRIS
	case cte.ChargePedagio:
		return c.Pedagio
	}
	return nil
}

// CargoMeasures cantidades de carga del catálogo cerrado cte.MeasureKinds.
type CargoMeasures struct {
	M3              *string
	PesoReal        *string
	PesoBaseCalculo *string
}

// Set asigna la cantidad; la última ocurrencia en el documento gana.
func (m *CargoMeasures) Set(kind cte.MeasureKind, value string) {
	v := value
	switch kind {
	case cte.MeasureM3:
		m.M3 = &v
	case cte.MeasurePesoReal:
		m.PesoReal = &v
	case cte.MeasurePesoBaseCalculo:
		m.PesoBaseCalculo = &v
	}
}

// Get devuelve la cantidad o nil.
func (m CargoMeasures) Get(kind cte.MeasureKind) *string {
	switch kind {
	case cte.MeasureM3:
		return m.M3
	case cte.MeasurePesoReal:
		return m.PesoReal
	case cte.MeasurePesoBaseCalculo:
		return m.PesoBaseCalculo
	}
	return nil
}
