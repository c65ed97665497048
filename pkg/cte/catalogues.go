// Package cte contiene los catálogos fijos del reporte de CT-e (Conhecimento de Transporte
// Eletrônico, Brasil): componentes de cobro, tipos de medida y columnas de salida.
package cte

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// Componentes del valor de la prestación (Comp: xNome / vComp)
// =============================================================================

// ChargeKind identifica un componente de cobro conocido.
type ChargeKind string

const (
	ChargeFretePeso ChargeKind = "FRETE PESO" // Flete por peso
	ChargeGRIS      ChargeKind = "GRIS"       // Gerenciamento de Risco (seguro de riesgo)
	ChargePedagio   ChargeKind = "PEDAGIO"    // Peaje
)

// ChargeKinds en el orden de las columnas del reporte.
var ChargeKinds = []ChargeKind{ChargeFretePeso, ChargeGRIS, ChargePedagio}

// ParseChargeKind normaliza la descripción y la busca en el catálogo cerrado.
func ParseChargeKind(desc string) (ChargeKind, bool) {
	key := ChargeKind(NormalizeKey(desc))
	for _, k := range ChargeKinds {
		if k == key {
			return k, true
		}
	}
	return "", false
}

// =============================================================================
// Cantidades de carga (infQ: tpMed / qCarga)
// =============================================================================

// MeasureKind identifica un tipo de medida conocido.
type MeasureKind string

const (
	MeasureM3              MeasureKind = "M3"
	MeasurePesoReal        MeasureKind = "PESO REAL"
	MeasurePesoBaseCalculo MeasureKind = "PESO BASE DE CALCULO"
)

// MeasureKinds en el orden de las columnas del reporte.
var MeasureKinds = []MeasureKind{MeasureM3, MeasurePesoReal, MeasurePesoBaseCalculo}

// ParseMeasureKind normaliza el tipo de medida y lo busca en el catálogo cerrado.
func ParseMeasureKind(tpMed string) (MeasureKind, bool) {
	key := MeasureKind(NormalizeKey(tpMed))
	for _, k := range MeasureKinds {
		if k == key {
			return k, true
		}
	}
	return "", false
}

// NormalizeKey deja la descripción en mayúsculas, sin acentos y con espacios simples:
// "Pedágio " -> "PEDAGIO", "peso  base de cálculo" -> "PESO BASE DE CALCULO".
func NormalizeKey(s string) string {
	// El transformer guarda estado: uno nuevo por llamada.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(folded), " "))
}

// =============================================================================
// Columnas del reporte (orden fijo)
// =============================================================================

const (
	ColIssuerName       = "Nome"
	ColIssueDate        = "Data de Emissão"
	ColPartnerDocNumber = "CTE Parceiro"
	ColDocumentNumber   = "CTE"
	ColSenderName       = "Remetente"
	ColReceiverName     = "Destinatario"
	ColFreightValue     = "Vlr frete"
	ColFretePeso        = "Frete Peso"
	ColGRIS             = "GRIS"
	ColPedagio          = "Pedágio"
	ColM3               = "M3"
	ColPesoReal         = "PESO REAL"
	ColPesoBaseCalculo  = "PESO BASE DE CALCULO"
	ColCargoValue       = "Vlr mercadoria"
)

// Columns encabezados en el orden de escritura.
var Columns = []string{
	ColIssuerName,
	ColIssueDate,
	ColPartnerDocNumber,
	ColDocumentNumber,
	ColSenderName,
	ColReceiverName,
	ColFreightValue,
	ColFretePeso,
	ColGRIS,
	ColPedagio,
	ColM3,
	ColPesoReal,
	ColPesoBaseCalculo,
	ColCargoValue,
}

// IssueDateLayout único formato aceptado para la fecha de emisión (parte fecha de dhEmi).
const IssueDateLayout = "2006-01-02"
