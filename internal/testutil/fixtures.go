// Package testutil reúne documentos CT-e y adjuntos de ejemplo usados por los tests de varios paquetes.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// FullCTeXML CT-e con todos los campos del reporte. Los xNome de emit/rem/receb aparecen
// antes de los componentes para que una búsqueda "primer xNome" sin rol falle.
const FullCTeXML = `<?xml version="1.0" encoding="UTF-8"?>
<cteProc xmlns="http://www.portalfiscal.inf.br/cte" versao="4.00">
  <CTe>
    <infCte Id="CTe35240312345678000190570010000123451000123456" versao="4.00">
      <ide>
        <nCT>12345</nCT>
        <dhEmi>2024-03-15T10:20:30-03:00</dhEmi>
      </ide>
      <compl>
        <xObs>Redespacho referente ao CT-e: 000987-1 emitido pelo parceiro</xObs>
      </compl>
      <emit>
        <CNPJ>12345678000190</CNPJ>
        <xNome>TRANSPORTES RAPIDO LTDA</xNome>
      </emit>
      <rem>
        <CNPJ>98765432000110</CNPJ>
        <xNome>INDUSTRIA REMETENTE SA</xNome>
      </rem>
      <receb>
        <CNPJ>11222333000144</CNPJ>
        <xNome>DISTRIBUIDORA RECEBEDORA ME</xNome>
      </receb>
      <vPrest>
        <vTPrest>1500.50</vTPrest>
        <vRec>1500.50</vRec>
        <Comp>
          <xNome>FRETE PESO</xNome>
          <vComp>1200.00</vComp>
        </Comp>
        <Comp>
          <xNome>GRIS</xNome>
          <vComp>150.25</vComp>
        </Comp>
        <Comp>
          <xNome>PEDAGIO</xNome>
          <vComp>150.25</vComp>
        </Comp>
        <Comp>
          <xNome>TAXA DE DESPACHO</xNome>
          <vComp>0.00</vComp>
        </Comp>
      </vPrest>
      <infCTeNorm>
        <infCarga>
          <vCarga>45000.00</vCarga>
          <proPred>AUTOPECAS</proPred>
          <infQ>
            <cUnid>00</cUnid>
            <tpMed>M3</tpMed>
            <qCarga>12.5000</qCarga>
          </infQ>
          <infQ>
            <cUnid>01</cUnid>
            <tpMed>PESO REAL</tpMed>
            <qCarga>850.0000</qCarga>
          </infQ>
          <infQ>
            <cUnid>01</cUnid>
            <tpMed>PESO BASE DE CALCULO</tpMed>
            <qCarga>3125.0000</qCarga>
          </infQ>
        </infCarga>
      </infCTeNorm>
    </infCte>
  </CTe>
</cteProc>`

// MinimalCTeXML CT-e con solo emit/xNome y dhEmi.
const MinimalCTeXML = `<?xml version="1.0" encoding="UTF-8"?>
<cteProc xmlns="http://www.portalfiscal.inf.br/cte">
  <CTe>
    <infCte>
      <ide>
        <dhEmi>2024-04-02T08:00:00-03:00</dhEmi>
      </ide>
      <emit>
        <xNome>TRANSPORTADORA MINIMA</xNome>
      </emit>
    </infCte>
  </CTe>
</cteProc>`

// ZipOf empaqueta las entradas (nombre -> contenido) en un ZIP en memoria, en el orden dado.
func ZipOf(entries ...Entry) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := zw.Create(e.Name)
		if err != nil {
			panic(fmt.Sprintf("zip: crear entrada %s: %v", e.Name, err))
		}
		if _, err := fw.Write([]byte(e.Content)); err != nil {
			panic(fmt.Sprintf("zip: escribir %s: %v", e.Name, err))
		}
	}
	if err := zw.Close(); err != nil {
		panic(fmt.Sprintf("zip: cerrar archivo: %v", err))
	}
	return buf.Bytes()
}

// Entry entrada de ZipOf.
type Entry struct {
	Name    string
	Content string
}
