package cte_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cte-report/internal/domain"
	"github.com/jhoicas/cte-report/internal/infrastructure/cte"
	"github.com/jhoicas/cte-report/internal/testutil"
)

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestExtract_DocumentoCompleto(t *testing.T) {
	ex := cte.NewExtractor(nil)

	rec, err := ex.Extract(testutil.FullCTeXML)
	require.NoError(t, err)

	assert.Equal(t, "TRANSPORTES RAPIDO LTDA", deref(rec.IssuerName))
	assert.Equal(t, "2024-03-15", deref(rec.IssueDate))
	assert.Equal(t, "000987-1", deref(rec.PartnerDocNumber))
	assert.Equal(t, "12345", deref(rec.DocumentNumber))
	assert.Equal(t, "INDUSTRIA REMETENTE SA", deref(rec.SenderName))
	assert.Equal(t, "DISTRIBUIDORA RECEBEDORA ME", deref(rec.ReceiverName))
	assert.Equal(t, "1500.50", deref(rec.FreightValue))
	assert.Equal(t, "45000.00", deref(rec.CargoValue))

	assert.Equal(t, "1200.00", deref(rec.Charges.FretePeso))
	assert.Equal(t, "150.25", deref(rec.Charges.GRIS))
	assert.Equal(t, "150.25", deref(rec.Charges.Pedagio))

	assert.Equal(t, "12.5000", deref(rec.Measures.M3))
	assert.Equal(t, "850.0000", deref(rec.Measures.PesoReal))
	assert.Equal(t, "3125.0000", deref(rec.Measures.PesoBaseCalculo))
}

func TestExtract_SinVCargaSoloAfectaEsaColumna(t *testing.T) {
	ex := cte.NewExtractor(nil)
	payload := strings.Replace(testutil.FullCTeXML, "<vCarga>45000.00</vCarga>", "", 1)

	rec, err := ex.Extract(payload)
	require.NoError(t, err)

	assert.Nil(t, rec.CargoValue)
	assert.NotNil(t, rec.IssuerName)
	assert.NotNil(t, rec.FreightValue)
	assert.NotNil(t, rec.Measures.PesoReal)
	assert.NotNil(t, rec.Charges.GRIS)
}

func TestExtract_NombresPorRol(t *testing.T) {
	ex := cte.NewExtractor(nil)
	// receb aparece antes que emit: la búsqueda por rol no depende del orden.
	payload := `<cte><receb><xNome>RECEBEDOR</xNome></receb><rem><xNome>REMETENTE</xNome></rem><emit><xNome>EMITENTE</xNome></emit></cte>`

	rec, err := ex.Extract(payload)
	require.NoError(t, err)
	assert.Equal(t, "EMITENTE", deref(rec.IssuerName))
	assert.Equal(t, "REMETENTE", deref(rec.SenderName))
	assert.Equal(t, "RECEBEDOR", deref(rec.ReceiverName))
}

func TestExtract_RolSinXNome(t *testing.T) {
	ex := cte.NewExtractor(nil)
	rec, err := ex.Extract(`<cte><rem><CNPJ>1</CNPJ></rem><emit><xNome>EMITENTE</xNome></emit></cte>`)
	require.NoError(t, err)
	assert.Nil(t, rec.SenderName)
	assert.Nil(t, rec.ReceiverName)
	assert.Equal(t, "EMITENTE", deref(rec.IssuerName))
}

func TestExtract_ComponentesConAcentosYDesconocidos(t *testing.T) {
	ex := cte.NewExtractor(nil)
	payload := `<cte><vPrest>
	  <Comp><xNome> Pedágio </xNome><vComp>33.10</vComp></Comp>
	  <Comp><xNome>OUTROS</xNome><vComp>9.99</vComp></Comp>
	  <Comp><vComp>1.00</vComp></Comp>
	</vPrest></cte>`

	rec, err := ex.Extract(payload)
	require.NoError(t, err)
	assert.Equal(t, "33.10", deref(rec.Charges.Pedagio))
	assert.Nil(t, rec.Charges.FretePeso)
	assert.Nil(t, rec.Charges.GRIS)
}

func TestExtract_XNomeDeRolNoSeConfundeConComponente(t *testing.T) {
	ex := cte.NewExtractor(nil)
	// Un emit llamado "GRIS" no debe aparecer como componente de cobro.
	payload := `<cte><emit><xNome>GRIS</xNome></emit><vPrest><vTPrest>10</vTPrest></vPrest><x><vComp>99.00</vComp></x></cte>`

	rec, err := ex.Extract(payload)
	require.NoError(t, err)
	assert.Nil(t, rec.Charges.GRIS)
}

func TestExtract_InfQIncompletoSeIgnora(t *testing.T) {
	ex := cte.NewExtractor(nil)
	payload := `<cte><infQ><tpMed>M3</tpMed></infQ><infQ><tpMed>PESO REAL</tpMed><qCarga>10.0</qCarga></infQ></cte>`

	rec, err := ex.Extract(payload)
	require.NoError(t, err)
	assert.Nil(t, rec.Measures.M3)
	assert.Equal(t, "10.0", deref(rec.Measures.PesoReal))
}

func TestExtract_TablasNoSeArrastranEntreDocumentos(t *testing.T) {
	ex := cte.NewExtractor(nil)

	first, err := ex.Extract(testutil.FullCTeXML)
	require.NoError(t, err)
	require.NotNil(t, first.Charges.FretePeso)

	second, err := ex.Extract(testutil.MinimalCTeXML)
	require.NoError(t, err)
	assert.Nil(t, second.Charges.FretePeso)
	assert.Nil(t, second.Charges.GRIS)
	assert.Nil(t, second.Charges.Pedagio)
	assert.Nil(t, second.Measures.M3)
}

func TestExtract_XMLRotoConservaNumerosPorRegex(t *testing.T) {
	ex := cte.NewExtractor(nil)
	payload := `CT-e: 555-1 <nCT>777</nCT> <emit><<roto`

	rec, err := ex.Extract(payload)
	require.NoError(t, err)
	assert.Equal(t, "555-1", deref(rec.PartnerDocNumber))
	assert.Equal(t, "777", deref(rec.DocumentNumber))
	assert.Nil(t, rec.IssuerName)
}

func TestExtract_XMLIlegibleSinNumerosEsError(t *testing.T) {
	ex := cte.NewExtractor(nil)
	for _, payload := range []string{"", "   ", "<a><<roto", "texto plano sin etiquetas"} {
		_, err := ex.Extract(payload)
		assert.ErrorIs(t, err, domain.ErrMalformedDocument, "payload %q", payload)
	}
}

func TestExtract_BOMYEncodingDeclarado(t *testing.T) {
	ex := cte.NewExtractor(nil)
	payload := "\uFEFF" + `<?xml version="1.0" encoding="ISO-8859-1"?><cte><emit><xNome>SÃO JOSÉ</xNome></emit></cte>`

	rec, err := ex.Extract(payload)
	require.NoError(t, err)
	assert.Equal(t, "SÃO JOSÉ", deref(rec.IssuerName))
}
