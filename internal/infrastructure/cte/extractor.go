package cte

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/cte-report/internal/domain"
	"github.com/jhoicas/cte-report/internal/domain/entity"
	"github.com/jhoicas/cte-report/pkg/cte"
	"github.com/jhoicas/cte-report/pkg/logger"
)

// Roles que delimitan la búsqueda de xNome (la misma etiqueta se repite bajo cada uno).
const (
	RoleIssuer   = "emit"
	RoleSender   = "rem"
	RoleReceiver = "receb"
)

// Patrones sobre el texto crudo: se aplican aunque el árbol XML no se pueda construir.
var (
	partnerDocPattern     = regexp.MustCompile(`CT-e:\s+([0-9-]+)`)
	documentNumberPattern = regexp.MustCompile(`<nCT>(\d+)</nCT>`)
)

const bom = "\uFEFF"

// Extractor obtiene los campos del reporte a partir del XML de un CT-e.
// Cada búsqueda es independiente: un elemento ausente deja solo ese campo vacío.
type Extractor struct {
	log *logger.Logger
}

// NewExtractor crea el extractor. log puede ser nil.
func NewExtractor(log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{log: log}
}

// Extract construye el registro (posiblemente parcial).
// Solo devuelve domain.ErrMalformedDocument cuando no se pudo obtener ningún dato.
func (e *Extractor) Extract(payload string) (*entity.ShipmentRecord, error) {
	if strings.TrimSpace(strings.TrimPrefix(payload, bom)) == "" {
		return nil, fmt.Errorf("%w: contenido vacío", domain.ErrMalformedDocument)
	}

	rec := &entity.ShipmentRecord{
		PartnerDocNumber: firstSubmatch(partnerDocPattern, payload),
		DocumentNumber:   firstSubmatch(documentNumberPattern, payload),
	}

	doc, err := parseDocument(payload)
	if err != nil {
		if rec.PartnerDocNumber == nil && rec.DocumentNumber == nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
		}
		e.log.Warn().Err(err).Msg("XML no estructurado, solo se extraen los números de CT-e")
		return rec, nil
	}

	rec.IssuerName = e.roleName(doc, RoleIssuer)
	rec.SenderName = e.roleName(doc, RoleSender)
	rec.ReceiverName = e.roleName(doc, RoleReceiver)
	rec.FreightValue = firstText(doc, "vTPrest")
	rec.CargoValue = firstText(doc, "vCarga")
	rec.IssueDate = issueDate(doc)
	rec.Measures = measures(doc)
	rec.Charges = charges(doc)
	return rec, nil
}

// parseDocument arma el árbol. El payload ya es texto UTF-8, así que cualquier
// encoding declarado en el prólogo se lee tal cual.
func parseDocument(payload string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromString(strings.TrimPrefix(payload, bom)); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("documento sin elemento raíz")
	}
	return doc, nil
}

// roleName busca el primer elemento del rol y dentro de él el primer xNome.
func (e *Extractor) roleName(doc *etree.Document, role string) *string {
	el := doc.FindElement("//" + role)
	if el == nil {
		e.log.Debug().Str("rol", role).Msgf("elemento <%s> no encontrado", role)
		return nil
	}
	return textOf(el.FindElement(".//xNome"))
}

// issueDate toma solo la parte fecha de dhEmi (2024-03-15T10:20:30-03:00 -> 2024-03-15).
func issueDate(doc *etree.Document) *string {
	v := firstText(doc, "dhEmi")
	if v == nil {
		return nil
	}
	date, _, _ := strings.Cut(*v, "T")
	return &date
}

// measures recorre infQ y se queda con las medidas del catálogo.
func measures(doc *etree.Document) entity.CargoMeasures {
	var out entity.CargoMeasures
	for _, infQ := range doc.FindElements("//infQ") {
		tpMed := infQ.SelectElement("tpMed")
		qCarga := infQ.SelectElement("qCarga")
		if tpMed == nil || qCarga == nil {
			continue
		}
		kind, ok := cte.ParseMeasureKind(tpMed.Text())
		if !ok {
			continue
		}
		out.Set(kind, strings.TrimSpace(qCarga.Text()))
	}
	return out
}

// charges recorre vComp; la descripción es el xNome hermano bajo el mismo padre (Comp).
func charges(doc *etree.Document) entity.ChargeComponents {
	var out entity.ChargeComponents
	for _, vComp := range doc.FindElements("//vComp") {
		parent := vComp.Parent()
		if parent == nil {
			continue
		}
		name := parent.SelectElement("xNome")
		if name == nil {
			continue
		}
		kind, ok := cte.ParseChargeKind(name.Text())
		if !ok {
			continue
		}
		out.Set(kind, strings.TrimSpace(vComp.Text()))
	}
	return out
}

func firstText(doc *etree.Document, tag string) *string {
	return textOf(doc.FindElement("//" + tag))
}

// textOf devuelve el texto recortado; nil si el elemento no existe o está vacío.
func textOf(el *etree.Element) *string {
	if el == nil {
		return nil
	}
	s := strings.TrimSpace(el.Text())
	if s == "" {
		return nil
	}
	return &s
}

func firstSubmatch(re *regexp.Regexp, s string) *string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return nil
	}
	v := m[1]
	return &v
}
