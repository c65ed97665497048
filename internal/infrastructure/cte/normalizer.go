// Package cte convierte adjuntos de correo en texto XML de CT-e y extrae sus campos.
package cte

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/cte-report/internal/domain"
)

// Extensiones de adjunto reconocidas (comparación sin distinguir mayúsculas).
const (
	ExtXML = ".xml"
	ExtZIP = ".zip"
)

// maxXMLSize límite por entrada del ZIP (un CT-e real ronda los 10-50 KB).
var maxXMLSize int64 = 32 << 20

// latin1Decl detecta documentos que declaran ISO-8859-1 en el prólogo XML.
var latin1Decl = regexp.MustCompile(`(?i)^(?:\x{FEFF})?\s*<\?xml[^>]*encoding\s*=\s*["'](iso-?8859-1|latin-?1)["']`)

// Normalizer convierte un adjunto (nombre + bytes) en el texto XML del documento.
type Normalizer struct{}

// NewNormalizer crea el servicio.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// AttachmentExt devuelve la extensión en minúsculas ("" si no tiene).
func AttachmentExt(name string) string {
	return strings.ToLower(path.Ext(strings.TrimSpace(name)))
}

// Normalize devuelve el XML del adjunto.
//
// Retorna:
//   - domain.ErrUnsupportedAttachment si la extensión no es .xml ni .zip.
//   - domain.ErrNoXMLPayload          si el ZIP no tiene ninguna entrada .xml.
//   - domain.ErrCorruptArchive        si el ZIP no se puede abrir.
//   - domain.ErrInvalidEncoding       si el texto no es UTF-8 válido.
func (n *Normalizer) Normalize(name string, content []byte) (string, error) {
	switch AttachmentExt(name) {
	case ExtXML:
		return DecodeXML(content)
	case ExtZIP:
		return n.fromZip(name, content)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedAttachment, name)
	}
}

// NormalizeStaged lee el adjunto materializado en el área temporal y lo normaliza.
// name es el nombre original del adjunto (decide el tipo); filePath la copia en disco.
func (n *Normalizer) NormalizeStaged(name, filePath string) (string, error) {
	if !n.Supports(name) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedAttachment, name)
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("normalizer: leer %s: %w", filePath, err)
	}
	return n.Normalize(name, content)
}

// fromZip busca la primera entrada terminada en .xml y devuelve su texto.
func (n *Normalizer) fromZip(name string, content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", domain.ErrCorruptArchive, name, err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || AttachmentExt(f.Name) != ExtXML {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %q: abrir %s: %v", domain.ErrCorruptArchive, name, f.Name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxXMLSize+1))
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: %q: leer %s: %v", domain.ErrCorruptArchive, name, f.Name, err)
		}
		if int64(len(data)) > maxXMLSize {
			return "", fmt.Errorf("%w: %w: %q: %s supera %d bytes",
				domain.ErrCorruptArchive, domain.ErrAttachmentTooLarge, name, f.Name, maxXMLSize)
		}
		return DecodeXML(data)
	}
	return "", fmt.Errorf("%w: %q", domain.ErrNoXMLPayload, name)
}

// DecodeXML decodifica el contenido como UTF-8 sin pérdida (el BOM, si existe, se conserva).
// Solo si no es UTF-8 válido y el prólogo declara ISO-8859-1 se convierte desde Latin-1.
func DecodeXML(content []byte) (string, error) {
	_, _, err := transform.Bytes(encoding.UTF8Validator, content)
	if err == nil {
		return string(content), nil
	}
	head := content
	if len(head) > 256 {
		head = head[:256]
	}
	if !latin1Decl.Match(head) {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidEncoding, err)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("%w: latin-1: %v", domain.ErrInvalidEncoding, err)
	}
	return string(out), nil
}

// Supports indica si el nombre tiene una extensión que se procesa.
func (n *Normalizer) Supports(name string) bool {
	ext := AttachmentExt(name)
	return ext == ExtXML || ext == ExtZIP
}
