package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// Adjuntos y documentos: todos son no fatales, se descarta solo el registro afectado.
	ErrUnsupportedAttachment = errors.New("tipo de adjunto no soportado")
	ErrNoXMLPayload          = errors.New("el archivo comprimido no contiene XML")
	ErrCorruptArchive        = errors.New("archivo comprimido corrupto")
	ErrInvalidEncoding       = errors.New("codificación de texto inválida")
	ErrMalformedDocument     = errors.New("documento CT-e ilegible")
	ErrAttachmentTooLarge    = errors.New("adjunto demasiado grande")

	// ErrSourceUnavailable es el único error que aborta la corrida completa.
	ErrSourceUnavailable = errors.New("fuente de correo no disponible")
)
