package report

import (
	"context"

	"github.com/jhoicas/cte-report/internal/domain/entity"
)

// MailSource entrega los correos de la carpeta de CT-e en el orden del buzón.
// Fetch falla con domain.ErrSourceUnavailable si no se pudo llegar al buzón.
type MailSource interface {
	Fetch(ctx context.Context) ([]entity.Message, error)
	Close() error
}

// StagingArea directorio temporal donde se materializan los adjuntos.
type StagingArea interface {
	Save(name string, content []byte) (string, error)
	Close() error
}

// StagingFactory crea el área al inicio de la corrida.
type StagingFactory func() (StagingArea, error)

// AttachmentNormalizer convierte el adjunto materializado en texto XML.
// Supports evita materializar adjuntos que no son .xml ni .zip.
type AttachmentNormalizer interface {
	Supports(name string) bool
	NormalizeStaged(name, filePath string) (string, error)
}

// FieldExtractor arma el registro crudo a partir del XML.
type FieldExtractor interface {
	Extract(payload string) (*entity.ShipmentRecord, error)
}

// ReportWriter escribe todas las filas de una vez.
type ReportWriter interface {
	Write(path string, rows []entity.ReportRow) error
}

// ReportPublisher copia el reporte terminado a otro destino (opcional).
type ReportPublisher interface {
	Publish(ctx context.Context, filePath string) (string, error)
}

// RunMetrics contadores de la corrida (opcional).
type RunMetrics interface {
	ObserveAttachment(outcome string)
	SetRows(n int)
	Flush(ctx context.Context) error
}
