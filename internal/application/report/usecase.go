// Package report orquesta la corrida completa del reporte de CT-e:
//
//	correos → área temporal → normalizar → extraer → convertir → acumular → escribir → (publicar)
//
// Todo es secuencial. Los fallos de un adjunto se registran y se descartan; solo la
// indisponibilidad del buzón (o no poder escribir el archivo) termina la corrida con error.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cte-report/internal/domain"
	domaincte "github.com/jhoicas/cte-report/internal/domain/cte"
	"github.com/jhoicas/cte-report/internal/domain/entity"
	"github.com/jhoicas/cte-report/pkg/logger"
)

// Resultado de cada adjunto (etiqueta "outcome" de las métricas).
const (
	OutcomeProcessed   = "processed"
	OutcomeUnsupported = "unsupported"
	OutcomeNoPayload   = "no_payload"
	OutcomeFailed      = "failed"
)

// Deps dependencias del caso de uso. Publisher y Metrics pueden ser nil.
type Deps struct {
	Source     MailSource
	NewStaging StagingFactory
	Normalizer AttachmentNormalizer
	Extractor  FieldExtractor
	Writer     ReportWriter
	Publisher  ReportPublisher
	Metrics    RunMetrics
	Log        *logger.Logger
}

// RunSummary resultado de una corrida.
type RunSummary struct {
	RunID        string
	Messages     int
	Attachments  int
	Processed    int
	Unsupported  int
	NoPayload    int
	Failed       int
	Rows         int
	ReportPath   string
	PublishedKey string
	PublishErr   error
}

// GenerateReportUseCase genera el reporte tabular a partir de la carpeta de correos.
type GenerateReportUseCase struct {
	deps       Deps
	reportPath string
}

// NewGenerateReportUseCase construye el caso de uso inyectando todas sus dependencias.
func NewGenerateReportUseCase(deps Deps, reportPath string) *GenerateReportUseCase {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &GenerateReportUseCase{deps: deps, reportPath: reportPath}
}

// Run ejecuta la corrida. El área temporal se elimina siempre antes de retornar.
func (uc *GenerateReportUseCase) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{RunID: uuid.NewString(), ReportPath: uc.reportPath}
	log := uc.deps.Log.Zerolog().With().Str("run_id", summary.RunID).Logger()

	// ── 1. Correos (fatal si el buzón no responde) ────────────────────────────
	msgs, err := uc.deps.Source.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSourceUnavailable) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("report: obtener correos: %w", err)
	}
	summary.Messages = len(msgs)
	log.Info().Int("mensajes", len(msgs)).Msg("correos obtenidos")

	// ── 2. Área temporal ──────────────────────────────────────────────────────
	area, err := uc.deps.NewStaging()
	if err != nil {
		return nil, fmt.Errorf("report: crear área temporal: %w", err)
	}
	defer func() {
		if err := area.Close(); err != nil {
			log.Error().Err(err).Msg("no se pudo eliminar el área temporal")
		}
	}()

	// ── 3. Adjunto por adjunto ────────────────────────────────────────────────
	var rows Collector
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("report: corrida cancelada: %w", err)
		}
		for _, att := range msg.Attachments {
			summary.Attachments++
			row, outcome, err := uc.processAttachment(area, msg, att)
			uc.observe(outcome)

			ev := log.With().Str("mensaje", msg.ID).Str("adjunto", att.Name).Logger()
			switch outcome {
			case OutcomeProcessed:
				summary.Processed++
				rows.Add(row)
				ev.Debug().Msg("CT-e procesado")
			case OutcomeUnsupported:
				summary.Unsupported++
				ev.Debug().Msg("adjunto ignorado")
			case OutcomeNoPayload:
				summary.NoPayload++
				ev.Info().Err(err).Msg("ZIP sin XML, se omite")
			default:
				summary.Failed++
				ev.Warn().Err(err).Msg("no se pudo procesar el CT-e, se descarta")
			}
		}
	}

	// ── 4. Escritura (siempre, aunque no haya filas) ──────────────────────────
	summary.Rows = rows.Len()
	if err := uc.deps.Writer.Write(uc.reportPath, rows.Rows()); err != nil {
		return summary, fmt.Errorf("report: escribir %s: %w", uc.reportPath, err)
	}
	log.Info().Int("filas", summary.Rows).Str("archivo", uc.reportPath).Msg("reporte escrito")

	// ── 5. Publicación y métricas (no fatales) ────────────────────────────────
	if uc.deps.Publisher != nil {
		key, err := uc.deps.Publisher.Publish(ctx, uc.reportPath)
		if err != nil {
			summary.PublishErr = err
			log.Error().Err(err).Msg("no se pudo publicar el reporte")
		} else {
			summary.PublishedKey = key
			log.Info().Str("clave", key).Msg("reporte publicado")
		}
	}
	if uc.deps.Metrics != nil {
		uc.deps.Metrics.SetRows(summary.Rows)
		if err := uc.deps.Metrics.Flush(ctx); err != nil {
			log.Warn().Err(err).Msg("no se pudieron enviar las métricas")
		}
	}

	return summary, nil
}

// processAttachment aplica normalizar → extraer → convertir a un adjunto.
func (uc *GenerateReportUseCase) processAttachment(area StagingArea, msg entity.Message, att entity.Attachment) (entity.ReportRow, string, error) {
	if !uc.deps.Normalizer.Supports(att.Name) {
		return entity.ReportRow{}, OutcomeUnsupported, nil
	}

	staged, err := area.Save(att.Name, att.Content)
	if err != nil {
		return entity.ReportRow{}, OutcomeFailed, err
	}

	payload, err := uc.deps.Normalizer.NormalizeStaged(att.Name, staged)
	switch {
	case errors.Is(err, domain.ErrUnsupportedAttachment):
		return entity.ReportRow{}, OutcomeUnsupported, nil
	case errors.Is(err, domain.ErrNoXMLPayload):
		return entity.ReportRow{}, OutcomeNoPayload, err
	case err != nil:
		return entity.ReportRow{}, OutcomeFailed, err
	}

	rec, err := uc.deps.Extractor.Extract(payload)
	if err != nil {
		return entity.ReportRow{}, OutcomeFailed, err
	}
	rec.Source = msg.ID + "/" + att.Name
	return domaincte.ToReportRow(rec), OutcomeProcessed, nil
}

func (uc *GenerateReportUseCase) observe(outcome string) {
	if uc.deps.Metrics != nil {
		uc.deps.Metrics.ObserveAttachment(outcome)
	}
}

// LogSummary deja el resumen de la corrida en el log.
func LogSummary(l *logger.Logger, s *RunSummary) {
	if s == nil {
		return
	}
	level := zerolog.InfoLevel
	if s.Failed > 0 || s.PublishErr != nil {
		level = zerolog.WarnLevel
	}
	zl := l.Zerolog()
	zl.WithLevel(level).Str("run_id", s.RunID).
		Int("mensajes", s.Messages).
		Int("adjuntos", s.Attachments).
		Int("procesados", s.Processed).
		Int("ignorados", s.Unsupported).
		Int("zip_sin_xml", s.NoPayload).
		Int("fallidos", s.Failed).
		Int("filas", s.Rows).
		Str("archivo", s.ReportPath).
		Str("publicado", s.PublishedKey).
		Msg("corrida finalizada")
}
