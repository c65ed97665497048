// Package metrics contadores de la corrida con prometheus/client_golang. Como el proceso es
// un batch sin endpoint HTTP, las métricas se envían a un Pushgateway al terminar.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	dto "github.com/prometheus/client_model/go"

	"github.com/jhoicas/cte-report/pkg/logger"
)

// RunMetrics registro privado con las métricas de una corrida.
type RunMetrics struct {
	reg         *prometheus.Registry
	attachments *prometheus.CounterVec
	rows        prometheus.Gauge
	pushURL     string
	job         string
	log         *logger.Logger
}

// NewRunMetrics crea y registra las métricas. pushURL vacío = no se envían, solo se registran en el log.
func NewRunMetrics(pushURL, job string, log *logger.Logger) (*RunMetrics, error) {
	if log == nil {
		log = logger.Nop()
	}
	m := &RunMetrics{
		reg: prometheus.NewRegistry(),
		attachments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cte_report_attachments_total",
				Help: "Adjuntos procesados por resultado.",
			},
			[]string{"outcome"},
		),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cte_report_rows",
			Help: "Filas escritas en el último reporte.",
		}),
		pushURL: pushURL,
		job:     job,
		log:     log,
	}
	if err := m.reg.Register(m.attachments); err != nil {
		return nil, fmt.Errorf("metrics: registrar contador: %w", err)
	}
	if err := m.reg.Register(m.rows); err != nil {
		return nil, fmt.Errorf("metrics: registrar gauge: %w", err)
	}
	return m, nil
}

// ObserveAttachment suma un adjunto con su resultado.
func (m *RunMetrics) ObserveAttachment(outcome string) {
	m.attachments.WithLabelValues(outcome).Inc()
}

// SetRows fija la cantidad de filas escritas.
func (m *RunMetrics) SetRows(n int) {
	m.rows.Set(float64(n))
}

// Flush envía las métricas al Pushgateway si está configurado; si no, las deja en el log.
func (m *RunMetrics) Flush(ctx context.Context) error {
	if m.pushURL == "" {
		return m.logSnapshot()
	}
	if err := push.New(m.pushURL, m.job).Gatherer(m.reg).PushContext(ctx); err != nil {
		return fmt.Errorf("metrics: push a %s: %w", m.pushURL, err)
	}
	m.log.Debug().Str("pushgateway", m.pushURL).Str("job", m.job).Msg("métricas enviadas")
	return nil
}

// logSnapshot recorre el registro privado y escribe un evento por serie.
func (m *RunMetrics) logSnapshot() error {
	families, err := m.reg.Gather()
	if err != nil {
		return fmt.Errorf("metrics: recolectar: %w", err)
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			ev := m.log.Info().Str("metrica", mf.GetName())
			for _, lp := range metric.GetLabel() {
				ev = ev.Str(lp.GetName(), lp.GetValue())
			}
			ev.Float64("valor", sampleValue(mf.GetType(), metric)).Msg("métrica de la corrida")
		}
	}
	return nil
}

func sampleValue(t dto.MetricType, metric *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue()
	default:
		return metric.GetUntyped().GetValue()
	}
}

// Counter devuelve el contador de un resultado.
func (m *RunMetrics) Counter(outcome string) prometheus.Counter {
	return m.attachments.WithLabelValues(outcome)
}
