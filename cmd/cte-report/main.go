package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/cte-report/internal/application/report"
	infracte "github.com/jhoicas/cte-report/internal/infrastructure/cte"
	"github.com/jhoicas/cte-report/internal/infrastructure/mail"
	"github.com/jhoicas/cte-report/internal/infrastructure/metrics"
	infrareport "github.com/jhoicas/cte-report/internal/infrastructure/report"
	"github.com/jhoicas/cte-report/internal/infrastructure/staging"
	"github.com/jhoicas/cte-report/internal/infrastructure/storage"
	"github.com/jhoicas/cte-report/pkg/config"
	"github.com/jhoicas/cte-report/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("fuente", cfg.Mail.Source).
		Msg("iniciando corrida")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("la corrida terminó con error")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	source := newSource(cfg, log)
	defer func() {
		if err := source.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar sesión de correo")
		}
	}()

	deps := report.Deps{
		Source: source,
		NewStaging: func() (report.StagingArea, error) {
			a, err := staging.New(cfg.Report.StagingDir)
			if err != nil {
				return nil, err
			}
			return a, nil
		},
		Normalizer: infracte.NewNormalizer(),
		Extractor:  infracte.NewExtractor(log.Named("extractor")),
		Writer:     infrareport.NewWriterFor(cfg.Report.Path),
		Log:        log.Named("report"),
	}

	if cfg.S3.Enabled() {
		pub, err := storage.NewMinIOPublisher(ctx, storage.MinIOConfig{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			UseSSL:    cfg.S3.UseSSL,
		}, map[string]string{"app": cfg.App.Name, "fuente": cfg.Mail.Source})
		if err != nil {
			// la publicación es opcional: el reporte local se genera igual
			log.Error().Err(err).Msg("publicación en S3 deshabilitada")
		} else {
			deps.Publisher = pub
		}
	}

	// sin METRICS_PUSHGATEWAY_URL las métricas quedan solo en el registro local
	m, err := metrics.NewRunMetrics(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, log.Named("metrics"))
	if err != nil {
		log.Warn().Err(err).Msg("métricas deshabilitadas")
	} else {
		deps.Metrics = m
	}

	summary, err := report.NewGenerateReportUseCase(deps, cfg.Report.Path).Run(ctx)
	report.LogSummary(log, summary)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Msg("corrida interrumpida")
		}
		return err
	}
	return nil
}

func newSource(cfg *config.Config, log *logger.Logger) report.MailSource {
	if cfg.Mail.Source == config.SourceEML {
		return mail.NewEMLDirSource(cfg.Mail.EMLDir, log.Named("eml"))
	}
	return mail.NewIMAPSource(mail.IMAPConfig{
		Addr:      cfg.Mail.Addr(),
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		TLS:       cfg.Mail.TLS,
		Folder:    cfg.Mail.Folder,
		Subfolder: cfg.Mail.Subfolder,
	}, log.Named("imap"))
}
