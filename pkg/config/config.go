package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Fuentes de correo soportadas.
const (
	SourceIMAP = "imap"
	SourceEML  = "eml"
)

// Config agrupa la configuración de la corrida (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Mail    MailConfig
	Report  ReportConfig
	S3      S3Config
	Metrics MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// MailConfig describe de dónde salen los correos con los CT-e.
// Folder/Subfolder corresponden a la carpeta del buzón y la subcarpeta fija (por defecto INBOX/XML).
type MailConfig struct {
	Source    string // "imap" o "eml"
	Host      string
	Port      int
	Username  string
	Password  string
	TLS       bool
	Folder    string
	Subfolder string
	EMLDir    string // directorio con archivos .eml cuando Source == "eml"
}

// Addr devuelve host:port del servidor IMAP.
func (c MailConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReportConfig salida tabular y área temporal.
type ReportConfig struct {
	Path       string // cte_data.xlsx por defecto; extensión .csv cambia el formato
	StagingDir string // directorio base del área temporal (vacío = directorio actual)
}

// S3Config publicación opcional del reporte en un bucket compatible con S3.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Enabled indica si hay que publicar el reporte.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// MetricsConfig envío opcional de métricas de la corrida a un Pushgateway.
type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, IMAP_HOST, REPORT_PATH, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "cte-report"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Mail: MailConfig{
			Source:    strings.ToLower(getString(v, "MAIL_SOURCE", SourceIMAP)),
			Host:      getString(v, "IMAP_HOST", ""),
			Port:      getInt(v, "IMAP_PORT", 993),
			Username:  getString(v, "IMAP_USERNAME", ""),
			Password:  getString(v, "IMAP_PASSWORD", ""),
			TLS:       getBool(v, "IMAP_TLS", true),
			Folder:    getString(v, "MAIL_FOLDER", "INBOX"),
			Subfolder: getString(v, "MAIL_SUBFOLDER", "XML"),
			EMLDir:    getString(v, "EML_DIR", "./mail"),
		},
		Report: ReportConfig{
			Path:       getString(v, "REPORT_PATH", "cte_data.xlsx"),
			StagingDir: getString(v, "STAGING_DIR", ""),
		},
		S3: S3Config{
			Endpoint:  getString(v, "S3_ENDPOINT", ""),
			AccessKey: getString(v, "S3_ACCESS_KEY", ""),
			SecretKey: getString(v, "S3_SECRET_KEY", ""),
			Bucket:    getString(v, "S3_BUCKET", ""),
			Prefix:    getString(v, "S3_PREFIX", "reports"),
			UseSSL:    getBool(v, "S3_USE_SSL", true),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: getString(v, "METRICS_PUSHGATEWAY_URL", ""),
			Job:            getString(v, "METRICS_JOB", "cte_report"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate comprueba que la fuente seleccionada tenga lo necesario para conectarse.
func (c *Config) Validate() error {
	var errs []error
	switch c.Mail.Source {
	case SourceIMAP:
		if c.Mail.Host == "" {
			errs = append(errs, errors.New("IMAP_HOST es obligatorio con MAIL_SOURCE=imap"))
		}
		if c.Mail.Username == "" {
			errs = append(errs, errors.New("IMAP_USERNAME es obligatorio con MAIL_SOURCE=imap"))
		}
		if c.Mail.Port <= 0 {
			errs = append(errs, fmt.Errorf("IMAP_PORT inválido: %d", c.Mail.Port))
		}
	case SourceEML:
		if c.Mail.EMLDir == "" {
			errs = append(errs, errors.New("EML_DIR es obligatorio con MAIL_SOURCE=eml"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_SOURCE desconocido %q (usar 'imap' o 'eml')", c.Mail.Source))
	}
	if c.Report.Path == "" {
		errs = append(errs, errors.New("REPORT_PATH no puede estar vacío"))
	}
	if c.S3.Enabled() && (c.S3.AccessKey == "" || c.S3.SecretKey == "") {
		errs = append(errs, errors.New("S3_ACCESS_KEY y S3_SECRET_KEY son obligatorios para publicar el reporte"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
