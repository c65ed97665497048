// Package storage publica el reporte terminado en un bucket compatible con S3 (MinIO, AWS S3, etc.).
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/cte-report/internal/infrastructure/report"
)

// MinIOConfig datos del bucket de destino.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// MinIOPublisher sube el archivo del reporte con PutObject.
type MinIOPublisher struct {
	client *minio.Client
	bucket string
	prefix string
	now    func() time.Time
	meta   map[string]string
}

// NewMinIOPublisher valida la configuración, crea el cliente y asegura que el bucket exista.
func NewMinIOPublisher(ctx context.Context, cfg MinIOConfig, metadata map[string]string) (*MinIOPublisher, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio: endpoint es obligatorio")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio: credenciales obligatorias")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio: bucket es obligatorio")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: crear cliente: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: verificar bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: crear bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinIOPublisher{
		client: cli,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		now:    time.Now,
		meta:   metadata,
	}, nil
}

// Publish sube el archivo y devuelve la clave del objeto.
func (p *MinIOPublisher) Publish(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("minio: abrir %s: %w", filePath, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("minio: stat %s: %w", filePath, err)
	}

	key := ObjectKey(p.prefix, p.now(), filepath.Base(filePath))
	_, err = p.client.PutObject(ctx, p.bucket, key, f, st.Size(), minio.PutObjectOptions{
		ContentType:  report.ContentType(filePath),
		UserMetadata: p.meta,
	})
	if err != nil {
		return "", fmt.Errorf("minio: subir %s: %w", key, err)
	}
	return key, nil
}

// ObjectKey arma "<prefix>/<YYYY-MM-DD>/<archivo>" (sin prefijo si está vacío).
func ObjectKey(prefix string, at time.Time, fileName string) string {
	prefix = strings.Trim(prefix, "/")
	return path.Join(prefix, at.Format("2006-01-02"), fileName)
}
