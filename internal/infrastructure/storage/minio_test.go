package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cte-report/internal/infrastructure/storage"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "reports/2024-03-15/cte_data.xlsx", storage.ObjectKey("reports", at, "cte_data.xlsx"))
	assert.Equal(t, "a/b/2024-03-15/cte_data.csv", storage.ObjectKey("/a/b/", at, "cte_data.csv"))
	assert.Equal(t, "2024-03-15/cte_data.xlsx", storage.ObjectKey("", at, "cte_data.xlsx"))
}

func TestNewMinIOPublisher_ValidaConfiguracion(t *testing.T) {
	ctx := context.Background()
	cases := []storage.MinIOConfig{
		{AccessKey: "k", SecretKey: "s", Bucket: "b"},
		{Endpoint: "localhost:9000", Bucket: "b"},
		{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"},
	}
	for _, cfg := range cases {
		_, err := storage.NewMinIOPublisher(ctx, cfg, nil)
		require.Error(t, err)
	}
}
