package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRead_DefaultsAndEnv(t *testing.T) {
	t.Setenv("POSTGRES_USERNAME", "catalog")
	t.Setenv("POSTGRES_DATABASE", "catalogdb")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_SSLMODE", "disable")
	t.Setenv("GRPC_PORT", "7070")

	cfg := Read()

	require.Equal(t, "7070", cfg.GRPCPort)
	require.Equal(t, "disable", cfg.PostgresSSLMode)
	require.Equal(t,
		"host=db port=5432 user=catalog password=secret dbname=catalogdb sslmode=disable",
		cfg.PostgresDSN(),
	)
}

func TestStorageEnabled(t *testing.T) {
	require.False(t, (&AppConfig{}).StorageEnabled())
	require.True(t, (&AppConfig{AWSBucket: "catalog-images"}).StorageEnabled())
}
