package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Insumos-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10*1024*1024, cfg.Upload.MaxBytes)
	assert.Equal(t, 1000, cfg.Catalog.SearchWindow)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.Storage.Enabled(), "sin MINIO_ENDPOINT el archivo de documentos queda deshabilitado")
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("UPLOAD_MAX_BYTES", "2048")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 2048, cfg.Upload.MaxBytes)
	assert.True(t, cfg.Storage.Enabled())
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, int32(7), cfg.DB.MaxConns)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestLoad_LimiteInvalido(t *testing.T) {
	t.Setenv("UPLOAD_MAX_BYTES", "-1")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "insumos", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/insumos?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())
}
