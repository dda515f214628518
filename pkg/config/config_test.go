package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/co2-ledger/pkg/config"
)

func TestLoad_SinClaveDeUmbrales_Falla(t *testing.T) {
	t.Setenv("THRESHOLD_SECRET_KEY", "")
	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrMissingThresholdSecret, "sin clave no se debe arrancar")
}

func TestLoad_SoloEspacios_Falla(t *testing.T) {
	t.Setenv("THRESHOLD_SECRET_KEY", "   ")
	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrMissingThresholdSecret)
}

func TestLoad_ValoresDesdeEntorno(t *testing.T) {
	t.Setenv("THRESHOLD_SECRET_KEY", "s3cr3t")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "250")
	t.Setenv("HTTP_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.Threshold.SecretKey)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 250, cfg.DB.LockTimeoutMS)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr())
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("THRESHOLD_SECRET_KEY", "s3cr3t")
	t.Setenv("DB_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss:w/rd", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%3Aw%2Frd@db:5432/x?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
