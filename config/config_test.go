package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FOODGRAM_JWT_SECRET", "s3cret")
	t.Setenv("FOODGRAM_SERVER_PORT", "9090")
	t.Setenv("FOODGRAM_PAGINATION_PAGE_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 10, cfg.Pagination.PageSize)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("FOODGRAM_JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "jwt.secret")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database:   DatabaseConfig{Driver: "mysql", DSN: "x"},
		JWT:        JWTConfig{Secret: "k"},
		Pagination: PaginationConfig{PageSize: 6},
	}
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")

	cfg.Database.Driver = "postgres"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 6, cfg.Pagination.MaxPageSize)
}
