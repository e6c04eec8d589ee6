package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyo/product-approval/config"
)

const configYAML = `
log_level: 4

http_server_addr: ":9090"
storage_path: "/var/lib/approval/products.db"
data_lake_path: "/var/lib/approval/data_lake.json"
jwt_signing_key: "super-secret"
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	t.Setenv("APPROVAL_CONFIG_FILE", path)

	// keep pflag away from the go test flags
	origArgs := os.Args
	os.Args = origArgs[:1]
	t.Cleanup(func() { os.Args = origArgs })

	cfg := config.Load()

	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.HTTPServerAddr)
	assert.Equal(t, "/var/lib/approval/products.db", cfg.StoragePath)
	assert.Equal(t, "/var/lib/approval/data_lake.json", cfg.DataLakePath)
	assert.Equal(t, "super-secret", cfg.JWTSigningKey)
}
