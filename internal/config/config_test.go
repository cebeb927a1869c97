package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "models/model_scm.json", cfg.ResolvedModelPath())
	assert.Equal(t, "models/feature_names.json", cfg.ResolvedFeatureNamesPath())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsTLSEnabled())
	assert.False(t, cfg.IsHistoryEnabled())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("MODEL_BASE_DIR", "/srv/scm")
	t.Setenv("MODEL_PATH", "artifacts/model.yaml")
	t.Setenv("FEATURE_NAMES_PATH", "/etc/scm/features.json")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:history.db")
	t.Setenv("LOG_DEVELOPMENT", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, filepath.Join("/srv/scm", "artifacts/model.yaml"), cfg.ResolvedModelPath())
	assert.Equal(t, "/etc/scm/features.json", cfg.ResolvedFeatureNamesPath())
	assert.True(t, cfg.IsHistoryEnabled())
	assert.True(t, cfg.LogDevelopment)
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_port: 7070
model_path: /opt/model.json
feature_names_path: ""
log_level: debug
`), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "/opt/model.json", cfg.ResolvedModelPath())
	assert.Equal(t, "", cfg.ResolvedFeatureNamesPath())
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"SERVER_PORT": "70000"}},
		{"unknown driver", map[string]string{"DATABASE_DRIVER": "mysql", "DATABASE_URL": "x"}},
		{"driver without url", map[string]string{"DATABASE_DRIVER": "postgres"}},
		{"half tls", map[string]string{"TLS_CERT_PATH": "/tmp/cert.pem"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
