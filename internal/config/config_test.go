package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
server:
  port: 8080
database:
  type: postgres
  hostname: db.internal
  port: 5432
  user: ht
  password: secret
  database: healthtrack
audit:
  backend: leveldb
  path: /tmp/audit
security:
  jwt:
    secret: "0123456789abcdef-secret"
    ttl: 2h
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Hostname)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DatabaseTypePostgres, cfg.Database.Type)
	assert.Equal(t, 2*time.Hour, cfg.Security.JWT.TTL)
	assert.Equal(t, "healthtrack", cfg.Security.JWT.Issuer)
	assert.Equal(t, 5*time.Second, cfg.Audit.WriteTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetServerAddress())
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("HEALTHTRACK_DATABASE_PASSWORD", "from-env")
	t.Setenv("HEALTHTRACK_SERVER_PORT", "9090")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 4000},
			Database: DatabaseConfig{Type: DatabaseTypeMySQL, Hostname: "localhost", Database: "healthtrack"},
			Audit:    AuditConfig{Backend: AuditBackendLevelDB, Path: "data/audit"},
			Security: SecurityConfig{JWT: JWTConfig{Secret: "0123456789abcdef", TTL: time.Hour}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port: 70000"},
		{"bad db type", func(c *Config) { c.Database.Type = "sqlite" }, "unsupported database type: sqlite"},
		{"missing host", func(c *Config) { c.Database.Hostname = "" }, "database hostname is required"},
		{"missing leveldb path", func(c *Config) { c.Audit.Path = "" }, "audit path is required for the leveldb backend"},
		{"missing mongo uri", func(c *Config) { c.Audit.Backend = AuditBackendMongo }, "audit mongo URI is required for the mongo backend"},
		{"bad audit backend", func(c *Config) { c.Audit.Backend = "s3" }, "unsupported audit backend: s3"},
		{"short secret", func(c *Config) { c.Security.JWT.Secret = "short" }, "jwt secret must be at least 16 characters"},
		{"zero ttl", func(c *Config) { c.Security.JWT.TTL = 0 }, "jwt ttl must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestGetDSN(t *testing.T) {
	mysql := DatabaseConfig{Type: DatabaseTypeMySQL, User: "u", Password: "p", Hostname: "h", Port: 3306, Database: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?parseTime=true&loc=UTC&clientFoundRows=true", mysql.GetDSN())

	pg := DatabaseConfig{Type: DatabaseTypePostgres, User: "u", Password: "p", Hostname: "h", Port: 5432, Database: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", pg.GetDSN())
}
