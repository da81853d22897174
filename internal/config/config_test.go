// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validConfig = `
server:
  http_addr: "0.0.0.0:8080"

database:
  path: "./test.db"

uploads:
  dir: "./uploads"

auth:
  jwt_secret: "test-secret"
  token_ttl: "24h"

logging:
  level: "debug"
  format: "json"
`

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:8080")
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Uploads.Dir != "./uploads" {
		t.Errorf("Uploads.Dir = %q, want %q", cfg.Uploads.Dir, "./uploads")
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "test-secret")
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want %v", cfg.Auth.TokenTTL, 24*time.Hour)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "not: [valid: yaml")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("STASHD_TEST_SECRET", "expanded-secret")

	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "./test.db"
uploads:
  dir: "./uploads"
auth:
  jwt_secret: "${STASHD_TEST_SECRET}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.JWTSecret != "expanded-secret" {
		t.Errorf("JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "expanded-secret")
	}
}

func TestLoad_UnsetEnvVarBecomesEmpty(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "./test.db"
uploads:
  dir: "./uploads"
auth:
  jwt_secret: "${STASHD_DEFINITELY_UNSET_VAR}"
`)

	// Empty expansion means the required field fails validation
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for empty jwt_secret")
	}
	if !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("error %q should mention jwt_secret", err)
	}
}

func TestLoad_DefaultTokenTTL(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "./test.db"
uploads:
  dir: "./uploads"
auth:
  jwt_secret: "secret"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.TokenTTL != DefaultTokenTTL {
		t.Errorf("TokenTTL = %v, want default %v", cfg.Auth.TokenTTL, DefaultTokenTTL)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "./test.db"
uploads:
  dir: "./uploads"
auth:
  jwt_secret: "secret"
  token_ttl: "not-a-duration"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "token_ttl") {
		t.Errorf("error %q should mention token_ttl", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing http_addr",
			yaml: `
database:
  path: "./test.db"
uploads:
  dir: "./uploads"
auth:
  jwt_secret: "secret"
`,
			want: "http_addr",
		},
		{
			name: "missing database path",
			yaml: `
server:
  http_addr: "localhost:8080"
uploads:
  dir: "./uploads"
auth:
  jwt_secret: "secret"
`,
			want: "database.path",
		},
		{
			name: "missing uploads dir",
			yaml: `
server:
  http_addr: "localhost:8080"
database:
  path: "./test.db"
auth:
  jwt_secret: "secret"
`,
			want: "uploads.dir",
		},
		{
			name: "missing jwt_secret",
			yaml: `
server:
  http_addr: "localhost:8080"
database:
  path: "./test.db"
uploads:
  dir: "./uploads"
`,
			want: "jwt_secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}
