package config

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE", StorageMemory)
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("SMTP_HOST", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage != StorageMemory {
		t.Fatalf("storage=%q", cfg.Storage)
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Fatalf("ttl=%s want=2h", cfg.JWTTTL)
	}
	if cfg.EmailEnabled() {
		t.Fatal("email should be disabled without SMTP_HOST")
	}
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"JWT_TTL": "soon"}},
		{"negative ttl", map[string]string{"JWT_TTL": "-1h"}},
		{"empty secret", map[string]string{"JWT_SECRET": ""}},
		{"unknown storage", map[string]string{"STORAGE": "mongo"}},
		{"empty dsn", map[string]string{"STORAGE": StoragePostgres, "DB_CONN": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := NewConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
