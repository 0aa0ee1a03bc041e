package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/haven/internal/config"
	"github.com/MrSnakeDoc/haven/internal/logger"
)

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		backend string
		wantErr bool
	}{
		{name: "memory", cfg: config.Config{Storage: config.StorageMemory}, backend: "memory"},
		{name: "sqlite", cfg: config.Config{Storage: config.StorageSQLite}, backend: "sqlite"},
		{name: "unknown", cfg: config.Config{Storage: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.SQLitePath = filepath.Join(t.TempDir(), "data", "haven.db")

			s, err := OpenStore(context.Background(), &cfg, logger.Nop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenStore: %v", err)
			}
			defer func() { _ = s.Close() }()

			if got := s.Backend(); got != tt.backend {
				t.Errorf("Backend() = %q, want %q", got, tt.backend)
			}
			if err := s.Ping(context.Background()); err != nil {
				t.Errorf("Ping: %v", err)
			}
		})
	}
}
