package backend

import (
	"context"
	"path/filepath"
	"testing"

	"adbill/internal/config"
	"adbill/internal/log"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{DataBackend: "memory"}
	st, err := Open(cfg, log.New(log.DefaultConfig()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer st.Close()

	snap, err := st.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Invoices) == 0 || len(snap.Clients) == 0 {
		t.Error("memory backend should start seeded")
	}
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "adbill.db"),
	}
	st, err := Open(cfg, log.New(log.DefaultConfig()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer st.Close()

	if _, err := st.Snapshot(context.Background()); err != nil {
		t.Errorf("Snapshot() error = %v", err)
	}
}

func TestOpenInvalidBackend(t *testing.T) {
	cfg := &config.Config{DataBackend: "sheets"}
	if _, err := Open(cfg, log.New(log.DefaultConfig())); err == nil {
		t.Error("Open() should reject unknown backends")
	}
}
