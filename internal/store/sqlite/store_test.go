package sqlite

import (
	"path/filepath"
	"testing"
)

func TestConnect_AppliesPragmas(t *testing.T) {
	s := NewStore()
	if err := s.Load(map[string]interface{}{"path": filepath.Join(t.TempDir(), "calls.db")}); err != nil {
		t.Fatalf("load: %v", err)
	}
	db, err := s.Connect()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	var busy int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&busy); err != nil {
		t.Fatalf("read busy_timeout: %v", err)
	}
	if busy != busyTimeoutMS {
		t.Fatalf("busy_timeout = %d, want %d (dsn %s)", busy, busyTimeoutMS, s.DSN)
	}
	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("read foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys = %d, want 1 (dsn %s)", fk, s.DSN)
	}
}

func TestLoad_DSNWins(t *testing.T) {
	s := NewStore()
	if err := s.Load(map[string]interface{}{"dsn": "file:x.db", "path": "ignored.db"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.DSN != "file:x.db" {
		t.Fatalf("unexpected dsn %q", s.DSN)
	}
}
