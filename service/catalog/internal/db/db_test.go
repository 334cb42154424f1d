package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

// Caso: file mancante o vuoto, nessuna connessione necessaria.
func TestExecSQLFileBadInput(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.sql")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := ExecSQLFile(context.Background(), nil, filepath.Join(dir, "missing.sql")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if err := ExecSQLFile(context.Background(), nil, empty); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

// Integrazione: richiede CATALOG_TEST_DSN.
func TestExecSQLFileIntegration(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_DSN")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DSN not set")
	}
	ctx := context.Background()
	conn, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	if err := ExecSQLFile(ctx, conn, "../../migrations/001_cards.sql"); err != nil {
		t.Fatalf("exec migration: %v", err)
	}
	var count int
	if err := conn.QueryRowContext(ctx, "SELECT count(*) FROM cards").Scan(&count); err != nil {
		t.Fatalf("query cards: %v", err)
	}
}
