//go:build integration

package card

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// openTestDB usa CATALOG_TEST_DSN se presente, altrimenti avvia un container Postgres.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("CATALOG_TEST_DSN")
	if dsn == "" {
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("catalog"),
			postgres.WithUsername("catalog"),
			postgres.WithPassword("catalog"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			t.Skipf("postgres container unavailable: %v", err)
		}
		t.Cleanup(func() { _ = container.Terminate(ctx) })

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("connection string: %v", err)
		}
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../migrations/001_cards.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// Test d'integrazione: inserisce carte reali e le rilegge dal DB.
func TestPostgresStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewPostgresStore(db, discardLogger())

	card := Card{ID: "it-" + time.Now().Format("150405.000000"), Name: "Integration " + time.Now().Format("150405.000000"), Arcana: ArcanaMinor, Suit: "cups", Cost: 2, Attack: 1, Health: 3, Text: "x"}
	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, card.ID)
	})

	if err := store.Insert(ctx, card); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.Get(ctx, card.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(card, got); diff != "" {
		t.Fatalf("unexpected card:\n%s", diff)
	}

	byName, err := store.FindByName(ctx, card.Name)
	if err != nil || byName.ID != card.ID {
		t.Fatalf("FindByName: %+v %v", byName, err)
	}

	dup := card
	dup.ID = card.ID + "-dup"
	if err := store.Insert(ctx, dup); !errors.Is(err, ErrCardExists) {
		t.Fatalf("expected ErrCardExists, got %v", err)
	}

	cards, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if cards == nil {
		t.Fatalf("expected non-nil slice")
	}

	if err := store.Delete(ctx, card.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, card.ID); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

// Test d'integrazione: delete di una carta inesistente.
func TestPostgresStoreDeleteNotFound(t *testing.T) {
	db := openTestDB(t)
	store := NewPostgresStore(db, discardLogger())

	if err := store.Delete(context.Background(), "missing-card"); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}
