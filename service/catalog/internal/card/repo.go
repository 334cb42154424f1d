package card

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"
)

// Accesso dati del catalogo su Postgres (persistence layer).
// Qui restano le query SQL e la traduzione in tipi di dominio.

// uniqueViolation e' il codice SQLSTATE per vincoli unique violati.
const uniqueViolation = "23505"

// PostgresStore implementa Store sulla tabella cards.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore collega lo store a una connessione SQL.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// List ritorna tutte le carte ordinate per id.
func (r *PostgresStore) List(ctx context.Context) ([]Card, error) {
	const query = `
SELECT id, name, arcana, suit, cost, attack, health, text
FROM cards
ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("errore lettura catalogo", "error", err)
		return nil, err
	}
	defer rows.Close()

	cards := make([]Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// Get carica una carta per id.
func (r *PostgresStore) Get(ctx context.Context, id string) (Card, error) {
	const query = `
SELECT id, name, arcana, suit, cost, attack, health, text
FROM cards
WHERE id = $1`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, ErrCardNotFound
	}
	if err != nil {
		r.logger.Error("errore lettura carta", "error", err, "card_id", id)
		return Card{}, err
	}
	return card, nil
}

// FindByName cerca per nome senza distinguere maiuscole.
func (r *PostgresStore) FindByName(ctx context.Context, name string) (Card, error) {
	const query = `
SELECT id, name, arcana, suit, cost, attack, health, text
FROM cards
WHERE lower(name) = $1`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, nameKey(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, ErrCardNotFound
	}
	if err != nil {
		return Card{}, err
	}
	return card, nil
}

// Insert scrive la carta in una transazione dedicata.
func (r *PostgresStore) Insert(ctx context.Context, card Card) error {
	const query = `
INSERT INTO cards (
  id,
  name,
  arcana,
  suit,
  cost,
  attack,
  health,
  text,
  created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())`

	return r.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			card.ID,
			card.Name,
			string(card.Arcana),
			card.Suit,
			card.Cost,
			card.Attack,
			card.Health,
			card.Text,
		)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrCardExists
		}
		if err != nil {
			r.logger.Error("errore insert carta", "error", err, "card_id", card.ID)
		}
		return err
	})
}

// Delete rimuove la carta; ErrCardNotFound se non esiste.
func (r *PostgresStore) Delete(ctx context.Context, id string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
		if err != nil {
			r.logger.Error("errore delete carta", "error", err, "card_id", id)
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCardNotFound
		}
		return nil
	})
}

// Ping verifica la connessione, usato dal readiness check.
func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (Card, error) {
	var (
		card   Card
		arcana string
	)
	err := row.Scan(&card.ID, &card.Name, &arcana, &card.Suit, &card.Cost, &card.Attack, &card.Health, &card.Text)
	card.Arcana = Arcana(arcana)
	return card, err
}
