package card

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Contratti e modelli del dominio "card".
// Espongono cosa serve al resto dell'app senza dettagli di DB/HTTP.

// Arcana distingue arcani maggiori e minori.
type Arcana string

const (
	ArcanaMajor Arcana = "major"
	ArcanaMinor Arcana = "minor"
)

// Limiti in caratteri (rune), non in byte.
const (
	maxNameLength = 80
	maxTextLength = 500
)

// Semi validi per gli arcani minori.
var suits = map[string]bool{
	"wands":     true,
	"cups":      true,
	"swords":    true,
	"pentacles": true,
}

// Card rappresenta una carta giocabile del catalogo.
type Card struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Arcana Arcana `json:"arcana" yaml:"arcana"`
	Suit   string `json:"suit" yaml:"suit"`
	Cost   int    `json:"cost" yaml:"cost"`
	Attack int    `json:"attack" yaml:"attack"`
	Health int    `json:"health" yaml:"health"`
	Text   string `json:"text" yaml:"text"`
}

// Input raccoglie i campi modificabili di una nuova carta.
type Input struct {
	Name   string `json:"name"`
	Arcana Arcana `json:"arcana"`
	Suit   string `json:"suit"`
	Cost   int    `json:"cost"`
	Attack int    `json:"attack"`
	Health int    `json:"health"`
	Text   string `json:"text"`
}

// Store e' lo storage del catalogo: memoria o Postgres.
// List ritorna sempre una slice non nil.
type Store interface {
	List(ctx context.Context) ([]Card, error)
	Get(ctx context.Context, id string) (Card, error)
	Insert(ctx context.Context, card Card) error
	Delete(ctx context.Context, id string) error
	FindByName(ctx context.Context, name string) (Card, error)
}

// Lister e' il sottoinsieme usato da chi legge soltanto (demo, CLI).
type Lister interface {
	ListCards(ctx context.Context) ([]Card, error)
}

// Normalize ripulisce l'input prima della validazione.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Arcana = Arcana(strings.ToLower(strings.TrimSpace(string(in.Arcana))))
	in.Suit = strings.ToLower(strings.TrimSpace(in.Suit))
	in.Text = strings.TrimSpace(in.Text)
	return in
}

// Validate applica le invarianti di base di una carta.
func (in Input) Validate() error {
	if in.Name == "" {
		return invalid("name is required")
	}
	if utf8.RuneCountInString(in.Name) > maxNameLength {
		return invalid("name exceeds 80 characters")
	}
	switch in.Arcana {
	case ArcanaMajor:
		if in.Suit != "" {
			return invalid("major arcana cannot have a suit")
		}
	case ArcanaMinor:
		if !suits[in.Suit] {
			return invalid("suit must be one of wands, cups, swords, pentacles")
		}
	default:
		return invalid("arcana must be major or minor")
	}
	if in.Cost < 0 || in.Cost > 10 {
		return invalid("cost must be between 0 and 10")
	}
	if in.Attack < 0 || in.Attack > 20 {
		return invalid("attack must be between 0 and 20")
	}
	if in.Health < 1 || in.Health > 20 {
		return invalid("health must be between 1 and 20")
	}
	if utf8.RuneCountInString(in.Text) > maxTextLength {
		return invalid("text exceeds 500 characters")
	}
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
