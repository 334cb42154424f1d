package demo

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/card"
)

// Regole della partita simulata.
const (
	maxSeedLength = 128
	startingLife  = 20
	maxTurns      = 12
	maxMana       = 10
)

// Service genera partite headless deterministiche a partire da un seed.
// Stesso seed e stesso catalogo producono gli stessi passi.
type Service struct {
	logger *slog.Logger
	cards  card.Lister
}

func NewService(logger *slog.Logger, cards card.Lister) *Service {
	return &Service{logger: logger, cards: cards}
}

// Run valida il seed, legge il catalogo e simula la partita.
func (s *Service) Run(ctx context.Context, seed string) (Run, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return Run{}, fmt.Errorf("%w: seed is required", ErrInvalidSeed)
	}
	if utf8.RuneCountInString(seed) > maxSeedLength {
		return Run{}, fmt.Errorf("%w: seed exceeds %d characters", ErrInvalidSeed, maxSeedLength)
	}

	cards, err := s.cards.ListCards(ctx)
	if err != nil {
		return Run{}, err
	}

	steps := simulate(seed, cards)
	s.logger.Info("demo eseguita", "seed", seed, "steps", len(steps), "cards", len(cards))
	return Run{Seed: seed, Steps: steps}, nil
}

// match tiene lo stato mutabile di una partita.
type match struct {
	rng   *rand.Rand
	life  map[Side]int
	decks map[Side][]card.Card
	drawn map[Side]int
	steps []Step
	turn  int
}

func simulate(seed string, cards []card.Card) []Step {
	// Ordine stabile indipendente dallo store.
	sorted := make([]card.Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h := seedHash(seed)
	m := &match{
		rng:   rand.New(rand.NewPCG(h, h^0x9e3779b97f4a7c15)),
		life:  map[Side]int{SideNorth: startingLife, SideSouth: startingLife},
		decks: make(map[Side][]card.Card, 2),
		drawn: make(map[Side]int, 2),
	}
	m.emit(Step{Action: ActionStart})

	if len(sorted) == 0 {
		m.emit(Step{Action: ActionFinish})
		return m.steps
	}

	m.decks[SideNorth] = m.shuffle(sorted)
	m.decks[SideSouth] = m.shuffle(sorted)

	order := [2]Side{SideNorth, SideSouth}
	if m.rng.IntN(2) == 1 {
		order = [2]Side{SideSouth, SideNorth}
	}

	for m.turn = 1; m.turn <= maxTurns; m.turn++ {
		for _, side := range order {
			if m.playTurn(side) {
				m.emit(Step{Actor: side, Action: ActionFinish})
				return m.steps
			}
		}
	}

	m.turn = maxTurns
	m.emit(Step{Actor: m.leader(), Action: ActionFinish})
	return m.steps
}

// playTurn esegue pesca, giocata e attacco; true se l'avversario e' a zero.
func (m *match) playTurn(side Side) bool {
	mana := min(m.turn, maxMana)
	deck := m.decks[side]
	drawn := deck[m.drawn[side]%len(deck)]
	m.drawn[side]++

	m.emit(Step{Actor: side, Action: ActionDraw, CardID: drawn.ID, CardName: drawn.Name})

	if drawn.Cost > mana {
		m.emit(Step{Actor: side, Action: ActionPass, CardID: drawn.ID, CardName: drawn.Name})
		return false
	}
	m.emit(Step{Actor: side, Action: ActionPlay, CardID: drawn.ID, CardName: drawn.Name, Amount: drawn.Cost})

	opponent := other(side)
	m.life[opponent] = max(m.life[opponent]-drawn.Attack, 0)
	m.emit(Step{Actor: side, Action: ActionAttack, CardID: drawn.ID, CardName: drawn.Name, Amount: drawn.Attack})

	return m.life[opponent] == 0
}

func (m *match) shuffle(cards []card.Card) []card.Card {
	deck := make([]card.Card, len(cards))
	for i, j := range m.rng.Perm(len(cards)) {
		deck[i] = cards[j]
	}
	return deck
}

// leader ritorna il lato con piu' vita, vuoto in caso di pareggio.
func (m *match) leader() Side {
	switch {
	case m.life[SideNorth] > m.life[SideSouth]:
		return SideNorth
	case m.life[SideSouth] > m.life[SideNorth]:
		return SideSouth
	default:
		return ""
	}
}

func (m *match) emit(step Step) {
	step.Index = len(m.steps)
	step.Turn = m.turn
	step.NorthLife = m.life[SideNorth]
	step.SouthLife = m.life[SideSouth]
	m.steps = append(m.steps, step)
}

func other(side Side) Side {
	if side == SideNorth {
		return SideSouth
	}
	return SideNorth
}

func seedHash(seed string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return h.Sum64()
}
