package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/lock"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// sharedReadTimeout limita la lettura condivisa da ListCards.
const sharedReadTimeout = 10 * time.Second

// Service applica la logica di dominio del catalogo usando lo store.
// Le scritture sono serializzate per chiave tramite lock.Manager.
type Service struct {
	logger *slog.Logger
	store  Store
	locker lock.Manager
	list   singleflight.Group
	newID  func() string
}

// NewService crea il servizio di dominio per il catalogo.
func NewService(logger *slog.Logger, store Store, locker lock.Manager) *Service {
	return &Service{
		logger: logger,
		store:  store,
		locker: locker,
		newID:  uuid.NewString,
	}
}

// ListCards ritorna l'intero catalogo; le chiamate concorrenti condividono una sola lettura.
// La lettura condivisa non eredita la cancellazione del primo chiamante: ognuno attende
// sul proprio context.
func (s *Service) ListCards(ctx context.Context) ([]Card, error) {
	ch := s.list.DoChan("all", func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()
		return s.store.List(readCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	// Copia per non condividere il backing array tra chiamanti.
	shared := res.Val.([]Card)
	cards := make([]Card, len(shared))
	copy(cards, shared)
	return cards, nil
}

// GetCard carica una singola carta.
func (s *Service) GetCard(ctx context.Context, id string) (Card, error) {
	if id == "" {
		return Card{}, ErrCardNotFound
	}
	return s.store.Get(ctx, id)
}

// CreateCard valida l'input, blocca il nome e inserisce la carta.
func (s *Service) CreateCard(ctx context.Context, in Input) (Card, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Card{}, err
	}

	release, err := s.acquire(ctx, "lock:card:name:"+nameKey(in.Name))
	if err != nil {
		return Card{}, err
	}
	defer release()

	// 1) Evita nomi duplicati prima di aprire la transazione.
	_, err = s.store.FindByName(ctx, in.Name)
	switch {
	case err == nil:
		return Card{}, ErrCardExists
	case !errors.Is(err, ErrCardNotFound):
		return Card{}, err
	}

	// 2) Inserisce la carta con id nuovo.
	card := fromInput(s.newID(), in)
	if err := s.store.Insert(ctx, card); err != nil {
		return Card{}, err
	}

	s.logger.Info("carta creata", "card_id", card.ID, "name", card.Name)
	return card, nil
}

// DeleteCard rimuove una carta dal catalogo.
func (s *Service) DeleteCard(ctx context.Context, id string) error {
	if id == "" {
		return ErrCardNotFound
	}

	release, err := s.acquire(ctx, "lock:card:"+id)
	if err != nil {
		return err
	}
	defer release()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("carta eliminata", "card_id", id)
	return nil
}

// acquire prende il lock e ritorna la funzione di rilascio.
func (s *Service) acquire(ctx context.Context, key string) (func(), error) {
	token, ok, err := s.locker.Acquire(ctx, key)
	if err != nil {
		s.logger.Error("errore acquisizione lock", "error", err, "key", key)
		return nil, fmt.Errorf("%w: acquire %s: %v", ErrStoreUnavailable, key, err)
	}
	if !ok {
		return nil, ErrCardBusy
	}
	return func() {
		if err := s.locker.Release(context.Background(), key, token); err != nil {
			s.logger.Warn("errore rilascio lock", "error", err, "key", key)
		}
	}, nil
}
