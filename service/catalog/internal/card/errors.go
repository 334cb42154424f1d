package card

import (
	"errors"
	"fmt"
)

// Errori di dominio usati da service/store e mappati nel layer HTTP.
var ErrCardNotFound = errors.New("card not found")

// ErrCardExists indica un nome carta gia' presente nel catalogo.
var ErrCardExists = errors.New("card already exists")

// ErrStoreUnavailable indica che lo storage persistente non risponde.
var ErrStoreUnavailable = errors.New("card store unavailable")

// ErrCardBusy indica un lock di scrittura gia' preso da un'altra richiesta.
var ErrCardBusy = errors.New("card is being modified")

// ErrInvalidCard avvolge gli errori di validazione dell'input.
var ErrInvalidCard = errors.New("invalid card")

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidCard, msg)
}
