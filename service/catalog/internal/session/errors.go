package session

import "errors"

// ErrUnauthenticated indica credenziali mancanti o invalide.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrInvalidUser indica id o nome utente non validi in SignIn.
var ErrInvalidUser = errors.New("invalid user")

// ErrSignInDisabled indica che il login diretto non e' permesso in questo ambiente.
var ErrSignInDisabled = errors.New("sign in disabled")
