package session

import (
	"net/http"
)

// Contratti e modelli del dominio "session".

// User e' l'identita' del chiamante.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session e' la risposta di /api/auth/session: User nil se non autenticato.
type Session struct {
	User     *User `json:"user"`
	LoggedIn bool  `json:"loggedIn"`
}

// Provider e' la capability di identita'. I handler dipendono solo da questa.
// Identify ritorna nil, nil per un chiamante non autenticato.
type Provider interface {
	Name() string
	Identify(r *http.Request) (*User, error)
	SignIn(w http.ResponseWriter, r *http.Request, user User) error
	SignOut(w http.ResponseWriter, r *http.Request) error
}
