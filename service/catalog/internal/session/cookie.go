package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// Chiavi del cookie di sessione.
const (
	cookieName     = "tarot-session"
	cookieUserID   = "user_id"
	cookieUserName = "user_name"
)

// CookieProvider legge l'identita' da un cookie firmato.
// E' il provider che un login OAuth popolera' in futuro.
type CookieProvider struct {
	store *sessions.CookieStore
}

var _ Provider = (*CookieProvider)(nil)

// NewCookieProvider crea il provider; secure imposta il flag Secure del cookie.
func NewCookieProvider(secret []byte, maxAge time.Duration, secure bool) *CookieProvider {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieProvider{store: store}
}

func (p *CookieProvider) Name() string { return "cookie" }

// Identify ritorna nil se il cookie manca o non ha un utente.
func (p *CookieProvider) Identify(r *http.Request) (*User, error) {
	sess, err := p.store.Get(r, cookieName)
	if err != nil {
		// Cookie corrotto o firmato con un'altra chiave: trattato come anonimo.
		return nil, nil
	}
	id, _ := sess.Values[cookieUserID].(string)
	name, _ := sess.Values[cookieUserName].(string)
	if id == "" {
		return nil, nil
	}
	return &User{ID: id, Name: name}, nil
}

func (p *CookieProvider) SignIn(w http.ResponseWriter, r *http.Request, user User) error {
	sess, _ := p.store.Get(r, cookieName)
	sess.Values[cookieUserID] = user.ID
	sess.Values[cookieUserName] = user.Name
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (p *CookieProvider) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := p.store.Get(r, cookieName)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
