package session

import (
	"log/slog"
	"net/http"
	"strings"
)

// Service espone la sessione corrente sopra un Provider.
type Service struct {
	logger      *slog.Logger
	provider    Provider
	allowSignIn bool
}

// NewService crea il servizio; allowSignIn abilita il login diretto (solo dev).
func NewService(logger *slog.Logger, provider Provider, allowSignIn bool) *Service {
	return &Service{logger: logger, provider: provider, allowSignIn: allowSignIn}
}

// GetSession ritorna l'identita' del chiamante. Un anonimo non e' un errore.
func (s *Service) GetSession(r *http.Request) (Session, error) {
	user, err := s.provider.Identify(r)
	if err != nil {
		return Session{}, err
	}
	if user == nil {
		return Session{User: nil, LoggedIn: false}, nil
	}
	return Session{User: user, LoggedIn: true}, nil
}

// RequireUser ritorna ErrUnauthenticated se il chiamante e' anonimo.
func (s *Service) RequireUser(r *http.Request) (*User, error) {
	user, err := s.provider.Identify(r)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// SignIn scrive l'identita' tramite il provider.
func (s *Service) SignIn(w http.ResponseWriter, r *http.Request, user User) (Session, error) {
	if !s.allowSignIn {
		return Session{}, ErrSignInDisabled
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Name = strings.TrimSpace(user.Name)
	if user.ID == "" || user.Name == "" || len(user.ID) > 64 || len(user.Name) > 80 {
		return Session{}, ErrInvalidUser
	}

	if err := s.provider.SignIn(w, r, user); err != nil {
		s.logger.Error("errore login", "error", err, "provider", s.provider.Name())
		return Session{}, err
	}
	s.logger.Info("login eseguito", "user_id", user.ID, "provider", s.provider.Name())
	return Session{User: &user, LoggedIn: true}, nil
}

// SignOut cancella l'identita'. Il risultato e' sempre anonimo.
func (s *Service) SignOut(w http.ResponseWriter, r *http.Request) (Session, error) {
	if err := s.provider.SignOut(w, r); err != nil {
		s.logger.Error("errore logout", "error", err, "provider", s.provider.Name())
		return Session{}, err
	}
	return Session{User: nil, LoggedIn: false}, nil
}
