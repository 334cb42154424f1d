package lock

import (
	"context"
	"errors"
	"sync"
)

// LocalLock e' il Manager in-process usato senza Redis (singola istanza).
// Non attende: se la chiave e' occupata Acquire ritorna ok=false.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]string
}

var _ Manager = (*LocalLock)(nil)

func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(map[string]string)}
}

func (l *LocalLock) Acquire(_ context.Context, key string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[key]; taken {
		return "", false, nil
	}
	token := newToken()
	l.held[key] = token
	return token, true, nil
}

// Release libera la chiave solo se il token corrisponde.
func (l *LocalLock) Release(_ context.Context, key, token string) error {
	if key == "" || token == "" {
		return errors.New("key and token are required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}
