package session

import "net/http"

// MockProvider ritorna sempre la stessa identita' autenticata.
type MockProvider struct {
	user User
}

var _ Provider = (*MockProvider)(nil)

func NewMockProvider(user User) *MockProvider {
	return &MockProvider{user: user}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Identify(_ *http.Request) (*User, error) {
	user := p.user
	return &user, nil
}

// SignIn e SignOut non hanno effetto sul mock.
func (p *MockProvider) SignIn(_ http.ResponseWriter, _ *http.Request, _ User) error { return nil }

func (p *MockProvider) SignOut(_ http.ResponseWriter, _ *http.Request) error { return nil }
