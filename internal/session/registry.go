package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"onboarding-records/internal/apperror"
)

// Registry keeps the shell of every signed-in token until logout or token
// expiry. Expired entries are dropped on access and on every Open.
type Registry struct {
	mu     sync.Mutex
	shells map[string]*entry
	now    func() time.Time
}

type entry struct {
	shell     *Shell
	expiresAt time.Time
}

func NewRegistry() *Registry {
	return &Registry{shells: make(map[string]*entry), now: time.Now}
}

// View is a snapshot of a shell.
type View struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Screen   Screen `json:"screen"`
}

func (r *Registry) Open(tokenID, username string, role Role, expiresAt time.Time) (View, error) {
	shell := NewShell()
	if err := shell.SignIn(username, role); err != nil {
		return View{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	r.shells[tokenID] = &entry{shell: shell, expiresAt: expiresAt}
	return viewOf(shell), nil
}

func (r *Registry) Get(tokenID string) (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shell, ok := r.lookup(tokenID)
	if !ok {
		return View{}, false
	}
	return viewOf(shell), true
}

func (r *Registry) Navigate(tokenID string, to Screen) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shell, ok := r.lookup(tokenID)
	if !ok {
		return View{}, apperror.New(apperror.CodeUnauthorized, "session not found")
	}
	if err := shell.Navigate(to); err != nil {
		return View{}, err
	}
	if shell.Screen() == ScreenLogin {
		delete(r.shells, tokenID)
	}
	return viewOf(shell), nil
}

func (r *Registry) Close(tokenID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.shells, tokenID)
}

// lookup returns the live shell of tokenID; r.mu must be held.
func (r *Registry) lookup(tokenID string) (*Shell, bool) {
	e, ok := r.shells[tokenID]
	if !ok {
		return nil, false
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.shells, tokenID)
		return nil, false
	}
	return e.shell, true
}

func (r *Registry) sweep() {
	now := r.now()
	for tokenID, e := range r.shells {
		if !now.Before(e.expiresAt) {
			delete(r.shells, tokenID)
		}
	}
}

func viewOf(shell *Shell) View {
	return View{Username: shell.Username(), Role: shell.Role(), Screen: shell.Screen()}
}

// Authenticator ties verification, token issuing and the registry together.
type Authenticator struct {
	verifier Verifier
	tokens   *Tokens
	registry *Registry
}

func NewAuthenticator(verifier Verifier, tokens *Tokens, registry *Registry) *Authenticator {
	return &Authenticator{verifier: verifier, tokens: tokens, registry: registry}
}

type LoginResult struct {
	Token string `json:"token"`
	View
}

// Login verifies credentials and opens a shell for the new token. The
// username is trimmed once here so every later lookup uses the same form.
func (a *Authenticator) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	role, err := a.verifier.Verify(ctx, username, password)
	if err != nil {
		return LoginResult{}, err
	}

	token, claims, err := a.tokens.Issue(username, role)
	if err != nil {
		return LoginResult{}, err
	}

	view, err := a.registry.Open(claims.ID, username, role, claims.ExpiresAt.Time)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, View: view}, nil
}

// Resolve validates a token and returns its claims; tokens whose shell was
// closed by logout are rejected.
func (a *Authenticator) Resolve(token string) (*Claims, error) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	if _, ok := a.registry.Get(claims.ID); !ok {
		return nil, apperror.New(apperror.CodeUnauthorized, "session ended")
	}
	return claims, nil
}

func (a *Authenticator) Registry() *Registry {
	return a.registry
}
