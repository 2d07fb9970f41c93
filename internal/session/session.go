package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Truella/Framez/internal/feed"
)

const tokenKey = "session.token"

// Auth is the remote authentication service.
type Auth interface {
	SignUp(ctx context.Context, in SignUpInput) (feed.User, string, error)
	SignIn(ctx context.Context, email, password string) (feed.User, string, error)
	Me(ctx context.Context) (feed.User, error)
	SetToken(token string)
}

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store owns the signed-in viewer and tells subscribers when it changes.
type Store struct {
	auth     Auth
	tokens   TokenStore
	notifier feed.Notifier

	mu    sync.RWMutex
	user  *feed.User
	token string

	lmu       sync.Mutex
	listeners map[int]func(*feed.User)
	nextID    int
}

func New(auth Auth, tokens TokenStore, n feed.Notifier) *Store {
	return &Store{
		auth:      auth,
		tokens:    tokens,
		notifier:  n,
		listeners: make(map[int]func(*feed.User)),
	}
}

// Current returns a copy of the signed-in viewer, or nil.
func (s *Store) Current() *feed.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe calls fn with the new viewer (nil when signed out) after every
// session change.
func (s *Store) Subscribe(fn func(*feed.User)) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Store) set(u *feed.User, token string) {
	s.mu.Lock()
	s.user, s.token = u, token
	s.mu.Unlock()
	s.auth.SetToken(token)

	current := s.Current()
	s.lmu.Lock()
	fns := make([]func(*feed.User), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()
	for _, fn := range fns {
		fn(current)
	}
}

// Restore resumes a persisted session. A token whose profile cannot be
// loaded ends the session.
func (s *Store) Restore(ctx context.Context) error {
	token, ok, err := s.tokens.Get(ctx, tokenKey)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if !ok || token == "" {
		s.set(nil, "")
		return nil
	}
	s.auth.SetToken(token)
	u, err := s.auth.Me(ctx)
	if err != nil {
		log.Printf("[session] fetch profile: %v", err)
		s.notifier.Error("Error", "Failed to load profile.")
		s.clear(ctx)
		return fmt.Errorf("restore session: %w", err)
	}
	s.set(&u, token)
	return nil
}

func (s *Store) SignUp(ctx context.Context, in SignUpInput) error {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		s.notifier.Error("Signup Error", err.Error())
		return err
	}
	u, token, err := s.auth.SignUp(ctx, in)
	if err != nil {
		log.Printf("[session] signup: %v", err)
		s.notifier.Error("Signup Error", err.Error())
		return fmt.Errorf("sign up: %w", err)
	}
	if err := s.persist(ctx, token); err != nil {
		return err
	}
	s.set(&u, token)
	s.notifier.Success("Success", "Account created successfully!")
	return nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		err := fmt.Errorf("%w: Please fill in all fields", ErrValidation)
		s.notifier.Error("Login Error", err.Error())
		return err
	}
	u, token, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.notifier.Error("Login Error", err.Error())
		s.clear(ctx)
		return fmt.Errorf("sign in: %w", err)
	}
	if err := s.persist(ctx, token); err != nil {
		return err
	}
	s.set(&u, token)
	return nil
}

func (s *Store) SignOut(ctx context.Context) error {
	if err := s.tokens.Delete(ctx, tokenKey); err != nil {
		s.notifier.Error("Error", err.Error())
		return fmt.Errorf("sign out: %w", err)
	}
	s.set(nil, "")
	return nil
}

func (s *Store) persist(ctx context.Context, token string) error {
	if err := s.tokens.Set(ctx, tokenKey, token); err != nil {
		s.notifier.Error("Error", "Could not store session")
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) clear(ctx context.Context) {
	if err := s.tokens.Delete(ctx, tokenKey); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[session] clear token: %v", err)
	}
	s.set(nil, "")
}
