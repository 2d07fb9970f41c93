package prefs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

const themeKey = "theme"

var ErrInvalidTheme = errors.New("theme must be light, dark or auto")

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// ThemeStore is the persisted light/dark/auto choice.
type ThemeStore struct {
	store *Store

	mu    sync.RWMutex
	theme Theme
}

func NewThemeStore(s *Store) *ThemeStore {
	return &ThemeStore{store: s, theme: ThemeAuto}
}

// Load reads the saved theme. Missing or unknown values fall back to auto.
func (t *ThemeStore) Load(ctx context.Context) (Theme, error) {
	v, ok, err := t.store.Get(ctx, themeKey)
	if err != nil {
		log.Printf("[prefs] load theme: %v", err)
		return t.Current(), err
	}
	theme := ThemeAuto
	if ok {
		if parsed, perr := ParseTheme(v); perr == nil {
			theme = parsed
		}
	}
	t.mu.Lock()
	t.theme = theme
	t.mu.Unlock()
	return theme, nil
}

// Set persists the theme first and only then makes it current.
func (t *ThemeStore) Set(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	if err := t.store.Set(ctx, themeKey, string(theme)); err != nil {
		log.Printf("[prefs] save theme: %v", err)
		return err
	}
	t.mu.Lock()
	t.theme = theme
	t.mu.Unlock()
	return nil
}

func (t *ThemeStore) Current() Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.theme
}

// IsDark resolves auto against the system colour scheme.
func (t *ThemeStore) IsDark(systemDark bool) bool {
	switch t.Current() {
	case ThemeDark:
		return true
	case ThemeLight:
		return false
	}
	return systemDark
}
