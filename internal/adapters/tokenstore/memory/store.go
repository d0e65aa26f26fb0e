package memory

import (
	"strings"
	"sync"

	"pet-hospital-client/internal/ports/tokenstore"
)

// Store guarda el token en memoria. Para tests y modo efímero del CLI.
type Store struct {
	mu    sync.RWMutex
	token string
}

var _ tokenstore.Storage = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	return nil
}

func (s *Store) Load() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", false
	}
	return s.token, true
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
