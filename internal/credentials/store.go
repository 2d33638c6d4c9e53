// README: Credential store capability (get/set/clear of per-session tokens).
package credentials

import (
	"context"
	"errors"
	"sync"

	"footy/internal/types"
)

// ErrNotFound is returned when a session has no stored credentials.
var ErrNotFound = errors.New("credentials: not found")

// Credentials are the tokens issued by the commerce backend. The checkout
// core never inspects them; it only needs "is there a usable access token".
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Store abstracts where credentials live so the core never depends on
// storage details.
type Store interface {
	Get(ctx context.Context, sessionID types.ID) (*Credentials, error)
	Set(ctx context.Context, sessionID types.ID, creds Credentials) error
	Clear(ctx context.Context, sessionID types.ID) error
}

// MemoryStore is an in-process Store used in tests and single-node setups.
type MemoryStore struct {
	mu    sync.Mutex
	creds map[types.ID]Credentials
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[types.ID]Credentials)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID types.ID) (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.creds[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID types.ID, creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[sessionID] = creds
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, sessionID)
	return nil
}
