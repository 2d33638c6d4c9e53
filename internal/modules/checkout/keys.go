// README: Idempotency key manager; one opaque token per checkout attempt.
package checkout

import (
    "sync"

    "github.com/google/uuid"

    "footy/internal/types"
)

// KeyManager owns the idempotency token for each live checkout attempt.
// Issue replaces the token (new attempt); Current returns the token in use,
// which callers must send unchanged on every retry of the same attempt.
type KeyManager struct {
    mu      sync.Mutex
    current map[types.ID]string
}

func NewKeyManager() *KeyManager {
    return &KeyManager{current: make(map[types.ID]string)}
}

// Issue generates a fresh token for the session and makes it current.
// Pure generation, no I/O.
func (m *KeyManager) Issue(sessionID types.ID) string {
    key := uuid.NewString()
    m.mu.Lock()
    m.current[sessionID] = key
    m.mu.Unlock()
    return key
}

// Current returns the token for the active attempt, or "" if none.
func (m *KeyManager) Current(sessionID types.ID) string {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.current[sessionID]
}

// Forget drops the session's token when the flow is torn down.
func (m *KeyManager) Forget(sessionID types.ID) {
    m.mu.Lock()
    defer m.mu.Unlock()
    delete(m.current, sessionID)
}
