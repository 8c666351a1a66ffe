package uma

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps tickets and token bindings in process memory. Suitable
// for dev and tests; production deployments use RedisStore.
type MemoryStore struct {
	mu       sync.RWMutex
	tickets  map[string]*TicketState
	bindings map[string]string // tokenID -> ticket
	cfg      StoreConfig
}

func NewMemoryStore(cfg StoreConfig) *MemoryStore {
	if cfg.TicketTTL <= 0 {
		cfg.TicketTTL = 5 * time.Minute
	}
	return &MemoryStore{
		tickets:  make(map[string]*TicketState),
		bindings: make(map[string]string),
		cfg:      cfg,
	}
}

// SaveTicket registers a new permission ticket for the given resources and
// returns the opaque ticket value. Not part of the grant-core TicketStore
// contract; used by the permission endpoint tooling and tests.
func (s *MemoryStore) SaveTicket(ctx context.Context, resources []Resource) (*TicketState, error) {
	now := time.Now().UTC()
	state := &TicketState{
		Ticket:    uuid.NewString(),
		Resources: resources,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TicketTTL),
	}

	s.mu.Lock()
	s.tickets[state.Ticket] = state
	s.mu.Unlock()

	return state, nil
}

func (s *MemoryStore) ResolveResources(ctx context.Context, ticket string) ([]Resource, error) {
	s.mu.RLock()
	state, ok := s.tickets[ticket]
	s.mu.RUnlock()

	if !ok {
		return nil, Clientf(CodeInvalidTicket, "invalid permission ticket")
	}
	if time.Now().After(state.ExpiresAt) {
		return nil, Clientf(CodeExpiredTicket, "permission ticket has expired")
	}
	out := make([]Resource, len(state.Resources))
	copy(out, state.Resources)
	return out, nil
}

func (s *MemoryStore) BindToken(ctx context.Context, tokenID, ticket string) error {
	s.mu.Lock()
	s.bindings[tokenID] = ticket
	s.mu.Unlock()
	return nil
}

// TicketForToken looks up the ticket a token was issued against.
func (s *MemoryStore) TicketForToken(ctx context.Context, tokenID string) (string, bool) {
	s.mu.RLock()
	t, ok := s.bindings[tokenID]
	s.mu.RUnlock()
	return t, ok
}
