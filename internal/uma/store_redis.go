package uma

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisTicketPrefix  = "uma:ticket:"
	redisBindingPrefix = "uma:binding:"
)

// RedisStore keeps tickets and token bindings in Redis so multiple
// authorization server instances share one ticket space. Ticket expiry
// rides on key TTL.
type RedisStore struct {
	client *redis.Client
	cfg    StoreConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStore(rc RedisConfig, cfg StoreConfig) (*RedisStore, error) {
	if rc.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if cfg.TicketTTL <= 0 {
		cfg.TicketTTL = 5 * time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	return &RedisStore{client: client, cfg: cfg}, nil
}

func (s *RedisStore) SaveTicket(ctx context.Context, resources []Resource) (*TicketState, error) {
	now := time.Now().UTC()
	state := &TicketState{
		Ticket:    uuid.NewString(),
		Resources: resources,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TicketTTL),
	}
	b, err := json.Marshal(state)
	if err != nil {
		return nil, ServerWrap(CodeStoreUnavailable, err, "encode ticket state")
	}
	if err := s.client.Set(ctx, redisTicketPrefix+state.Ticket, b, s.cfg.TicketTTL).Err(); err != nil {
		return nil, ServerWrap(CodeStoreUnavailable, err, "write ticket state")
	}
	return state, nil
}

func (s *RedisStore) ResolveResources(ctx context.Context, ticket string) ([]Resource, error) {
	b, err := s.client.Get(ctx, redisTicketPrefix+ticket).Bytes()
	if errors.Is(err, redis.Nil) {
		// Key TTL makes expired and unknown tickets indistinguishable here.
		return nil, Clientf(CodeInvalidTicket, "invalid permission ticket")
	}
	if err != nil {
		return nil, ServerWrap(CodeStoreUnavailable, err, "read ticket state")
	}
	var state TicketState
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, ServerWrap(CodeStoreUnavailable, err, "decode ticket state")
	}
	if time.Now().After(state.ExpiresAt) {
		return nil, Clientf(CodeExpiredTicket, "permission ticket has expired")
	}
	return state.Resources, nil
}

func (s *RedisStore) BindToken(ctx context.Context, tokenID, ticket string) error {
	b, err := json.Marshal(TokenTicketBinding{TokenID: tokenID, Ticket: ticket})
	if err != nil {
		return ServerWrap(CodePersistence, err, "encode token binding")
	}
	if err := s.client.Set(ctx, redisBindingPrefix+tokenID, b, 0).Err(); err != nil {
		return ServerWrap(CodePersistence, err, "persist token binding")
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
