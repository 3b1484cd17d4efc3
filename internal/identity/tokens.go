package identity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymlogger/pkg"

	"github.com/go-redis/redis/v8"
)

const (
	tokensKeyPrefix = "gymlogger-tokens||"
	tokensKeyInfo   = "gymlogger token store"

	DefaultTokensTTL = 30 * 24 * time.Hour
)

// TokenStore keeps the tokens of the signed in user between requests and
// restarts. Load returns ErrNoSession when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (*Tokens, error)
	Save(ctx context.Context, tokens *Tokens) error
	Clear(ctx context.Context) error
}

type MemoryTokenStore struct {
	mutex  sync.Mutex
	tokens *Tokens
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load(_ context.Context) (*Tokens, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.tokens == nil {
		return nil, ErrNoSession
	}
	t := *s.tokens
	return &t, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, tokens *Tokens) error {
	if tokens == nil {
		return errors.New("save tokens: nil tokens")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	t := *tokens
	s.tokens = &t
	return nil
}

func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tokens = nil
	return nil
}

// RedisTokenStore keeps the tokens sealed in redis, one key per profile.
type RedisTokenStore struct {
	rdb *redis.Client
	key pkg.SecretKey
	ttl time.Duration
	// profile separates token sets of several app instances sharing redis
	profile string

	NonceFunc func() ([pkg.NonceSize]byte, error)
}

func NewRedisTokenStore(rdb *redis.Client, secret []byte, profile string, ttl time.Duration) (*RedisTokenStore, error) {
	key, err := pkg.DeriveKey(secret, tokensKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("token store key: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTokensTTL
	}
	return &RedisTokenStore{
		rdb:       rdb,
		key:       key,
		ttl:       ttl,
		profile:   profile,
		NonceFunc: pkg.RandomNonce,
	}, nil
}

func (s *RedisTokenStore) redisKey() string {
	return tokensKeyPrefix + s.profile
}

func (s *RedisTokenStore) Load(ctx context.Context) (*Tokens, error) {
	encoded, err := s.rdb.Get(ctx, s.redisKey()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	plain, err := pkg.Open(s.key, sealed)
	if err != nil {
		return nil, fmt.Errorf("open tokens: %w", err)
	}

	tokens := &Tokens{}
	if err := json.Unmarshal(plain, tokens); err != nil {
		return nil, fmt.Errorf("unmarshal tokens: %w", err)
	}
	return tokens, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, tokens *Tokens) error {
	if tokens == nil {
		return errors.New("save tokens: nil tokens")
	}

	plain, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	nonce, err := s.NonceFunc()
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(pkg.Seal(s.key, nonce, plain))

	if err := s.rdb.Set(ctx, s.redisKey(), encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.redisKey()).Err(); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}
