package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// OTPTTL is how long a one-time password may be used.
	OTPTTL = 10 * time.Minute
	// otpRetention keeps entries past expiry so a late attempt reads as expired
	// and a verified email survives until registration.
	otpRetention = time.Hour
)

type OTPEntry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	Verified  bool      `json:"verified"`
}

func (e *OTPEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// OTPStore keeps pending email verifications keyed by address. Get returns
// nil without error when nothing is stored.
type OTPStore interface {
	Put(ctx context.Context, email string, entry OTPEntry) error
	Get(ctx context.Context, email string) (*OTPEntry, error)
	Delete(ctx context.Context, email string) error
}

type RedisOTPStore struct {
	Redis *redis.Client
}

func NewRedisOTPStore(rdb *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{Redis: rdb}
}

func otpKey(email string) string {
	return "otp:" + email
}

func (s *RedisOTPStore) Put(ctx context.Context, email string, entry OTPEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ttl := time.Until(entry.ExpiresAt) + otpRetention
	return s.Redis.Set(ctx, otpKey(email), data, ttl).Err()
}

func (s *RedisOTPStore) Get(ctx context.Context, email string) (*OTPEntry, error) {
	data, err := s.Redis.Get(ctx, otpKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read otp: %w", err)
	}
	var entry OTPEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode otp: %w", err)
	}
	return &entry, nil
}

func (s *RedisOTPStore) Delete(ctx context.Context, email string) error {
	return s.Redis.Del(ctx, otpKey(email)).Err()
}

// MemoryOTPStore is the single-instance fallback. Stale entries are dropped
// lazily on lookup and by Sweep.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]OTPEntry
	now     func() time.Time
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{entries: make(map[string]OTPEntry), now: time.Now}
}

func (s *MemoryOTPStore) stale(e OTPEntry) bool {
	return s.now().After(e.ExpiresAt.Add(otpRetention))
}

func (s *MemoryOTPStore) Put(ctx context.Context, email string, entry OTPEntry) error {
	s.mu.Lock()
	s.entries[email] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryOTPStore) Get(ctx context.Context, email string) (*OTPEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[email]
	if !ok {
		return nil, nil
	}
	if s.stale(entry) {
		delete(s.entries, email)
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryOTPStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	delete(s.entries, email)
	s.mu.Unlock()
	return nil
}

// Sweep removes every stale entry and returns how many were dropped.
func (s *MemoryOTPStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for email, entry := range s.entries {
		if s.stale(entry) {
			delete(s.entries, email)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryOTPStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
