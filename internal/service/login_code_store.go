package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// LoginCodeStore 验证码存储抽象：哈希随TTL过期，尝试次数与验证码同生命周期
type LoginCodeStore interface {
	// SaveCode 覆盖旧验证码并重置尝试计数
	SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error
	// GetCodeHash 未找到或已过期时返回ok=false
	GetCodeHash(ctx context.Context, email string) (hash string, ok bool, err error)
	// IncrAttempts 返回自增后的尝试次数
	IncrAttempts(ctx context.Context, email string) (int, error)
	// DeleteCode 验证成功后清除验证码与计数
	DeleteCode(ctx context.Context, email string) error
	// Clear 清空全部验证码（测试用）
	Clear(ctx context.Context) error
}

const (
	loginCodeKeyPrefix     = "login_code:"
	loginAttemptsKeyPrefix = "login_attempts:"
)

// RedisLoginCodeStore 多进程共享的验证码存储
type RedisLoginCodeStore struct {
	Client *redis.Client
}

func NewRedisLoginCodeStore(client *redis.Client) *RedisLoginCodeStore {
	return &RedisLoginCodeStore{Client: client}
}

func (s *RedisLoginCodeStore) SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error {
	pipe := s.Client.TxPipeline()
	pipe.Set(ctx, loginCodeKeyPrefix+email, codeHash, ttl)
	pipe.Del(ctx, loginAttemptsKeyPrefix+email)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisLoginCodeStore) GetCodeHash(ctx context.Context, email string) (string, bool, error) {
	hash, err := s.Client.Get(ctx, loginCodeKeyPrefix+email).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return hash, true, nil
}

func (s *RedisLoginCodeStore) IncrAttempts(ctx context.Context, email string) (int, error) {
	key := loginAttemptsKeyPrefix + email
	count, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// 计数与验证码同时过期
	if count == 1 {
		if ttl, err := s.Client.TTL(ctx, loginCodeKeyPrefix+email).Result(); err == nil && ttl > 0 {
			s.Client.Expire(ctx, key, ttl)
		}
	}
	return int(count), nil
}

func (s *RedisLoginCodeStore) DeleteCode(ctx context.Context, email string) error {
	return s.Client.Del(ctx, loginCodeKeyPrefix+email, loginAttemptsKeyPrefix+email).Err()
}

func (s *RedisLoginCodeStore) Clear(ctx context.Context) error {
	for _, pattern := range []string{loginCodeKeyPrefix + "*", loginAttemptsKeyPrefix + "*"} {
		iter := s.Client.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := s.Client.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
	}
	return nil
}

type memoryCodeEntry struct {
	hash      string
	expiresAt time.Time
	attempts  int
}

// MemoryLoginCodeStore 进程内实现，用于测试与无Redis的开发环境
type MemoryLoginCodeStore struct {
	mu    sync.Mutex
	codes map[string]*memoryCodeEntry
	// Now 可在测试中替换以模拟时间流逝
	Now func() time.Time
}

func NewMemoryLoginCodeStore() *MemoryLoginCodeStore {
	return &MemoryLoginCodeStore{
		codes: make(map[string]*memoryCodeEntry),
		Now:   time.Now,
	}
}

func (s *MemoryLoginCodeStore) SaveCode(_ context.Context, email, codeHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = &memoryCodeEntry{hash: codeHash, expiresAt: s.Now().Add(ttl)}
	return nil
}

func (s *MemoryLoginCodeStore) GetCodeHash(_ context.Context, email string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[email]
	if !ok || s.Now().After(entry.expiresAt) {
		delete(s.codes, email)
		return "", false, nil
	}
	return entry.hash, true, nil
}

func (s *MemoryLoginCodeStore) IncrAttempts(_ context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[email]
	if !ok {
		return 1, nil
	}
	entry.attempts++
	return entry.attempts, nil
}

func (s *MemoryLoginCodeStore) DeleteCode(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}

func (s *MemoryLoginCodeStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = make(map[string]*memoryCodeEntry)
	return nil
}
