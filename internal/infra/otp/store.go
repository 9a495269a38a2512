package otp

import (
	"context"
	"sync"
	"time"
)

// 電話番号→OTPの保存の約束。TTLを過ぎたら取得できない。
// プロセス内のmap実装とRedis実装を差し替えられるようにする。
type Store interface {
	Set(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, bool, error)
	Delete(ctx context.Context, phone string) error
}

type entry struct {
	code      string
	expiresAt time.Time
}

// プロセス内実装。単体テスト用に時計を注入できる。
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// テストから時計を差し替える
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     now,
	}
}

func (s *MemoryStore) Set(_ context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//放置された登録のエントリを溜め込まないよう、書き込みのついでに掃除する
	s.evictExpiredLocked()

	s.entries[phone] = entry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, phone string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[phone]
	if !ok {
		return "", false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, phone)
		return "", false, nil
	}
	return e.code, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, phone)
	return nil
}

func (s *MemoryStore) evictExpiredLocked() {
	now := s.now()
	for phone, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, phone)
		}
	}
}
