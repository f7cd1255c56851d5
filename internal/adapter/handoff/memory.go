package handoff

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"zerde-web/internal/common"
	"zerde-web/internal/domain"
)

// MemoryStore 实现了 port.HandoffStore 接口，单实例部署使用
type MemoryStore struct {
	mu      sync.Mutex
	entries *expirable.LRU[string, domain.Handoff]
}

// NewMemoryStore size 为最多保留的载荷数，ttl 为未被领取的载荷存活时间
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: expirable.NewLRU[string, domain.Handoff](size, nil, ttl)}
}

func (s *MemoryStore) Put(ctx context.Context, session string, h domain.Handoff) error {
	if err := validate(session, h); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Add(slot(session, h.Path), h)
	return nil
}

// Take 读取并删除；没有发往 path 的载荷时返回 nil, nil
func (s *MemoryStore) Take(ctx context.Context, session, path string) (*domain.Handoff, error) {
	if session == "" || path == "" {
		return nil, nil
	}
	key := slot(session, path)
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.entries.Get(key)
	if !ok {
		return nil, nil
	}
	s.entries.Remove(key)
	domain.Annotate(&h.Item)
	return &h, nil
}

// slot 同一会话发往不同页面的载荷互不覆盖
func slot(session, path string) string {
	return session + "|" + path
}

func validate(session string, h domain.Handoff) error {
	if session == "" {
		return common.NewError(common.ErrCodeHandoff, "缺少会话标识")
	}
	if h.Path == "" {
		return common.NewError(common.ErrCodeHandoff, "缺少目标页面")
	}
	return nil
}
