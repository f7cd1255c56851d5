package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"zerde-web/internal/common"
	"zerde-web/internal/domain"
)

const keyPrefix = "zerde:handoff:"

// RedisStore 实现了 port.HandoffStore 接口，多实例部署时共享交接载荷
type RedisStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client goredis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient 单节点连接，并用 PING 校验可用性
func NewRedisClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, common.WrapError(common.ErrCodeHandoff, "连接 Redis 失败", err)
	}
	return client, nil
}

func (s *RedisStore) Put(ctx context.Context, session string, h domain.Handoff) error {
	if err := validate(session, h); err != nil {
		return err
	}
	payload, err := json.Marshal(h)
	if err != nil {
		return common.WrapError(common.ErrCodeHandoff, "序列化交接载荷失败", err)
	}
	if err := s.client.Set(ctx, keyPrefix+slot(session, h.Path), payload, s.ttl).Err(); err != nil {
		return common.WrapError(common.ErrCodeHandoff, "写入交接载荷失败", err)
	}
	return nil
}

// Take 用 GETDEL 保证只被领取一次
func (s *RedisStore) Take(ctx context.Context, session, path string) (*domain.Handoff, error) {
	if session == "" || path == "" {
		return nil, nil
	}
	payload, err := s.client.GetDel(ctx, keyPrefix+slot(session, path)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, common.WrapError(common.ErrCodeHandoff, "读取交接载荷失败", err)
	}

	var h domain.Handoff
	if err := json.Unmarshal(payload, &h); err != nil {
		return nil, common.WrapError(common.ErrCodeHandoff, "解析交接载荷失败", err)
	}
	domain.Annotate(&h.Item)
	return &h, nil
}
