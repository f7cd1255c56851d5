package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"zerde-web/internal/adapter/api"
	"zerde-web/internal/adapter/github"
	"zerde-web/internal/adapter/handoff"
	"zerde-web/internal/adapter/producthunt"
	"zerde-web/internal/config"
	"zerde-web/internal/logger"
	"zerde-web/internal/metrics"
	"zerde-web/internal/port"
	"zerde-web/internal/service"
	"zerde-web/internal/service/querycache"
	"zerde-web/internal/service/search"
)

// app 持有解析后的配置，各子命令从这里组装依赖
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

func (a *app) logger(out io.Writer) logrus.FieldLogger {
	return logger.WithService(logger.NewWithOutput(out, a.cfg.Log.Level, a.cfg.Log.Format), serviceName)
}

// contentService 组装 API 客户端、查询缓存、Product Hunt 数据源和可选的 GitHub 补全
func (a *app) contentService(log logrus.FieldLogger, m *metrics.Metrics) *service.ContentService {
	client := api.NewClient(a.cfg.APIBase(), a.cfg.API.Timeout,
		api.WithLogger(log),
		api.WithMetrics(m),
		api.WithPageSize(a.cfg.Search.PageSize),
	)
	cache := service.NewQueryCache(querycache.Options{
		TTL:        a.cfg.Cache.TTL,
		MaxEntries: a.cfg.Cache.MaxEntries,
	}, m, log)

	opts := []service.Option{
		service.WithSource(producthunt.NewCatalog()),
		service.WithLogger(log),
		service.WithMetrics(m),
	}
	if a.cfg.GitHub.Enrich {
		if a.cfg.GitHub.Token == "" {
			log.Warn("⚠️ 未配置 github.token，GitHub 补全将使用匿名额度")
		}
		opts = append(opts, service.WithEnricher(github.NewEnricher(a.cfg.GitHub.Token,
			github.WithLogger(log),
			github.WithMetrics(m),
		)))
	}
	return service.NewContentService(client, cache, opts...)
}

func (a *app) searchRegistry(content *service.ContentService, log logrus.FieldLogger, m *metrics.Metrics) *search.Registry {
	factory := func() *search.Controller {
		return search.NewController(content,
			search.WithDelay(a.cfg.Search.Debounce),
			search.WithLogger(log),
			search.WithMetrics(m),
		)
	}
	return search.NewRegistry(a.cfg.Session.Max, a.cfg.Session.TTL, factory, m)
}

// handoffStore 返回的 close 函数在退出时调用
func (a *app) handoffStore(ctx context.Context, log logrus.FieldLogger) (port.HandoffStore, func(), error) {
	switch a.cfg.Handoff.Backend {
	case "redis":
		client, err := handoff.NewRedisClient(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("连接 Redis 失败: %w", err)
		}
		log.WithField("addr", a.cfg.Redis.Addr).Info("🔗 搜索跳转载荷存放在 Redis")
		return handoff.NewRedisStore(client, a.cfg.Handoff.TTL), func() { _ = client.Close() }, nil
	default:
		return handoff.NewMemoryStore(a.cfg.Session.Max, a.cfg.Handoff.TTL), func() {}, nil
	}
}

func (a *app) requireAPI() error {
	if a.cfg.APIBase() == "" {
		return errors.New("需要 --api、ZERDE_API_BASE_URL 或 ZERDE_SERVER_PUBLIC_URL")
	}
	return nil
}
