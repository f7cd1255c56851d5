package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"zerde-web/internal/domain"
	"zerde-web/internal/metrics"
	"zerde-web/internal/port"
	"zerde-web/internal/service/querycache"
	"zerde-web/internal/service/view"
)

// ContentService 页面读取数据的唯一入口
// 所有读取都经过 querycache，同一 key 的并发请求只打一次上游
type ContentService struct {
	api      port.ContentAPI
	cache    *querycache.Cache
	sources  map[string]port.ModuleSource
	enricher port.RepoEnricher
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

type Option func(*ContentService)

// WithSource 用本地数据源替代某个模块的 API 读取
func WithSource(src port.ModuleSource) Option {
	return func(s *ContentService) {
		s.sources[src.Module()] = src
	}
}

// WithEnricher 为 products 模块的开源项目补全 GitHub 数据
func WithEnricher(e port.RepoEnricher) Option {
	return func(s *ContentService) {
		s.enricher = e
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *ContentService) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ContentService) {
		s.metrics = m
	}
}

// NewContentService 创建内容服务
func NewContentService(api port.ContentAPI, cache *querycache.Cache, opts ...Option) *ContentService {
	s := &ContentService{
		api:     api,
		cache:   cache,
		sources: make(map[string]port.ModuleSource),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewQueryCache 创建查询缓存，命中情况写入指标，失败写日志
func NewQueryCache(opts querycache.Options, m *metrics.Metrics, log logrus.FieldLogger) *querycache.Cache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return querycache.New(opts, querycache.Hooks{
		OnHit:    func(string) { m.CacheLookup("hit") },
		OnMiss:   func(string) { m.CacheLookup("miss") },
		OnShared: func(string) { m.CacheLookup("shared") },
		OnError: func(key string, err error) {
			m.CacheLookup("error")
			log.WithError(err).WithField("key", key).Warn("⚠️ 数据加载失败")
		},
	})
}

// Modules 首页模块概览
func (s *ContentService) Modules(ctx context.Context) (*domain.ModulesResponse, error) {
	return querycache.Get(ctx, s.cache, querycache.ModulesKey(), s.api.FetchModules)
}

// WeeklySummary AI 周报，Data 为 nil 表示暂无
func (s *ContentService) WeeklySummary(ctx context.Context) (*domain.WeeklySummaryResponse, error) {
	return querycache.Get(ctx, s.cache, querycache.WeeklySummaryKey(), s.api.FetchWeeklySummary)
}

// ModuleDetail 单模块列表，(module, days) 各自独立缓存
func (s *ContentService) ModuleDetail(ctx context.Context, module string, days int) (*domain.ModuleDetail, error) {
	return querycache.Get(ctx, s.cache, querycache.ModuleKey(module, days), func(ctx context.Context) (*domain.ModuleDetail, error) {
		return s.loadModule(ctx, module, days)
	})
}

// SearchItems 搜索不缓存，每次输入都是新查询
func (s *ContentService) SearchItems(ctx context.Context, query, module string) (*domain.ItemList, error) {
	return s.api.SearchItems(ctx, query, module)
}

// Prefetch 后台预热，已缓存或加载中的 key 不会重复请求
func (s *ContentService) Prefetch(module string, days int) {
	s.cache.Prefetch(querycache.ModuleKey(module, days), func(ctx context.Context) (any, error) {
		return s.loadModule(ctx, module, days)
	})
}

func (s *ContentService) Stats() querycache.Stats {
	return s.cache.Stats()
}

// LoadPage 并发加载页面所有标签的数据集
// wait > 0 时最多等待 wait，未返回的数据集保持 loading 状态，加载本身在后台继续
func (s *ContentService) LoadPage(ctx context.Context, m *view.Machine, wait time.Duration) view.Datasets {
	waitCtx := ctx
	if wait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	keys := m.Keys()
	days := make(map[string]int, len(keys))
	for _, t := range m.Page().Tabs {
		days[t.Module] = m.DaysFor(t)
	}

	results := make([]querycache.State, 0, len(keys))
	modules := make([]string, 0, len(keys))
	for module := range keys {
		modules = append(modules, module)
		results = append(results, querycache.State{})
	}

	var g errgroup.Group
	for idx, module := range modules {
		idx, module := idx, module
		g.Go(func() error {
			detail, err := s.ModuleDetail(waitCtx, module, days[module])
			switch {
			case err == nil:
				results[idx] = querycache.State{Status: querycache.StatusSuccess, Data: detail, UpdatedAt: time.Now()}
			case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
				results[idx] = s.cache.State(keys[module])
			default:
				results[idx] = querycache.State{Status: querycache.StatusError, Err: err, UpdatedAt: time.Now()}
			}
			return nil
		})
	}
	_ = g.Wait()

	data := make(view.Datasets, len(modules))
	for idx, module := range modules {
		data[module] = results[idx]
	}
	return data
}

func (s *ContentService) loadModule(ctx context.Context, module string, days int) (*domain.ModuleDetail, error) {
	var (
		detail *domain.ModuleDetail
		err    error
	)
	if src, ok := s.sources[module]; ok {
		detail, err = src.ModuleDetail(ctx, days)
	} else {
		detail, err = s.api.FetchModuleDetail(ctx, module, days)
	}
	if err != nil {
		return nil, err
	}

	if module == domain.ModuleProducts && s.enricher != nil {
		s.enrich(ctx, detail)
	}

	s.log.WithFields(logrus.Fields{
		"module": module,
		"days":   days,
		"total":  detail.Total,
	}).Debug("📥 模块数据已加载")
	return detail, nil
}

// enrich 补全 hero 与列表中缺少 stars 的项目，失败时保留原值
func (s *ContentService) enrich(ctx context.Context, detail *domain.ModuleDetail) {
	items := detail.Items
	if detail.Hero != nil {
		items = append([]domain.Item{*detail.Hero}, items...)
	}
	if len(items) == 0 {
		return
	}
	enriched := s.enricher.Enrich(ctx, items)
	if len(enriched) != len(items) {
		return
	}
	if detail.Hero != nil {
		hero := enriched[0]
		detail.Hero = &hero
		enriched = enriched[1:]
	}
	detail.Items = enriched
}
