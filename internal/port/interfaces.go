package port

import (
	"context"

	"zerde-web/internal/domain"
)

// ContentAPI (数据源): Zerde REST API 的四个只读接口
type ContentAPI interface {
	FetchModules(ctx context.Context) (*domain.ModulesResponse, error)
	FetchModuleDetail(ctx context.Context, module string, days int) (*domain.ModuleDetail, error)
	FetchWeeklySummary(ctx context.Context) (*domain.WeeklySummaryResponse, error)
	Searcher
}

// Searcher (检索员): 跨模块搜索，module 为空表示全部模块
type Searcher interface {
	SearchItems(ctx context.Context, query, module string) (*domain.ItemList, error)
}

// ModuleSource (本地数据源): 与 FetchModuleDetail 同构的替代来源
// 目前只有 Product Hunt 的内置数据，接入真实接口时只需替换实现
type ModuleSource interface {
	Module() string
	ModuleDetail(ctx context.Context, days int) (*domain.ModuleDetail, error)
}

// HandoffStore (交接柜): 搜索结果跳转时暂存选中的条目
// 按 (会话, 目标路径) 存放；Take 读取后立即删除，刷新页面不会再次取到
type HandoffStore interface {
	Put(ctx context.Context, session string, h domain.Handoff) error
	Take(ctx context.Context, session, path string) (*domain.Handoff, error)
}

// RepoEnricher (补全器): 为缺少 stars/forks/language 的开源项目补数据
type RepoEnricher interface {
	Enrich(ctx context.Context, items []domain.Item) []domain.Item
}
