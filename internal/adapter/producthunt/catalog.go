package producthunt

import (
	"context"
	"time"

	"zerde-web/internal/domain"
)

// nowFunc 便于测试固定时间
var nowFunc = time.Now

// Catalog 实现了 port.ModuleSource 接口
// 内置的 Product Hunt 榜单，接入官方 API 前作为数据源
type Catalog struct {
	detail domain.ModuleDetail
}

// NewCatalog 构建榜单，pub_date 取构建时刻
func NewCatalog() *Catalog {
	pubDate := nowFunc().UTC().Format(time.RFC3339)

	launches := []launch{
		{
			id: "ph_1", title: "Cursor", titleZh: "Cursor - AI 代码编辑器",
			summary: "The AI-first code editor. Build software faster with AI that understands your codebase.",
			link:    "https://www.cursor.com", author: "Cursor Team",
			thumbnail: "https://ph-files.imgix.net/cursor-logo.png",
			tags:      []string{"AI", "Developer Tools", "Productivity"},
			fame:      1200, upvotes: 2847, comments: 342,
			tagline: "The AI-first code editor",
			topics:  []string{"Artificial Intelligence", "Developer Tools", "Productivity"},
			hero:    true,
		},
		{
			id: "ph_2", title: "v0 by Vercel", titleZh: "v0 - AI 生成 UI 组件",
			summary: "Generate UI with simple text prompts. Copy, paste, ship.",
			link:    "https://v0.dev", author: "Vercel",
			tags: []string{"AI", "Design Tools"},
			fame: 980, upvotes: 1923, comments: 187,
			tagline: "Generate UI with simple text prompts",
			topics:  []string{"Artificial Intelligence", "Design Tools", "No-Code"},
		},
		{
			id: "ph_3", title: "Perplexity", titleZh: "Perplexity - AI 搜索引擎",
			summary: "Ask anything. Get instant answers with cited sources.",
			link:    "https://perplexity.ai", author: "Perplexity AI",
			tags: []string{"AI", "Search"},
			fame: 890, upvotes: 1654, comments: 156,
			tagline: "Ask anything. Get instant answers.",
			topics:  []string{"Artificial Intelligence", "Search Engine", "Productivity"},
		},
		{
			id: "ph_4", title: "Bolt.new", titleZh: "Bolt.new - AI 全栈开发",
			summary: "Prompt, run, edit, and deploy full-stack web apps.",
			link:    "https://bolt.new", author: "StackBlitz",
			tags: []string{"AI", "Developer Tools"},
			fame: 850, upvotes: 1432, comments: 198,
			tagline: "Prompt, run, edit, and deploy full-stack web apps",
			topics:  []string{"Artificial Intelligence", "Developer Tools", "Web Development"},
		},
		{
			id: "ph_5", title: "Lovable", titleZh: "Lovable - AI 应用构建器",
			summary: "Build apps with AI. From idea to production in minutes.",
			link:    "https://lovable.dev", author: "Lovable",
			tags: []string{"AI", "No-Code"},
			fame: 780, upvotes: 1287, comments: 143,
			tagline: "Build apps with AI",
			topics:  []string{"Artificial Intelligence", "No-Code", "Productivity"},
		},
		{
			id: "ph_6", title: "Replit Agent", titleZh: "Replit Agent - AI 编程助手",
			summary: "Build apps by describing what you want. AI handles the rest.",
			link:    "https://replit.com", author: "Replit",
			tags: []string{"AI", "Developer Tools"},
			fame: 720, upvotes: 1156, comments: 132,
			tagline: "Build apps by describing what you want",
			topics:  []string{"Artificial Intelligence", "Developer Tools", "IDE"},
		},
	}

	detail := domain.ModuleDetail{
		Module:   domain.ModuleProductHunt,
		ModuleZh: "Product Hunt",
		Icon:     "🚀",
	}
	for _, l := range launches {
		item := l.toItem(pubDate)
		if l.hero {
			hero := item
			detail.Hero = &hero
			continue
		}
		detail.Items = append(detail.Items, item)
	}
	detail.Total = len(launches)
	detail.Normalize()

	return &Catalog{detail: detail}
}

func (c *Catalog) Module() string {
	return domain.ModuleProductHunt
}

// ModuleDetail 返回榜单副本；内置数据不区分时间范围，days 被忽略
func (c *Catalog) ModuleDetail(ctx context.Context, days int) (*domain.ModuleDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := c.detail
	if c.detail.Hero != nil {
		hero := *c.detail.Hero
		out.Hero = &hero
	}
	out.Items = append([]domain.Item(nil), c.detail.Items...)
	return &out, nil
}

type launch struct {
	id, title, titleZh, summary, link, author, thumbnail string
	tags                                                 []string
	fame                                                 float64
	upvotes, comments                                    int
	tagline                                              string
	topics                                               []string
	hero                                                 bool
}

func (l launch) toItem(pubDate string) domain.Item {
	tags := make([]domain.Tag, 0, len(l.tags))
	for _, t := range l.tags {
		tags = append(tags, domain.Tag{Label: t, Type: "topic"})
	}
	topics := make([]any, 0, len(l.topics))
	for _, t := range l.topics {
		topics = append(topics, t)
	}
	isHero := 0
	if l.hero {
		isHero = 1
	}

	return domain.Item{
		ID:        l.id,
		Module:    domain.ModuleProductHunt,
		Title:     l.title,
		TitleZh:   l.titleZh,
		Summary:   l.summary,
		Link:      l.link,
		Source:    "Product Hunt",
		Author:    l.author,
		PubDate:   pubDate,
		Thumbnail: l.thumbnail,
		Tags:      tags,
		FameScore: l.fame,
		Extra: map[string]any{
			"upvotes":  float64(l.upvotes),
			"comments": float64(l.comments),
			"tagline":  l.tagline,
			"topics":   topics,
		},
		KeyPoints: []string{},
		IsHero:    isHero,
	}
}
