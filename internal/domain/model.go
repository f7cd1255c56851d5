package domain

// Tag 内容标签，Type 取值 company / person / topic / tech / event / lang
type Tag struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Item 代表一条聚合内容 (视频、文章、推文、开源项目、播客…)
// 服务端只读，前端从不修改
type Item struct {
	// 基础信息
	ID      string `json:"id"` // 例如 "youtube_abc123"，前缀标明来源平台
	Module  string `json:"module"`
	Title   string `json:"title"`
	TitleZh string `json:"title_zh"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	Author  string `json:"author"`
	PubDate string `json:"pub_date"` // ISO-8601，可能为空

	Thumbnail string  `json:"thumbnail"`
	Tags      []Tag   `json:"tags"`
	FameScore float64 `json:"fame_score"`

	// --- AI 生成的摘要维度 (可能缺失) ---
	Summary     string   `json:"summary"`
	CoreInsight string   `json:"core_insight"`
	KeyPoints   []string `json:"key_points"`

	// 模块专属字段：stars / repo_path / tweet_id / guests ...
	// 只能通过 extra.go 中的访问器读取
	Extra map[string]any `json:"extra"`

	IsHero int `json:"is_hero"`

	// Kind 在数据访问边界派生一次，下游只看它，不再解析 id 前缀
	Kind Kind `json:"-"`
}

// DisplayTitle 有中文标题且与原标题不同时优先展示中文
func (i *Item) DisplayTitle() string {
	if i.TitleZh != "" && i.TitleZh != i.Title {
		return i.TitleZh
	}
	return i.Title
}

// HasThumbnail 是否有缩略图
func (i *Item) HasThumbnail() bool {
	return i.Thumbnail != ""
}

// ModuleDetail 单个模块的列表响应
// Hero 与 Items 不相交；Total 是权威计数
type ModuleDetail struct {
	Module   string `json:"module"`
	ModuleZh string `json:"module_zh"`
	Icon     string `json:"icon"`
	Hero     *Item  `json:"hero"`
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
}

// IsEmpty 空结果不是错误，页面渲染空状态
func (m *ModuleDetail) IsEmpty() bool {
	return m.Hero == nil && len(m.Items) == 0
}

// Find 按 id 在 hero 与 items 中查找
func (m *ModuleDetail) Find(id string) (*Item, bool) {
	if m == nil || id == "" {
		return nil, false
	}
	if m.Hero != nil && m.Hero.ID == id {
		return m.Hero, true
	}
	for idx := range m.Items {
		if m.Items[idx].ID == id {
			return &m.Items[idx], true
		}
	}
	return nil, false
}

// ModuleInfo 首页模块概览，结构与 ModuleDetail 相同
type ModuleInfo = ModuleDetail

// ModulesResponse GET /modules/
type ModulesResponse struct {
	Date    string       `json:"date"`
	Modules []ModuleInfo `json:"modules"`
}

// ItemList GET /items/
type ItemList struct {
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Trend 热点趋势
type Trend string

const (
	TrendUp   Trend = "上升"
	TrendDown Trend = "下降"
	TrendFlat Trend = "持平"
)

// Arrow 趋势箭头，未知值按持平处理
func (t Trend) Arrow() string {
	switch t {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	default:
		return "→"
	}
}

// Class 趋势对应的样式名
func (t Trend) Class() string {
	switch t {
	case TrendUp:
		return "trend-up"
	case TrendDown:
		return "trend-down"
	default:
		return "trend-flat"
	}
}

type HotTopic struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
	Trend       Trend  `json:"trend"`
}

type KeyEvent struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type ModuleStat struct {
	Count    int      `json:"count"`
	TopItems []string `json:"top_items"`
}

// WeeklySummary AI 周报
type WeeklySummary struct {
	ID              string                `json:"id"`
	WeekStart       string                `json:"week_start"`
	WeekEnd         string                `json:"week_end"`
	Headline        string                `json:"headline"`
	HotTopics       []HotTopic            `json:"hot_topics"`
	TrendAnalysis   string                `json:"trend_analysis"`
	KeyEvents       []KeyEvent            `json:"key_events"`
	CompanyMentions map[string]int        `json:"company_mentions"`
	TotalItems      int                   `json:"total_items"`
	ModulesStats    map[string]ModuleStat `json:"modules_stats"`
	CreatedAt       string                `json:"created_at"`
}

// WeeklySummaryResponse Data 为 nil 表示“还没有周报”，不是错误
type WeeklySummaryResponse struct {
	Data  *WeeklySummary `json:"data"`
	Error string         `json:"error,omitempty"`
}

// Handoff 从搜索结果跳转到模块页时携带的一次性载荷
// Path 是目标页面的路径 (不含查询参数)，只有到达该页面时才会被领取
type Handoff struct {
	Item Item   `json:"item"`
	Path string `json:"path"`
}
