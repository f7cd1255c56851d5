package render

import (
	"net/url"
	"strconv"

	"zerde-web/internal/domain"
	"zerde-web/internal/service/search"
	"zerde-web/internal/service/view"
)

// 页面提示文案
const (
	MsgLoading = "Loading..."
	MsgError   = "Failed to load. Please try again."
	MsgEmpty   = "No content available"
)

// NavItem 顶部导航
type NavItem struct {
	Path  string
	Label string
}

var navItems = []NavItem{
	{Path: "/", Label: "首页"},
	{Path: "/podcast", Label: "Podcast"},
	{Path: "/twitter", Label: "Social"},
	{Path: "/substack", Label: "News"},
	{Path: "/products", Label: "Product"},
}

// Layout 所有整页共享的外壳数据
type Layout struct {
	Title      string
	ActivePath string
	// DetailOpen 控制根节点的 detail-open 样式
	DetailOpen bool
	Search     SearchData
}

func (l Layout) Nav() []NavItem { return navItems }

// SearchData 搜索框与结果
type SearchData struct {
	Open    bool
	Query   string
	Loading bool
	Failed  bool
	Results []SearchResult
}

type SearchResult struct {
	Item  *domain.Item
	Label domain.ModuleLabel
}

// NoResults 有输入、已返回且为空
func (s SearchData) NoResults() bool {
	return s.Query != "" && !s.Loading && !s.Failed && len(s.Results) == 0
}

// NewSearchData 由控制器状态生成
func NewSearchData(st search.State) SearchData {
	d := SearchData{
		Open:    st.Open,
		Query:   st.Query,
		Loading: st.Loading,
		Failed:  st.Err != nil,
	}
	for idx := range st.Results {
		it := &st.Results[idx]
		d.Results = append(d.Results, SearchResult{Item: it, Label: domain.LabelOf(it.Module)})
	}
	return d
}

// Card 一张内容卡片
type Card struct {
	Item    *domain.Item
	Variant view.Variant
	Hero    bool
	Href    string
}

// Template 卡片模板名，hero 只有 repo / news / launch 有专门样式
func (c Card) Template() string {
	if !c.Hero {
		return "card_" + string(c.Variant)
	}
	switch c.Variant {
	case view.VariantRepo, view.VariantNews, view.VariantLaunch:
		return "hero_" + string(c.Variant)
	default:
		return "hero_default"
	}
}

// Stars 供 repo 卡片使用，字段缺失为 0
func (c Card) Stars() int {
	n, _ := c.Item.ExtraInt("stars")
	return n
}

type TabLink struct {
	Label  string
	Href   string
	Active bool
}

type DayLink struct {
	Label  string
	Href   string
	Active bool
}

// ModulePage 模块页
type ModulePage struct {
	Layout
	Snap      view.Snapshot
	Tabs      []TabLink
	Days      []DayLink
	Hero      *Card
	Cards     []Card
	Detail    Detail
	CloseHref string
	// Refresh 加载中时 HTMX 轮询的地址
	Refresh string
}

func (p ModulePage) Loading() bool {
	return p.Snap.Status == view.StatusLoading || p.Snap.Status == view.StatusIdle
}

func (p ModulePage) Failed() bool { return p.Snap.Status == view.StatusFailed }

// ShowDays 日期筛选只在受影响的标签上出现
func (p ModulePage) ShowDays() bool {
	return p.Snap.Page.DateFilter && p.Snap.Tab.UsesDays
}

// NewModulePage 由快照组装模块页
func NewModulePage(layout Layout, snap view.Snapshot) ModulePage {
	page := snap.Page
	tab := snap.Tab.ID

	layout.Title = snap.Title()
	layout.ActivePath = page.Path
	layout.DetailOpen = snap.OverlayOpen

	p := ModulePage{
		Layout:    layout,
		Snap:      snap,
		CloseHref: pageURL(page, tab, snap.Days, ""),
		Refresh:   pageURL(page, tab, snap.Days, ""),
	}

	if page.Tabbed() {
		for _, t := range page.Tabs {
			p.Tabs = append(p.Tabs, TabLink{
				Label:  t.Label,
				Href:   pageURL(page, t.ID, snap.Days, ""),
				Active: t.ID == tab,
			})
		}
	}
	for _, o := range view.DayOptions {
		p.Days = append(p.Days, DayLink{
			Label:  o.Label,
			Href:   pageURL(page, tab, o.Days, ""),
			Active: o.Days == snap.Days,
		})
	}

	if snap.ShowHero() {
		p.Hero = &Card{
			Item:    snap.Hero,
			Variant: snap.Tab.Variant,
			Hero:    true,
			Href:    pageURL(page, tab, snap.Days, snap.Hero.ID),
		}
	}
	for idx := range snap.Items {
		it := &snap.Items[idx]
		p.Cards = append(p.Cards, Card{
			Item:    it,
			Variant: snap.Tab.Variant,
			Href:    pageURL(page, tab, snap.Days, it.ID),
		})
	}

	if snap.OverlayOpen {
		p.Detail = DetailFor(snap.Selected)
	}
	return p
}

// pageURL 只写入与默认值不同的查询参数
func pageURL(page *view.Page, tab string, days int, item string) string {
	q := url.Values{}
	if page.Tabbed() && tab != page.DefaultTab().ID {
		q.Set("tab", tab)
	}
	if days != view.DefaultDays {
		q.Set("days", strconv.Itoa(days))
	}
	if item != "" {
		q.Set("item", item)
	}
	if len(q) == 0 {
		return page.Path
	}
	return page.Path + "?" + q.Encode()
}

// ModuleCard 首页模块入口
type ModuleCard struct {
	Module string
	Path   string
	Icon   string
	Name   string
	Desc   string
	Total  int
	Live   bool // Total 来自接口
}

var homeModules = []ModuleCard{
	{Module: domain.ModuleYouTube, Path: "/youtube", Icon: "📺", Name: "YouTube", Desc: "AI 领域顶级频道"},
	{Module: domain.ModuleSubstack, Path: "/substack", Icon: "📝", Name: "News", Desc: "官方博客与 Newsletter"},
	{Module: domain.ModuleTwitter, Path: "/twitter", Icon: "𝕏", Name: "Social", Desc: "X / Twitter & Reddit"},
	{Module: domain.ModuleProducts, Path: "/products", Icon: "🚀", Name: "Product", Desc: "GitHub Trending"},
	{Module: domain.ModuleApplePodcast, Path: "/podcast", Icon: "🎧", Name: "中文播客", Desc: "AI 深度访谈"},
}

// Home 首页
type Home struct {
	Layout
	Date    string
	Modules []ModuleCard
	Weekly  *WeeklyCard
}

// NewHome modules 为 nil 时退回静态卡片；weekly 为 nil 时隐藏周报
func NewHome(layout Layout, modules *domain.ModulesResponse, weekly *domain.WeeklySummary) Home {
	layout.Title = "Zerde"
	layout.ActivePath = "/"

	h := Home{Layout: layout, Modules: make([]ModuleCard, len(homeModules))}
	copy(h.Modules, homeModules)

	if modules != nil {
		h.Date = modules.Date
		totals := make(map[string]int, len(modules.Modules))
		for _, m := range modules.Modules {
			totals[m.Module] = m.Total
		}
		for idx := range h.Modules {
			if n, ok := totals[h.Modules[idx].Module]; ok {
				h.Modules[idx].Total = n
				h.Modules[idx].Live = true
			}
		}
	}
	if weekly != nil {
		card := NewWeeklyCard(weekly)
		h.Weekly = &card
	}
	return h
}

// WeeklyCard 周报卡片
type WeeklyCard struct {
	Range         string
	Headline      string
	HotTopics     []domain.HotTopic
	TrendAnalysis string
	KeyEvents     []domain.KeyEvent
	Mentions      []domain.Mention
	TotalItems    int
}

const topMentions = 6

func NewWeeklyCard(s *domain.WeeklySummary) WeeklyCard {
	return WeeklyCard{
		Range:         domain.WeekRange(s.WeekStart, s.WeekEnd),
		Headline:      s.Headline,
		HotTopics:     s.HotTopics,
		TrendAnalysis: s.TrendAnalysis,
		KeyEvents:     s.KeyEvents,
		Mentions:      domain.TopMentions(s.CompanyMentions, topMentions),
		TotalItems:    s.TotalItems,
	}
}

// NotFound 404 页
type NotFound struct {
	Layout
	Path string
}

func NewNotFound(layout Layout, path string) NotFound {
	layout.Title = "404"
	return NotFound{Layout: layout, Path: path}
}
