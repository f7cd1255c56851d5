package view

import (
	"net/url"
	"regexp"
	"strings"

	"zerde-web/internal/domain"
)

// Variant 卡片样式
type Variant string

const (
	VariantThumbnail Variant = "thumbnail"
	VariantCompact   Variant = "compact"
	VariantRepo      Variant = "repo"
	VariantNews      Variant = "news"
	VariantLaunch    Variant = "launch"
	VariantTweet     Variant = "tweet"
	VariantPodcast   Variant = "podcast"
)

// Tab 页内的一个数据集视图
type Tab struct {
	ID       string
	Label    string
	Module   string // 读取的数据集
	Variant  Variant
	Unit     string // 副标题计数单位
	UsesDays bool   // 是否受日期筛选影响
	Merge    bool   // hero 并入列表网格展示
	Filter   func(*domain.Item) bool
}

// Page 一个路由对应的页面配置
type Page struct {
	Path       string
	Title      string
	Badge      string
	Tagline    string // 没有数据时的副标题
	Tabs       []Tab
	DateFilter bool
	// tabFor 从搜索跳转时根据条目推断应激活的标签
	tabFor func(*domain.Item) string
}

func (p *Page) Tabbed() bool { return len(p.Tabs) > 1 }

func (p *Page) DefaultTab() Tab { return p.Tabs[0] }

func (p *Page) Tab(id string) (Tab, bool) {
	for _, t := range p.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// TabFor 条目所属的标签，无法判断时返回默认标签
func (p *Page) TabFor(item *domain.Item) string {
	if p.tabFor == nil || item == nil {
		return p.DefaultTab().ID
	}
	if id := p.tabFor(item); id != "" {
		if _, ok := p.Tab(id); ok {
			return id
		}
	}
	return p.DefaultTab().ID
}

// Modules 页面依赖的数据集，去重且保持顺序
func (p *Page) Modules() []string {
	seen := make(map[string]bool, len(p.Tabs))
	var out []string
	for _, t := range p.Tabs {
		if !seen[t.Module] {
			seen[t.Module] = true
			out = append(out, t.Module)
		}
	}
	return out
}

// 标签页 ID
const (
	TabBlog         = "blog"
	TabNewsletter   = "newsletter"
	TabYouTube      = "youtube"
	TabApplePodcast = "apple_podcast"
	TabTwitter      = "twitter"
	TabReddit       = "reddit"
	TabGitHub       = "github"
	TabProductHunt  = "producthunt"
)

func articleType(kind string) func(*domain.Item) bool {
	return func(it *domain.Item) bool { return it.ArticleType() == kind }
}

var (
	newsPage = &Page{
		Path: "/substack", Title: "News", Badge: "News", Tagline: "AI News & Blogs",
		Tabs: []Tab{
			{ID: TabBlog, Label: "官方博客", Module: domain.ModuleSubstack, Variant: VariantNews, Unit: "articles", Filter: articleType("official")},
			{ID: TabNewsletter, Label: "Newsletter", Module: domain.ModuleSubstack, Variant: VariantNews, Unit: "articles", Filter: articleType("substack")},
		},
		tabFor: func(it *domain.Item) string {
			if it.ArticleType() == "official" {
				return TabBlog
			}
			return TabNewsletter
		},
	}

	podcastPage = &Page{
		Path: "/podcast", Title: "Podcast", Badge: "Podcast", Tagline: "AI Podcasts",
		Tabs: []Tab{
			{ID: TabYouTube, Label: "YouTube", Module: domain.ModuleYouTube, Variant: VariantPodcast, Unit: "videos", Merge: true},
			{ID: TabApplePodcast, Label: "中文播客", Module: domain.ModuleApplePodcast, Variant: VariantPodcast, Unit: "episodes", Merge: true},
		},
		tabFor: func(it *domain.Item) string {
			if it.Kind == domain.KindAudio {
				return TabApplePodcast
			}
			return TabYouTube
		},
	}

	socialPage = &Page{
		Path: "/twitter", Title: "Social", Badge: "Social", Tagline: "AI Social Media",
		Tabs: []Tab{
			{ID: TabTwitter, Label: "X / Twitter", Module: domain.ModuleTwitter, Variant: VariantTweet, Unit: "posts", Merge: true},
			{ID: TabReddit, Label: "Reddit", Module: domain.ModuleReddit, Variant: VariantCompact, Unit: "posts", Merge: true},
		},
		tabFor: func(it *domain.Item) string {
			if it.Module == domain.ModuleReddit {
				return TabReddit
			}
			return TabTwitter
		},
	}

	productPage = &Page{
		Path: "/products", Title: "Product", Badge: "Product", Tagline: "AI Products & Tools",
		DateFilter: true,
		Tabs: []Tab{
			{ID: TabGitHub, Label: "GitHub Trending", Module: domain.ModuleProducts, Variant: VariantRepo, Unit: "products", UsesDays: true},
			{ID: TabProductHunt, Label: "Product Hunt", Module: domain.ModuleProductHunt, Variant: VariantLaunch, Unit: "products"},
		},
		tabFor: func(it *domain.Item) string {
			if it.Module == domain.ModuleProductHunt {
				return TabProductHunt
			}
			return TabGitHub
		},
	}

	tabbedPages = map[string]*Page{
		newsPage.Path:    newsPage,
		podcastPage.Path: podcastPage,
		socialPage.Path:  socialPage,
		productPage.Path: productPage,
	}
)

type moduleConfig struct {
	title   string
	badge   string
	variant Variant
}

var moduleConfigs = map[string]moduleConfig{
	domain.ModuleYouTube:      {title: "YouTube", badge: "Video", variant: VariantThumbnail},
	domain.ModuleTwitter:      {title: "X / Twitter", badge: "Social", variant: VariantCompact},
	domain.ModuleSubstack:     {title: "News", badge: "Newsletter", variant: VariantNews},
	domain.ModuleProducts:     {title: "Product", badge: "GitHub", variant: VariantRepo},
	domain.ModuleBusiness:     {title: "Business", badge: "News", variant: VariantCompact},
	domain.ModuleApplePodcast: {title: "中文播客", badge: "Podcast", variant: VariantCompact},
}

// GenericPage /:module 的单数据集页面
func GenericPage(module string) *Page {
	cfg, ok := moduleConfigs[module]
	if !ok {
		cfg = moduleConfig{title: module, variant: VariantCompact}
	}
	return &Page{
		Path:       "/" + module,
		Title:      cfg.title,
		Badge:      cfg.badge,
		DateFilter: true,
		Tabs: []Tab{
			{ID: "", Label: cfg.title, Module: module, Variant: cfg.variant, Unit: "items", UsesDays: true},
		},
	}
}

// moduleName 模块名只含小写字母、数字和下划线，/favicon.ico 之类不会被当成模块
var moduleName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Lookup 按路径查找页面；多级路径、空路径和不像模块名的路径不对应任何页面
func Lookup(path string) (*Page, bool) {
	if p, ok := tabbedPages[path]; ok {
		return p, true
	}
	module := strings.Trim(path, "/")
	if !moduleName.MatchString(module) {
		return nil, false
	}
	return GenericPage(module), true
}

// RouteFor 条目所属模块页面的地址
// producthunt 没有独立页面，落到产品页的 Product Hunt 标签
func RouteFor(item *domain.Item) string {
	switch item.Module {
	case "":
		return "/"
	case domain.ModuleProductHunt:
		return productPage.Path + "?tab=" + TabProductHunt
	default:
		return "/" + url.PathEscape(item.Module)
	}
}

// DayOptions 日期筛选选项
var DayOptions = []struct {
	Days  int
	Label string
}{
	{1, "今天"},
	{3, "3天"},
	{7, "7天"},
}

const DefaultDays = 7

// ValidDays 仅接受 1 / 3 / 7
func ValidDays(d int) bool {
	for _, o := range DayOptions {
		if o.Days == d {
			return true
		}
	}
	return false
}
