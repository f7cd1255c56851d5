package domain

import "strings"

// Kind 内容形态，决定卡片和详情面板的渲染分支
type Kind string

const (
	KindArticle Kind = "article"
	KindVideo   Kind = "video"
	KindAudio   Kind = "audio"
	KindTweet   Kind = "tweet"
	KindRepo    Kind = "repo"
	KindLaunch  Kind = "launch"
)

// 模块名
const (
	ModuleYouTube      = "youtube"
	ModuleTwitter      = "twitter"
	ModuleReddit       = "reddit"
	ModuleSubstack     = "substack"
	ModuleProducts     = "products"
	ModuleBusiness     = "business"
	ModuleApplePodcast = "apple_podcast"
	ModuleProductHunt  = "producthunt"
)

// id 前缀约定
const (
	PrefixYouTube      = "youtube_"
	PrefixTwitter      = "twitter_"
	PrefixApplePodcast = "apple_podcast_"
)

// Classify 根据 id 前缀和模块推断内容形态
// 前缀优先：business 模块里也可能混入 youtube_ 视频
func Classify(item *Item) Kind {
	switch {
	case strings.HasPrefix(item.ID, PrefixYouTube):
		return KindVideo
	case strings.HasPrefix(item.ID, PrefixApplePodcast):
		return KindAudio
	case strings.HasPrefix(item.ID, PrefixTwitter):
		return KindTweet
	}

	switch item.Module {
	case ModuleYouTube:
		return KindVideo
	case ModuleApplePodcast:
		return KindAudio
	case ModuleTwitter:
		return KindTweet
	case ModuleProducts:
		return KindRepo
	case ModuleProductHunt:
		return KindLaunch
	default:
		return KindArticle
	}
}

// Annotate 补全 Kind，已有值时保持不变
func Annotate(item *Item) {
	if item.Kind == "" {
		item.Kind = Classify(item)
	}
}

// Normalize 标注所有条目，并保证 items 中不出现 hero
func (m *ModuleDetail) Normalize() {
	if m.Hero != nil {
		Annotate(m.Hero)
	}
	items := m.Items[:0]
	for _, it := range m.Items {
		if m.Hero != nil && it.ID == m.Hero.ID {
			continue
		}
		Annotate(&it)
		items = append(items, it)
	}
	m.Items = items
}

// Normalize 标注搜索结果
func (l *ItemList) Normalize() {
	for idx := range l.Items {
		Annotate(&l.Items[idx])
	}
}

// ModuleLabel 模块的展示名称与图标
type ModuleLabel struct {
	Name string
	Icon string
}

var moduleLabels = map[string]ModuleLabel{
	ModuleYouTube:      {Name: "YouTube", Icon: "📺"},
	ModuleSubstack:     {Name: "Substack", Icon: "📝"},
	ModuleTwitter:      {Name: "X / Twitter", Icon: "𝕏"},
	ModuleReddit:       {Name: "Reddit", Icon: "👽"},
	ModuleProducts:     {Name: "Product", Icon: "🚀"},
	ModuleBusiness:     {Name: "商业", Icon: "💼"},
	ModuleApplePodcast: {Name: "播客", Icon: "🎧"},
	ModuleProductHunt:  {Name: "Product Hunt", Icon: "🚀"},
}

// LabelOf 未登记的模块原样返回名称，图标用 📄
func LabelOf(module string) ModuleLabel {
	if l, ok := moduleLabels[module]; ok {
		return l
	}
	return ModuleLabel{Name: module, Icon: "📄"}
}
