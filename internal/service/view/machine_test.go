package view

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerde-web/internal/domain"
	"zerde-web/internal/service/querycache"
)

func loaded(detail *domain.ModuleDetail) querycache.State {
	detail.Normalize()
	return querycache.State{Status: querycache.StatusSuccess, Data: detail, UpdatedAt: time.Now()}
}

func item(id, module string, extra map[string]any) domain.Item {
	return domain.Item{ID: id, Module: module, Title: id, Extra: extra}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name  string
		state querycache.State
		want  Status
	}{
		{"未开始", querycache.State{}, StatusIdle},
		{"加载中", querycache.State{Status: querycache.StatusLoading}, StatusLoading},
		{"成功", querycache.State{Status: querycache.StatusSuccess}, StatusLoaded},
		{"失败", querycache.State{Status: querycache.StatusError, Err: errors.New("x")}, StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.state))
		})
	}
}

func TestSnapshot_EmptyState(t *testing.T) {
	m := NewMachine(GenericPage(domain.ModuleYouTube))
	data := Datasets{domain.ModuleYouTube: loaded(&domain.ModuleDetail{Module: domain.ModuleYouTube})}

	snap := m.Snapshot(data)

	assert.Equal(t, StatusLoaded, snap.Status)
	assert.True(t, snap.Empty)
	assert.False(t, snap.ShowHero())
	assert.False(t, snap.ShowList())
}

func TestSnapshot_LoadingAndFailed(t *testing.T) {
	m := NewMachine(GenericPage(domain.ModuleBusiness))

	snap := m.Snapshot(Datasets{domain.ModuleBusiness: {Status: querycache.StatusLoading}})
	assert.Equal(t, StatusLoading, snap.Status)
	assert.Equal(t, "Loading...", snap.Subtitle())
	assert.False(t, snap.Empty)

	boom := errors.New("502")
	snap = m.Snapshot(Datasets{domain.ModuleBusiness: {Status: querycache.StatusError, Err: boom}})
	assert.Equal(t, StatusFailed, snap.Status)
	assert.ErrorIs(t, snap.Err, boom)
	assert.Equal(t, "Error", snap.Subtitle())

	snap = m.Snapshot(Datasets{domain.ModuleBusiness: {Status: querycache.StatusSuccess, Data: "garbage"}})
	assert.Equal(t, StatusFailed, snap.Status)
}

func TestSnapshot_GenericPage(t *testing.T) {
	m := NewMachine(GenericPage(domain.ModuleYouTube))
	hero := item("youtube_h", domain.ModuleYouTube, nil)
	data := Datasets{domain.ModuleYouTube: loaded(&domain.ModuleDetail{
		Module: domain.ModuleYouTube, ModuleZh: "油管",
		Hero:  &hero,
		Items: []domain.Item{item("youtube_a", domain.ModuleYouTube, nil)},
		Total: 30,
	})}

	snap := m.Snapshot(data)

	assert.True(t, snap.ShowHero())
	assert.True(t, snap.ShowList())
	assert.Equal(t, "油管", snap.Title())
	assert.Equal(t, "30 items", snap.Subtitle())
	assert.Equal(t, VariantThumbnail, snap.Tab.Variant)
}

func TestSnapshot_NewsTabsFilterByType(t *testing.T) {
	m := NewMachine(tabbedPages["/substack"])
	hero := item("substack_h", domain.ModuleSubstack, map[string]any{"type": "substack"})
	data := Datasets{domain.ModuleSubstack: loaded(&domain.ModuleDetail{
		Module: domain.ModuleSubstack,
		Hero:   &hero,
		Items: []domain.Item{
			item("blog_1", domain.ModuleSubstack, map[string]any{"type": "official"}),
			item("news_1", domain.ModuleSubstack, map[string]any{"type": "substack"}),
			item("blog_2", domain.ModuleSubstack, map[string]any{"type": "official"}),
			item("untyped", domain.ModuleSubstack, nil),
		},
		Total: 5,
	})}

	blog := m.Snapshot(data)
	require.NotNil(t, blog.Hero)
	assert.Equal(t, "blog_1", blog.Hero.ID, "API hero 类型不符时取第一条")
	require.Len(t, blog.Items, 1)
	assert.Equal(t, "blog_2", blog.Items[0].ID)
	assert.Equal(t, 2, blog.Total)

	require.True(t, m.SwitchTab(TabNewsletter))
	news := m.Snapshot(data)
	assert.Equal(t, "substack_h", news.Hero.ID)
	require.Len(t, news.Items, 1)
	assert.Equal(t, "news_1", news.Items[0].ID)
}

func TestSwitchTab_DoesNotChangeKeys(t *testing.T) {
	m := NewMachine(tabbedPages["/podcast"])
	before := m.Keys()

	assert.True(t, m.SwitchTab(TabApplePodcast))
	assert.False(t, m.SwitchTab("spotify"))
	assert.Equal(t, TabApplePodcast, m.State().ActiveTab)

	assert.Equal(t, before, m.Keys())
	assert.Equal(t, querycache.ModuleKey(domain.ModuleYouTube, 7), before[domain.ModuleYouTube])
	assert.Equal(t, querycache.ModuleKey(domain.ModuleApplePodcast, 7), before[domain.ModuleApplePodcast])
}

func TestSnapshot_MergedTabs(t *testing.T) {
	m := NewMachine(tabbedPages["/twitter"])
	hero := item("twitter_h", domain.ModuleTwitter, nil)
	data := Datasets{
		domain.ModuleTwitter: loaded(&domain.ModuleDetail{Hero: &hero, Items: []domain.Item{item("twitter_a", domain.ModuleTwitter, nil)}, Total: 2}),
		domain.ModuleReddit:  {Status: querycache.StatusLoading},
	}

	snap := m.Snapshot(data)
	assert.Nil(t, snap.Hero)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "twitter_h", snap.Items[0].ID)
	assert.Equal(t, "2 posts", snap.Subtitle())

	m.SwitchTab(TabReddit)
	assert.Equal(t, StatusLoading, m.Snapshot(data).Status)
}

func TestSetDays(t *testing.T) {
	m := NewMachine(tabbedPages["/products"])

	assert.True(t, m.SetDays(3))
	assert.False(t, m.SetDays(5))
	assert.Equal(t, 3, m.State().Days)

	keys := m.Keys()
	assert.Equal(t, querycache.ModuleKey(domain.ModuleProducts, 3), keys[domain.ModuleProducts])
	// Product Hunt 不受日期筛选影响
	assert.Equal(t, querycache.ModuleKey(domain.ModuleProductHunt, 7), keys[domain.ModuleProductHunt])
}

func TestSelectAndClose(t *testing.T) {
	m := NewMachine(GenericPage(domain.ModuleProducts))
	data := Datasets{domain.ModuleProducts: loaded(&domain.ModuleDetail{
		Items: []domain.Item{item("gh_1", domain.ModuleProducts, map[string]any{"repo_path": "openai/gpt"})},
	})}

	assert.False(t, m.OverlayOpen())
	assert.False(t, m.SelectByID("missing", data))
	assert.False(t, m.OverlayOpen())

	assert.True(t, m.SelectByID("gh_1", data))
	assert.True(t, m.OverlayOpen())
	assert.Equal(t, domain.KindRepo, m.State().Selected.Kind)
	assert.True(t, m.Snapshot(data).OverlayOpen)

	m.Close()
	assert.False(t, m.OverlayOpen())
	assert.Nil(t, m.Snapshot(data).Selected)
}

func TestArrive(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		item    domain.Item
		wantTab string
	}{
		{"YouTube 通用页", "/youtube", item("youtube_xyz", domain.ModuleYouTube, nil), ""},
		{"官方博客", "/substack", item("s1", domain.ModuleSubstack, map[string]any{"type": "official"}), TabBlog},
		{"Newsletter", "/substack", item("s2", domain.ModuleSubstack, map[string]any{"type": "substack"}), TabNewsletter},
		{"苹果播客", "/podcast", item("apple_podcast_1", domain.ModuleApplePodcast, nil), TabApplePodcast},
		{"Reddit", "/twitter", item("reddit_1", domain.ModuleReddit, nil), TabReddit},
		{"Product Hunt", "/products", item("ph_2", domain.ModuleProductHunt, nil), TabProductHunt},
		{"GitHub", "/products", item("gh_1", domain.ModuleProducts, nil), TabGitHub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, ok := Lookup(tt.path)
			require.True(t, ok)
			m := NewMachine(page)

			assert.True(t, m.Arrive(&domain.Handoff{Item: tt.item}))

			assert.True(t, m.OverlayOpen())
			assert.Equal(t, tt.item.ID, m.State().Selected.ID)
			assert.Equal(t, tt.wantTab, m.State().ActiveTab)
		})
	}

	m := NewMachine(GenericPage(domain.ModuleYouTube))
	assert.False(t, m.Arrive(nil))
	assert.False(t, m.OverlayOpen())
}

func TestLookupAndRouteFor(t *testing.T) {
	page, ok := Lookup("/podcast")
	require.True(t, ok)
	assert.True(t, page.Tabbed())

	page, ok = Lookup("/youtube")
	require.True(t, ok)
	assert.False(t, page.Tabbed())
	assert.Equal(t, "YouTube", page.Title)

	page, ok = Lookup("/apple_podcast")
	require.True(t, ok)
	assert.Equal(t, "中文播客", page.Title)

	for _, path := range []string{"/a/b", "/", "/favicon.ico", "/robots.txt", "/YouTube", "/1abc", "/a-b"} {
		_, ok = Lookup(path)
		assert.False(t, ok, path)
	}

	assert.Equal(t, "/youtube", RouteFor(&domain.Item{Module: domain.ModuleYouTube}))
	assert.Equal(t, "/twitter", RouteFor(&domain.Item{Module: domain.ModuleTwitter}))
	assert.Equal(t, "/products?tab=producthunt", RouteFor(&domain.Item{Module: domain.ModuleProductHunt}))
	assert.Equal(t, "/", RouteFor(&domain.Item{}))
}
