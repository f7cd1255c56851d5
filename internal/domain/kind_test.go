package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want Kind
	}{
		{"youtube 前缀", Item{ID: "youtube_xyz", Module: ModuleYouTube}, KindVideo},
		{"business 中的视频", Item{ID: "youtube_abc", Module: ModuleBusiness}, KindVideo},
		{"推文", Item{ID: "twitter_1", Module: ModuleTwitter}, KindTweet},
		{"苹果播客", Item{ID: "apple_podcast_9", Module: ModuleApplePodcast}, KindAudio},
		{"开源项目", Item{ID: "gh_1", Module: ModuleProducts}, KindRepo},
		{"Product Hunt", Item{ID: "ph_1", Module: ModuleProductHunt}, KindLaunch},
		{"Newsletter", Item{ID: "substack_1", Module: ModuleSubstack}, KindArticle},
		{"Reddit", Item{ID: "reddit_1", Module: ModuleReddit}, KindArticle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.item))
		})
	}
}

func TestModuleDetailNormalize(t *testing.T) {
	detail := ModuleDetail{
		Module: ModuleYouTube,
		Hero:   &Item{ID: "youtube_a", Module: ModuleYouTube},
		Items: []Item{
			{ID: "youtube_a", Module: ModuleYouTube},
			{ID: "youtube_b", Module: ModuleYouTube},
		},
		Total: 2,
	}

	detail.Normalize()

	assert.Equal(t, KindVideo, detail.Hero.Kind)
	assert.Len(t, detail.Items, 1)
	assert.Equal(t, "youtube_b", detail.Items[0].ID)
	assert.Equal(t, KindVideo, detail.Items[0].Kind)
	assert.Equal(t, 2, detail.Total)
}

func TestModuleDetailFind(t *testing.T) {
	detail := &ModuleDetail{
		Hero:  &Item{ID: "h"},
		Items: []Item{{ID: "a"}, {ID: "b"}},
	}

	item, ok := detail.Find("b")
	assert.True(t, ok)
	assert.Equal(t, "b", item.ID)

	item, ok = detail.Find("h")
	assert.True(t, ok)
	assert.Equal(t, "h", item.ID)

	_, ok = detail.Find("missing")
	assert.False(t, ok)

	var nilDetail *ModuleDetail
	_, ok = nilDetail.Find("a")
	assert.False(t, ok)
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "中文", (&Item{Title: "en", TitleZh: "中文"}).DisplayTitle())
	assert.Equal(t, "same", (&Item{Title: "same", TitleZh: "same"}).DisplayTitle())
	assert.Equal(t, "en", (&Item{Title: "en"}).DisplayTitle())
}

func TestLabelOf(t *testing.T) {
	assert.Equal(t, "X / Twitter", LabelOf(ModuleTwitter).Name)
	assert.Equal(t, ModuleLabel{Name: "unknown", Icon: "📄"}, LabelOf("unknown"))
}
