package render

import "zerde-web/internal/domain"

// Detail 详情浮层的内容，按条目 Kind 区分
// Template 返回渲染它的模板名
type Detail interface {
	Template() string
	Source() *domain.Item
}

// RepoDetail 开源项目
type RepoDetail struct {
	Item      *domain.Item
	Owner     string
	Name      string
	Stars     int
	Forks     string
	Language  string
	StarsWeek string
	Features  []string
	TechStack []string
	OGImage   string
}

func (d RepoDetail) Template() string     { return "detail_repo" }
func (d RepoDetail) Source() *domain.Item { return d.Item }

// MediaDetail 视频或音频节目
type MediaDetail struct {
	Item     *domain.Item
	Audio    bool
	VideoID  string
	AudioURL string
	Duration string
	Guests   []domain.Guest
	Topics   []string
}

func (d MediaDetail) Template() string     { return "detail_media" }
func (d MediaDetail) Source() *domain.Item { return d.Item }

// TweetDetail 推文
type TweetDetail struct {
	Item    *domain.Item
	TweetID string
}

func (d TweetDetail) Template() string     { return "detail_tweet" }
func (d TweetDetail) Source() *domain.Item { return d.Item }

// LaunchDetail Product Hunt 产品
type LaunchDetail struct {
	Item     *domain.Item
	Upvotes  int
	Comments int
	Tagline  string
	Topics   []string
}

func (d LaunchDetail) Template() string     { return "detail_launch" }
func (d LaunchDetail) Source() *domain.Item { return d.Item }

// ArticleDetail 文章，可能附带视频或推文嵌入
type ArticleDetail struct {
	Item    *domain.Item
	VideoID string
	TweetID string
}

func (d ArticleDetail) Template() string     { return "detail_article" }
func (d ArticleDetail) Source() *domain.Item { return d.Item }

// DetailFor 按 Kind 分派详情内容；item 为 nil 时返回 nil
func DetailFor(item *domain.Item) Detail {
	if item == nil {
		return nil
	}
	domain.Annotate(item)

	switch item.Kind {
	case domain.KindRepo:
		ref := item.RepoRef()
		stars, _ := item.ExtraInt("stars")
		forks := item.ExtraString("forks")
		if n, ok := item.ExtraInt("forks"); ok {
			forks = domain.FormatStars(n)
		}
		return RepoDetail{
			Item:      item,
			Owner:     ref.Owner,
			Name:      ref.Name,
			Stars:     stars,
			Forks:     forks,
			Language:  item.ExtraString("language"),
			StarsWeek: item.ExtraString("stars_week"),
			Features:  item.ExtraStrings("features"),
			TechStack: item.ExtraStrings("tech_stack"),
			OGImage:   ref.OGImage(),
		}
	case domain.KindVideo, domain.KindAudio:
		d := MediaDetail{
			Item:     item,
			Audio:    item.Kind == domain.KindAudio,
			AudioURL: item.ExtraString("audio_url"),
			Duration: item.Duration(),
			Guests:   item.ExtraGuests(),
			Topics:   item.ExtraStrings("topics"),
		}
		if !d.Audio {
			d.VideoID = item.VideoID()
		}
		return d
	case domain.KindTweet:
		return TweetDetail{Item: item, TweetID: item.TweetID()}
	case domain.KindLaunch:
		upvotes, _ := item.ExtraInt("upvotes")
		comments, _ := item.ExtraInt("comments")
		return LaunchDetail{
			Item:     item,
			Upvotes:  upvotes,
			Comments: comments,
			Tagline:  item.ExtraString("tagline"),
			Topics:   item.ExtraStrings("topics"),
		}
	default:
		return ArticleDetail{Item: item, VideoID: item.VideoID(), TweetID: item.TweetID()}
	}
}
