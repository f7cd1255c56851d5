package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// extra 字段由各模块自由填充，以下访问器在缺失或类型不符时返回零值

// ExtraString 读取字符串字段，数字会被格式化
func (i *Item) ExtraString(key string) string {
	v, ok := i.Extra[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// ExtraInt 读取整数字段，第二个返回值表示字段存在且可解析
func (i *Item) ExtraInt(key string) (int, bool) {
	v, ok := i.Extra[key]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(t), ",", ""))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// ExtraStrings 读取字符串数组，非字符串元素被跳过
func (i *Item) ExtraStrings(key string) []string {
	v, ok := i.Extra[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return nil
	}
}

// Guest 播客嘉宾
type Guest struct {
	Name   string
	NameZh string
	Title  string
}

// DisplayName 优先中文名
func (g Guest) DisplayName() string {
	if g.NameZh != "" {
		return g.NameZh
	}
	return g.Name
}

// ExtraGuests 读取 extra.guests，既支持对象数组也支持纯名字数组
func (i *Item) ExtraGuests() []Guest {
	raw, ok := i.Extra["guests"].([]any)
	if !ok {
		return nil
	}
	guests := make([]Guest, 0, len(raw))
	for _, g := range raw {
		switch t := g.(type) {
		case string:
			if t != "" {
				guests = append(guests, Guest{Name: t})
			}
		case map[string]any:
			guest := Guest{
				Name:   stringOf(t["name"]),
				NameZh: stringOf(t["name_zh"]),
				Title:  stringOf(t["title"]),
			}
			if guest.Name != "" || guest.NameZh != "" {
				guests = append(guests, guest)
			}
		}
	}
	return guests
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// RepoRef 开源项目的 owner/name
type RepoRef struct {
	Owner string
	Name  string
}

// Path 例如 "openai/gpt"
func (r RepoRef) Path() string {
	if r.Owner == "" {
		return r.Name
	}
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// OGImage GitHub 为每个仓库生成的社交预览图
func (r RepoRef) OGImage() string {
	if r.Owner == "" || r.Name == "" {
		return ""
	}
	return "https://opengraph.githubassets.com/1/" + r.Path()
}

// RepoRef 由 extra.repo_path 按 "/" 拆分；缺失时退回 extra.owner 与标题
func (i *Item) RepoRef() RepoRef {
	if path := strings.Trim(i.ExtraString("repo_path"), "/"); path != "" {
		if owner, name, ok := strings.Cut(path, "/"); ok {
			return RepoRef{Owner: owner, Name: name}
		}
		return RepoRef{Name: path}
	}

	owner := i.ExtraString("owner")
	name := i.Title
	if o, n, ok := strings.Cut(i.Title, "/"); ok {
		if owner == "" {
			owner = o
		}
		name = n
	}
	return RepoRef{Owner: strings.TrimSpace(owner), Name: strings.TrimSpace(name)}
}

// TweetID 优先 extra.tweet_id，否则去掉 id 的 twitter_ 前缀
func (i *Item) TweetID() string {
	if id := i.ExtraString("tweet_id"); id != "" {
		return id
	}
	if strings.HasPrefix(i.ID, PrefixTwitter) {
		return strings.TrimPrefix(i.ID, PrefixTwitter)
	}
	return ""
}

// VideoID YouTube 视频 id，来自 extra.video_id 或 id 前缀
func (i *Item) VideoID() string {
	if id := i.ExtraString("video_id"); id != "" {
		return id
	}
	if strings.HasPrefix(i.ID, PrefixYouTube) {
		return strings.TrimPrefix(i.ID, PrefixYouTube)
	}
	return ""
}

// Duration 时长，"N/A" 视为缺失
func (i *Item) Duration() string {
	d := strings.TrimSpace(i.ExtraString("duration"))
	if strings.EqualFold(d, "N/A") {
		return ""
	}
	return d
}

// ArticleType 新闻条目的子类型：official 官方博客 / substack Newsletter
func (i *Item) ArticleType() string {
	return i.ExtraString("type")
}
