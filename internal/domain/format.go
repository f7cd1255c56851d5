package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

// FormatStars 950 -> "950"，1500 -> "1.5k"，2000 -> "2k"
func FormatStars(n int) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	switch {
	// 999_950 四舍五入到 1000.0k 时进位成 "1m"
	case abs >= 1_000_000 || math.Round(float64(abs)/100) >= 10_000:
		return oneDecimal(float64(n)/1_000_000) + "m"
	case abs >= 1_000:
		return oneDecimal(float64(n)/1_000) + "k"
	default:
		return strconv.Itoa(n)
	}
}

func oneDecimal(f float64) string {
	s := strconv.FormatFloat(math.Round(f*10)/10, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// ParseTime 容错解析 API 中的时间字段，无时区时按 UTC 处理
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TimeAgo 相对时间：一小时内“刚刚”，一天内“N小时前”，否则“N天前”
// 空值或无法解析时返回空串，调用方省略该段
func TimeAgo(pubDate string, now time.Time) string {
	t, ok := ParseTime(pubDate)
	if !ok {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Hour:
		return "刚刚"
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d小时前", int(diff.Hours()))
	default:
		return fmt.Sprintf("%d天前", int(diff.Hours()/24))
	}
}

// Initial 缺少缩略图时的占位字符
func Initial(item *Item) string {
	title := strings.TrimSpace(item.DisplayTitle())
	if title == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r))
}

// WeekRange 周报日期范围，例如 "1/6 - 1/12"
func WeekRange(start, end string) string {
	s, okStart := ParseTime(start)
	e, okEnd := ParseTime(end)
	if !okStart || !okEnd {
		return strings.Trim(start+" - "+end, " -")
	}
	return fmt.Sprintf("%d/%d - %d/%d", s.Month(), s.Day(), e.Month(), e.Day())
}

// Mention 公司被提及次数
type Mention struct {
	Name  string
	Count int
}

// TopMentions 按次数降序取前 n 个，次数相同按名称排序
func TopMentions(mentions map[string]int, n int) []Mention {
	out := make([]Mention, 0, len(mentions))
	for name, count := range mentions {
		out = append(out, Mention{Name: name, Count: count})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Name < out[b].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
