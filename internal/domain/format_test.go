package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatStars(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want string
	}{
		{"千以下原样输出", 950, "950"},
		{"保留一位小数", 1500, "1.5k"},
		{"整千去掉 .0", 2000, "2k"},
		{"零", 0, "0"},
		{"四舍五入", 12345, "12.3k"},
		{"百万级", 2_500_000, "2.5m"},
		{"进位到百万", 999_950, "1m"},
		{"未到进位", 999_949, "999.9k"},
		{"负数进位", -999_950, "-1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatStars(tt.in))
		})
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pubDate string
		want    string
	}{
		{"一小时内", "2026-01-10T11:30:00Z", "刚刚"},
		{"几小时前", "2026-01-10T07:00:00Z", "5小时前"},
		{"几天前", "2026-01-07T12:00:00Z", "3天前"},
		{"无时区按 UTC", "2026-01-10T09:00:00", "3小时前"},
		{"空值", "", ""},
		{"无法解析", "not a date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(tt.pubDate, now))
		})
	}
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "C", Initial(&Item{Title: "cursor"}))
	assert.Equal(t, "开", Initial(&Item{Title: "Open", TitleZh: "开源"}))
	assert.Equal(t, "?", Initial(&Item{}))
}

func TestWeekRange(t *testing.T) {
	assert.Equal(t, "1/6 - 1/12", WeekRange("2026-01-06", "2026-01-12"))
	assert.Equal(t, "foo - bar", WeekRange("foo", "bar"))
}

func TestTopMentions(t *testing.T) {
	mentions := map[string]int{
		"OpenAI": 12, "Anthropic": 9, "Google": 9, "Meta": 4,
		"Mistral": 3, "xAI": 2, "DeepSeek": 1,
	}

	top := TopMentions(mentions, 6)

	assert.Len(t, top, 6)
	assert.Equal(t, Mention{Name: "OpenAI", Count: 12}, top[0])
	assert.Equal(t, "Anthropic", top[1].Name)
	assert.Equal(t, "Google", top[2].Name)
	assert.Equal(t, "xAI", top[5].Name)
}

func TestTrend(t *testing.T) {
	assert.Equal(t, "↑", TrendUp.Arrow())
	assert.Equal(t, "trend-down", TrendDown.Class())
	assert.Equal(t, "→", Trend("未知").Arrow())
	assert.Equal(t, "trend-flat", TrendFlat.Class())
}
