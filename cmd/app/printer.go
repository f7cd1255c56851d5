package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"zerde-web/internal/domain"
	"zerde-web/internal/service/view"
)

// printer 命令行输出，颜色在非终端下由 fatih/color 自动关闭
type printer struct {
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) title(format string, args ...any) {
	color.New(color.FgCyan, color.Bold).Fprintf(p.out, format+"\n", args...)
}

func (p *printer) info(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) dim(format string, args ...any) {
	color.New(color.Faint).Fprintf(p.out, format+"\n", args...)
}

func (p *printer) warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(p.out, "⚠️ "+format+"\n", args...)
}

// item 一条内容：图标、标题、作者，以及打开它的页面
func (p *printer) item(it *domain.Item) {
	label := domain.LabelOf(it.Module)
	color.New(color.FgGreen).Fprintf(p.out, "  %s %s", label.Icon, it.DisplayTitle())
	if it.Author != "" {
		fmt.Fprintf(p.out, "  · %s", it.Author)
	}
	fmt.Fprintln(p.out)
	p.dim("     → %s", view.RouteFor(it))
}

func (p *printer) trend(t domain.HotTopic) {
	var c *color.Color
	switch t.Trend {
	case domain.TrendUp:
		c = color.New(color.FgRed)
	case domain.TrendDown:
		c = color.New(color.FgBlue)
	default:
		c = color.New(color.FgWhite)
	}
	c.Fprintf(p.out, "  %s %s", t.Trend.Arrow(), t.Topic)
	if t.Description != "" {
		fmt.Fprintf(p.out, "  %s", strings.TrimSpace(t.Description))
	}
	fmt.Fprintln(p.out)
}
