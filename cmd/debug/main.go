package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"zerde-web/internal/adapter/api"
	"zerde-web/internal/adapter/producthunt"
	"zerde-web/internal/adapter/render"
	"zerde-web/internal/config"
	"zerde-web/internal/domain"
	"zerde-web/internal/service/view"
)

// 调试工具：拉取一个模块，打印每条内容的类型、跳转页面和详情模板
//
//	ZERDE_API_BASE_URL=http://localhost:8000 go run ./cmd/debug youtube 7
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("用法: %s <module> [days]", os.Args[0])
	}
	module := os.Args[1]
	days := view.DefaultDays
	if len(os.Args) > 2 {
		d, err := strconv.Atoi(os.Args[2])
		if err != nil || !view.ValidDays(d) {
			log.Fatalf("❌ days 只能是 1、3 或 7: %q", os.Args[2])
		}
		days = d
	}

	config.LoadEnv()
	cfg, err := config.Load(config.New())
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	fmt.Printf("🔍 调试模式：%s (最近 %d 天)\n", module, days)

	var detail *domain.ModuleDetail
	catalog := producthunt.NewCatalog()
	if module == catalog.Module() {
		detail, err = catalog.ModuleDetail(ctx, days)
	} else {
		if cfg.API.BaseURL == "" {
			log.Fatalf("❌ 请设置 ZERDE_API_BASE_URL")
		}
		start := time.Now()
		detail, err = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout).FetchModuleDetail(ctx, module, days)
		fmt.Printf("⏱️ 请求耗时 %s\n", time.Since(start).Round(time.Millisecond))
	}
	if err != nil {
		log.Fatalf("❌ 获取模块失败: %v", err)
	}

	fmt.Printf("✅ %s %s 共 %d 条 (hero: %v)\n", detail.Icon, detail.ModuleZh, detail.Total, detail.Hero != nil)

	if detail.Hero != nil {
		fmt.Println("\n--- Hero ---")
		dump(detail.Hero)
	}
	fmt.Println("\n--- Items ---")
	for idx := range detail.Items {
		dump(&detail.Items[idx])
	}
}

func dump(it *domain.Item) {
	d := render.DetailFor(it)
	fmt.Printf("[%s] %s\n", it.Kind, it.DisplayTitle())
	fmt.Printf("  id: %s\n", it.ID)
	fmt.Printf("  页面: %s\n", view.RouteFor(it))
	fmt.Printf("  详情模板: %s\n", d.Template())
	if it.PubDate != "" {
		fmt.Printf("  发布: %s (%s)\n", it.PubDate, domain.TimeAgo(it.PubDate, time.Now()))
	}
	if len(it.Extra) > 0 {
		fmt.Printf("  extra: %v\n", it.Extra)
	}
}
