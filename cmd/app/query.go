package main

import (
	"github.com/spf13/cobra"

	"zerde-web/internal/domain"
)

func newSearchCmd(a *app) *cobra.Command {
	var module string
	cmd := &cobra.Command{
		Use:   "search <关键词>",
		Short: "搜索内容",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPI(); err != nil {
				return err
			}
			content := a.contentService(a.logger(cmd.ErrOrStderr()), nil)
			list, err := content.SearchItems(cmd.Context(), args[0], module)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if len(list.Items) == 0 {
				p.warn("未找到相关内容")
				return nil
			}
			p.title("🔍 %q 共 %d 条", args[0], list.Total)
			for idx := range list.Items {
				p.item(&list.Items[idx])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&module, "module", "m", "", "只搜索某个模块，例如 youtube")
	return cmd
}

func newModulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "列出各模块今日收录数量",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPI(); err != nil {
				return err
			}
			content := a.contentService(a.logger(cmd.ErrOrStderr()), nil)
			resp, err := content.Modules(cmd.Context())
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.title("📅 %s", resp.Date)
			for _, m := range resp.Modules {
				label := domain.LabelOf(m.Module)
				p.info("  %s %-14s %d 条", label.Icon, label.Name, m.Total)
			}
			return nil
		},
	}
}

func newWeeklyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "weekly",
		Short: "查看本周 AI 周报",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPI(); err != nil {
				return err
			}
			content := a.contentService(a.logger(cmd.ErrOrStderr()), nil)
			resp, err := content.WeeklySummary(cmd.Context())
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			w := resp.Data
			if w == nil {
				p.warn("本周周报尚未生成")
				return nil
			}
			p.title("📰 %s  %s", domain.WeekRange(w.WeekStart, w.WeekEnd), w.Headline)
			if len(w.HotTopics) > 0 {
				p.info("热点话题")
				for _, t := range w.HotTopics {
					p.trend(t)
				}
			}
			if mentions := domain.TopMentions(w.CompanyMentions, 6); len(mentions) > 0 {
				p.info("公司提及")
				for _, m := range mentions {
					p.info("  %-12s %d", m.Name, m.Count)
				}
			}
			p.dim("本周共收录 %d 条内容", w.TotalItems)
			return nil
		},
	}
}
