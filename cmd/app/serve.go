package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"zerde-web/internal/adapter/render"
	"zerde-web/internal/adapter/web"
	"zerde-web/internal/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动页面服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("addr", ":8080", "监听地址")
	cmd.Flags().String("public-url", "", "站点对外地址，未配置 --api 时内容 API 走这里的 /api/v1")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("server.public_url", cmd.Flags().Lookup("public-url"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if err := a.requireAPI(); err != nil {
		return err
	}
	log := a.logger(os.Stdout)
	m := metrics.New(serviceName)

	content := a.contentService(log, m)
	renderer, err := render.New()
	if err != nil {
		return err
	}
	store, closeStore, err := a.handoffStore(ctx, log)
	if err != nil {
		return err
	}
	defer closeStore()

	srv, err := web.NewServer(web.Config{
		Addr:        a.cfg.Server.Addr,
		RenderWait:  a.cfg.Render.Wait,
		SessionTTL:  a.cfg.Session.TTL,
		ProxyTarget: a.cfg.API.BaseURL,
	}, web.Deps{
		Content:  content,
		Renderer: renderer,
		Searches: a.searchRegistry(content, log, m),
		Handoff:  store,
		Logger:   log,
		Metrics:  m,
	})
	if err != nil {
		return err
	}

	if a.cfg.API.BaseURL == "" {
		log.WithField("public_url", a.cfg.Server.PublicURL).Info("🌐 内容 API 与页面同源")
	} else {
		log.WithField("target", a.cfg.API.BaseURL).Info("🌐 /api/v1 代理到内容 API")
	}
	return srv.Run(ctx)
}
