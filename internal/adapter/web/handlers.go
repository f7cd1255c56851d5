package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"zerde-web/internal/adapter/render"
	"zerde-web/internal/domain"
	"zerde-web/internal/service/search"
	"zerde-web/internal/service/view"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         serviceName,
		"cache":           s.content.Stats(),
		"search_sessions": s.searches.Len(),
	})
}

// home 模块总数和周报并发加载，任一失败只降级对应区块
func (s *Server) home(c *gin.Context) {
	ctx := c.Request.Context()
	if s.cfg.RenderWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RenderWait)
		defer cancel()
	}

	var (
		modules *domain.ModulesResponse
		weekly  *domain.WeeklySummary
		g       errgroup.Group
	)
	g.Go(func() error {
		resp, err := s.content.Modules(ctx)
		if err != nil {
			s.logFor(c).WithError(err).Warn("⚠️ 模块概览加载失败，使用静态卡片")
			return nil
		}
		modules = resp
		// 预热各模块默认列表，点进模块页时直接命中缓存
		for _, m := range resp.Modules {
			s.content.Prefetch(m.Module, view.DefaultDays)
		}
		return nil
	})
	g.Go(func() error {
		resp, err := s.content.WeeklySummary(ctx)
		if err != nil {
			s.logFor(c).WithError(err).Warn("⚠️ 周报加载失败")
			return nil
		}
		weekly = resp.Data
		return nil
	})
	_ = g.Wait()

	s.page(c, http.StatusOK, render.PageHome, render.NewHome(s.layout(c), modules, weekly))
}

// modulePage 分页标签页与通用模块页共用
func (s *Server) modulePage(c *gin.Context) {
	page, ok := view.Lookup(c.Request.URL.Path)
	if !ok {
		s.notFound(c)
		return
	}
	ctx := c.Request.Context()
	m := view.NewMachine(page)

	if days, err := strconv.Atoi(c.Query("days")); err == nil {
		m.SetDays(days)
	}
	if tab := c.Query("tab"); tab != "" {
		m.SwitchTab(tab)
	}

	// 交接只在整页到达目标路径的这一次生效，刷新或局部刷新不会再打开浮层
	partial := isHTMX(c) && c.GetHeader("HX-Target") == "page-body"
	var handoff *domain.Handoff
	if !partial {
		h, err := s.handoff.Take(ctx, s.sessionOf(c), c.Request.URL.Path)
		if err != nil {
			s.logFor(c).WithError(err).Warn("⚠️ 读取交接数据失败")
		}
		handoff = h
	}
	if handoff != nil {
		s.metrics.Handoff("take")
		m.Arrive(handoff)
	}

	data := s.content.LoadPage(ctx, m, s.cfg.RenderWait)
	if handoff == nil {
		if id := c.Query("item"); id != "" {
			m.SelectByID(id, data)
		}
	}

	model := render.NewModulePage(s.layout(c), m.Snapshot(data))
	if partial {
		s.partial(c, http.StatusOK, render.PartialPageBody, model)
		return
	}
	s.page(c, http.StatusOK, render.PageModule, model)
}

func (s *Server) notFound(c *gin.Context) {
	s.page(c, http.StatusNotFound, render.PageNotFound, render.NewNotFound(s.layout(c), c.Request.URL.Path))
}

// searchQuery 每次输入一个请求；被后续输入取代的请求返回 204，HTMX 不做替换
func (s *Server) searchQuery(c *gin.Context) {
	ctrl := s.searches.Get(s.sessionOf(c))
	ticket := ctrl.Type(c.Query("q"))

	st, err := ctrl.Await(c.Request.Context(), ticket)
	switch {
	case errors.Is(err, search.ErrSuperseded):
		c.Status(http.StatusNoContent)
		return
	case err != nil:
		// 客户端已断开
		c.Status(http.StatusNoContent)
		return
	}
	if st.Err != nil {
		s.logFor(c).WithError(st.Err).WithField("query", st.Query).Warn("⚠️ 搜索失败")
	}
	s.partial(c, http.StatusOK, render.PartialSearchResults, render.NewSearchData(st))
}

func (s *Server) searchTransition(apply func(*search.Controller)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := s.searches.Get(s.sessionOf(c))
		apply(ctrl)
		s.partial(c, http.StatusOK, render.PartialSearch, render.NewSearchData(ctrl.State()))
	}
}

// searchSelect 存下选中条目后跳转到所属模块页
func (s *Server) searchSelect(c *gin.Context) {
	ctrl := s.searches.Get(s.sessionOf(c))
	nav, ok := ctrl.Select(c.PostForm("id"))
	if !ok {
		s.partial(c, http.StatusNotFound, render.PartialSearch, render.NewSearchData(ctrl.State()))
		return
	}

	h := domain.Handoff{Item: nav.Item, Path: nav.Path}
	if u, err := url.Parse(nav.Path); err == nil {
		h.Path = u.Path
	}
	if err := s.handoff.Put(c.Request.Context(), s.sessionOf(c), h); err != nil {
		s.logFor(c).WithError(err).WithField("item", nav.Item.ID).Warn("⚠️ 保存交接数据失败")
	} else {
		s.metrics.Handoff("put")
	}

	if isHTMX(c) {
		c.Header("HX-Redirect", nav.Path)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, nav.Path)
}

func (s *Server) layout(c *gin.Context) render.Layout {
	ctrl := s.searches.Get(s.sessionOf(c))
	return render.Layout{Search: render.NewSearchData(ctrl.State())}
}

func (s *Server) sessionOf(c *gin.Context) string {
	return c.GetString(ctxSession)
}

func (s *Server) page(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.renderer.Page(&buf, name, data); err != nil {
		s.logFor(c).WithError(err).WithField("page", name).Error("❌ 页面渲染失败")
		c.String(http.StatusInternalServerError, render.MsgError)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) partial(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.renderer.Partial(&buf, name, data); err != nil {
		s.logFor(c).WithError(err).WithField("partial", name).Error("❌ 片段渲染失败")
		c.String(http.StatusInternalServerError, render.MsgError)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
