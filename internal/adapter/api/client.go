package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"zerde-web/internal/common"
	"zerde-web/internal/domain"
	"zerde-web/internal/metrics"
)

const (
	basePath        = "/api/v1"
	DefaultDays     = 7
	DefaultPageSize = 10
	DefaultTimeout  = 30 * time.Second
)

// Client 实现了 port.ContentAPI 接口
// 只读、不重试：失败直接以 NETWORK_ERROR 返回给调用方
type Client struct {
	baseURL  string
	http     *http.Client
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	pageSize int
}

type Option func(*Client)

// WithHTTPClient 替换底层 http.Client (测试或自定义 Transport)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// NewClient baseURL 在启动时确定；为空时所有请求返回 INVALID_INPUT
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		log:      discard,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchModules GET /modules/
func (c *Client) FetchModules(ctx context.Context) (*domain.ModulesResponse, error) {
	var resp domain.ModulesResponse
	if err := c.get(ctx, "modules", "/modules/", nil, &resp); err != nil {
		return nil, err
	}
	for idx := range resp.Modules {
		resp.Modules[idx].Normalize()
	}
	return &resp, nil
}

// FetchModuleDetail GET /modules/{module}?days=N
func (c *Client) FetchModuleDetail(ctx context.Context, module string, days int) (*domain.ModuleDetail, error) {
	if module == "" {
		return nil, common.NewError(common.ErrCodeInvalidInput, "module 不能为空")
	}
	if days <= 0 {
		days = DefaultDays
	}

	query := url.Values{}
	query.Set("days", strconv.Itoa(days))

	var detail domain.ModuleDetail
	if err := c.get(ctx, "module_detail", "/modules/"+url.PathEscape(module), query, &detail); err != nil {
		return nil, err
	}
	if detail.Module == "" {
		detail.Module = module
	}
	detail.Normalize()
	return &detail, nil
}

// FetchWeeklySummary GET /weekly/summary，data 为 null 不算错误
func (c *Client) FetchWeeklySummary(ctx context.Context) (*domain.WeeklySummaryResponse, error) {
	var resp domain.WeeklySummaryResponse
	if err := c.get(ctx, "weekly_summary", "/weekly/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchItems GET /items/?q=&module=&page_size=10
func (c *Client) SearchItems(ctx context.Context, query, module string) (*domain.ItemList, error) {
	params := url.Values{}
	params.Set("q", query)
	if module != "" {
		params.Set("module", module)
	}
	params.Set("page_size", strconv.Itoa(c.pageSize))

	var list domain.ItemList
	if err := c.get(ctx, "search", "/items/", params, &list); err != nil {
		return nil, err
	}
	list.Normalize()
	return &list, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	if c.baseURL == "" {
		return common.NewError(common.ErrCodeInvalidInput, "未配置内容 API 地址 (api.base_url 或 server.public_url)")
	}
	target := c.baseURL + basePath + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return common.WrapError(common.ErrCodeInvalidInput, "构造请求失败", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveAPI(endpoint, "error", time.Since(start))
		c.log.WithFields(logrus.Fields{"endpoint": endpoint, "url": target}).WithError(err).Warn("API 请求失败")
		return common.WrapError(common.ErrCodeNetwork, "GET "+path+" 失败", err)
	}
	defer resp.Body.Close()

	c.metrics.ObserveAPI(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))
	logEntry := c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"elapsed":  time.Since(start).String(),
	})

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logEntry.Warn("API 返回非 2xx")
		return common.WrapError(common.ErrCodeNetwork,
			fmt.Sprintf("GET %s 返回 %d", path, resp.StatusCode),
			fmt.Errorf("%s", strings.TrimSpace(string(snippet))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logEntry.WithError(err).Warn("API 响应解析失败")
		return common.WrapError(common.ErrCodeDecode, "解析 "+path+" 响应失败", err)
	}
	logEntry.Debug("API 请求完成")
	return nil
}
