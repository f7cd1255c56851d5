package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"zerde-web/internal/common"
	"zerde-web/internal/domain"
	"zerde-web/internal/metrics"
)

// Enricher 实现了 port.RepoEnricher 接口
// API 返回的开源项目有时缺少 stars/forks/language，用 GitHub API 补齐
type Enricher struct {
	client       *github.Client
	log          logrus.FieldLogger
	metrics      *metrics.Metrics
	concurrency  int
	maxRetries   int
	initialDelay time.Duration
}

type Option func(*Enricher)

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Enricher) {
		if l != nil {
			e.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Enricher) { e.metrics = m }
}

// WithRetry 单个仓库的重试次数与首次退避
func WithRetry(maxRetries int, initialDelay time.Duration) Option {
	return func(e *Enricher) {
		e.maxRetries = maxRetries
		e.initialDelay = initialDelay
	}
}

// NewEnricher 初始化 GitHub 客户端，token 为空时使用匿名额度
func NewEnricher(token string, opts ...Option) *Enricher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	}

	return newEnricher(client, opts...)
}

func newEnricher(client *github.Client, opts ...Option) *Enricher {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Enricher{
		client:       client,
		log:          discard,
		concurrency:  4,
		maxRetries:   2,
		initialDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich 返回补全后的新切片，原切片与其 extra 不被修改
// 单个仓库失败只记日志，不影响其他条目
func (e *Enricher) Enrich(ctx context.Context, items []domain.Item) []domain.Item {
	out := append([]domain.Item(nil), items...)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for idx := range out {
		idx := idx
		if !needsEnrich(&out[idx]) {
			continue
		}
		g.Go(func() error {
			e.enrichOne(gctx, &out[idx])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func needsEnrich(item *domain.Item) bool {
	if item.Kind != domain.KindRepo {
		return false
	}
	if _, ok := item.ExtraInt("stars"); ok {
		return false
	}
	ref := item.RepoRef()
	return ref.Owner != "" && ref.Name != ""
}

func (e *Enricher) enrichOne(ctx context.Context, item *domain.Item) {
	ref := item.RepoRef()
	logEntry := e.log.WithField("repo", ref.Path())

	var repo *github.Repository
	err := common.Do(ctx, func() error {
		var apiErr error
		repo, _, apiErr = e.client.Repositories.Get(ctx, ref.Owner, ref.Name)
		return apiErr
	},
		common.WithMaxRetries(e.maxRetries),
		common.WithInitialDelay(e.initialDelay),
		common.WithRetryIf(isTransient),
		common.WithOnRetry(func(attempt int, err error) {
			logEntry.WithError(err).Debugf("🔁 第 %d 次重试", attempt)
		}),
	)
	if err != nil {
		e.metrics.GitHubEnrich("failed")
		logEntry.WithError(common.WrapError(common.ErrCodeGitHubAPI, "获取仓库信息失败", err)).Warn("⚠️ 补全失败")
		return
	}

	extra := make(map[string]any, len(item.Extra)+4)
	for k, v := range item.Extra {
		extra[k] = v
	}
	extra["stars"] = float64(repo.GetStargazersCount())
	extra["forks"] = float64(repo.GetForksCount())
	if item.ExtraString("language") == "" && repo.GetLanguage() != "" {
		extra["language"] = repo.GetLanguage()
	}
	if item.ExtraString("repo_path") == "" {
		extra["repo_path"] = repo.GetFullName()
	}
	item.Extra = extra

	e.metrics.GitHubEnrich("ok")
	logEntry.WithField("stars", repo.GetStargazersCount()).Debug("✅ 已补全")
}

// isTransient 4xx (限流除外) 不重试
func isTransient(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}
