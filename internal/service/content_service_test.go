package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zerde-web/internal/domain"
	"zerde-web/internal/logger"
	"zerde-web/internal/service/querycache"
	"zerde-web/internal/service/view"
)

// MockContentAPI 模拟 port.ContentAPI
type MockContentAPI struct {
	mock.Mock
}

func (m *MockContentAPI) FetchModules(ctx context.Context) (*domain.ModulesResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*domain.ModulesResponse)
	return resp, args.Error(1)
}

func (m *MockContentAPI) FetchModuleDetail(ctx context.Context, module string, days int) (*domain.ModuleDetail, error) {
	args := m.Called(ctx, module, days)
	detail, _ := args.Get(0).(*domain.ModuleDetail)
	return detail, args.Error(1)
}

func (m *MockContentAPI) FetchWeeklySummary(ctx context.Context) (*domain.WeeklySummaryResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*domain.WeeklySummaryResponse)
	return resp, args.Error(1)
}

func (m *MockContentAPI) SearchItems(ctx context.Context, query, module string) (*domain.ItemList, error) {
	args := m.Called(ctx, query, module)
	list, _ := args.Get(0).(*domain.ItemList)
	return list, args.Error(1)
}

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Module() string { return domain.ModuleProductHunt }

func (m *MockSource) ModuleDetail(ctx context.Context, days int) (*domain.ModuleDetail, error) {
	args := m.Called(ctx, days)
	detail, _ := args.Get(0).(*domain.ModuleDetail)
	return detail, args.Error(1)
}

type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) Enrich(ctx context.Context, items []domain.Item) []domain.Item {
	args := m.Called(ctx, items)
	return args.Get(0).([]domain.Item)
}

func newTestService(api *MockContentAPI, opts ...Option) *ContentService {
	cache := NewQueryCache(querycache.Options{TTL: time.Minute, MaxEntries: 32}, nil, logger.Discard())
	opts = append(opts, WithLogger(logger.Discard()))
	return NewContentService(api, cache, opts...)
}

func detailOf(module string, ids ...string) *domain.ModuleDetail {
	d := &domain.ModuleDetail{Module: module, Total: len(ids)}
	for i, id := range ids {
		item := domain.Item{ID: id, Module: module, Title: id}
		if i == 0 {
			d.Hero = &item
			continue
		}
		d.Items = append(d.Items, item)
	}
	return d
}

func TestContentService_ModuleDetailMemoized(t *testing.T) {
	api := new(MockContentAPI)
	api.On("FetchModuleDetail", mock.Anything, "youtube", 7).Return(detailOf("youtube", "youtube_a", "youtube_b"), nil).Once()
	api.On("FetchModuleDetail", mock.Anything, "youtube", 3).Return(detailOf("youtube", "youtube_c"), nil).Once()
	s := newTestService(api)
	ctx := context.Background()

	first, err := s.ModuleDetail(ctx, "youtube", 7)
	require.NoError(t, err)
	second, err := s.ModuleDetail(ctx, "youtube", 7)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := s.ModuleDetail(ctx, "youtube", 3)
	require.NoError(t, err)
	assert.Equal(t, "youtube_c", other.Hero.ID)

	api.AssertExpectations(t)
	assert.Equal(t, int64(1), s.Stats().Hits)
}

func TestContentService_ErrorsNotMemoized(t *testing.T) {
	api := new(MockContentAPI)
	api.On("FetchModules", mock.Anything).Return(nil, errors.New("down")).Once()
	api.On("FetchModules", mock.Anything).Return(&domain.ModulesResponse{Date: "2026-10-16"}, nil).Once()
	s := newTestService(api)

	_, err := s.Modules(context.Background())
	require.Error(t, err)

	resp, err := s.Modules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", resp.Date)
	api.AssertNumberOfCalls(t, "FetchModules", 2)
}

func TestContentService_WeeklySummaryAbsent(t *testing.T) {
	api := new(MockContentAPI)
	api.On("FetchWeeklySummary", mock.Anything).Return(&domain.WeeklySummaryResponse{}, nil).Once()
	s := newTestService(api)

	resp, err := s.WeeklySummary(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
}

func TestContentService_SourceReplacesAPI(t *testing.T) {
	api := new(MockContentAPI)
	src := new(MockSource)
	src.On("ModuleDetail", mock.Anything, 7).Return(detailOf(domain.ModuleProductHunt, "ph_1", "ph_2"), nil).Once()
	s := newTestService(api, WithSource(src))

	detail, err := s.ModuleDetail(context.Background(), domain.ModuleProductHunt, 7)
	require.NoError(t, err)
	assert.Equal(t, "ph_1", detail.Hero.ID)
	api.AssertNotCalled(t, "FetchModuleDetail", mock.Anything, mock.Anything, mock.Anything)
	src.AssertExpectations(t)
}

func TestContentService_EnrichesProducts(t *testing.T) {
	api := new(MockContentAPI)
	api.On("FetchModuleDetail", mock.Anything, domain.ModuleProducts, 1).
		Return(detailOf(domain.ModuleProducts, "gh_hero", "gh_1"), nil).Once()

	enricher := new(MockEnricher)
	enricher.On("Enrich", mock.Anything, mock.MatchedBy(func(items []domain.Item) bool {
		return len(items) == 2 && items[0].ID == "gh_hero"
	})).Return([]domain.Item{
		{ID: "gh_hero", Module: domain.ModuleProducts, Extra: map[string]any{"stars": 1200}},
		{ID: "gh_1", Module: domain.ModuleProducts, Extra: map[string]any{"stars": 30}},
	}).Once()

	s := newTestService(api, WithEnricher(enricher))
	detail, err := s.ModuleDetail(context.Background(), domain.ModuleProducts, 1)
	require.NoError(t, err)

	require.NotNil(t, detail.Hero)
	stars, ok := detail.Hero.ExtraInt("stars")
	require.True(t, ok)
	assert.Equal(t, 1200, stars)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "gh_1", detail.Items[0].ID)
	enricher.AssertExpectations(t)
}

func TestContentService_EnricherSkipsOtherModules(t *testing.T) {
	api := new(MockContentAPI)
	api.On("FetchModuleDetail", mock.Anything, "twitter", 7).Return(detailOf("twitter", "twitter_1"), nil)
	enricher := new(MockEnricher)
	s := newTestService(api, WithEnricher(enricher))

	_, err := s.ModuleDetail(context.Background(), "twitter", 7)
	require.NoError(t, err)
	enricher.AssertNotCalled(t, "Enrich", mock.Anything, mock.Anything)
}

func TestContentService_LoadPage(t *testing.T) {
	page, ok := view.Lookup("/products")
	require.True(t, ok)

	t.Run("所有标签的数据集一起加载", func(t *testing.T) {
		api := new(MockContentAPI)
		api.On("FetchModuleDetail", mock.Anything, domain.ModuleProducts, 7).
			Return(detailOf(domain.ModuleProducts, "gh_1"), nil).Once()
		src := new(MockSource)
		src.On("ModuleDetail", mock.Anything, 7).Return(detailOf(domain.ModuleProductHunt, "ph_1"), nil).Once()
		s := newTestService(api, WithSource(src))

		m := view.NewMachine(page)
		data := s.LoadPage(context.Background(), m, time.Second)
		require.Len(t, data, 2)
		assert.Equal(t, querycache.StatusSuccess, data[domain.ModuleProducts].Status)
		assert.Equal(t, querycache.StatusSuccess, data[domain.ModuleProductHunt].Status)

		// 切换标签不再请求
		require.True(t, m.SwitchTab(view.TabProductHunt))
		s.LoadPage(context.Background(), m, time.Second)
		api.AssertExpectations(t)
		src.AssertExpectations(t)
	})

	t.Run("单个数据集失败不影响其它", func(t *testing.T) {
		api := new(MockContentAPI)
		api.On("FetchModuleDetail", mock.Anything, domain.ModuleProducts, 7).Return(nil, errors.New("502"))
		src := new(MockSource)
		src.On("ModuleDetail", mock.Anything, 7).Return(detailOf(domain.ModuleProductHunt, "ph_1"), nil)
		s := newTestService(api, WithSource(src))

		data := s.LoadPage(context.Background(), view.NewMachine(page), time.Second)
		assert.Equal(t, querycache.StatusError, data[domain.ModuleProducts].Status)
		assert.EqualError(t, data[domain.ModuleProducts].Err, "502")
		assert.Equal(t, querycache.StatusSuccess, data[domain.ModuleProductHunt].Status)
	})

	t.Run("超出等待时间返回加载态并在后台完成", func(t *testing.T) {
		release := make(chan struct{})
		var calls atomic.Int32
		api := new(MockContentAPI)
		api.On("FetchModuleDetail", mock.Anything, "youtube", 7).
			Run(func(mock.Arguments) {
				calls.Add(1)
				<-release
			}).
			Return(detailOf("youtube", "youtube_a"), nil)
		s := newTestService(api)

		m := view.NewMachine(view.GenericPage("youtube"))
		data := s.LoadPage(context.Background(), m, 20*time.Millisecond)
		assert.Equal(t, querycache.StatusLoading, data["youtube"].Status)
		assert.Equal(t, view.StatusLoading, m.Snapshot(data).Status)

		close(release)
		assert.Eventually(t, func() bool {
			return s.LoadPage(context.Background(), m, time.Second)["youtube"].Status == querycache.StatusSuccess
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, int32(1), calls.Load())
	})
}
