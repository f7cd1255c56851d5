package producthunt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerde-web/internal/domain"
)

func TestCatalog_ModuleDetail(t *testing.T) {
	fixed := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	catalog := NewCatalog()
	detail, err := catalog.ModuleDetail(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, domain.ModuleProductHunt, catalog.Module())
	assert.Equal(t, 6, detail.Total)
	require.NotNil(t, detail.Hero)
	assert.Equal(t, "ph_1", detail.Hero.ID)
	assert.Equal(t, "Cursor", detail.Hero.Title)
	assert.Equal(t, domain.KindLaunch, detail.Hero.Kind)
	assert.Len(t, detail.Items, 5)
	for _, item := range detail.Items {
		assert.NotEqual(t, "ph_1", item.ID)
		assert.Equal(t, "2026-01-10T08:00:00Z", item.PubDate)
	}

	upvotes, ok := detail.Hero.ExtraInt("upvotes")
	assert.True(t, ok)
	assert.Equal(t, 2847, upvotes)
	assert.Equal(t, []string{"Artificial Intelligence", "Developer Tools", "Productivity"}, detail.Hero.ExtraStrings("topics"))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	catalog := NewCatalog()

	first, err := catalog.ModuleDetail(context.Background(), 7)
	require.NoError(t, err)
	first.Items[0].Title = "mutated"
	first.Hero.Title = "mutated"

	second, err := catalog.ModuleDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "v0 by Vercel", second.Items[0].Title)
	assert.Equal(t, "Cursor", second.Hero.Title)
}

func TestCatalog_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCatalog().ModuleDetail(ctx, 7)
	assert.ErrorIs(t, err, context.Canceled)
}
