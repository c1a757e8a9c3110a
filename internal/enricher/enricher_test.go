package enricher

import (
	"context"
	"testing"

	"github.com/iceymoss/note-stats-tracker/internal/datecache"
	"github.com/iceymoss/note-stats-tracker/internal/noteapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDetail 记录哪些 key 真的打到了详情接口
type fakeDetail struct {
	dates   map[string]noteapi.NoteDates
	fetched []string
}

func (f *fakeDetail) FetchNoteDetail(ctx context.Context, key string) noteapi.NoteDates {
	f.fetched = append(f.fetched, key)
	return f.dates[key]
}

func TestEnrichUsesFreshCache(t *testing.T) {
	today := "2024-03-10"
	cache := datecache.Load(t.TempDir())
	cache.Put("cached", datecache.Entry{
		PublishedAt: "2024-03-01T00:00:00+09:00",
		FetchedAt:   "2024-03-08",
	})

	api := &fakeDetail{dates: map[string]noteapi.NoteDates{}}
	articles := New(api, cache, 0).Enrich(context.Background(), []noteapi.NoteStat{{Key: "cached", Name: "t"}}, today)

	assert.Empty(t, api.fetched, "新鲜缓存命中时不应回源")
	require.Len(t, articles, 1)
	assert.Equal(t, "2024-03-01T00:00:00+09:00", articles[0].PublishedAt)
	require.NotNil(t, articles[0].AgeDays)
	assert.Equal(t, 9, *articles[0].AgeDays)
}

func TestEnrichRefetchesStaleEntry(t *testing.T) {
	today := "2024-03-10"
	cache := datecache.Load(t.TempDir())
	cache.Put("stale", datecache.Entry{
		PublishedAt: "2024-01-01T00:00:00+09:00",
		FetchedAt:   "2024-03-03", // 恰好 7 天前
	})

	api := &fakeDetail{dates: map[string]noteapi.NoteDates{
		"stale": {PublishedAt: "2024-01-02T00:00:00+09:00", CreatedAt: "c", UpdatedAt: "u"},
	}}
	articles := New(api, cache, 0).Enrich(context.Background(), []noteapi.NoteStat{{Key: "stale"}}, today)

	assert.Equal(t, []string{"stale"}, api.fetched, "过期缓存应触发回源")
	assert.Equal(t, "2024-01-02T00:00:00+09:00", articles[0].PublishedAt, "回源结果覆盖旧值")

	entry, ok := cache.Get("stale")
	require.True(t, ok)
	assert.Equal(t, today, entry.FetchedAt, "回源后缓存要盖上今天的刷新日期")
	assert.Equal(t, "2024-01-02T00:00:00+09:00", entry.PublishedAt)
}

func TestEnrichFailedDetailLeavesUnknown(t *testing.T) {
	cache := datecache.Load(t.TempDir())
	api := &fakeDetail{dates: map[string]noteapi.NoteDates{}} // 详情接口返回空字段

	articles := New(api, cache, 0).Enrich(context.Background(), []noteapi.NoteStat{{Key: "broken"}}, "2024-03-10")

	require.Len(t, articles, 1)
	assert.Empty(t, articles[0].PublishedAt)
	assert.Nil(t, articles[0].AgeDays, "取不到发布日期时年龄保持未知，不是 0")
}

func TestAgeDays(t *testing.T) {
	age := AgeDays("2024-01-11", "2024-01-01T00:00:00+09:00")
	require.NotNil(t, age)
	assert.Equal(t, 10, *age)

	// UTC 时间戳要先换算成 JST 日历日再作差
	age = AgeDays("2024-01-02", "2024-01-01T23:00:00+00:00")
	require.NotNil(t, age)
	assert.Equal(t, 0, *age, "UTC 23 点已经是 JST 次日")

	assert.Nil(t, AgeDays("2024-01-11", ""), "缺失返回未知")
	assert.Nil(t, AgeDays("2024-01-11", "not-a-date"), "解析失败返回未知")
}
