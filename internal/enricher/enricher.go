package enricher

import (
	"context"
	"time"

	"github.com/iceymoss/note-stats-tracker/internal/datecache"
	"github.com/iceymoss/note-stats-tracker/internal/model"
	"github.com/iceymoss/note-stats-tracker/internal/noteapi"
	"github.com/iceymoss/note-stats-tracker/pkg/logger"
	"github.com/iceymoss/note-stats-tracker/pkg/utils"

	"go.uber.org/zap"
)

// DetailFetcher 详情接口依赖，失败返回空字段而不是错误
type DetailFetcher interface {
	FetchNoteDetail(ctx context.Context, key string) noteapi.NoteDates
}

// Enricher 给采集到的文章补日期字段。
// 发布日期基本不会变，所以走 7 天缓存摊薄详情接口的开销，
// 平台回填或修改时间戳时靠到期重取兜底。
type Enricher struct {
	api         DetailFetcher
	cache       *datecache.Cache
	detailDelay time.Duration
}

func New(api DetailFetcher, cache *datecache.Cache, detailDelay time.Duration) *Enricher {
	return &Enricher{api: api, cache: cache, detailDelay: detailDelay}
}

// Enrich 逐篇补全日期并计算文章年龄，最后把缓存整体写回一次。
// 文章之间没有依赖，失败只影响单篇。
func (e *Enricher) Enrich(ctx context.Context, notes []noteapi.NoteStat, today string) []model.Article {
	articles := make([]model.Article, 0, len(notes))
	fetched := 0

	for _, note := range notes {
		art := model.Article{
			Date:         today,
			NoteID:       note.ID,
			Key:          note.Key,
			Title:        note.Name,
			ReadCount:    note.ReadCount,
			LikeCount:    note.LikeCount,
			CommentCount: note.CommentCount,
		}

		entry, ok := e.cache.Get(note.Key)
		if ok && !datecache.IsStale(entry, today) {
			art.PublishedAt = entry.PublishedAt
			art.CreatedAt = entry.CreatedAt
			art.UpdatedAt = entry.UpdatedAt
		} else {
			dates := e.api.FetchNoteDetail(ctx, note.Key)
			art.PublishedAt = dates.PublishedAt
			art.CreatedAt = dates.CreatedAt
			art.UpdatedAt = dates.UpdatedAt
			e.cache.Put(note.Key, datecache.Entry{
				PublishedAt: dates.PublishedAt,
				CreatedAt:   dates.CreatedAt,
				UpdatedAt:   dates.UpdatedAt,
				FetchedAt:   today,
			})
			fetched++
			if fetched%10 == 0 {
				logger.Info("📅 detail fetch progress", zap.Int("fetched", fetched))
			}
			if e.detailDelay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(e.detailDelay):
				}
			}
		}

		art.AgeDays = AgeDays(today, art.PublishedAt)
		articles = append(articles, art)
	}

	logger.Info("✅ dates enriched",
		zap.Int("articles", len(notes)),
		zap.Int("fetched", fetched),
		zap.Int("cached", len(notes)-fetched))

	// 缓存整轮只落盘一次；写不进去也不至于废掉这轮采集
	if err := e.cache.Save(); err != nil {
		logger.Warn("⚠️ dates cache save failed", zap.Error(err))
	}
	return articles
}

// AgeDays 观测日与发布日的整天差（JST 日历日）。
// published_at 缺失或解析不了返回 nil，未知不等于零。
func AgeDays(today, publishedAt string) *int {
	if publishedAt == "" {
		return nil
	}
	pub, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", today, utils.TokyoLocation)
	if err != nil {
		return nil
	}
	pubDay := pub.In(utils.TokyoLocation)
	pubDate := time.Date(pubDay.Year(), pubDay.Month(), pubDay.Day(), 0, 0, 0, 0, utils.TokyoLocation)
	days := int(t.Sub(pubDate).Hours() / 24)
	return &days
}
