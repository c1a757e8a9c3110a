package collector

import (
	"context"
	"time"

	"github.com/iceymoss/note-stats-tracker/internal/noteapi"
	"github.com/iceymoss/note-stats-tracker/pkg/logger"

	"go.uber.org/zap"
)

// PageFetcher 只依赖分页接口，方便测试注入假客户端
type PageFetcher interface {
	FetchStatsPage(ctx context.Context, page int) (*noteapi.StatsPage, error)
}

// Result 全量文章列表加上接口报告的全局合计
type Result struct {
	Notes        []noteapi.NoteStat
	TotalPV      int
	TotalLike    int
	TotalComment int
}

// Collector 把分页 stats 接口翻到底
type Collector struct {
	api       PageFetcher
	pageDelay time.Duration
}

func New(api PageFetcher, pageDelay time.Duration) *Collector {
	return &Collector{api: api, pageDelay: pageDelay}
}

// CollectAll 从第 1 页翻到 last_page 为止。
// 每页都带着相同的全局合计，只取第 1 页的；页与页之间固定限速。
// 零篇文章是合法结果，不是错误。
func (c *Collector) CollectAll(ctx context.Context) (*Result, error) {
	result := &Result{}

	for page := 1; ; page++ {
		logger.Info("📄 fetching stats page", zap.Int("page", page))
		stats, err := c.api.FetchStatsPage(ctx, page)
		if err != nil {
			return nil, err
		}

		if page == 1 {
			result.TotalPV = stats.TotalPV
			result.TotalLike = stats.TotalLike
			result.TotalComment = stats.TotalComment
		}
		result.Notes = append(result.Notes, stats.NoteStats...)

		if stats.LastPage {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}

	logger.Info("✅ article stats collected",
		zap.Int("articles", len(result.Notes)),
		zap.Int("total_pv", result.TotalPV),
		zap.Int("total_like", result.TotalLike))
	return result, nil
}
