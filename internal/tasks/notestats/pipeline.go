package notestats

import (
	"context"
	"fmt"
	"time"

	"github.com/iceymoss/note-stats-tracker/internal/collector"
	"github.com/iceymoss/note-stats-tracker/internal/conf"
	"github.com/iceymoss/note-stats-tracker/internal/datecache"
	"github.com/iceymoss/note-stats-tracker/internal/enricher"
	"github.com/iceymoss/note-stats-tracker/internal/history"
	"github.com/iceymoss/note-stats-tracker/internal/noteapi"
	"github.com/iceymoss/note-stats-tracker/pkg/logger"
	"github.com/iceymoss/note-stats-tracker/pkg/utils"

	"go.uber.org/zap"
)

// Summary 一轮采集的结果汇总，完成时打印、也回显到面板
type Summary struct {
	Date          string
	ArticleCount  int
	TotalPV       int
	TotalLike     int
	TotalComment  int
	FollowerCount int
	HasFollower   bool
}

func (s Summary) String() string {
	line := fmt.Sprintf("%d articles, pv %d, like %d, comment %d",
		s.ArticleCount, s.TotalPV, s.TotalLike, s.TotalComment)
	if s.HasFollower {
		line += fmt.Sprintf(", followers %d", s.FollowerCount)
	}
	return line
}

// Pipeline 采集 → 补日期 → 对账写盘 的一轮完整流程。
// 认证/结构错误在第一次写盘之前就会终止，不会留下半截历史。
type Pipeline struct {
	cfg conf.NoteConfig
}

func NewPipeline(cfg conf.NoteConfig) *Pipeline {
	return &Pipeline{cfg: cfg}
}

func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	today := utils.TodayInTokyo()
	logger.Info("=== note-stats-tracker ===", zap.String("date", today))

	if err := noteapi.ValidateCookie(p.cfg.Cookie); err != nil {
		return nil, err
	}
	noteapi.CheckCookieExpiry(p.cfg.CookieSetDate)

	client := noteapi.NewClient(p.cfg.BaseURL, p.cfg.Cookie)

	logger.Info("🔑 verifying auth")
	if err := client.VerifyAuth(ctx); err != nil {
		return nil, err
	}

	logger.Info("📊 collecting article stats")
	col := collector.New(client, time.Duration(p.cfg.PageDelayMs)*time.Millisecond)
	result, err := col.CollectAll(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("📅 enriching publish dates")
	cache := datecache.Load(p.cfg.DataDir)
	enr := enricher.New(client, cache, time.Duration(p.cfg.DetailDelayMs)*time.Millisecond)
	articles := enr.Enrich(ctx, result.Notes, today)

	logger.Info("👥 fetching follower count")
	followerCount, hasFollower := client.FetchFollowerCount(ctx, p.cfg.Username)

	logger.Info("💾 saving history")
	if err := history.SaveArticles(p.cfg.DataDir, today, articles); err != nil {
		return nil, fmt.Errorf("save articles: %w", err)
	}
	if err := history.SaveDailySummary(p.cfg.DataDir, today, result.TotalPV, result.TotalLike, len(articles), followerCount, hasFollower); err != nil {
		return nil, fmt.Errorf("save daily summary: %w", err)
	}
	if err := history.AppendFollower(p.cfg.DataDir, followerCount, hasFollower); err != nil {
		return nil, fmt.Errorf("save followers: %w", err)
	}

	summary := &Summary{
		Date:          today,
		ArticleCount:  len(articles),
		TotalPV:       result.TotalPV,
		TotalLike:     result.TotalLike,
		TotalComment:  result.TotalComment,
		FollowerCount: followerCount,
		HasFollower:   hasFollower,
	}
	logger.Info("=== done ===",
		zap.Int("articles", summary.ArticleCount),
		zap.Int("total_pv", summary.TotalPV),
		zap.Int("total_like", summary.TotalLike),
		zap.Int("total_comment", summary.TotalComment))
	return summary, nil
}
