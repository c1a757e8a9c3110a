package history

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iceymoss/note-stats-tracker/pkg/logger"
	"github.com/iceymoss/note-stats-tracker/pkg/utils"

	"go.uber.org/zap"
)

// SummaryFile 每天一行的日次汇总
const SummaryFile = "daily_summary.csv"

// SummaryHeader 列定义只在这一处维护
var SummaryHeader = []string{
	"date", "total_views", "total_likes", "article_count",
	"views_per_article", "likes_per_article", "like_rate_pct",
	"views_change_pct", "likes_change_pct", "like_rate_change_pct",
	"follower_count", "updated_at",
}

// SaveDailySummary 重算并写入当天的汇总行。
// 环比的参照是剔掉当天之后剩下的最后一行——不一定是昨天，
// 采集有空档时就对着最近有记录的那天比。参照值为 0 时环比记 0，避免除零。
// 表头对不上说明是旧格式，历史行整体丢弃换新表头。
func SaveDailySummary(dataDir, today string, totalPV, totalLike, articleCount int, followerCount int, hasFollower bool) error {
	path := filepath.Join(dataDir, SummaryFile)
	todaySlash := strings.ReplaceAll(today, "-", "/")

	viewsPerArticle := 0.0
	likesPerArticle := 0.0
	likeRate := 0.0
	if articleCount > 0 {
		viewsPerArticle = float64(totalPV) / float64(articleCount)
		likesPerArticle = float64(totalLike) / float64(articleCount)
	}
	if totalPV > 0 {
		likeRate = float64(totalLike) / float64(totalPV) * 100
	}

	existing := readKeepExcept(path, todaySlash, "date")

	viewsChange, likesChange, rateChange := 0.0, 0.0, 0.0
	if len(existing) > 0 {
		last := existing[len(existing)-1]
		prevViews := parseFloat(last["total_views"])
		prevLikes := parseFloat(last["total_likes"])
		prevRate := parseFloat(last["like_rate_pct"])
		if prevViews > 0 {
			viewsChange = (float64(totalPV) - prevViews) / prevViews * 100
		}
		if prevLikes > 0 {
			likesChange = (float64(totalLike) - prevLikes) / prevLikes * 100
		}
		if prevRate > 0 {
			rateChange = (likeRate - prevRate) / prevRate * 100
		}
	}

	follower := ""
	if hasFollower {
		follower = strconv.Itoa(followerCount)
	}

	newRow := map[string]string{
		"date":                 todaySlash,
		"total_views":          strconv.Itoa(totalPV),
		"total_likes":          strconv.Itoa(totalLike),
		"article_count":        strconv.Itoa(articleCount),
		"views_per_article":    formatFloat(viewsPerArticle),
		"likes_per_article":    formatFloat(likesPerArticle),
		"like_rate_pct":        formatFloat(likeRate),
		"views_change_pct":     formatFloat(viewsChange),
		"likes_change_pct":     formatFloat(likesChange),
		"like_rate_change_pct": formatFloat(rateChange),
		"follower_count":       follower,
		"updated_at":           utils.NowInTokyo().Format("15:04:05"),
	}

	rows := append(existing, newRow)
	if err := writeAll(path, SummaryHeader, rows); err != nil {
		return err
	}
	logger.Info("💾 daily summary updated", zap.String("path", path), zap.String("date", todaySlash))
	return nil
}

// LatestSummary 返回汇总文件里最后一行，给面板用
func LatestSummary(dataDir string) (map[string]string, bool) {
	header, rows, err := readRows(filepath.Join(dataDir, SummaryFile))
	if err != nil || !contains(header, "date") || len(rows) == 0 {
		return nil, false
	}
	return rows[len(rows)-1], true
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
