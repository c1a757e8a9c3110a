package history

import (
	"path/filepath"
	"strconv"

	"github.com/iceymoss/note-stats-tracker/internal/model"
	"github.com/iceymoss/note-stats-tracker/pkg/logger"

	"go.uber.org/zap"
)

// ArticlesFile 每日每篇文章一行的明细历史
const ArticlesFile = "articles.csv"

// ArticlesHeader 列定义只在这一处维护
var ArticlesHeader = []string{
	"date", "note_id", "key", "title",
	"published_at", "created_at", "updated_at",
	"age_days", "read_count", "like_count", "comment_count",
}

// SaveArticles 把当天的文章快照并入历史。
// 同一天重跑是替换而不是追加：先剔掉当天旧行，再把保留的历史行原样写回，
// 最后接上这次采集的行。(date, key) 在历史里始终只有一条。
func SaveArticles(dataDir, today string, articles []model.Article) error {
	path := filepath.Join(dataDir, ArticlesFile)
	existing := readKeepExcept(path, today, "date")

	rows := make([]map[string]string, 0, len(existing)+len(articles))
	rows = append(rows, existing...)
	for _, a := range articles {
		ageDays := ""
		if a.AgeDays != nil {
			ageDays = strconv.Itoa(*a.AgeDays)
		}
		rows = append(rows, map[string]string{
			"date":          a.Date,
			"note_id":       strconv.FormatInt(a.NoteID, 10),
			"key":           a.Key,
			"title":         a.Title,
			"published_at":  a.PublishedAt,
			"created_at":    a.CreatedAt,
			"updated_at":    a.UpdatedAt,
			"age_days":      ageDays,
			"read_count":    strconv.Itoa(a.ReadCount),
			"like_count":    strconv.Itoa(a.LikeCount),
			"comment_count": strconv.Itoa(a.CommentCount),
		})
	}

	if err := writeAll(path, ArticlesHeader, rows); err != nil {
		return err
	}
	logger.Info("💾 articles history updated", zap.String("path", path), zap.Int("rows", len(articles)))
	return nil
}
