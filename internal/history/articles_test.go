package history

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/iceymoss/note-stats-tracker/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func sampleArticles(date string, keys ...string) []model.Article {
	arts := make([]model.Article, 0, len(keys))
	for i, key := range keys {
		age := i + 1
		arts = append(arts, model.Article{
			Date: date, NoteID: int64(i + 1), Key: key, Title: "title " + key,
			PublishedAt: "2024-01-01T00:00:00+09:00", AgeDays: &age,
			ReadCount: 10 * (i + 1), LikeCount: i + 1,
		})
	}
	return arts
}

func TestSaveArticlesIdempotentSameDay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ArticlesFile)

	require.NoError(t, SaveArticles(dir, "2024-03-09", sampleArticles("2024-03-09", "a", "b")))
	require.NoError(t, SaveArticles(dir, "2024-03-10", sampleArticles("2024-03-10", "a", "b", "c")))

	// 同一天重跑：替换而不是追加
	require.NoError(t, SaveArticles(dir, "2024-03-10", sampleArticles("2024-03-10", "a", "b", "c")))

	records := readAll(t, path)
	assert.Len(t, records, 1+2+3, "表头 + 前一天 2 行 + 当天 3 行，重跑不翻倍")

	todayRows := 0
	for _, rec := range records[1:] {
		if rec[0] == "2024-03-10" {
			todayRows++
		}
	}
	assert.Equal(t, 3, todayRows, "当天的行数在重跑后保持不变")
}

func TestSaveArticlesKeepsHistoryRows(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, SaveArticles(dir, "2024-03-09", sampleArticles("2024-03-09", "a")))
	require.NoError(t, SaveArticles(dir, "2024-03-10", sampleArticles("2024-03-10", "a")))

	records := readAll(t, filepath.Join(dir, ArticlesFile))
	require.Len(t, records, 3)
	assert.Equal(t, "2024-03-09", records[1][0], "历史行要原样保留在前面")
	assert.Equal(t, "2024-03-10", records[2][0])
}

func TestSaveArticlesLegacyHeaderStartsFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ArticlesFile)
	legacy := "日付,キー,タイトル\n2024-03-01,a,old\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	require.NoError(t, SaveArticles(dir, "2024-03-10", sampleArticles("2024-03-10", "a")))

	records := readAll(t, path)
	assert.Equal(t, ArticlesHeader, records[0], "旧表头应整体替换为当前 schema")
	assert.Len(t, records, 2, "旧格式的行按文件不存在处理")
}

func TestSaveArticlesUnknownFieldsWrittenEmpty(t *testing.T) {
	dir := t.TempDir()

	art := model.Article{Date: "2024-03-10", NoteID: 7, Key: "x", Title: "no dates", ReadCount: 5}
	require.NoError(t, SaveArticles(dir, "2024-03-10", []model.Article{art}))

	records := readAll(t, filepath.Join(dir, ArticlesFile))
	require.Len(t, records, 2)
	row := records[1]
	// published_at / created_at / updated_at / age_days 全部留空，不报错
	assert.Equal(t, "", row[4])
	assert.Equal(t, "", row[5])
	assert.Equal(t, "", row[6])
	assert.Equal(t, "", row[7], "未知年龄写空值而不是 0")
	assert.Equal(t, "5", row[8])
}
