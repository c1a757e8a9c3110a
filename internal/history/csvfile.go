package history

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/iceymoss/note-stats-tracker/pkg/logger"

	"go.uber.org/zap"
)

// readRows 把 CSV 读成表头 + map 行。文件不存在返回 (nil, nil, nil)。
func readRows(path string) ([]string, []map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		return nil, nil, err
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// readKeepExcept 读出历史行并剔除 skipDate 那天的。
// 表头里找不到日期列说明是旧格式，按文件不存在处理（一次性迁移）。
func readKeepExcept(path, skipDate, dateCol string) []map[string]string {
	header, rows, err := readRows(path)
	if err != nil {
		logger.Warn("⚠️ history file unreadable, starting fresh", zap.String("path", path), zap.Error(err))
		return nil
	}
	if !contains(header, dateCol) {
		if header != nil {
			logger.Warn("⚠️ history file has legacy header, starting fresh", zap.String("path", path))
		}
		return nil
	}

	kept := make([]map[string]string, 0, len(rows))
	removed := 0
	for _, row := range rows {
		if row[dateCol] == skipDate {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed > 0 {
		logger.Info("♻️ replacing existing rows for the day",
			zap.String("path", path), zap.String("date", skipDate), zap.Int("rows", removed))
	}
	return kept
}

// writeAll 表头 + 全部行整文件重写，缺失的列补空值
func writeAll(path string, header []string, rows []map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
