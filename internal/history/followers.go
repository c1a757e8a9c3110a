package history

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iceymoss/note-stats-tracker/pkg/logger"
	"github.com/iceymoss/note-stats-tracker/pkg/utils"

	"go.uber.org/zap"
)

// FollowersFile 粉丝数变更日志，只增不改
const FollowersFile = "followers.csv"

// FollowersHeader 列定义只在这一处维护
var FollowersHeader = []string{"date", "time", "follower_count"}

// AppendFollower 粉丝数和上次记录不同时才追加一行。
// 没变 → 跳过；这轮没取到 → 跳过且不动文件；首次观测总是记录。
// 表头里找不到粉丝数列说明是旧格式，整文件重建（一次性迁移），
// 不然去重判断永远落空，旧表头下面还会混进新行。
func AppendFollower(dataDir string, count int, ok bool) error {
	if !ok {
		logger.Warn("⚠️ follower count unavailable, skip")
		return nil
	}

	path := filepath.Join(dataDir, FollowersFile)
	header, rows, err := readRows(path)
	rebuild := false
	if err != nil {
		logger.Warn("⚠️ followers file unreadable, starting fresh", zap.String("path", path), zap.Error(err))
		rows = nil
		rebuild = true
	} else if header != nil && !contains(header, "follower_count") {
		logger.Warn("⚠️ followers file has legacy header, starting fresh", zap.String("path", path))
		rows = nil
		rebuild = true
	}

	last, hasLast := lastFollowerCount(rows)
	if hasLast && last == count {
		logger.Info("🟰 follower count unchanged, skip", zap.Int("count", count))
		return nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	now := utils.NowInTokyo()
	record := []string{now.Format("2006/01/02"), now.Format("15:04:05"), strconv.Itoa(count)}

	if rebuild {
		err := writeAll(path, FollowersHeader, []map[string]string{{
			"date":           record[0],
			"time":           record[1],
			"follower_count": record[2],
		}})
		if err != nil {
			return err
		}
		logger.Info("✅ follower change recorded", zap.Int("count", count))
		return nil
	}

	info, err := os.Stat(path)
	writeHeader := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(FollowersHeader); err != nil {
			return err
		}
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	logger.Info("✅ follower change recorded", zap.Int("count", count), zap.Int("previous", last))
	return nil
}

// lastFollowerCount 从末尾往前找最近一条非空的粉丝数（千分位逗号剥掉）
func lastFollowerCount(rows []map[string]string) (int, bool) {
	for i := len(rows) - 1; i >= 0; i-- {
		val := strings.TrimSpace(rows[i]["follower_count"])
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(val, ",", ""))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
