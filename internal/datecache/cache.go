package datecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/iceymoss/note-stats-tracker/pkg/logger"
	"github.com/iceymoss/note-stats-tracker/pkg/utils"

	"go.uber.org/zap"
)

const (
	// FileName 跨轮次共享的日期缓存文档
	FileName = "v3_dates_cache.json"

	// stalenessDays 超过这个天数的缓存视为不可信，强制回源
	stalenessDays = 7
)

// Entry 单篇文章上次取到的慢变字段，fetched_at 记录刷新日期
type Entry struct {
	PublishedAt string `json:"published_at"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	FetchedAt   string `json:"fetched_at"`
}

// Cache 以文章 key 为主键的日期缓存，整个文档一次读入、一次写回
type Cache struct {
	path    string
	entries map[string]Entry
}

// Load 读入缓存文件。
// 文件缺失或损坏都按空缓存处理（这一轮全量回源），绝不报错。
// 旧格式（值是裸字符串）透明迁移：字符串当作 published_at，其余字段置空。
func Load(dataDir string) *Cache {
	c := &Cache{
		path:    filepath.Join(dataDir, FileName),
		entries: make(map[string]Entry),
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return c
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("⚠️ dates cache unreadable, rebuilding", zap.Error(err))
		return c
	}

	for key, val := range doc {
		var legacy string
		if err := json.Unmarshal(val, &legacy); err == nil {
			c.entries[key] = Entry{PublishedAt: legacy}
			continue
		}
		var entry Entry
		if err := json.Unmarshal(val, &entry); err != nil {
			logger.Warn("⚠️ dates cache entry unreadable, dropping", zap.String("key", key))
			continue
		}
		c.entries[key] = entry
	}
	return c
}

func (c *Cache) Get(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) Put(key string, e Entry) {
	c.entries[key] = e
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Save 整个文档一次写回，顺手把旧格式条目固化成新形状
func (c *Cache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0644)
}

// IsStale 判断缓存条目是否过期。
// 没有 fetched_at（含旧格式迁移来的）一律过期；日期差按日历天算，满 7 天过期。
func IsStale(e Entry, today string) bool {
	if e.FetchedAt == "" {
		return true
	}
	t, err := time.ParseInLocation("2006-01-02", today, utils.TokyoLocation)
	if err != nil {
		return true
	}
	f, err := time.ParseInLocation("2006-01-02", e.FetchedAt, utils.TokyoLocation)
	if err != nil {
		return true
	}
	return int(t.Sub(f).Hours()/24) >= stalenessDays
}
