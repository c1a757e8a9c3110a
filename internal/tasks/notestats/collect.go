package notestats

import (
	"context"
	"os"

	"github.com/iceymoss/note-stats-tracker/internal/conf"
	"github.com/iceymoss/note-stats-tracker/internal/core"
	"github.com/iceymoss/note-stats-tracker/internal/tasks"
)

// CollectTask 结构体
type CollectTask struct{}

func init() {
	// 默认每天 JST 06:00 跑一次，参数可被 config.yaml 覆盖
	tasks.RegisterAuto("note:stats_collect", "0 0 6 * * *", NewCollectTask, map[string]any{})
}

func NewCollectTask() core.Task {
	return &CollectTask{}
}

func (t *CollectTask) Identifier() string {
	return "note:stats_collect"
}

func (t *CollectTask) Run(ctx context.Context, params map[string]any) (string, error) {
	cfg := parseParams(params)
	summary, err := NewPipeline(cfg).Run(ctx)
	if err != nil {
		return "", err
	}
	return summary.String(), nil
}

// parseParams 任务参数优先，缺省回落到环境变量
func parseParams(params map[string]any) conf.NoteConfig {
	cfg := conf.NoteConfig{
		BaseURL:       stringParam(params, "base_url", ""),
		Cookie:        stringParam(params, "cookie", os.Getenv("NOTE_COOKIE")),
		Username:      stringParam(params, "username", os.Getenv("NOTE_USERNAME")),
		CookieSetDate: stringParam(params, "cookie_set_date", os.Getenv("COOKIE_SET_DATE")),
		DataDir:       stringParam(params, "data_dir", ""),
		PageDelayMs:   intParam(params, "page_delay_ms"),
		DetailDelayMs: intParam(params, "detail_delay_ms"),
	}
	cfg.ApplyDefaults()
	return cfg
}

// stringParam 数组里的 ${VAR} 不会被 viper 展开，这里自己展开一次
func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		if expanded := os.ExpandEnv(v); expanded != "" {
			return expanded
		}
		return fallback
	}
	return fallback
}

func intParam(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
