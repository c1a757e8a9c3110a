package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/iceymoss/note-stats-tracker/internal/conf"
	"github.com/iceymoss/note-stats-tracker/internal/tasks/notestats"
	"github.com/iceymoss/note-stats-tracker/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// 一次性采集入口：给 GitHub Actions 这类外部调度器用。
// 跑完即退出，致命错误（认证失败、stats 结构不对）返回非零状态码。
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config.yaml")
	dataDir := flag.String("data", "", "override data directory")
	flag.Parse()

	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("⚠️ .env not loaded, relying on environment", zap.Error(err))
	}

	noteCfg := loadNoteConfig(*configPath)
	if *dataDir != "" {
		noteCfg.DataDir = *dataDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := notestats.NewPipeline(noteCfg).Run(ctx)
	if err != nil {
		logger.Error("❌ collection failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("✅ collection finished", zap.String("summary", summary.String()))
}

// loadNoteConfig 配置文件缺失时退回纯环境变量模式
func loadNoteConfig(path string) conf.NoteConfig {
	if cfg, err := conf.LoadConfig(path); err == nil {
		return cfg.Note
	}
	logger.Warn("⚠️ config file not loaded, using environment only", zap.String("path", path))
	noteCfg := conf.NoteConfig{
		Cookie:        os.Getenv("NOTE_COOKIE"),
		Username:      os.Getenv("NOTE_USERNAME"),
		CookieSetDate: os.Getenv("COOKIE_SET_DATE"),
	}
	noteCfg.ApplyDefaults()
	return noteCfg
}
