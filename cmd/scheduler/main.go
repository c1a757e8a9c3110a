package main

import (
	"log"

	"github.com/iceymoss/note-stats-tracker/internal/conf"
	"github.com/iceymoss/note-stats-tracker/internal/server"
	"github.com/iceymoss/note-stats-tracker/web"
	// import anonymously to register tasks to the list
	_ "github.com/iceymoss/note-stats-tracker/internal/tasks/notestats"
	"github.com/iceymoss/note-stats-tracker/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	defer logger.Sync()

	// .env 在 CI 里通常不存在，密钥直接走环境变量
	if err := godotenv.Load(); err != nil {
		logger.Warn("⚠️ .env not loaded, relying on environment", zap.Error(err))
	}

	cfg, err := conf.LoadConfig("configs/config.yaml")
	if err != nil {
		logger.Fatal("❌ LoadConfig error", zap.Error(err))
	}

	srv := server.NewServer(cfg, web.StaticFiles)

	port := cfg.Server.Port
	if port == "" {
		port = ":8080"
	}

	log.Printf("🌐 Dashboard running at http://localhost%s", port)
	if err := srv.Run(port); err != nil {
		logger.Fatal("❌ Server error", zap.Error(err))
	}
}
