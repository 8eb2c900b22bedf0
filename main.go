// @title CurioLearn Backend API
// @version 1.0
// @description Learning progress and content sequencing service.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"curiolearn_backend/internal/app"
	"curiolearn_backend/internal/config"
	"curiolearn_backend/pkg/configwatcher"
	"curiolearn_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig(*configDir+"/config.yaml", application.ReloadConfig)

	application.Run()
}
