package main

import (
	"flag"
	"log"
	"os"

	"github.com/seethefuture888888-creator/kangbo/internal/di"
	"github.com/seethefuture888888-creator/kangbo/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s feed=%s live_refresh=%v", cfg.Environment, cfg.Feed.URL, cfg.Feed.LiveRefresh)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
