package main

import (
	"context"
	"fmt"
	"os"

	"github.com/botfabrik/dialog-backend/internal/config"
	httpserver "github.com/botfabrik/dialog-backend/internal/http"
	"github.com/botfabrik/dialog-backend/internal/http/handlers"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
	"github.com/botfabrik/dialog-backend/internal/platform/shutdown"
	"github.com/botfabrik/dialog-backend/internal/skills/imageskill"
)

func main() {
	cfg, err := config.Load("imageskill")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Log:               log,
		MaxRequestBytes:   cfg.HTTP.MaxRequestBytes,
		ImageSkillHandler: handlers.NewImageSkillHandler(log, imageskill.New(log)),
	})
	srv := httpserver.NewServer(cfg.HTTP, router)

	ctx, cancel := shutdown.NotifyContext(context.Background())
	defer cancel()

	log.Info("Image skill listening", "addr", cfg.HTTP.Addr)
	if err := srv.Run(ctx); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
