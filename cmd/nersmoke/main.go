package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/botfabrik/dialog-backend/internal/ner"
	"github.com/botfabrik/dialog-backend/internal/platform/envutil"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	defaultURL := envutil.GetEnv("NER_URL", "http://0.0.0.0:8021/ner", log)
	url := flag.String("url", defaultURL, "NER service endpoint")
	timeout := flag.Duration("timeout", 60*time.Second, "overall deadline for the battery")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	checker := ner.NewChecker(log, *url)
	if err := checker.Run(ctx); err != nil {
		log.Error("NER smoke check failed", "url", *url, "error", err)
		os.Exit(1)
	}
	fmt.Println("Success")
}
