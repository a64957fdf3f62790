package main

import (
	"context"
	"fmt"
	"os"

	"github.com/botfabrik/dialog-backend/internal/clients/cache"
	"github.com/botfabrik/dialog-backend/internal/clients/entitylinker"
	"github.com/botfabrik/dialog-backend/internal/clients/relranker"
	"github.com/botfabrik/dialog-backend/internal/clients/templatematcher"
	"github.com/botfabrik/dialog-backend/internal/clients/wikihow"
	"github.com/botfabrik/dialog-backend/internal/clients/wikiparser"
	"github.com/botfabrik/dialog-backend/internal/config"
	httpserver "github.com/botfabrik/dialog-backend/internal/http"
	"github.com/botfabrik/dialog-backend/internal/http/handlers"
	"github.com/botfabrik/dialog-backend/internal/kbqa"
	"github.com/botfabrik/dialog-backend/internal/kbqa/querylog"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
	"github.com/botfabrik/dialog-backend/internal/platform/neo4jdb"
	"github.com/botfabrik/dialog-backend/internal/platform/shutdown"
)

func main() {
	cfg, err := config.Load("kbqa")
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

	ctx, cancel := shutdown.NotifyContext(context.Background())
	defer cancel()

	// Static read-only state, loaded once.
	library, err := kbqa.LoadTemplates(cfg.KBQA.TemplatesPath)
	if err != nil {
		log.Fatal("Could not load template library", "path", cfg.KBQA.TemplatesPath, "error", err)
	}
	rankList1, err := kbqa.LoadRankList(cfg.KBQA.RankList1Path)
	if err != nil {
		log.Fatal("Could not load rank list 1", "path", cfg.KBQA.RankList1Path, "error", err)
	}
	rankList2, err := kbqa.LoadRankList(cfg.KBQA.RankList2Path)
	if err != nil {
		log.Fatal("Could not load rank list 2", "path", cfg.KBQA.RankList2Path, "error", err)
	}
	log.Info("Static state loaded", "templates", library.Len(),
		"rank_list_1", len(rankList1), "rank_list_2", len(rankList2))

	// Collaborator clients.
	matcher, err := templatematcher.NewClient(log, cfg.KBQA.TemplateMatcher)
	if err != nil {
		log.Fatal("Could not init template matcher client", "error", err)
	}
	linker, err := entitylinker.NewClient(log, cfg.KBQA.EntityLinker, cfg.KBQA.UseELAPIRequester)
	if err != nil {
		log.Fatal("Could not init entity linker client", "error", err)
	}
	ranker, err := relranker.NewClient(log, cfg.KBQA.RelRanker)
	if err != nil {
		log.Fatal("Could not init rel ranker client", "error", err)
	}
	howto, err := wikihow.NewClient(log, cfg.KBQA.HowToSearch)
	if err != nil {
		log.Fatal("Could not init howto search client", "error", err)
	}

	var wiki kbqa.WikiParser
	switch cfg.KBQA.WikiParserMode {
	case "neo4j":
		graph, err := neo4jdb.NewFromEnv(log)
		if err != nil {
			log.Fatal("Could not init neo4j", "error", err)
		}
		if graph == nil {
			log.Fatal("wiki_parser_mode is neo4j but NEO4J_URI is not set")
		}
		defer graph.Close(ctx)
		wiki, err = wikiparser.NewNeo4jParser(log, graph)
		if err != nil {
			log.Fatal("Could not init neo4j wiki parser", "error", err)
		}
	default:
		wiki, err = wikiparser.NewClient(log, cfg.KBQA.WikiParser, cfg.KBQA.UseWPAPIRequester)
		if err != nil {
			log.Fatal("Could not init wiki parser client", "error", err)
		}
	}

	// Optional read-through cache for linker and wiki-parser calls.
	collabCache, err := cache.NewFromEnv(log, cfg.KBQA.CacheTTL.Duration)
	if err != nil {
		log.Warn("Collaborator cache unavailable, continuing without it", "error", err)
	}
	if collabCache != nil {
		defer collabCache.Close()
	}

	queryLog, err := querylog.Open(log)
	if err != nil {
		log.Warn("Query log unavailable, continuing without it", "error", err)
		queryLog = nil
	}

	gen := kbqa.NewGenerator(log, cfg.KBQA, kbqa.GeneratorDeps{
		Matcher:   matcher,
		Linker:    cache.WrapLinker(linker, collabCache),
		Ranker:    ranker,
		Wiki:      cache.WrapWikiParser(wiki, collabCache),
		HowTo:     howto,
		Library:   library,
		RankList1: rankList1,
		RankList2: rankList2,
	})

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Log:             log,
		MaxRequestBytes: cfg.HTTP.MaxRequestBytes,
		KBQAHandler:     handlers.NewKBQAHandler(log, gen, queryLog),
	})
	srv := httpserver.NewServer(cfg.HTTP, router)

	log.Info("KBQA service listening", "addr", cfg.HTTP.Addr)
	if err := srv.Run(ctx); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
