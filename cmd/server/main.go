package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/classify"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/config"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/db"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/handler"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/middleware"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/repository"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/router"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/service"
	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/youtube"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "creator-search")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	channelRepo := repository.NewChannelRepo(pool)
	queryRepo := repository.NewQueryRepo(pool)
	runRepo := repository.NewRunRepo(pool)
	statsRepo := repository.NewStatsRepo(pool, runRepo)

	// Runs stranded by a previous crash would block the scheduler gate forever.
	if err := runRepo.RecoverIncomplete(ctx); err != nil {
		log.Printf("failed to recover incomplete runs: %v", err)
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	ledger := youtube.NewQuotaLedger(cfg.QuotaDailyLimit)
	ytClient := youtube.NewClient(cfg.YouTubeAPIKey, ledger)
	classifier := classify.New(cfg.ClassifierThreshold)

	channelSvc := service.NewChannelService(channelRepo, cache)
	statsSvc := service.NewStatsService(statsRepo, cache)
	scraper := service.NewScraperService(ytClient, queryRepo, channelRepo, runRepo, classifier, cache, cfg.MaxPagesPerQuery)
	sched := service.NewScheduler(scraper, cfg.ScrapeInterval)

	handler.InitMetrics(pool, ledger)

	app := fiber.New(fiber.Config{
		AppName:      "Creator Search API",
		ServerHeader: "CreatorSearch",
	})

	h := &router.Handlers{
		Channel: handler.NewChannelHandler(channelSvc),
		Query:   handler.NewQueryHandler(queryRepo),
		Scrape:  handler.NewScrapeHandler(sched, ledger),
		Stats:   handler.NewStatsHandler(statsSvc),
		History: handler.NewHistoryHandler(runRepo),
		Filters: handler.NewFiltersHandler(channelSvc),
		Export:  handler.NewExportHandler(channelSvc, cfg.ExportRowLimit),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, h, cfg.CORSOrigins)

	go sched.Start(ctx)

	go func() {
		<-ctx.Done()
		log.Println("shutdown signal received")
		sched.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	log.Printf("creator search backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
	log.Println("server stopped cleanly")
}
