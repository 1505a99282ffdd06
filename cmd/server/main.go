package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/config"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/http"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/logger"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/portfolio"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/quotes"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/ratelimit"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/repository"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/repository/memory"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/repository/postgres"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/scheduler"
	"github.com/HarshilKhanna/Portfolio-Risk-Calculator/internal/simulation"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Environment)

	limiter := ratelimit.New(cfg.QuoteCallsPerMinute, time.Minute)
	defer limiter.Close()
	quoteSvc := quotes.NewFinnhubClient(cfg.FinnhubBaseURL, cfg.FinnhubAPIKey, limiter, log)

	ctx := context.Background()

	var repoImpl repository.PortfolioRepository
	if cfg.UseInMemoryStore {
		log.Warn("DATABASE_URL not set, using in-memory store. Portfolio will reset on restart.")
		repoImpl = memory.New()
	} else {
		db, err := sql.Open("postgres", cfg.DBURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to postgres")
		}
		if err := db.Ping(); err != nil {
			log.WithError(err).Fatal("postgres ping failed")
		}
		defer db.Close()
		pgRepo := postgres.New(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("failed to create schema")
		}
		repoImpl = pgRepo
		log.Info("connected to postgres")
	}

	store, err := portfolio.NewService(ctx, repoImpl, quoteSvc, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialise portfolio store")
	}

	// One refresh up front so the dashboard starts with live prices, then
	// the scheduler keeps them fresh.
	store.RefreshPrices(ctx)

	sched := scheduler.New(log)
	if err := sched.AddEvery(cfg.RefreshInterval, portfolio.NewRefreshJob(store)); err != nil {
		log.WithError(err).Fatal("failed to register refresh job")
	}
	sched.Start()
	defer sched.Stop()

	sim := simulation.New(simulation.Config{})
	router := http.Router(store, quoteSvc, sim, cfg.FxRate, log)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Infof("portfolio risk calculator listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
