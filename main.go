package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/signalcards/internal/config"
	"github.com/example/signalcards/internal/content"
	"github.com/example/signalcards/internal/database"
	"github.com/example/signalcards/internal/excel"
	"github.com/example/signalcards/internal/server"
	"github.com/example/signalcards/internal/session"
	"github.com/example/signalcards/internal/spaced_repetition"
	"github.com/example/signalcards/internal/study"
)

func main() {
	importPath := flag.String("import", "", "import questions from an xlsx file and exit")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Load()

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	questions := database.NewQuestionRepository(db)

	if *importPath != "" {
		importer := excel.NewImporter(questions, excel.DefaultImportConfig())
		result, err := importer.ImportFile(context.Background(), *importPath)
		if err != nil {
			log.Fatal("import failed", zap.Error(err))
		}
		log.Info("import finished",
			zap.Int("processed", result.TotalProcessed),
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped),
			zap.Strings("errors", result.Errors),
		)
		return
	}

	strategy, err := spaced_repetition.ForKind(cfg.Strategy)
	if err != nil {
		log.Fatal("bad scheduling strategy", zap.Error(err))
	}

	progress := database.NewProgressRepository(db)
	stats := database.NewStatsRepository(db)

	aggregator := study.NewAggregator(stats)
	pipeline := study.NewPipeline(progress, questions, aggregator, strategy, log)
	composer := session.NewComposer(progress, questions, log, cfg.DefaultBatchSize)
	categories := content.NewCategoryCache(questions, cfg.CategoryCacheTTL)

	srv := server.New(composer, pipeline, aggregator, progress, categories, log, cfg.RequestTimeout, cfg.AllowedOrigins)

	// Keep the category counts warm; the question editor invalidates rarely
	// enough that a periodic refresh is sufficient.
	jobs := gocron.NewScheduler(time.UTC)
	jobs.Every(cfg.CategoryCacheTTL).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		if _, err := categories.Refresh(ctx); err != nil {
			log.Warn("category cache refresh failed", zap.Error(err))
		}
	})
	jobs.StartAsync()
	defer jobs.Stop()

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Handler(),
	}

	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
