package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lending_docs/internal/adapters/opener"
	"lending_docs/internal/adapters/prose"
	"lending_docs/internal/adapters/storage"
	"lending_docs/internal/config"
	"lending_docs/internal/handlers"
	"lending_docs/internal/logger"
	"lending_docs/internal/ports"
	"lending_docs/internal/repository"
	"lending_docs/internal/repository/audit"
	"lending_docs/internal/repository/cache"
	"lending_docs/internal/repository/database"
	importitems "lending_docs/internal/repository/imports"
	"lending_docs/internal/repository/programs"
	"lending_docs/internal/server"
	"lending_docs/internal/services/compliance"
	"lending_docs/internal/services/documents"
	"lending_docs/internal/services/evaluations"
	"lending_docs/internal/services/importer"
	"lending_docs/internal/services/importer/processors"
)

const proseCacheTTL = 24 * time.Hour

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(os.Getenv("APP_ENV"))
	defer func() { _ = log.Sync() }()

	setupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg := config.Init(setupCtx, log)
	defer cfg.Close(context.Background())
	log.Info("[CFG] all connections established")

	if err := cfg.CheckConnections(setupCtx); err != nil {
		log.Fatal("[CFG] connection check failed", zap.Error(err))
	}
	log.Info("[CFG] all connections OK")

	programsRepo := database.NewProgramsRepo(cfg.Postgres, "")
	registry := loadPrograms(setupCtx, cfg, programsRepo, log)

	var opts []compliance.Option
	if cfg.APORRate > 0 {
		opts = append(opts, compliance.WithAPORSource(compliance.StaticAPOR{Rate: cfg.APORRate}))
	}
	evaluator := compliance.NewEvaluator(registry, opts...)

	auditStore := audit.NewStore(cfg.Mongo)
	evalSvc := evaluations.NewService(evaluator, database.NewDealsRepo(cfg.Postgres, ""), auditStore, log)

	objects := storage.NewS3Store(cfg.S3.Client, cfg.S3.Bucket)
	docSvc := documents.NewService(evaluator, registry, proseChain(runCtx, cfg, log), objects, auditStore, log)

	items := importitems.NewItems(cfg.Mongo, log)
	procs := processors.Registry(processors.Deps{
		Base:     processors.NewBaseProcessor(items, log),
		Programs: programsRepo,
		Registry: registry,
		Deals:    evalSvc,
		SkipSave: func(err error) bool { return errors.Is(err, evaluations.ErrNoDealStore) },
	})
	fileOpener := opener.NewCompoundOpener(
		opener.NewHTTPOpener(&http.Client{Timeout: 5 * time.Minute}, log),
		opener.NewS3Opener(cfg.S3.Client, log),
		cfg.S3.Bucket,
	)
	if cfg.ImportDir != "" {
		fileOpener.WithLocal(opener.NewLocalOpener(cfg.ImportDir, log))
	}

	h := handlers.New(handlers.Deps{
		Postgres:    cfg.Postgres,
		Mongo:       cfg.Mongo,
		S3:          cfg.S3,
		Redis:       cfg.Redis,
		Programs:    registry,
		Evaluations: evalSvc,
		Documents:   docSvc,
		Importer:    importer.NewService(fileOpener, procs, 500, log),
		Records:     importitems.NewRecords(cfg.Mongo),
		Uploads:     objects,
		Logger:      log,
	})

	tokens := repository.NewAPITokenRepository(cfg.Postgres, log)
	srv := server.NewServer(cfg.Port, server.Routes(h, tokens, log), log)
	if err := srv.Run(runCtx); err != nil {
		log.Fatal("[HTTP] server stopped", zap.Error(err))
	}
}

// loadPrograms layers the embedded catalog, PROGRAMS_FILE and the
// loan_programs table, later sources winning.
func loadPrograms(ctx context.Context, cfg *config.Config, repo *database.ProgramsRepo, log *zap.Logger) *programs.Registry {
	registry, err := programs.Default()
	if err != nil {
		log.Fatal("[CFG] embedded program catalog", zap.Error(err))
	}
	if cfg.ProgramsFile != "" {
		list, err := programs.LoadFile(cfg.ProgramsFile)
		if err != nil {
			log.Fatal("[CFG] programs file", zap.String("path", cfg.ProgramsFile), zap.Error(err))
		}
		registry.Merge(list)
	}
	stored, err := repo.List(ctx)
	if err != nil {
		log.Warn("[CFG] loan_programs not loaded, using catalog only", zap.Error(err))
	} else {
		registry.Merge(stored)
	}
	log.Info("[CFG] programs loaded", zap.Int("count", registry.Len()))
	return registry
}

// proseChain is LLM (when configured) -> template fallback -> cache.
func proseChain(ctx context.Context, cfg *config.Config, log *zap.Logger) ports.ProseGenerator {
	chain := prose.WithFallback{Fallback: prose.FallbackGenerator{}, Log: log}
	if cfg.Gemini.Enabled() {
		gen, err := prose.NewGenAIGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
		if err != nil {
			log.Warn("[PROSE] genai client unavailable, templates only", zap.Error(err))
		} else {
			chain.Primary = gen
		}
	}

	var store ports.Cache = cache.NewMemoryCache()
	if cfg.Redis != nil && cfg.Redis.Client != nil {
		store = cache.NewRedisCache(cfg.Redis.Client, "lending_docs:")
	}
	return prose.NewCachedGenerator(chain, store, proseCacheTTL, log)
}
