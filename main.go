package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/padraicbc/footstats/config"
	"github.com/padraicbc/footstats/db"
	"github.com/padraicbc/footstats/features"
	"github.com/padraicbc/footstats/loader"
	applog "github.com/padraicbc/footstats/logger"
	"github.com/padraicbc/footstats/pipeline"
	"github.com/padraicbc/footstats/queries"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("pipeline failed", zap.Error(err))
		os.Exit(1)
	}
}

// run is the whole batch pass: load, register, query, assemble, model.
// The store closes on every exit path, error or not.
func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	store, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	tables, err := loader.LoadAll(cfg)
	if err != nil {
		return err
	}

	existing, err := store.Relations(ctx)
	if err != nil {
		return err
	}
	present := map[string]bool{}
	for _, n := range existing {
		present[n] = true
	}

	// Registration order is fixed; relations already in the file are
	// skipped, never silently rewritten.
	for _, name := range config.RelationNames {
		if present[name] {
			logger.Info("relation already registered, skipping", zap.String("relation", name))
			continue
		}
		if err := store.Register(ctx, name, tables[name]); err != nil {
			return err
		}
		logger.Info("registered relation",
			zap.String("relation", name),
			zap.Int("rows", tables[name].NumRows()))
	}

	if err := features.VerifySchema(ctx, store); err != nil {
		return err
	}

	if _, err := queries.RunAll(ctx, store); err != nil {
		return err
	}

	ft, err := features.Assemble(ctx, store)
	if err != nil {
		return err
	}
	logger.Info("assembled feature table",
		zap.Int("rows", ft.NumRows()),
		zap.Strings("predictors", ft.Predictors))

	rep, err := pipeline.Run(cfg, ft)
	if err != nil {
		return err
	}
	logger.Info("model comparison done", zap.String("winner", rep.Winner))
	fmt.Print(rep.Render())
	return nil
}
