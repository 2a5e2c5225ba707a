// cmd/loadcsv/main.go
// Loads the seven CSV extracts into the SQLite database file.
//
// Usage:
//
//	CSV_DIR=data DB_PATH=footstats.db go run ./cmd/loadcsv
package main

import (
	"context"
	"errors"
	"log"

	"github.com/padraicbc/footstats/config"
	"github.com/padraicbc/footstats/db"
	"github.com/padraicbc/footstats/loader"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	store, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer store.Close()

	tables, err := loader.LoadAll(cfg)
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	for _, name := range config.RelationNames {
		err := store.Register(ctx, name, tables[name])
		switch {
		case errors.Is(err, db.ErrRelationExists):
			log.Printf("%-12s  already registered, skipped", name)
		case err != nil:
			log.Fatalf("register %s: %v", name, err)
		default:
			log.Printf("%-12s  %d rows registered", name, tables[name].NumRows())
		}
	}

	names, err := store.Relations(ctx)
	if err != nil {
		log.Fatalf("list relations: %v", err)
	}
	log.Printf("database holds %d relations: %v", len(names), names)
}
