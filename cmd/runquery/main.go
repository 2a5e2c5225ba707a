// cmd/runquery/main.go
// Runs one named catalog query against the database and prints the result.
//
// Usage:
//
//	go run ./cmd/runquery -name shot_result_shares
//	go run ./cmd/runquery -list
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/padraicbc/footstats/config"
	"github.com/padraicbc/footstats/db"
	"github.com/padraicbc/footstats/queries"
)

func main() {
	name := flag.String("name", "", "catalog query name")
	list := flag.Bool("list", false, "list catalog query names")
	flag.Parse()

	if *list {
		for _, q := range queries.Catalog {
			fmt.Printf("%-24s %s\n", q.Name, q.Doc)
		}
		return
	}
	if *name == "" {
		log.Fatal("-name is required (or -list)")
	}

	q, ok := queries.Get(*name)
	if !ok {
		log.Fatalf("no catalog query named %q", *name)
	}

	cfg := config.Load()
	store, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer store.Close()

	t, err := store.Execute(context.Background(), q.SQL)
	if err != nil {
		log.Fatalf("execute %s: %v", q.Name, err)
	}
	fmt.Print(t.String())
	fmt.Printf("(%d rows)\n", t.NumRows())
}
