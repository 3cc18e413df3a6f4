package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/config"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/secrets"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/services"
)

func main() {
	limit := flag.Int("n", services.DefaultRecentLimit, "number of responses to show")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	creds := secrets.NewResolver(cfg.SecretsFile).Load()

	ctx := context.Background()
	store, err := services.NewPersistence(ctx, services.PersistenceConfig{
		RemoteURL:    creds.RemoteURL,
		RemoteKey:    creds.RemoteKey,
		RemoteDSN:    creds.RemoteDBURL,
		LocalPath:    cfg.LocalDBPath,
		ProbeTimeout: cfg.RemoteTimeout,
	})
	if err != nil {
		log.Fatalf("no storage available: %v", err)
	}
	defer store.Close()

	rows, err := store.FetchRecent(ctx, *limit)
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}
	if len(rows) == 0 {
		log.Printf("no responses yet (%s backend)", store.Backend())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		log.Fatalf("encode failed: %v", err)
	}
}
