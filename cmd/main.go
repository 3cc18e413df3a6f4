package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	survey "github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/config"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/handler"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/imagegen"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/secrets"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/middleware"
	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/services"
)

const apiVersion = "1.0.0"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds := secrets.NewResolver(cfg.SecretsFile).Load()

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

	size, err := imagegen.ParseSize(cfg.ImageSize)
	if err != nil {
		log.Fatalf("invalid configuration: IMAGE_SIZE: %v", err)
	}
	gen := imagegen.New(creds.ImageAPIKey,
		imagegen.WithEndpoint(cfg.ImageEndpoint),
		imagegen.WithModel(cfg.ImageModel),
		imagegen.WithTimeout(cfg.ImageTimeout),
	)
	if !gen.Configured() {
		log.Printf("[WARN] %s is not set; image generation requests will fail", secrets.ImageAPIKey)
	}

	controller := handler.NewSurveyController(
		services.NewSurveyService(store, cfg.NormalizePoliticalLeaningOnWrite),
		services.NewImageService(gen, size),
		store,
	)
	logger := middleware.NewLogger(os.Stdout, cfg.LogLevel, cfg.ServiceName)
	router := survey.NewRouter(apiVersion, logger, controller)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server is running on port %s (storage: %s)", cfg.Port, store.Backend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
