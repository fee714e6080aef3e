package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/udaysingh21/NGO-Postings-Service/internal/auth"
	"github.com/udaysingh21/NGO-Postings-Service/internal/config"
	"github.com/udaysingh21/NGO-Postings-Service/internal/httpapi"
	"github.com/udaysingh21/NGO-Postings-Service/internal/obs"
	"github.com/udaysingh21/NGO-Postings-Service/internal/posting"
	"github.com/udaysingh21/NGO-Postings-Service/internal/store/pg"
)

var version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("GIT_COMMIT"))

	verifier, err := auth.NewVerifier(cfg.Auth.Secret)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	// Persistence: Postgres when a DSN is configured, in-memory otherwise.
	var (
		store posting.Store
		db    *sql.DB
	)
	if cfg.Postgres.DSN != "" {
		pgStore, err := pg.Open(cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		store = pgStore
		db = pgStore.DB()
	} else {
		log.Print("no postgres.dsn configured, using in-memory store")
		store = posting.NewInMemory()
	}

	svc := posting.NewService(store)
	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, verifier, svc, httpapi.Options{
		AllowAnonymousRead: cfg.Auth.AllowAnonymousRead,
		RateBurst:          cfg.Limits.RateBurst,
		RatePerSecond:      cfg.Limits.RatePerSecond,
		MaxBodyBytes:       cfg.Limits.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	log.Printf("Starting ngo-postings-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
