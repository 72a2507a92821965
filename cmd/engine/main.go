package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"bulletin-engine/internal/config"
	"bulletin-engine/internal/docstore"
	"bulletin-engine/internal/events"
	"bulletin-engine/internal/httpapi"
	"bulletin-engine/internal/importer"
	"bulletin-engine/internal/ingest"
	"bulletin-engine/internal/maildrop"
	"bulletin-engine/internal/reconcile"
	"bulletin-engine/internal/runlock"
	"bulletin-engine/internal/scheduler"
)

func main() {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("BULLETIN_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	normalized, vr := config.NormalizeAndValidate(cfg)
	for _, wmsg := range vr.Warnings {
		log.Printf("level=warn msg=\"config\" warning=%q", wmsg)
	}
	if !vr.OK() {
		log.Fatalf("config invalid (%s): %v", userCfgPath, vr.Errors)
	}
	cfgVal.Store(normalized)
	cfg = normalized

	store, err := openStore(cfg, dataDir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	hub := events.NewHub()
	pending := httpapi.NewPendingReviews()
	lock := runlock.New(dataDir)

	writeLimiter := rate.NewLimiter(rate.Limit(cfg.Importing.WritesPerSecond), cfg.Importing.WriteBurst)

	pipeline := ingest.Pipeline{Store: store}
	committer := reconcile.Committer{Store: store, Limiter: writeLimiter}
	contacts := importer.Contacts{
		Store:     store,
		BatchSize: cfg.Importing.ContactBatchSize,
		Limiter:   writeLimiter,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mailbox watcher: fetch, preview, park for review. Never commits.
	if cfg.Mail.Enabled {
		interval := time.Duration(cfg.Mail.PollSeconds) * time.Second
		go scheduler.Every(ctx, interval, "maildrop", func(tctx context.Context) error {
			cur := cfgVal.Load().(config.Config)
			if !cur.Mail.Enabled {
				return nil
			}
			return pollMailbox(tctx, cur, pipeline, pending, hub)
		})
	}

	deps := httpapi.Deps{
		Store:       store,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Pipeline:    pipeline,
		Committer:   committer,
		Contacts:    contacts,
		Lock:        lock,
		Pending:     pending,
	}
	mux := httpapi.NewMux(deps)

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	srv := &http.Server{ReadHeaderTimeout: 5 * time.Second}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	srv.Handler = httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (store=%s) shutdown_token=%s", addr, cfg.Store.Driver, token)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func openStore(cfg config.Config, dataDir string) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = filepath.Join(dataDir, "bulletin.db")
		}
		return docstore.OpenSQLite(path)
	case "postgres":
		return docstore.OpenPostgres(cfg.Store.DSN)
	case "memory":
		return docstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// pollMailbox runs one watch cycle: fetch matching messages, preview each
// body, park the buckets for operator review.
func pollMailbox(ctx context.Context, cfg config.Config, pipeline ingest.Pipeline, pending *httpapi.PendingReviews, hub *events.Hub) error {
	timeout := time.Duration(cfg.Importing.SourceTimeoutSeconds) * time.Second
	sources := []ingest.Source{&maildrop.Fetcher{Cfg: cfg.Mail}}

	for _, res := range ingest.Gather(ctx, sources, timeout) {
		for _, text := range res.Texts {
			buckets, err := pipeline.Preview(ctx, text)
			if err != nil {
				log.Printf("[maildrop] preview failed: %v", err)
				continue
			}
			if len(buckets.ToAdd)+len(buckets.Duplicates)+len(buckets.ToUpdate) == 0 {
				continue
			}
			pr := pending.Add(res.Source, buckets)
			hub.Publish(events.Make("", "import_ready", map[string]any{
				"id":     pr.ID,
				"source": pr.Source,
			}))
		}
	}
	return nil
}
