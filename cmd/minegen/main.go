package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"minesynth.ai/internal/observerproto"
	"minesynth.ai/internal/persistence/eventlog"
	"minesynth.ai/internal/persistence/indexdb"
	"minesynth.ai/internal/persistence/pgload"
	"minesynth.ai/internal/sim/scenario"
	"minesynth.ai/internal/transport/observer"
)

func main() {
	var (
		configPath = flag.String("config", "", "scenario yaml path (empty = built-in defaults)")
		outDir     = flag.String("out", "./out", "output directory for dump files")
		seed       = flag.Int64("seed", 0, "override the scenario seed (0 keeps the scenario value)")
		levels     = flag.Int("levels", 0, "override the scenario level count (0 keeps the scenario value)")
		dsn        = flag.String("dsn", "", "postgis dsn for direct loading (empty to disable)")
		indexPath  = flag.String("index", "", "sqlite run index path (empty to disable)")
		compress   = flag.Bool("compress", false, "zstd-compress dump files")
		plans      = flag.Bool("preview", false, "write per-level geojson plans")
		observe    = flag.String("observe", "", "progress feed listen address (empty to disable)")
		events     = flag.String("events", "", "run event log path, zstd jsonl (empty to disable)")
		printMap   = flag.Bool("print_map", false, "print each level's ascii map")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[minegen] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := scenario.Load(*configPath)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *levels > 0 {
		cfg.Levels = *levels
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("scenario: %v", err)
	}
	params, err := cfg.Params()
	if err != nil {
		logger.Fatalf("compile samplers: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var idx *indexdb.RunIndex
	if *indexPath != "" {
		idx, err = indexdb.Open(*indexPath)
		if err != nil {
			logger.Fatalf("open run index: %v", err)
		}
		defer idx.Close()
	}

	var loader *pgload.Loader
	if *dsn != "" {
		loader, err = pgload.Open(*dsn)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer loader.Close()
	}

	var obs *observer.Server
	if *observe != "" {
		obs = observer.NewServer(logger)
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/ws", obs.WSHandler())
		mux.HandleFunc("/v1/bootstrap", obs.BootstrapHandler())
		srv := &http.Server{
			Addr:              *observe,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Printf("progress feed: %v", err)
			}
		}()
		defer func() {
			// Queued events flush within the writer deadline; give
			// subscribers a moment before tearing the listener down.
			time.Sleep(200 * time.Millisecond)
			ctx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel2()
			_ = srv.Shutdown(ctx2)
		}()
		logger.Printf("progress feed on %s", *observe)
	}

	var evlog *eventlog.Logger
	if *events != "" {
		evlog, err = eventlog.New(*events)
		if err != nil {
			logger.Fatalf("open event log: %v", err)
		}
		defer evlog.Close()
	}

	g := &generator{
		runID:    uuid.NewString(),
		cfg:      cfg,
		params:   params,
		outDir:   *outDir,
		compress: *compress,
		plans:    *plans,
		printMap: *printMap,
		log:      logger,
		index:    idx,
		loader:   loader,
		sink:     multiSink{a: obs, b: evlog},
	}

	logger.Printf("run %s: seed=%d levels=%d grid=%dx%d schema=%s",
		g.runID, cfg.Seed, cfg.Levels, cfg.Grid.Cols, cfg.Grid.Rows, cfg.Schema)
	if err := g.run(ctx); err != nil {
		logger.Fatalf("run: %v", err)
	}
}

// multiSink fans events to the websocket feed and the event log.
type multiSink struct {
	a progressSink
	b progressSink
}

func (m multiSink) PublishRunStarted(ev observerproto.RunStartedMsg) {
	if m.a != nil {
		m.a.PublishRunStarted(ev)
	}
	if m.b != nil {
		m.b.PublishRunStarted(ev)
	}
}

func (m multiSink) PublishLevelStarted(ev observerproto.LevelStartedMsg) {
	if m.a != nil {
		m.a.PublishLevelStarted(ev)
	}
	if m.b != nil {
		m.b.PublishLevelStarted(ev)
	}
}

func (m multiSink) PublishStage(ev observerproto.StageMsg) {
	if m.a != nil {
		m.a.PublishStage(ev)
	}
	if m.b != nil {
		m.b.PublishStage(ev)
	}
}

func (m multiSink) PublishExport(ev observerproto.ExportMsg) {
	if m.a != nil {
		m.a.PublishExport(ev)
	}
	if m.b != nil {
		m.b.PublishExport(ev)
	}
}

func (m multiSink) PublishLevelCompleted(ev observerproto.LevelCompletedMsg) {
	if m.a != nil {
		m.a.PublishLevelCompleted(ev)
	}
	if m.b != nil {
		m.b.PublishLevelCompleted(ev)
	}
}

func (m multiSink) PublishRunCompleted(ev observerproto.RunCompletedMsg) {
	if m.a != nil {
		m.a.PublishRunCompleted(ev)
	}
	if m.b != nil {
		m.b.PublishRunCompleted(ev)
	}
}
