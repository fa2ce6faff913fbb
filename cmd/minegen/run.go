package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"minesynth.ai/internal/observerproto"
	"minesynth.ai/internal/persistence/dump"
	"minesynth.ai/internal/persistence/indexdb"
	"minesynth.ai/internal/persistence/pgload"
	"minesynth.ai/internal/persistence/preview"
	"minesynth.ai/internal/sim/mine"
	"minesynth.ai/internal/sim/scenario"
)

// progressSink receives run lifecycle events. A nil *observer.Server
// satisfies it and drops everything, so callers publish unconditionally.
type progressSink interface {
	PublishRunStarted(observerproto.RunStartedMsg)
	PublishLevelStarted(observerproto.LevelStartedMsg)
	PublishStage(observerproto.StageMsg)
	PublishExport(observerproto.ExportMsg)
	PublishLevelCompleted(observerproto.LevelCompletedMsg)
	PublishRunCompleted(observerproto.RunCompletedMsg)
}

// generator drives one run: every level in sequence off a single seeded
// stream, each level exported, recorded and published before the next
// one starts.
type generator struct {
	runID  string
	cfg    scenario.Config
	params mine.Params

	outDir   string
	compress bool
	plans    bool
	printMap bool

	log    *log.Logger
	index  *indexdb.RunIndex
	loader *pgload.Loader
	sink   progressSink
}

func (g *generator) run(ctx context.Context) error {
	runStart := time.Now()

	cfgJSON, err := json.Marshal(g.cfg)
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	if err := g.index.RecordRun(indexdb.RunRow{
		ID:         g.runID,
		StartedAt:  runStart,
		Seed:       g.cfg.Seed,
		Levels:     g.cfg.Levels,
		Dimensions: g.cfg.Dimensions,
		ConfigJSON: cfgJSON,
	}); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	g.sink.PublishRunStarted(observerproto.RunStartedMsg{
		RunID:      g.runID,
		Seed:       g.cfg.Seed,
		Levels:     g.cfg.Levels,
		Dimensions: g.cfg.Dimensions,
		Schema:     g.cfg.Schema,
	})

	writer := dump.NewWriter(g.outDir, g.compress)
	rng := rand.New(rand.NewSource(g.cfg.Seed))

	for i := 0; i < g.cfg.Levels; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		levelStart := time.Now()
		g.sink.PublishLevelStarted(observerproto.LevelStartedMsg{RunID: g.runID, Level: i})

		lv := mine.NewLevel(g.params, i, g.cfg.Levels, rng)

		lv.BuildNetwork()
		g.sink.PublishStage(observerproto.StageMsg{
			RunID: g.runID, Level: i, Stage: "network",
			Rooms: len(lv.Rooms), CorridorCells: len(lv.Corridor),
		})
		if len(lv.Unreached) > 0 {
			g.log.Printf("level %d: %d rooms unreached: %v", i, len(lv.Unreached), lv.Unreached)
		}

		if err := lv.PlaceDrills(); err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
		g.sink.PublishStage(observerproto.StageMsg{
			RunID: g.runID, Level: i, Stage: "drills",
			Rooms: len(lv.Rooms), CorridorCells: len(lv.Corridor),
			Drills: len(lv.Drills),
		})

		if err := lv.GrowShapes(ctx); err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
		g.sink.PublishStage(observerproto.StageMsg{
			RunID: g.runID, Level: i, Stage: "shapes",
			Rooms: len(lv.Rooms), CorridorCells: len(lv.Corridor),
			Drills: len(lv.Drills), Shapes: len(lv.Shapes),
		})

		exports, err := writer.WriteLevel(g.cfg.Schema, lv)
		if err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
		for _, ex := range exports {
			if err := g.index.RecordExport(indexdb.ExportRow{
				RunID: g.runID, Level: i, Table: ex.Table,
				Path: ex.Path, Rows: ex.Rows, Bytes: ex.Bytes,
			}); err != nil {
				return fmt.Errorf("record export: %w", err)
			}
			g.sink.PublishExport(observerproto.ExportMsg{
				RunID: g.runID, Level: i, Table: ex.Table,
				Path: ex.Path, Rows: ex.Rows, Bytes: ex.Bytes,
			})
		}

		if g.loader != nil {
			if err := g.loader.LoadLevel(g.cfg.Schema, lv); err != nil {
				return fmt.Errorf("load level %d: %w", i, err)
			}
		}
		if g.plans {
			path, err := preview.Write(g.outDir, lv)
			if err != nil {
				return fmt.Errorf("level %d plan: %w", i, err)
			}
			g.log.Printf("level %d plan: %s", i, path)
		}

		durMS := time.Since(levelStart).Milliseconds()
		if err := g.index.RecordLevel(indexdb.LevelRow{
			RunID: g.runID, Level: i,
			Rooms: len(lv.Rooms), CorridorCells: len(lv.Corridor),
			Drills: len(lv.Drills), Shapes: len(lv.Shapes),
			DurationMs: durMS,
		}); err != nil {
			return fmt.Errorf("record level: %w", err)
		}
		g.sink.PublishLevelCompleted(observerproto.LevelCompletedMsg{
			RunID: g.runID, Level: i, DurationMS: durMS,
		})

		if g.printMap {
			fmt.Println(lv.RenderMap())
		}
		g.log.Printf("level %d: rooms=%d corridor=%d drills=%d shapes=%d in %s",
			i, len(lv.Rooms), len(lv.Corridor), len(lv.Drills), len(lv.Shapes),
			time.Since(levelStart).Round(time.Millisecond))
	}

	g.sink.PublishRunCompleted(observerproto.RunCompletedMsg{
		RunID: g.runID, Levels: g.cfg.Levels,
		DurationMS: time.Since(runStart).Milliseconds(),
	})
	g.log.Printf("run %s: %d levels in %s", g.runID, g.cfg.Levels,
		time.Since(runStart).Round(time.Millisecond))
	return nil
}
