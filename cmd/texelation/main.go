// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelation/main.go
// Summary: The entrypoint wiring every component together into a
// single-process terminal multiplexer. This is a direct in-process
// wiring of the orchestrator to a real terminal via tcell, rather than
// a client/server daemon with a supervisor process and a socket
// protocol — this engine has no network protocol to speak of, so that
// split would be scope invention here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/framegrace/texelation-core/config"
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/layoutstore"
	"github.com/framegrace/texelation-core/internal/orchestrator"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/ptyio"
	"github.com/framegrace/texelation-core/internal/registry"
	"github.com/framegrace/texelation-core/internal/workerpool"
)

const localClient registry.ClientID = 1

func main() {
	poolDiag := flag.Bool("pool", false, "print the worker pool's thread/plugin assignment and exit")
	sessionID := flag.String("session", "", "resume the named persisted session instead of starting empty")
	sessionName := flag.String("session-name", "default", "name recorded for this run's session on save")
	noSave := flag.Bool("no-save", false, "don't persist the session on exit")
	flag.Parse()

	maxThreads := config.System().GetInt("multiplexer", "worker_pool_max_threads", 8)
	pool := workerpool.NewPool(maxThreads)
	defer pool.Shutdown()

	if *poolDiag {
		printPoolSnapshot(pool)
		return
	}

	store, err := openSessionStore()
	if err != nil {
		log.Fatalf("texelation: opening session store: %v", err)
	}
	defer store.Close()

	tuning := tuningFromConfig()
	viewport := initialViewport()

	// orch is assigned below; the backend's callbacks only fire once a
	// pane has been spawned, which never happens before orch exists.
	var orch *orchestrator.Orchestrator
	backend := ptyio.NewBackend(
		func(id pane.ID, data []byte) { orch.Post(orchestrator.PtyBytes{Pane: id, Data: data}) },
		func(id pane.ID) { orch.Post(orchestrator.Render{Client: localClient}) },
	)

	orch = orchestrator.New(backend, viewport, true, tuning)

	id := *sessionID
	if id == "" {
		id = uuid.NewString()
	}
	if *sessionID != "" {
		manifest, err := store.Load(*sessionID)
		if err != nil {
			log.Printf("texelation: loading session %q: %v (starting empty)", *sessionID, err)
		} else if err := orch.LoadSession(manifest); err != nil {
			log.Printf("texelation: restoring session %q: %v (starting empty)", *sessionID, err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("texelation: creating screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("texelation: initializing screen: %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	if cols, rows := screen.Size(); cols > 0 && rows > 0 {
		orch.Post(orchestrator.TerminalResize{Viewport: viewportForScreen(cols, rows)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	go orch.Run(ctx)

	orch.Post(orchestrator.AddClient{Client: localClient})

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	quit := make(chan struct{})
	go runInputLoop(orch, events, quit)

	runRenderLoop(ctx, screen, orch, quit)

	cancel()
	screen.Fini()

	if !*noSave {
		manifest := orch.SaveSession(id, *sessionName, localClient)
		if err := store.Save(manifest); err != nil {
			log.Printf("texelation: saving session %q: %v", id, err)
		}
	}
}

func tuningFromConfig() orchestrator.Tuning {
	cfg := config.System()
	return orchestrator.Tuning{
		MinCols:              cfg.GetInt("multiplexer", "min_pane_cols", geometry.MinCols),
		MinRowsUnstacked:     cfg.GetInt("multiplexer", "min_pane_rows_unstacked", geometry.MinRowsUnstacked),
		MinRowsStacked:       cfg.GetInt("multiplexer", "min_pane_rows_stacked", geometry.MinRowsStacked),
		ResizeStepCells:      cfg.GetInt("multiplexer", "mouse_resize_step_cells", 1),
		DirectionalFocusWrap: cfg.GetBool("multiplexer", "directional_focus_wrap", false),
	}
}

// initialViewport sizes the orchestrator before the tcell screen is up
// (LoadSession and the first tab need a viewport to lay out against);
// TerminalResize corrects it once the real screen reports its size.
func initialViewport() geometry.Viewport {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return geometry.Viewport{Cols: 80, Rows: 24}
	}
	return geometry.Viewport{Cols: cols, Rows: rows}
}

func openSessionStore() (*layoutstore.Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, "texelation")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return layoutstore.Open(filepath.Join(dir, "sessions.db"))
}

func printPoolSnapshot(pool *workerpool.Pool) {
	snap := pool.Snapshot()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		fmt.Fprintf(os.Stderr, "texelation: encoding pool snapshot: %v\n", err)
	}
}
