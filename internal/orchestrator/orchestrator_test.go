// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/layout"
	"github.com/framegrace/texelation-core/internal/mouse"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/tiledgrid"
)

type stubContent struct{ selectable, wantsMouse, frameOn bool }

func (s *stubContent) Title() string               { return "stub" }
func (s *stubContent) Selectable() bool             { return s.selectable }
func (s *stubContent) Borderless() bool             { return false }
func (s *stubContent) FrameOn() bool                { return s.frameOn }
func (s *stubContent) WantsMouse() bool             { return s.wantsMouse }
func (s *stubContent) SupportsMouseSelection() bool { return true }
func (s *stubContent) ContentOffset() (int, int)    { return 0, 0 }

type stubSpawner struct {
	nextID uint32
}

func (s *stubSpawner) Spawn(run pane.RunLocation) (pane.ID, pane.Capabilities, error) {
	s.nextID++
	return pane.NewTerminalID(s.nextID), &stubContent{selectable: true, frameOn: true}, nil
}

func testViewport() geometry.Viewport {
	return geometry.Viewport{X: 0, Y: 0, Cols: 80, Rows: 24}
}

// runFor starts the orchestrator loop and returns a stop func.
func runFor(o *Orchestrator) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go o.Run(ctx)
	return cancel
}

func waitForSnapshot(t *testing.T, o *Orchestrator) Snapshot {
	t.Helper()
	select {
	case s := <-o.RenderSnapshots():
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a render snapshot")
		return Snapshot{}
	}
}

func TestAddClientCreatesDefaultTab(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	stop := runFor(o)
	defer stop()

	o.Post(AddClient{Client: 1})
	snap := waitForSnapshot(t, o)
	if len(snap.Tabs) != 1 {
		t.Fatalf("expected 1 default tab, got %d", len(snap.Tabs))
	}
}

func TestNewPaneInsertsRootThenFloatsSubsequent(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	stop := runFor(o)
	defer stop()

	o.Post(AddClient{Client: 1})
	waitForSnapshot(t, o)

	o.Post(NewPane{Client: 1, Run: pane.RunLocation{Command: "a"}})
	snap := waitForSnapshot(t, o)
	if len(snap.Panes) != 1 || snap.Panes[0].Floating {
		t.Fatalf("expected 1 tiled root pane, got %+v", snap.Panes)
	}

	o.Post(NewPane{Client: 1, Run: pane.RunLocation{Command: "b"}})
	snap = waitForSnapshot(t, o)
	var floatingCount int
	for _, p := range snap.Panes {
		if p.Floating {
			floatingCount++
		}
	}
	if floatingCount != 1 {
		t.Fatalf("expected the second pane to land in the floating layer, got %+v", snap.Panes)
	}
	if !snap.FloatingVisible {
		t.Fatal("expected floating layer to be shown after adding a floating pane")
	}
}

func TestSplitAddsSecondTiledPane(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	stop := runFor(o)
	defer stop()

	o.Post(AddClient{Client: 1})
	waitForSnapshot(t, o)
	o.Post(NewPane{Client: 1})
	waitForSnapshot(t, o)

	o.Post(Split{Client: 1, Direction: tiledgrid.SplitVertical, Run: pane.RunLocation{Command: "b"}})
	snap := waitForSnapshot(t, o)
	if len(snap.Panes) != 2 {
		t.Fatalf("expected 2 tiled panes after split, got %d", len(snap.Panes))
	}
}

func TestCloseTabEndsSessionWhenLastTab(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	stop := runFor(o)
	defer stop()

	o.Post(AddClient{Client: 1})
	waitForSnapshot(t, o)
	o.Post(NewPane{Client: 1})
	waitForSnapshot(t, o)

	o.Post(CloseTab{Client: 1})
	time.Sleep(50 * time.Millisecond)

	o.mu.Lock()
	_, stillClient := o.clients[1]
	o.mu.Unlock()
	if stillClient {
		t.Fatal("expected closing the only tab to end the client's session")
	}
}

func TestFocusNextPaneCyclesAndWraps(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	stop := runFor(o)
	defer stop()

	o.Post(AddClient{Client: 1})
	waitForSnapshot(t, o)
	o.Post(NewPane{Client: 1})
	waitForSnapshot(t, o)
	o.Post(Split{Client: 1, Direction: tiledgrid.SplitVertical, Run: pane.RunLocation{Command: "b"}})
	snap := waitForSnapshot(t, o)

	var originallyFocused pane.ID
	for _, p := range snap.Panes {
		if p.Focused {
			originallyFocused = p.ID
		}
	}

	o.Post(FocusNextPane{Client: 1})
	snap = waitForSnapshot(t, o)
	var nowFocused pane.ID
	for _, p := range snap.Panes {
		if p.Focused {
			nowFocused = p.ID
		}
	}
	if nowFocused == originallyFocused {
		t.Fatalf("expected focus to move to the other pane, stayed on %v", nowFocused)
	}
}

func TestTerminalResizeReflowsActiveTab(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	stop := runFor(o)
	defer stop()

	o.Post(AddClient{Client: 1})
	waitForSnapshot(t, o)
	o.Post(NewPane{Client: 1})
	waitForSnapshot(t, o)

	o.Post(TerminalResize{Viewport: geometry.Viewport{X: 0, Y: 0, Cols: 120, Rows: 40}})
	o.Post(Render{Client: 1})
	snap := waitForSnapshot(t, o)
	if len(snap.Panes) != 1 {
		t.Fatalf("expected 1 pane after resize, got %d", len(snap.Panes))
	}
	if snap.Panes[0].Geom.Cols.AsUsize() != 120 {
		t.Fatalf("expected root pane to fill the new 120-col viewport, got %d", snap.Panes[0].Geom.Cols.AsUsize())
	}
}

func TestMouseInputOutsideActivePaneFocusesIt(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	stop := runFor(o)
	defer stop()

	o.Post(AddClient{Client: 1})
	waitForSnapshot(t, o)
	o.Post(NewPane{Client: 1})
	waitForSnapshot(t, o)
	o.Post(Split{Client: 1, Direction: tiledgrid.SplitVertical, Run: pane.RunLocation{Command: "b"}})
	snap := waitForSnapshot(t, o)

	var unfocusedID pane.ID
	for _, p := range snap.Panes {
		if !p.Focused {
			unfocusedID = p.ID
		}
	}
	var targetPos mouse.Position
	for _, p := range snap.Panes {
		if p.ID == unfocusedID {
			targetPos = mouse.Position{X: p.Geom.X + 2, Y: p.Geom.Y + 2}
		}
	}

	o.Post(MouseInput{Client: 1, Event: mouse.Event{Position: targetPos, Type: mouse.Press, Left: true}})
	snap = waitForSnapshot(t, o)
	var focusedAfter pane.ID
	for _, p := range snap.Panes {
		if p.Focused {
			focusedAfter = p.ID
		}
	}
	if focusedAfter != unfocusedID {
		t.Fatalf("expected clicking pane %v to focus it, focus is on %v", unfocusedID, focusedAfter)
	}
}

func TestExitStopsTheRunLoop(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stopped int32
	go func() {
		o.Run(ctx)
		atomic.StoreInt32(&stopped, 1)
	}()

	o.Post(Exit{})
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&stopped) != 1 {
		t.Fatal("expected Run to return after an Exit message")
	}
}

func TestMultipleTabsRegisteredInOrder(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	stop := runFor(o)
	defer stop()

	o.Post(AddClient{Client: 1})
	waitForSnapshot(t, o)
	o.Post(NewTab{Client: 1, Name: "second"})
	snap := waitForSnapshot(t, o)
	if len(snap.Tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(snap.Tabs))
	}
	if snap.Tabs[1].Name != "second" || !snap.Tabs[1].Active {
		t.Fatalf("expected the new tab active and named 'second', got %+v", snap.Tabs[1])
	}
}

func TestSwapLayoutCycleWrapsAndKeepsLivePanes(t *testing.T) {
	o := New(&stubSpawner{}, testViewport(), true, DefaultTuning())
	stop := runFor(o)
	defer stop()

	o.Post(AddClient{Client: 1})
	waitForSnapshot(t, o)
	o.Post(NewPane{Client: 1})
	waitForSnapshot(t, o)

	o.Post(RegisterSwapLayouts{Client: 1, Layouts: []layout.SwapLayoutSet{
		{Name: "wide", Root: &layout.TiledPaneLayout{}},
		{Name: "stacked", Root: &layout.TiledPaneLayout{Stacked: true}},
	}})

	o.Post(NextSwapLayout{Client: 1})
	snap := waitForSnapshot(t, o)
	if len(snap.Panes) != 1 {
		t.Fatalf("expected the single live pane to survive the swap, got %+v", snap.Panes)
	}
	tab, _, err := o.activeTab(1)
	if err != nil {
		t.Fatal(err)
	}
	if tab.ActiveSwapLayoutName != "stacked" || tab.SwapLayoutIndex != 1 {
		t.Fatalf("expected index 1/'stacked' after one Next, got index %d name %q", tab.SwapLayoutIndex, tab.ActiveSwapLayoutName)
	}

	o.Post(NextSwapLayout{Client: 1})
	waitForSnapshot(t, o)
	if tab.ActiveSwapLayoutName != "wide" || tab.SwapLayoutIndex != 0 {
		t.Fatalf("expected Next to wrap back to index 0/'wide', got index %d name %q", tab.SwapLayoutIndex, tab.ActiveSwapLayoutName)
	}

	o.Post(PrevSwapLayout{Client: 1})
	waitForSnapshot(t, o)
	if tab.ActiveSwapLayoutName != "stacked" || tab.SwapLayoutIndex != 1 {
		t.Fatalf("expected Prev from index 0 to wrap to index 1/'stacked', got index %d name %q", tab.SwapLayoutIndex, tab.ActiveSwapLayoutName)
	}
}
