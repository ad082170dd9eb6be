// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/orchestrator/orchestrator.go
// Summary: The screen orchestrator (component H): the
// single owner of the tab registry, dispatching one Message at a time
// and emitting a render snapshot after each state change.
//
// Grounded on original_source/'s screen module's Screen type (original_source/):
// one mutex-free owner reached only through its instruction channel
// (Bus<ScreenInstruction> there, a buffered chan Message here),
// get_new_tab_index/move_clients_from_closed_tab's bookkeeping folded
// into registry.Registry, and render()'s per-client snapshot pass. The
// bus's dedicated OS thread becomes Run's goroutine loop; Screen's
// internal Mutex-free single-owner design is reproduced with
// sync.Mutex guarding the registry only where Snapshots (called from a
// different goroutine than Run) needs a consistent read.
package orchestrator

import (
	"context"
	"log"
	"sync"

	"github.com/framegrace/texelation-core/internal/floatlayer"
	"github.com/framegrace/texelation-core/internal/geometry"
	"github.com/framegrace/texelation-core/internal/layout"
	"github.com/framegrace/texelation-core/internal/layoutstore"
	"github.com/framegrace/texelation-core/internal/mouse"
	"github.com/framegrace/texelation-core/internal/pane"
	"github.com/framegrace/texelation-core/internal/registry"
	"github.com/framegrace/texelation-core/internal/tiledgrid"
)

// Spawner creates the backing process/plugin for a pane, returning its
// id and content capabilities. ptyio.Backend implements it for
// terminal panes; the orchestrator only ever calls it, never owns a
// process itself.
type Spawner interface {
	Spawn(run pane.RunLocation) (pane.ID, pane.Capabilities, error)
}

// Tuning holds the multiplexer's persisted knobs, read by
// cmd/texelation at startup via config.System().Section("multiplexer").
// Zero-value fields are replaced by sane defaults in New so a caller
// can supply a partially-populated Tuning.
type Tuning struct {
	MinCols              int
	MinRowsUnstacked     int
	MinRowsStacked       int
	ResizeStepCells      int
	DirectionalFocusWrap bool
}

// fallbackResizeStep is used when neither config nor a caller-supplied
// Tuning specifies a resize step.
const fallbackResizeStep = 2

// DefaultTuning mirrors config/defaults.go's "multiplexer" section
// defaults, so a caller that never touches config still gets the same
// values the JSON-backed store would have produced.
func DefaultTuning() Tuning {
	return Tuning{
		MinCols:          geometry.MinCols,
		MinRowsUnstacked: geometry.MinRowsUnstacked,
		MinRowsStacked:   geometry.MinRowsStacked,
		ResizeStepCells:  fallbackResizeStep,
	}
}

// Orchestrator owns the tab registry and is the sole writer of every
// tab's grid and floating layer. All mutation happens on Run's
// goroutine; Snapshots and SaveSession are the methods safe to call
// concurrently.
type Orchestrator struct {
	mu       sync.Mutex
	registry *registry.Registry
	clients  map[registry.ClientID]bool
	spawner  Spawner

	viewport       geometry.Viewport
	drawPaneFrames bool
	tuning         Tuning

	gestures map[registry.ClientID]*mouse.Gesture
	movers   map[registry.ClientID]pane.ID

	inbox  chan Message
	render chan Snapshot
}

// New creates an orchestrator over the given physical viewport. Plugin
// execution (a separate component, internal/workerpool) is wired in by
// whatever constructs the Spawner, not by the orchestrator itself — a
// plugin pane's Capabilities implementation is the thing that calls
// into the pool, not the message loop that spawned it.
func New(spawner Spawner, viewport geometry.Viewport, drawPaneFrames bool, tuning Tuning) *Orchestrator {
	if tuning.MinCols == 0 {
		tuning.MinCols = geometry.MinCols
	}
	if tuning.MinRowsUnstacked == 0 {
		tuning.MinRowsUnstacked = geometry.MinRowsUnstacked
	}
	if tuning.MinRowsStacked == 0 {
		tuning.MinRowsStacked = geometry.MinRowsStacked
	}
	if tuning.ResizeStepCells == 0 {
		tuning.ResizeStepCells = fallbackResizeStep
	}
	return &Orchestrator{
		registry:       registry.NewRegistry(),
		clients:        make(map[registry.ClientID]bool),
		spawner:        spawner,
		viewport:       viewport,
		drawPaneFrames: drawPaneFrames,
		tuning:         tuning,
		gestures:       make(map[registry.ClientID]*mouse.Gesture),
		movers:         make(map[registry.ClientID]pane.ID),
		inbox:          make(chan Message, 64),
		render:         make(chan Snapshot, 1),
	}
}

// newTab creates a tab at the given name/viewport and applies the
// configured minimum-dimension tuning to both its grid and floating
// layer, so every tab (not just ones created through NewTab's layout
// path) honors the same config-driven minimums.
func (o *Orchestrator) newTab(name string, viewport geometry.Viewport) (*registry.Tab, int) {
	idx := o.registry.CreateTab(name, viewport)
	tab, _ := o.registry.Tab(idx)
	tab.Grid.SetMinimums(o.tuning.MinCols, o.tuning.MinRowsUnstacked, o.tuning.MinRowsStacked)
	tab.Floating.SetMinimums(o.tuning.MinCols, o.tuning.MinRowsUnstacked)
	return tab, idx
}

// LoadSession recreates a persisted session's tabs into the registry
// and respawns each tiled pane's backing process through spawner,
// completing the hand-off RestoreInto leaves open ("geometry and
// placeholders only — no content"). Must be called before Run starts;
// it touches the registry directly with no locking of its own.
func (o *Orchestrator) LoadSession(m layoutstore.SessionManifest) error {
	if err := layoutstore.RestoreInto(o.registry, m, o.viewport); err != nil {
		return err
	}
	for _, idx := range o.registry.Order() {
		tab, ok := o.registry.Tab(idx)
		if !ok {
			continue
		}
		tab.Grid.SetMinimums(o.tuning.MinCols, o.tuning.MinRowsUnstacked, o.tuning.MinRowsStacked)
		tab.Floating.SetMinimums(o.tuning.MinCols, o.tuning.MinRowsUnstacked)
		for _, p := range tab.Grid.Panes() {
			o.respawnPane(p)
		}
		for _, p := range tab.Floating.Panes() {
			o.respawnPane(p)
		}
	}
	return nil
}

// respawnPane re-launches a restored pane's backing process and
// attaches the resulting content, skipping a pane already marked Held
// (restored as a closed/inspect-only entry with nothing to relaunch).
func (o *Orchestrator) respawnPane(p *pane.Pane) {
	if p.Held {
		return
	}
	_, content, err := o.spawner.Spawn(p.Run)
	if err != nil {
		log.Printf("orchestrator: respawning pane %v: %v", p.ID, err)
		p.Held = true
		return
	}
	p.Content = content
}

// SaveSession snapshots the registry's current tabs into a
// SessionManifest under id/name, marking whichever tab client is
// currently viewing as active. Safe to call concurrently with Run.
func (o *Orchestrator) SaveSession(id, name string, client registry.ClientID) layoutstore.SessionManifest {
	o.mu.Lock()
	defer o.mu.Unlock()
	active, _ := o.registry.ActiveTab(client)
	return layoutstore.ManifestFromTabs(id, name, o.registry, active)
}

// Post enqueues a message for the run loop. Blocks if the inbox is
// full, applying backpressure to the caller rather than dropping input.
func (o *Orchestrator) Post(msg Message) {
	o.inbox <- msg
}

// Run drains the inbox until ctx is cancelled or an Exit message
// arrives, dispatching one message at a time.
func (o *Orchestrator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-o.inbox:
			if _, isExit := msg.(Exit); isExit {
				return
			}
			o.mu.Lock()
			err := o.handle(msg)
			o.mu.Unlock()
			if err != nil {
				log.Printf("orchestrator: %T: %v", msg, err)
			}
		}
	}
}

// RenderSnapshots exposes the latest-wins render notification channel;
// a value arrives here after any message that changed state (batch
// size of one, here — the channel's capacity-1 buffer coalesces bursts
// into the latest state for a caller that isn't keeping up).
func (o *Orchestrator) RenderSnapshots() <-chan Snapshot {
	return o.render
}

func (o *Orchestrator) notify(client registry.ClientID) {
	if tab, _, err := o.activeTab(client); err == nil {
		o.resizeTabContents(tab)
	}
	snap, err := o.snapshotFor(client)
	if err != nil {
		return
	}
	select {
	case o.render <- snap:
	default:
		select {
		case <-o.render:
		default:
		}
		o.render <- snap
	}
}

// resizeTabContents propagates each live pane's current cell geometry
// to its content, for implementations that track an inner window size
// (a terminal pane's PTY). Only called from notify, which already
// fires solely on state-mutating messages — never per keystroke — so
// this never runs more often than the geometry it reports can change.
func (o *Orchestrator) resizeTabContents(tab *registry.Tab) {
	focusedTiled, hasTiledFocus := tab.Grid.Focused()
	for _, p := range tab.Grid.Panes() {
		if tab.IsFullscreenActive && !(hasTiledFocus && p.ID == focusedTiled) {
			continue
		}
		geom := p.Geom
		if tab.IsFullscreenActive {
			geom = fullscreenGeom(tab.Grid.Viewport())
		}
		o.resizePaneContent(p, geom)
	}
	if !tab.IsFullscreenActive {
		for _, p := range tab.Floating.Panes() {
			o.resizePaneContent(p, p.Geom)
		}
	}
}

func (o *Orchestrator) resizePaneContent(p *pane.Pane, geom geometry.PaneGeom) {
	r, ok := p.Content.(pane.Resizer)
	if !ok {
		return
	}
	cols, rows := geom.Cols.AsUsize(), geom.Rows.AsUsize()
	if o.drawPaneFrames && p.Content.FrameOn() {
		cols -= 2
		rows -= 2
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	_ = r.Resize(cols, rows)
}

func (o *Orchestrator) activeTab(client registry.ClientID) (*registry.Tab, int, error) {
	idx, ok := o.registry.ActiveTab(client)
	if !ok {
		return nil, 0, ErrNoActiveTab
	}
	tab, ok := o.registry.Tab(idx)
	if !ok {
		return nil, 0, ErrNoActiveTab
	}
	return tab, idx, nil
}

// focusedPane returns the tab's currently focused pane, preferring a
// visible floating pane over the tiled grid's focus the same way
// input routing does: floating panes intercept input when shown.
func focusedPane(tab *registry.Tab) (pane.ID, bool) {
	if tab.Floating.Visible() {
		if f, ok := topFloatingFocus(tab.Floating); ok {
			return f, true
		}
	}
	return tab.Grid.Focused()
}

func topFloatingFocus(layer *floatlayer.Layer) (pane.ID, bool) {
	panes := layer.Panes()
	if len(panes) == 0 {
		return pane.ID{}, false
	}
	return panes[len(panes)-1].ID, true
}

func (o *Orchestrator) handle(msg Message) error {
	switch m := msg.(type) {
	case AddClient:
		return o.handleAddClient(m)
	case RemoveClient:
		return o.handleRemoveClient(m)
	case NewTab:
		return o.handleNewTab(m)
	case SwapLayout:
		return o.handleSwapLayout(m)
	case RegisterSwapLayouts:
		return o.handleRegisterSwapLayouts(m)
	case NextSwapLayout:
		return o.handleStepSwapLayout(m.Client, 1)
	case PrevSwapLayout:
		return o.handleStepSwapLayout(m.Client, -1)
	case SwitchTabNext:
		_, err := o.registry.SwitchTabNext(m.Client)
		o.notify(m.Client)
		return err
	case SwitchTabPrev:
		_, err := o.registry.SwitchTabPrev(m.Client)
		o.notify(m.Client)
		return err
	case GoToTab:
		err := o.registry.GoToTab(m.Client, m.Index)
		o.notify(m.Client)
		return err
	case ToggleTab:
		_, _ = o.registry.ToggleTab(m.Client)
		o.notify(m.Client)
		return nil
	case CloseTab:
		return o.handleCloseTab(m)
	case UpdateTabName:
		tab, _, err := o.activeTab(m.Client)
		if err != nil {
			return err
		}
		tab.Name = m.Name
		o.notify(m.Client)
		return nil
	case Split:
		return o.handleSplit(m)
	case ClosePane:
		return o.handleClosePane(m)
	case ResizeDirection:
		return o.handleResizeDirection(m)
	case FocusDirection:
		return o.handleFocusDirection(m)
	case FocusNextPane:
		return o.handleFocusCycle(m.Client, 1)
	case FocusPreviousPane:
		return o.handleFocusCycle(m.Client, -1)
	case ToggleActiveFullscreen:
		return o.handleToggleFullscreen(m)
	case TogglePaneFrames:
		o.drawPaneFrames = !o.drawPaneFrames
		return nil
	case ChangeMode:
		tab, _, err := o.activeTab(m.Client)
		if err != nil {
			return err
		}
		tab.Mode = m.Mode
		o.notify(m.Client)
		return nil
	case TerminalResize:
		return o.handleTerminalResize(m)
	case MouseInput:
		return o.handleMouseInput(m)
	case Render:
		o.notify(m.Client)
		return nil
	case PtyBytes:
		// Content rendering lives on the pane's own Capabilities
		// implementation; the orchestrator only needs to know a
		// render is due.
		return nil
	case WriteCharacter:
		return o.handleWriteCharacter(m)
	case NewPane:
		return o.handleNewPane(m)
	default:
		return ErrUnhandledMessage
	}
}

func (o *Orchestrator) handleAddClient(m AddClient) error {
	if o.registry.Len() == 0 {
		o.newTab("tab-1", o.viewport)
	}
	o.clients[m.Client] = true
	if err := o.registry.AddClient(m.Client); err != nil {
		return err
	}
	o.notify(m.Client)
	return nil
}

func (o *Orchestrator) handleRemoveClient(m RemoveClient) error {
	o.registry.RemoveClient(m.Client)
	delete(o.clients, m.Client)
	delete(o.gestures, m.Client)
	delete(o.movers, m.Client)
	return nil
}

func (o *Orchestrator) handleNewTab(m NewTab) error {
	name := m.Name
	if name == "" {
		name = "tab"
	}
	tab, idx := o.newTab(name, o.viewport)

	root := m.Layout
	if root == nil {
		root = &layout.TiledPaneLayout{}
	}
	result, err := layout.ApplyLayout(tab.Grid, tab.Floating, root, m.Floating, nil, nil, o.spawn)
	if err != nil {
		return err
	}
	tab.Floating.ToggleShow(result.ShouldShowFloating)

	if err := o.registry.GoToTab(m.Client, idx); err != nil {
		return err
	}
	o.notify(m.Client)
	return nil
}

func (o *Orchestrator) handleSwapLayout(m SwapLayout) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}
	liveTiled := tab.Grid.Panes()
	liveFloating := tab.Floating.Panes()
	result, err := layout.ApplyLayout(tab.Grid, tab.Floating, m.Layout, m.Floating, liveTiled, liveFloating, o.spawn)
	if err != nil {
		return err
	}
	tab.Floating.ToggleShow(result.ShouldShowFloating)
	o.notify(m.Client)
	return nil
}

// handleRegisterSwapLayouts replaces the active tab's declared cycle
// and resets the cycle position, without touching the tab's current
// partition — the caller applies the first one explicitly via
// SwapLayout or NextSwapLayout if it wants it live immediately.
func (o *Orchestrator) handleRegisterSwapLayouts(m RegisterSwapLayouts) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}
	tab.SwapLayouts = m.Layouts
	tab.SwapLayoutIndex = 0
	return nil
}

// handleStepSwapLayout advances the active tab's registered cycle by
// step (wrapping at either end) and applies the newly current layout
// against the tab's live panes, the same way SwapLayout does. A no-op
// if the tab has no registered cycle.
func (o *Orchestrator) handleStepSwapLayout(client registry.ClientID, step int) error {
	tab, _, err := o.activeTab(client)
	if err != nil {
		return err
	}
	n := len(tab.SwapLayouts)
	if n == 0 {
		return nil
	}
	tab.SwapLayoutIndex = ((tab.SwapLayoutIndex+step)%n + n) % n
	next := tab.SwapLayouts[tab.SwapLayoutIndex]

	liveTiled := tab.Grid.Panes()
	liveFloating := tab.Floating.Panes()
	result, err := layout.ApplyLayout(tab.Grid, tab.Floating, next.Root, next.Floating, liveTiled, liveFloating, o.spawn)
	if err != nil {
		return err
	}
	tab.Floating.ToggleShow(result.ShouldShowFloating)
	tab.ActiveSwapLayoutName = next.Name
	o.notify(client)
	return nil
}

func (o *Orchestrator) handleCloseTab(m CloseTab) error {
	idx, ok := o.registry.ActiveTab(m.Client)
	if !ok {
		return ErrNoActiveTab
	}
	ended, err := o.registry.CloseTab(idx)
	if err != nil {
		return err
	}
	for _, c := range ended {
		delete(o.clients, c)
	}
	o.notify(m.Client)
	return nil
}

// handleWriteCharacter forwards raw input to the client's focused
// pane, silently dropping it if the pane's content doesn't accept
// written input (a plugin pane, or a held pane with no live content).
func (o *Orchestrator) handleWriteCharacter(m WriteCharacter) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}
	id, ok := focusedPane(tab)
	if !ok {
		return nil
	}
	var target *pane.Pane
	if p, ok := tab.Grid.Pane(id); ok {
		target = p
	} else if p, ok := tab.Floating.Pane(id); ok {
		target = p
	}
	if target == nil || target.Content == nil {
		return nil
	}
	w, ok := target.Content.(pane.Writer)
	if !ok {
		return nil
	}
	return w.Write(m.Data)
}

func (o *Orchestrator) spawn(run *pane.RunLocation) (pane.ID, pane.Capabilities, error) {
	if run == nil {
		return o.spawner.Spawn(pane.RunLocation{})
	}
	return o.spawner.Spawn(*run)
}

func (o *Orchestrator) handleNewPane(m NewPane) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}
	id, content, err := o.spawner.Spawn(m.Run)
	if err != nil {
		return err
	}
	if tab.Grid.Len() == 0 {
		if err := tab.Grid.InsertRoot(id, content); err != nil {
			return err
		}
		o.notify(m.Client)
		return nil
	}
	geo, ok := tab.Floating.FindRoomForNewPane()
	if !ok {
		geo = forcedFallbackGeom(tab.Floating.Viewport())
	}
	tab.Floating.AddPane(id, geo, content)
	tab.Floating.ToggleShow(true)
	o.notify(m.Client)
	return nil
}

// forcedFallbackGeom guarantees a new floating pane always lands
// somewhere even when FindRoomForNewPane reports no free candidate,
// mirroring the layout applier's own last-resort placement step.
func forcedFallbackGeom(v geometry.Viewport) geometry.PaneGeom {
	cols := v.Cols / 2
	rows := v.Rows / 2
	if cols < geometry.MinCols {
		cols = geometry.MinCols
	}
	if rows < geometry.MinRowsUnstacked {
		rows = geometry.MinRowsUnstacked
	}
	return geometry.PaneGeom{
		X: v.X + (v.Cols-cols)/2,
		Y: v.Y + (v.Rows-rows)/2,
		Cols: geometry.NewFixed(cols).SetInner(cols),
		Rows: geometry.NewFixed(rows).SetInner(rows),
	}
}

func (o *Orchestrator) handleSplit(m Split) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}
	focused, ok := tab.Grid.Focused()
	if !ok {
		return ErrNoFocusedPane
	}
	newID, content, err := o.spawner.Spawn(m.Run)
	if err != nil {
		return err
	}
	if err := tab.Grid.Split(focused, m.Direction, newID, content); err != nil {
		return err
	}
	o.notify(m.Client)
	return nil
}

func (o *Orchestrator) handleClosePane(m ClosePane) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}
	id, ok := focusedPane(tab)
	if !ok {
		return ErrNoFocusedPane
	}
	if _, isFloating := tab.Floating.Pane(id); isFloating {
		if err := tab.Floating.RemovePane(id); err != nil {
			return err
		}
		if tab.Floating.Len() == 0 {
			tab.Floating.ToggleShow(false)
		}
	} else if err := tab.Grid.Close(id); err != nil {
		return err
	}
	o.notify(m.Client)
	return nil
}

func (o *Orchestrator) handleResizeDirection(m ResizeDirection) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}
	focused, ok := tab.Grid.Focused()
	if !ok {
		return ErrNoFocusedPane
	}
	delta := m.DeltaCells
	if delta == 0 {
		delta = o.tuning.ResizeStepCells
	}
	if err := tab.Grid.ResizeDirection(focused, m.Dir, delta, false); err != nil {
		return err
	}
	o.notify(m.Client)
	return nil
}

func (o *Orchestrator) handleFocusDirection(m FocusDirection) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}
	focused, ok := tab.Grid.Focused()
	if !ok {
		return ErrNoFocusedPane
	}
	if next, ok := tab.Grid.FocusDirection(focused, m.Dir); ok {
		tab.Grid.SetFocus(next)
	} else if o.tuning.DirectionalFocusWrap {
		// No neighbor at the tab's edge in this direction: step one
		// pane forward (Right/Down) or back (Left/Up) in the same
		// insertion-order traversal FocusNextPane/FocusPreviousPane
		// use, gated on the directional_focus_wrap tunable.
		return o.handleFocusCycle(m.Client, wrapStepFor(m.Dir))
	}
	o.notify(m.Client)
	return nil
}

// wrapStepFor maps a compass direction onto the +1/-1 step
// handleFocusCycle expects, so directional-focus wrap-around reuses
// the same pane ordering as Tab/Next-pane cycling.
func wrapStepFor(dir tiledgrid.Direction) int {
	switch dir {
	case tiledgrid.Right, tiledgrid.Down:
		return 1
	default:
		return -1
	}
}

func (o *Orchestrator) handleFocusCycle(client registry.ClientID, step int) error {
	tab, _, err := o.activeTab(client)
	if err != nil {
		return err
	}
	panes := tab.Grid.Panes()
	if len(panes) == 0 {
		return ErrNoFocusedPane
	}
	focused, ok := tab.Grid.Focused()
	cur := 0
	if ok {
		for i, p := range panes {
			if p.ID == focused {
				cur = i
				break
			}
		}
	}
	next := ((cur+step)%len(panes) + len(panes)) % len(panes)
	tab.Grid.SetFocus(panes[next].ID)
	o.notify(client)
	return nil
}

func (o *Orchestrator) handleToggleFullscreen(m ToggleActiveFullscreen) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}
	tab.IsFullscreenActive = !tab.IsFullscreenActive
	o.notify(m.Client)
	return nil
}

func (o *Orchestrator) handleTerminalResize(m TerminalResize) error {
	o.viewport = m.Viewport
	for _, idx := range o.registry.Order() {
		tab, _ := o.registry.Tab(idx)
		tab.Grid.SetViewport(m.Viewport)
		tab.Floating.Resize(m.Viewport)
	}
	return nil
}

// directionFromMouse maps a resize-gesture direction onto the tiled
// grid's compass direction.
func directionFromMouse(d mouse.Direction) tiledgrid.Direction {
	switch d {
	case mouse.DirLeft:
		return tiledgrid.Left
	case mouse.DirRight:
		return tiledgrid.Right
	case mouse.DirUp:
		return tiledgrid.Up
	default:
		return tiledgrid.Down
	}
}

func (o *Orchestrator) handleMouseInput(m MouseInput) error {
	tab, _, err := o.activeTab(m.Client)
	if err != nil {
		return err
	}

	ctx := o.gatherMouseContext(tab, m.Client, m.Event)
	action, effect := mouse.Classify(m.Event, ctx)

	switch action.Kind {
	case mouse.StartResize:
		o.gestures[m.Client] = mouse.NewGesture(action.PaneID, action.Edge, action.Position, action.IsFloating)
	case mouse.ContinueResize:
		if g, ok := o.gestures[m.Client]; ok {
			steps := g.Advance(action.Position)
			for _, step := range steps {
				delta := o.tuning.ResizeStepCells
				if step.Kind == mouse.Decrease {
					delta = -delta
				}
				_ = tab.Grid.ResizeDirection(g.PaneID, directionFromMouse(step.Dir), delta, true)
			}
		}
	case mouse.StopResize:
		if g, ok := o.gestures[m.Client]; ok && g.IsNoOp() {
			if g.IsFloating {
				_ = tab.Floating.FocusPane(g.PaneID)
			} else {
				tab.Grid.SetFocus(g.PaneID)
			}
		}
		delete(o.gestures, m.Client)
	case mouse.StartMove:
		o.movers[m.Client] = action.PaneID
	case mouse.ContinueMove:
		if id, ok := o.movers[m.Client]; ok {
			_ = tab.Floating.MovePaneTo(id, action.Position.X, action.Position.Y)
		}
	case mouse.StopMove:
		delete(o.movers, m.Client)
	case mouse.FocusPane:
		if _, isFloating := tab.Floating.Pane(action.PaneID); isFloating {
			_ = tab.Floating.FocusPane(action.PaneID)
		} else {
			tab.Grid.SetFocus(action.PaneID)
		}
	case mouse.ShowFloatingAndFocus:
		tab.Floating.ToggleShow(true)
		_ = tab.Floating.FocusPane(action.PaneID)
	case mouse.GroupToggle:
		tab.GroupToggle(action.PaneID)
	case mouse.GroupAdd:
		tab.GroupAdd(action.PaneID)
	case mouse.Ungroup:
		tab.Ungroup()
	case mouse.ScrollUp, mouse.ScrollDown:
		// Scrollback is owned by the pane's content implementation,
		// and pane.Capabilities exposes no scroll offset; nothing to
		// mutate here.
	}

	if effect.StateChanged {
		o.notify(m.Client)
	}
	return nil
}

// gatherMouseContext builds the classifier's input from the active
// tab's live state, gathered fresh before each classification.
func (o *Orchestrator) gatherMouseContext(tab *registry.Tab, client registry.ClientID, ev mouse.Event) mouse.Context {
	ctx := mouse.Context{
		FloatingVisible:    tab.Floating.Visible(),
		PaneBeingResized:   o.gestures[client] != nil,
		PaneBeingMoved:     o.movers[client] != nil,
		SelectingWithMouse: false,
	}

	if focused, ok := focusedPane(tab); ok {
		ctx.ActivePaneForClient = focused
		ctx.HasActivePane = true
	}

	pos := ev.Position
	if tab.Floating.Visible() {
		if id, ok := tab.Floating.GetPaneAt(pos.X, pos.Y, false); ok {
			ctx.PaneAtPosition = id
			ctx.HasPaneAtPosition = true
			ctx.IsFloating = true
			if p, ok := tab.Floating.Pane(id); ok {
				ctx.EdgeAtPosition = p.EdgeAtPoint(pos.X, pos.Y)
				ctx.OnFrame = ctx.EdgeAtPosition != pane.EdgeNone && p.Content != nil && p.Content.FrameOn()
				ctx.TerminalWantsMouse = p.Content != nil && p.Content.WantsMouse()
			}
		}
	}
	if !ctx.HasPaneAtPosition {
		for _, p := range tab.Grid.Panes() {
			if p.ContainsPoint(pos.X, pos.Y) {
				ctx.PaneAtPosition = p.ID
				ctx.HasPaneAtPosition = true
				ctx.EdgeAtPosition = p.EdgeAtPoint(pos.X, pos.Y)
				ctx.OnFrame = ctx.EdgeAtPosition != pane.EdgeNone && p.Content != nil && p.Content.FrameOn()
				ctx.TerminalWantsMouse = p.Content != nil && p.Content.WantsMouse()
				break
			}
		}
	}

	for _, p := range tab.Floating.Panes() {
		if p.Content != nil && p.Selectable() {
			ctx.PinnedSelectable = p.ID
			ctx.HasPinnedSelectable = true
			break
		}
	}

	return ctx
}
