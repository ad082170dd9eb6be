// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package mouse

import (
	"testing"

	"github.com/framegrace/texelation-core/internal/pane"
)

func TestResizeInProgressTakesPrecedenceOverEverything(t *testing.T) {
	id := pane.NewTerminalID(1)
	ctx := Context{
		PaneBeingResized:  true,
		SelectingWithMouse: true,
		HasPaneAtPosition: true,
		PaneAtPosition:    id,
	}
	ev := Event{Type: Motion, Left: true}
	act, eff := Classify(ev, ctx)
	if act.Kind != ContinueResize {
		t.Fatalf("expected ContinueResize, got %v", act.Kind)
	}
	if !eff.StateChanged {
		t.Fatalf("expected state_changed")
	}
}

func TestSelectionTakesPrecedenceOverMove(t *testing.T) {
	ctx := Context{SelectingWithMouse: true, PaneBeingMoved: true}
	act, _ := Classify(Event{Type: Release, Left: true}, ctx)
	if act.Kind != EndSelection {
		t.Fatalf("expected EndSelection, got %v", act.Kind)
	}
}

func TestAltGroupToggle(t *testing.T) {
	id := pane.NewTerminalID(2)
	ctx := Context{HasPaneAtPosition: true, PaneAtPosition: id}
	act, eff := Classify(Event{Type: Press, Left: true, Alt: true}, ctx)
	if act.Kind != GroupToggle || act.PaneID != id {
		t.Fatalf("expected GroupToggle(%v), got %v %v", id, act.Kind, act.PaneID)
	}
	if !eff.HasGroupToggle || eff.GroupToggle != id {
		t.Fatalf("expected effect group_toggle set")
	}
}

func TestWheelScrollsPaneAtPosition(t *testing.T) {
	id := pane.NewTerminalID(3)
	ctx := Context{HasPaneAtPosition: true, PaneAtPosition: id}
	act, _ := Classify(Event{Type: Motion, WheelUp: true}, ctx)
	if act.Kind != ScrollUp || act.Lines != 3 {
		t.Fatalf("expected ScrollUp with 3 lines, got %v lines=%d", act.Kind, act.Lines)
	}
}

func TestCtrlLeftPressOnFrameStartsResizeOrIntercepts(t *testing.T) {
	id := pane.NewTerminalID(4)
	base := Context{HasPaneAtPosition: true, PaneAtPosition: id, OnFrame: true, EdgeAtPosition: pane.EdgeRight}

	act, _ := Classify(Event{Type: Press, Left: true, Ctrl: true}, base)
	if act.Kind != StartResize || act.Edge != pane.EdgeRight {
		t.Fatalf("expected StartResize on Right edge, got %v edge=%v", act.Kind, act.Edge)
	}

	intercepted := base
	intercepted.FrameInterceptedByContent = true
	act2, _ := Classify(Event{Type: Press, Left: true, Ctrl: true}, intercepted)
	if act2.Kind != FrameIntercepted {
		t.Fatalf("expected FrameIntercepted, got %v", act2.Kind)
	}
}

func TestPlainFramePressMovesWhenFloatingVisible(t *testing.T) {
	id := pane.NewTerminalID(5)
	ctx := Context{HasPaneAtPosition: true, PaneAtPosition: id, OnFrame: true, FloatingVisible: true}
	act, _ := Classify(Event{Type: Press, Left: true}, ctx)
	if act.Kind != StartMove {
		t.Fatalf("expected StartMove, got %v", act.Kind)
	}
}

func TestPlainFramePressResizesWhenNotFloatingVisible(t *testing.T) {
	id := pane.NewTerminalID(6)
	ctx := Context{HasPaneAtPosition: true, PaneAtPosition: id, OnFrame: true, EdgeAtPosition: pane.EdgeBottom}
	act, _ := Classify(Event{Type: Press, Left: true}, ctx)
	if act.Kind != StartResize {
		t.Fatalf("expected StartResize, got %v", act.Kind)
	}
}

func TestContentPressSendsToTerminalWhenWanted(t *testing.T) {
	id := pane.NewTerminalID(7)
	ctx := Context{
		HasPaneAtPosition: true, PaneAtPosition: id,
		HasActivePane: true, ActivePaneForClient: id,
		TerminalWantsMouse: true,
	}
	act, _ := Classify(Event{Type: Press, Left: true}, ctx)
	if act.Kind != SendToTerminal {
		t.Fatalf("expected SendToTerminal, got %v", act.Kind)
	}
}

func TestContentPressStartsSelectionOtherwise(t *testing.T) {
	id := pane.NewTerminalID(8)
	ctx := Context{HasPaneAtPosition: true, PaneAtPosition: id, HasActivePane: true, ActivePaneForClient: id}
	act, _ := Classify(Event{Type: Press, Left: true}, ctx)
	if act.Kind != StartSelection {
		t.Fatalf("expected StartSelection, got %v", act.Kind)
	}
}

func TestPressOutsideActivePaneFocuses(t *testing.T) {
	active := pane.NewTerminalID(9)
	other := pane.NewTerminalID(10)
	ctx := Context{HasPaneAtPosition: true, PaneAtPosition: other, HasActivePane: true, ActivePaneForClient: active}
	act, _ := Classify(Event{Type: Press, Left: true}, ctx)
	if act.Kind != FocusPane || act.PaneID != other {
		t.Fatalf("expected FocusPane(%v), got %v %v", other, act.Kind, act.PaneID)
	}
}

func TestPressOutsideActiveShowsFloatingForPinned(t *testing.T) {
	active := pane.NewTerminalID(11)
	pinned := pane.NewTerminalID(12)
	ctx := Context{
		HasPaneAtPosition: true, PaneAtPosition: pinned,
		HasActivePane: true, ActivePaneForClient: active,
		FloatingVisible: false,
		HasPinnedSelectable: true, PinnedSelectable: pinned,
	}
	act, _ := Classify(Event{Type: Press, Left: true}, ctx)
	if act.Kind != ShowFloatingAndFocus {
		t.Fatalf("expected ShowFloatingAndFocus, got %v", act.Kind)
	}
}

func TestHoverWithNoButtons(t *testing.T) {
	act, _ := Classify(Event{Type: Motion}, Context{})
	if act.Kind != UpdateHover {
		t.Fatalf("expected UpdateHover, got %v", act.Kind)
	}
}

func TestNoActionFallthrough(t *testing.T) {
	act, _ := Classify(Event{Type: Release}, Context{})
	if act.Kind != NoAction {
		t.Fatalf("expected NoAction, got %v", act.Kind)
	}
}

func TestEdgeAndDeltaToStepsCorner(t *testing.T) {
	steps := EdgeAndDeltaToSteps(pane.EdgeBottomRight, 3, 4)
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps for a corner edge, got %d", len(steps))
	}
	if steps[0].Dir != DirDown || steps[0].Kind != Increase {
		t.Fatalf("expected Increase/Down first, got %+v", steps[0])
	}
	if steps[1].Dir != DirRight || steps[1].Kind != Increase {
		t.Fatalf("expected Increase/Right second, got %+v", steps[1])
	}
}

func TestGestureAdvanceIsIncremental(t *testing.T) {
	g := NewGesture(pane.NewTerminalID(1), pane.EdgeRight, Position{X: 10, Y: 10}, false)
	g.Advance(Position{X: 15, Y: 10})
	g.Advance(Position{X: 15, Y: 10})
	dx, dy := g.TotalDelta()
	if dx != 5 || dy != 0 {
		t.Fatalf("expected total delta (5,0), got (%d,%d)", dx, dy)
	}
	if g.IsNoOp() {
		t.Fatalf("expected non-noop gesture")
	}
}
