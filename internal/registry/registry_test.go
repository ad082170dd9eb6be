// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"testing"

	"github.com/framegrace/texelation-core/internal/geometry"
)

func testViewport() geometry.Viewport {
	return geometry.Viewport{X: 0, Y: 0, Cols: 80, Rows: 24}
}

func TestCreateTabAssignsMonotonicIndices(t *testing.T) {
	r := NewRegistry()
	a := r.CreateTab("one", testViewport())
	b := r.CreateTab("two", testViewport())
	c := r.CreateTab("three", testViewport())
	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("expected indices 0,1,2, got %d,%d,%d", a, b, c)
	}
	if r.Len() != 3 {
		t.Fatalf("expected 3 tabs, got %d", r.Len())
	}
}

func TestSwitchTabNextWraps(t *testing.T) {
	r := NewRegistry()
	a := r.CreateTab("a", testViewport())
	b := r.CreateTab("b", testViewport())
	client := ClientID(1)
	if err := r.AddClient(client); err != nil {
		t.Fatalf("AddClient: %v", err)
	}
	if active, _ := r.ActiveTab(client); active != a {
		t.Fatalf("expected active %d, got %d", a, active)
	}
	next, err := r.SwitchTabNext(client)
	if err != nil || next != b {
		t.Fatalf("expected next=%d err=nil, got %d %v", b, next, err)
	}
	wrapped, err := r.SwitchTabNext(client)
	if err != nil || wrapped != a {
		t.Fatalf("expected wrap to %d, got %d %v", a, wrapped, err)
	}
}

func TestToggleTabSwapsWithHistory(t *testing.T) {
	r := NewRegistry()
	a := r.CreateTab("a", testViewport())
	b := r.CreateTab("b", testViewport())
	client := ClientID(1)
	r.AddClient(client)

	if err := r.GoToTab(client, b); err != nil {
		t.Fatalf("GoToTab: %v", err)
	}
	idx, ok := r.ToggleTab(client)
	if !ok || idx != a {
		t.Fatalf("expected toggle back to %d, got %d ok=%v", a, idx, ok)
	}
	idx2, ok2 := r.ToggleTab(client)
	if !ok2 || idx2 != b {
		t.Fatalf("expected toggle forward to %d, got %d ok=%v", b, idx2, ok2)
	}
}

func TestCloseTabFallsBackToHistoryTop(t *testing.T) {
	r := NewRegistry()
	a := r.CreateTab("a", testViewport())
	b := r.CreateTab("b", testViewport())
	c := r.CreateTab("c", testViewport())
	client := ClientID(1)
	r.AddClient(client)

	r.GoToTab(client, b)
	r.GoToTab(client, c)

	ended, err := r.CloseTab(c)
	if err != nil {
		t.Fatalf("CloseTab: %v", err)
	}
	if len(ended) != 0 {
		t.Fatalf("expected no ended sessions, got %v", ended)
	}
	active, _ := r.ActiveTab(client)
	if active != b {
		t.Fatalf("expected fallback to history top %d, got %d", b, active)
	}
	_ = a
}

func TestCloseTabFallsBackToNumericallyPreviousWhenHistoryIsStale(t *testing.T) {
	r := NewRegistry()
	a := r.CreateTab("a", testViewport())
	b := r.CreateTab("b", testViewport())
	c := r.CreateTab("c", testViewport())
	d := r.CreateTab("d", testViewport())
	client := ClientID(1)
	r.AddClient(client)

	// Client's only history entry is tab a; jump straight to d.
	if err := r.GoToTab(client, d); err != nil {
		t.Fatalf("GoToTab: %v", err)
	}

	// Close a first: the client isn't focused on it, but its history
	// entry now points at a dead tab, so popHistory must skip over it.
	if _, err := r.CloseTab(a); err != nil {
		t.Fatalf("CloseTab(a): %v", err)
	}

	ended, err := r.CloseTab(d)
	if err != nil {
		t.Fatalf("CloseTab(d): %v", err)
	}
	if len(ended) != 0 {
		t.Fatalf("expected no ended sessions, got %v", ended)
	}
	active, _ := r.ActiveTab(client)
	if active != c {
		t.Fatalf("expected numeric fallback to %d, got %d", c, active)
	}
	_ = b
}

func TestCloseLastTabEndsSession(t *testing.T) {
	r := NewRegistry()
	a := r.CreateTab("a", testViewport())
	client := ClientID(1)
	r.AddClient(client)

	ended, err := r.CloseTab(a)
	if err != nil {
		t.Fatalf("CloseTab: %v", err)
	}
	if len(ended) != 1 || ended[0] != client {
		t.Fatalf("expected client %d to end its session, got %v", client, ended)
	}
	if _, ok := r.ActiveTab(client); ok {
		t.Fatalf("expected client to have no active tab after session end")
	}
}

func TestPositionRenumbersOnClose(t *testing.T) {
	r := NewRegistry()
	a := r.CreateTab("a", testViewport())
	b := r.CreateTab("b", testViewport())
	c := r.CreateTab("c", testViewport())

	if pos, _ := r.Position(c); pos != 2 {
		t.Fatalf("expected position 2, got %d", pos)
	}
	client := ClientID(1)
	r.AddClient(client)
	if _, err := r.CloseTab(a); err != nil {
		t.Fatalf("CloseTab: %v", err)
	}
	if pos, ok := r.Position(b); !ok || pos != 0 {
		t.Fatalf("expected b renumbered to position 0, got %d ok=%v", pos, ok)
	}
	if pos, ok := r.Position(c); !ok || pos != 1 {
		t.Fatalf("expected c renumbered to position 1, got %d ok=%v", pos, ok)
	}
}

func TestGoToUnknownTabErrors(t *testing.T) {
	r := NewRegistry()
	r.CreateTab("a", testViewport())
	client := ClientID(1)
	r.AddClient(client)
	if err := r.GoToTab(client, 99); err != ErrTabNotFound {
		t.Fatalf("expected ErrTabNotFound, got %v", err)
	}
}
