// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package ptyio

import (
	"strings"
	"testing"
	"time"

	"github.com/framegrace/texelation-core/internal/pane"
)

func TestSpawnRunsCommandAndCapturesOutput(t *testing.T) {
	var gotID pane.ID
	var gotData []byte
	done := make(chan struct{})

	backend := NewBackend(func(id pane.ID, data []byte) {
		gotID = id
		gotData = append(gotData, data...)
		if strings.Contains(string(gotData), "hello-texelation") {
			close(done)
		}
	}, nil)

	id, content, err := backend.Spawn(pane.RunLocation{Command: "/bin/echo", Args: []string{"hello-texelation"}})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if id.Kind != pane.Terminal {
		t.Fatalf("expected a terminal pane id, got %v", id)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for echoed output")
	}
	if gotID != id {
		t.Fatalf("expected output callback id %v, got %v", id, gotID)
	}

	p := content.(*Pane)
	if !strings.Contains(string(p.Tail(0)), "hello-texelation") {
		t.Fatalf("expected Tail to contain the echoed text, got %q", string(p.Tail(0)))
	}
}

func TestPaneIsHeldAfterProcessExits(t *testing.T) {
	exited := make(chan pane.ID, 1)
	backend := NewBackend(nil, func(id pane.ID) { exited <- id })

	id, content, err := backend.Spawn(pane.RunLocation{Command: "/bin/true"})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	select {
	case got := <-exited:
		if got != id {
			t.Fatalf("expected exit callback for %v, got %v", id, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the process to exit")
	}

	p := content.(*Pane)
	// The reader goroutine marks held synchronously before invoking
	// onExit, so this is guaranteed true by the time we observed exited.
	if !p.Held() {
		t.Fatal("expected pane to be held once its process has exited")
	}
	if p.Selectable() {
		t.Fatal("expected a held pane to no longer be selectable")
	}
}

func TestWriteIsNoOpOnceHeld(t *testing.T) {
	exited := make(chan struct{})
	backend := NewBackend(nil, func(pane.ID) { close(exited) })

	_, content, err := backend.Spawn(pane.RunLocation{Command: "/bin/true"})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	<-exited

	p := content.(*Pane)
	if err := p.Write([]byte("x")); err != nil {
		t.Fatalf("expected Write on a held pane to be a silent no-op, got %v", err)
	}
}
