// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package workerpool

import (
	"sync"
	"testing"
	"time"
)

func TestRegisterPluginIsIdempotent(t *testing.T) {
	p := NewPool(4)
	defer p.Shutdown()

	first := p.RegisterPlugin(1)
	second := p.RegisterPlugin(1)
	if first != second {
		t.Fatalf("expected idempotent assignment, got %d then %d", first, second)
	}
}

func TestRegisterPluginPrefersNonBusyLeastLoadedThenLowerIndex(t *testing.T) {
	p := NewPool(4)
	defer p.Shutdown()

	a := p.RegisterPlugin(1)
	if a != 0 {
		t.Fatalf("expected first plugin on thread 0, got %d", a)
	}

	b := p.RegisterPlugin(2)
	if b != 0 {
		t.Fatalf("expected second plugin to join thread 0 (fewer plugins, not busy), got %d", b)
	}
}

func TestRegisterPluginExpandsWhenThreadsAreBusy(t *testing.T) {
	p := NewPool(4)
	defer p.Shutdown()

	p.RegisterPlugin(1)

	release := make(chan struct{})
	started := make(chan struct{})
	p.Execute(1, func() {
		close(started)
		<-release
	})
	<-started

	idx := p.RegisterPlugin(2)
	if idx == 0 {
		t.Fatalf("expected a new thread while thread 0 is busy, got %d", idx)
	}
	close(release)
}

func TestRegisterPluginFallsBackToLeastLoadedAtCeiling(t *testing.T) {
	p := NewPool(1) // ceiling of 1: thread 0 only, never expands
	defer p.Shutdown()

	a := p.RegisterPlugin(1)
	b := p.RegisterPlugin(2)
	if a != 0 || b != 0 {
		t.Fatalf("expected both plugins pinned to thread 0 at a ceiling of 1, got %d and %d", a, b)
	}
	if p.ThreadCount() != 1 {
		t.Fatalf("expected pool to stay at 1 thread, got %d", p.ThreadCount())
	}
}

func TestUnregisterPluginShrinksPoolButKeepsThreadZero(t *testing.T) {
	p := NewPool(4)
	defer p.Shutdown()

	p.RegisterPlugin(1)
	release := make(chan struct{})
	started := make(chan struct{})
	p.Execute(1, func() {
		close(started)
		<-release
	})
	<-started

	idx := p.RegisterPlugin(2)
	if idx == 0 {
		t.Fatalf("expected plugin 2 on a new thread, got %d", idx)
	}
	if p.ThreadCount() != 2 {
		t.Fatalf("expected 2 threads, got %d", p.ThreadCount())
	}

	p.UnregisterPlugin(2)
	if p.ThreadCount() != 1 {
		t.Fatalf("expected shrink back to 1 thread after unregistering its only plugin, got %d", p.ThreadCount())
	}

	close(release)

	p.UnregisterPlugin(1)
	if p.ThreadCount() != 1 {
		t.Fatalf("expected thread 0 to survive even with no plugins assigned, got %d threads", p.ThreadCount())
	}
}

func TestExecutePanicsForUnregisteredPlugin(t *testing.T) {
	p := NewPool(2)
	defer p.Shutdown()

	defer func() {
		r := recover()
		if r != ErrPluginNotRegistered {
			t.Fatalf("expected panic with ErrPluginNotRegistered, got %v", r)
		}
	}()
	p.Execute(99, func() {})
}

func TestExecuteRunsJobOnAssignedThread(t *testing.T) {
	p := NewPool(2)
	defer p.Shutdown()

	p.RegisterPlugin(1)

	var mu sync.Mutex
	ran := false
	done := make(chan struct{})
	p.Execute(1, func() {
		mu.Lock()
		ran = true
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job to execute")
	}

	mu.Lock()
	defer mu.Unlock()
	if !ran {
		t.Fatal("expected job to have run")
	}
}
