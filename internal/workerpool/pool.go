// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/workerpool/pool.go
// Summary: The pinned worker pool (component G): a dynamic
// goroutine pool with plugin-stable thread affinity — once plugin P is
// assigned to thread T, every job for P runs on T until P unregisters.
//
// Grounded on original_source/'s pinned-executor module's
// PinnedExecutor (original_source/): the sparse thread slice, the
// plugin->thread and thread->plugins maps, register_plugin's
// non-busy/fewest-plugins/tie-on-lower-index search followed by
// expand-or-least-loaded-at-max, try_shrink_pool's "index >= 1 and no
// assigned plugins" sweep, and the monotonically increasing thread
// index counter. Threads there are OS threads with an mpsc::Sender; a
// job is a goroutine receiving off a buffered channel here — the same
// shape, Go's native concurrency primitive in place of
// std::thread::spawn + std::sync::mpsc.
package workerpool

import (
	"log"
	"sort"
	"sync"
)

// Job is a unit of plugin-pinned work.
type Job func()

type workerThread struct {
	jobs         chan Job
	jobsInFlight int
	done         chan struct{}
}

// Pool is a dynamic, plugin-affine worker pool. Thread index 0 always
// exists and is never destroyed while the pool is alive.
type Pool struct {
	mu sync.Mutex // guards threads, then assignments, then threadPlugins, in that order

	threads        map[int]*workerThread
	assignments    map[uint32]int         // plugin id -> thread index
	threadPlugins  map[int]map[uint32]bool // thread index -> assigned plugin ids
	nextThreadIdx  int
	maxThreads     int
}

// NewPool creates a pool with exactly one running thread (index 0) and
// the given ceiling on concurrently live threads (clamped to at least 1).
func NewPool(maxThreads int) *Pool {
	if maxThreads < 1 {
		maxThreads = 1
	}
	p := &Pool{
		threads:       make(map[int]*workerThread),
		assignments:   make(map[uint32]int),
		threadPlugins: make(map[int]map[uint32]bool),
		maxThreads:    maxThreads,
		nextThreadIdx: 1,
	}
	p.threads[0] = p.spawnThread(0)
	return p
}

func (p *Pool) spawnThread(idx int) *workerThread {
	t := &workerThread{jobs: make(chan Job, 16), done: make(chan struct{})}
	go func() {
		defer close(t.done)
		for job := range t.jobs {
			job()
		}
	}()
	return t
}

// ThreadCount returns the number of live threads.
func (p *Pool) ThreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}

// ThreadSnapshot is one thread's introspection state.
type ThreadSnapshot struct {
	Index   int
	Busy    bool
	Plugins []uint32
}

// PoolSnapshot is a read-only view of every live thread, for a
// plugin-manager-style listing.
type PoolSnapshot struct {
	MaxThreads int
	Threads    []ThreadSnapshot
}

// Snapshot reports every live thread's busy flag and assigned plugin
// set, sorted by thread index.
func (p *Pool) Snapshot() PoolSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := PoolSnapshot{MaxThreads: p.maxThreads}
	indices := make([]int, 0, len(p.threads))
	for i := range p.threads {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		plugins := make([]uint32, 0, len(p.threadPlugins[i]))
		for id := range p.threadPlugins[i] {
			plugins = append(plugins, id)
		}
		sort.Slice(plugins, func(a, b int) bool { return plugins[a] < plugins[b] })
		out.Threads = append(out.Threads, ThreadSnapshot{
			Index:   i,
			Busy:    p.threads[i].jobsInFlight > 0,
			Plugins: plugins,
		})
	}
	return out
}

// RegisterPlugin assigns id to a thread, idempotently, and returns the
// assigned thread index. Assignment policy: prefer
// a non-busy thread with the fewest assigned plugins, lower index
// breaking ties; if every thread is busy and the pool is below
// maxThreads, spawn a new thread at the next monotonic index; if at
// the ceiling, fall back to the globally least-loaded thread.
func (p *Pool) RegisterPlugin(id uint32) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if idx, ok := p.assignments[id]; ok {
		return idx
	}

	idx, spawned := p.pickThreadForNewPluginLocked()
	if spawned {
		log.Printf("workerpool: expanded to thread %d for plugin %d", idx, id)
	}
	p.assignments[id] = idx
	if p.threadPlugins[idx] == nil {
		p.threadPlugins[idx] = make(map[uint32]bool)
	}
	p.threadPlugins[idx][id] = true
	return idx
}

func (p *Pool) pickThreadForNewPluginLocked() (idx int, spawnedNewThread bool) {
	bestIdx, bestLoad := -1, 0
	for i, t := range p.threads {
		if t.jobsInFlight > 0 {
			continue
		}
		load := len(p.threadPlugins[i])
		if bestIdx == -1 || load < bestLoad || (load == bestLoad && i < bestIdx) {
			bestIdx, bestLoad = i, load
		}
	}
	if bestIdx != -1 {
		return bestIdx, false
	}

	if len(p.threads) < p.maxThreads {
		newIdx := p.nextThreadIdx
		p.nextThreadIdx++
		p.threads[newIdx] = p.spawnThread(newIdx)
		return newIdx, true
	}

	leastIdx, leastLoad := -1, 0
	for i := range p.threads {
		load := len(p.threadPlugins[i])
		if leastIdx == -1 || load < leastLoad || (load == leastLoad && i < leastIdx) {
			leastIdx, leastLoad = i, load
		}
	}
	return leastIdx, false
}

// Execute enqueues job on id's assigned thread, incrementing its
// in-flight gauge before the job runs and decrementing it on
// completion. Panics if id has never been registered, matching the
// pool's "worker panics abort the process" policy.
func (p *Pool) Execute(id uint32, job Job) {
	p.mu.Lock()
	idx, ok := p.assignments[id]
	if !ok {
		p.mu.Unlock()
		panic(ErrPluginNotRegistered)
	}
	t := p.threads[idx]
	t.jobsInFlight++
	p.mu.Unlock()

	t.jobs <- func() {
		job()
		p.mu.Lock()
		t.jobsInFlight--
		p.mu.Unlock()
	}
}

// UnregisterPlugin removes id's assignment and attempts to shrink the
// pool.
func (p *Pool) UnregisterPlugin(id uint32) {
	p.mu.Lock()
	idx, ok := p.assignments[id]
	if ok {
		delete(p.assignments, id)
		if plugins, ok := p.threadPlugins[idx]; ok {
			delete(plugins, id)
		}
	}
	p.mu.Unlock()
	p.tryShrink()
}

// tryShrink shuts down and removes every thread with index >= 1 and no
// assigned plugins. Thread 0 is never removed.
func (p *Pool) tryShrink() {
	p.mu.Lock()
	var toRemove []int
	for idx, t := range p.threads {
		if idx == 0 {
			continue
		}
		if len(p.threadPlugins[idx]) == 0 {
			toRemove = append(toRemove, idx)
			_ = t
		}
	}
	removed := make([]*workerThread, 0, len(toRemove))
	for _, idx := range toRemove {
		removed = append(removed, p.threads[idx])
		delete(p.threads, idx)
		delete(p.threadPlugins, idx)
	}
	p.mu.Unlock()

	for _, t := range removed {
		close(t.jobs)
		<-t.done
	}
}

// Shutdown stops every live thread and joins them, draining in-flight
// jobs first.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	threads := make([]*workerThread, 0, len(p.threads))
	for _, t := range p.threads {
		threads = append(threads, t)
	}
	p.threads = make(map[int]*workerThread)
	p.mu.Unlock()

	for _, t := range threads {
		close(t.jobs)
		<-t.done
	}
}
