// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/ptyio/pty.go
// Summary: The PTY backend (the ambient process I/O layer): spawns a
// terminal pane's backing process on a pseudo-terminal and feeds its
// output to a reader goroutine, the way every other component here
// hands the orchestrator a pane.Capabilities and nothing more.
//
// Grounded on tui/pty_app.go's PTYApp (since removed from this tree —
// see DESIGN.md): pty.StartWithSize for the first
// launch, pty.Setsize for subsequent resizes, a dedicated read
// goroutine pulling off the *os.File into a buffer under a mutex, and
// Stop's close-then-kill teardown. PTYApp's own VTerm/Parser pair (a
// full ANSI/VT100 interpreter) was part of a private tui/parser
// package that never made it into this tree — no available library
// models terminal emulation, so this layer stops at raw bytes plus a
// scrollback tail, the same
// boundary pane.Capabilities already draws between the engines and a
// pane's content: internal/heldview consumes Tail and turns those
// bytes into styled cells via go-enry/chroma.
package ptyio

import (
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/creack/pty"

	"github.com/framegrace/texelation-core/internal/pane"
)

// scrollbackBytes bounds how much raw output a pane keeps once nothing
// is reading it live, matching the Held pane's "output kept for
// inspection" contract.
const scrollbackBytes = 256 * 1024

// OutputFunc is called from the pane's private reader goroutine with
// each chunk read off the PTY. Implementations must not block; the
// orchestrator's wiring posts a PtyBytes message and returns.
type OutputFunc func(id pane.ID, data []byte)

// ExitFunc is called once, from the reader goroutine, when the backing
// process's PTY reaches EOF.
type ExitFunc func(id pane.ID)

// Pane is a terminal pane.Capabilities backed by a real PTY and child
// process.
type Pane struct {
	id    pane.ID
	title string

	mu     sync.Mutex
	cmd    *exec.Cmd
	file   *os.File
	buf    []byte
	held   bool
	closed bool
}

var _ pane.Capabilities = (*Pane)(nil)

func (p *Pane) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

func (p *Pane) Selectable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.held
}

func (p *Pane) Borderless() bool             { return false }
func (p *Pane) FrameOn() bool                { return true }
func (p *Pane) WantsMouse() bool             { return false }
func (p *Pane) SupportsMouseSelection() bool { return true }
func (p *Pane) ContentOffset() (int, int)    { return 0, 0 }

// Held reports whether the backing process has exited; the pane's
// geometry and scrollback are kept, only the process is gone.
func (p *Pane) Held() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.held
}

// Write sends input bytes to the PTY's master side (ignored once held).
func (p *Pane) Write(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held || p.file == nil {
		return nil
	}
	_, err := p.file.Write(data)
	return err
}

// Resize updates the PTY's window size. A no-op once held.
func (p *Pane) Resize(cols, rows int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held || p.file == nil {
		return nil
	}
	return pty.Setsize(p.file, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Tail returns a copy of the last n bytes of scrollback (or everything
// kept, if less than n).
func (p *Pane) Tail(n int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n <= 0 || n >= len(p.buf) {
		return append([]byte(nil), p.buf...)
	}
	return append([]byte(nil), p.buf[len(p.buf)-n:]...)
}

func (p *Pane) appendOutput(chunk []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf = append(p.buf, chunk...)
	if len(p.buf) > scrollbackBytes {
		p.buf = append([]byte(nil), p.buf[len(p.buf)-scrollbackBytes:]...)
	}
}

func (p *Pane) markHeld() {
	p.mu.Lock()
	p.held = true
	p.mu.Unlock()
}

// Close tears down the backing process: closes the PTY master then
// kills the child if it hasn't already exited.
func (p *Pane) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	var err error
	if p.file != nil {
		err = p.file.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	return err
}

// Backend spawns terminal panes on demand; it implements
// orchestrator.Spawner.
type Backend struct {
	nextTerminal uint32
	onOutput     OutputFunc
	onExit       ExitFunc
}

// NewBackend creates a Backend. onOutput and onExit may be nil.
func NewBackend(onOutput OutputFunc, onExit ExitFunc) *Backend {
	return &Backend{onOutput: onOutput, onExit: onExit}
}

const defaultCols, defaultRows = 80, 24

// Spawn starts run's command on a fresh PTY sized to a default 80x24
// (the orchestrator resizes it to the pane's geometry afterwards), and
// begins reading its output on a dedicated goroutine.
func (b *Backend) Spawn(run pane.RunLocation) (pane.ID, pane.Capabilities, error) {
	command := run.Command
	if command == "" {
		command = defaultShell()
	}
	cmd := exec.Command(command, run.Args...)
	if run.Cwd != "" {
		cmd.Dir = run.Cwd
	}
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	file, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: defaultRows, Cols: defaultCols})
	if err != nil {
		return pane.ID{}, nil, err
	}

	id := pane.NewTerminalID(atomic.AddUint32(&b.nextTerminal, 1))
	p := &Pane{id: id, title: command, cmd: cmd, file: file}
	go b.readLoop(p)
	return id, p, nil
}

func (b *Backend) readLoop(p *Pane) {
	buf := make([]byte, 4096)
	for {
		n, err := p.file.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			p.appendOutput(chunk)
			if b.onOutput != nil {
				b.onOutput(p.id, chunk)
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("ptyio: pane %v: %v", p.id, err)
			}
			p.markHeld()
			if b.onExit != nil {
				b.onExit(p.id)
			}
			return
		}
	}
}

func defaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}
