// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/pane/pane.go
// Summary: PaneId and the capability set the grid/layer/mouse engines
// consume, in place of the dynamic-dispatch capability-trait-object
// pattern the source uses: a tagged variant
// over Terminal/Plugin content plus the narrow method set callers need.

package pane

import (
	"fmt"
	"time"

	"github.com/framegrace/texelation-core/internal/geometry"
)

// Kind tags a PaneId's content variant.
type Kind int

const (
	Terminal Kind = iota
	Plugin
)

func (k Kind) String() string {
	if k == Plugin {
		return "plugin"
	}
	return "terminal"
}

// ID is a globally unique pane identifier, tagged by content kind.
type ID struct {
	Kind Kind
	Num  uint32
}

func (id ID) String() string {
	return fmt.Sprintf("%s(%d)", id.Kind, id.Num)
}

// NewTerminalID and NewPluginID construct tagged ids. Uniqueness across
// tabs is the caller's responsibility (the Spawner hands out
// monotonically increasing Num values per kind).
func NewTerminalID(n uint32) ID { return ID{Kind: Terminal, Num: n} }
func NewPluginID(n uint32) ID   { return ID{Kind: Plugin, Num: n} }

// RunLocation is the invocation descriptor that produced a pane — a
// command for a terminal pane, or a url+config for a plugin pane. Two
// Runs are equal (for layout-applier matching) iff every field matches
// exactly.
type RunLocation struct {
	Command string
	Args    []string
	Cwd     string
	URL     string
	Config  map[string]string
}

// Equal reports whether two RunLocations describe the same invocation.
func (r RunLocation) Equal(o RunLocation) bool {
	if r.Command != o.Command || r.Cwd != o.Cwd || r.URL != o.URL {
		return false
	}
	if len(r.Args) != len(o.Args) {
		return false
	}
	for i := range r.Args {
		if r.Args[i] != o.Args[i] {
			return false
		}
	}
	if len(r.Config) != len(o.Config) {
		return false
	}
	for k, v := range r.Config {
		if o.Config[k] != v {
			return false
		}
	}
	return true
}

// Capabilities is the narrow method set components B, C, E need from a
// pane's content, independent of whether it is a Terminal or a Plugin.
// Content handles (the terminal emulator, the plugin guest) implement
// this; the engines never see anything else.
type Capabilities interface {
	Title() string
	Selectable() bool
	Borderless() bool
	FrameOn() bool
	WantsMouse() bool
	SupportsMouseSelection() bool
	ContentOffset() (x, y int)
}

// Writer is implemented by content that accepts forwarded input bytes
// (a terminal pane's PTY master); a plugin pane may not implement it.
type Writer interface {
	Write(data []byte) error
}

// Resizer is implemented by content that needs to know its inner cell
// size whenever its pane's geometry changes.
type Resizer interface {
	Resize(cols, rows int) error
}

// Scrollback is implemented by content that keeps raw output bytes a
// renderer can display (a terminal pane's captured PTY output, live or
// held); n <= 0 or n >= the kept length returns everything kept.
type Scrollback interface {
	Tail(n int) []byte
}

// Pane is one entry in a tab's tiled grid or floating layer.
type Pane struct {
	ID         ID
	Geom       geometry.PaneGeom
	Run        RunLocation
	LastActive time.Time
	Held       bool // backing process exited, geometry/output kept for inspection
	Content    Capabilities
}

// Title returns the content's title, or empty if held with no content.
func (p *Pane) Title() string {
	if p.Content == nil {
		return ""
	}
	return p.Content.Title()
}

// Selectable reports whether this pane can receive focus.
func (p *Pane) Selectable() bool {
	if p.Content == nil {
		return !p.Held
	}
	return p.Content.Selectable()
}

// ContainsPoint reports whether (x, y) is within the pane's geometry.
func (p *Pane) ContainsPoint(x, y int) bool {
	return p.Geom.ContainsPoint(x, y)
}

// Edge identifies one of the eight resize handles of a pane's frame.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
	EdgeTopLeft
	EdgeTopRight
	EdgeBottomLeft
	EdgeBottomRight
)

// EdgeAtPoint classifies (x, y) against the pane's frame, returning
// EdgeNone if the point is not on a one-cell frame border. Corners take
// precedence over straight edges.
func (p *Pane) EdgeAtPoint(x, y int) Edge {
	g := p.Geom
	left := x == g.X
	right := x == g.Right()-1
	top := y == g.Y
	bottom := y == g.Bottom()-1
	switch {
	case top && left:
		return EdgeTopLeft
	case top && right:
		return EdgeTopRight
	case bottom && left:
		return EdgeBottomLeft
	case bottom && right:
		return EdgeBottomRight
	case top:
		return EdgeTop
	case bottom:
		return EdgeBottom
	case left:
		return EdgeLeft
	case right:
		return EdgeRight
	default:
		return EdgeNone
	}
}
