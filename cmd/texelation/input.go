// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelation/input.go
// Summary: Translates tcell events into orchestrator messages. Grounded
// on internal/runtime/client/input_handler.go's handleScreenEvent: a
// Ctrl+A leader toggles "control mode" (Esc exits it), every other key
// is forwarded as raw input while out of control mode, and a fixed set
// of single-key commands is read while in it — generalized from that
// file's network-protocol encode/send calls to direct orchestrator.Post
// calls, since this engine has no client/server boundary to cross.
package main

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelation-core/internal/mouse"
	"github.com/framegrace/texelation-core/internal/orchestrator"
	"github.com/framegrace/texelation-core/internal/tiledgrid"
)

func runInputLoop(orch *orchestrator.Orchestrator, events <-chan tcell.Event, quit chan<- struct{}) {
	controlMode := false
	var prevButtons tcell.ButtonMask
	for ev := range events {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if controlMode {
				stillIn, shouldQuit := handleControlKey(orch, ev)
				controlMode = stillIn
				if shouldQuit {
					close(quit)
					return
				}
				continue
			}
			if ev.Key() == tcell.KeyCtrlA {
				controlMode = true
				continue
			}
			orch.Post(orchestrator.WriteCharacter{Client: localClient, Data: encodeKey(ev)})
		case *tcell.EventMouse:
			evt := translateMouse(ev, prevButtons)
			prevButtons = ev.Buttons()
			orch.Post(orchestrator.MouseInput{Client: localClient, Event: evt})
		case *tcell.EventResize:
			cols, rows := ev.Size()
			orch.Post(orchestrator.TerminalResize{Viewport: viewportForScreen(cols, rows)})
			orch.Post(orchestrator.Render{Client: localClient})
		}
	}
}

// handleControlKey applies one control-mode command and reports
// whether control mode stays active and whether the session should
// end. Any key not listed below exits control mode without acting on
// it, mirroring Esc's "no modifiers, just leave" behavior.
func handleControlKey(orch *orchestrator.Orchestrator, ev *tcell.EventKey) (stillIn, shouldQuit bool) {
	if ev.Key() == tcell.KeyEsc {
		return false, false
	}
	switch ev.Rune() {
	case 'q':
		orch.Post(orchestrator.Exit{})
		return false, true
	case 'c':
		orch.Post(orchestrator.NewPane{Client: localClient})
	case '%':
		orch.Post(orchestrator.Split{Client: localClient, Direction: tiledgrid.SplitVertical})
	case '"':
		orch.Post(orchestrator.Split{Client: localClient, Direction: tiledgrid.SplitHorizontal})
	case 'x':
		orch.Post(orchestrator.ClosePane{Client: localClient})
	case 'z':
		orch.Post(orchestrator.ToggleActiveFullscreen{Client: localClient})
	case 'o':
		orch.Post(orchestrator.FocusNextPane{Client: localClient})
	case 'O':
		orch.Post(orchestrator.FocusPreviousPane{Client: localClient})
	case 't':
		orch.Post(orchestrator.NewTab{Client: localClient})
	case 'n':
		orch.Post(orchestrator.SwitchTabNext{Client: localClient})
	case 'p':
		orch.Post(orchestrator.SwitchTabPrev{Client: localClient})
	case ']':
		orch.Post(orchestrator.NextSwapLayout{Client: localClient})
	case '[':
		orch.Post(orchestrator.PrevSwapLayout{Client: localClient})
	case 'f':
		orch.Post(orchestrator.TogglePaneFrames{})
	default:
		switch ev.Key() {
		case tcell.KeyUp:
			orch.Post(orchestrator.FocusDirection{Client: localClient, Dir: tiledgrid.Up})
		case tcell.KeyDown:
			orch.Post(orchestrator.FocusDirection{Client: localClient, Dir: tiledgrid.Down})
		case tcell.KeyLeft:
			orch.Post(orchestrator.FocusDirection{Client: localClient, Dir: tiledgrid.Left})
		case tcell.KeyRight:
			orch.Post(orchestrator.FocusDirection{Client: localClient, Dir: tiledgrid.Right})
		}
	}
	return false, false
}

// encodeKey turns one key event into the byte sequence its pane's PTY
// expects, the same translation a real terminal emulator's keyboard
// driver performs before writing to a child process's stdin.
func encodeKey(ev *tcell.EventKey) []byte {
	switch ev.Key() {
	case tcell.KeyEnter:
		return []byte{'\r'}
	case tcell.KeyTab:
		return []byte{'\t'}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{0x7f}
	case tcell.KeyEsc:
		return []byte{0x1b}
	case tcell.KeyUp:
		return []byte("\x1b[A")
	case tcell.KeyDown:
		return []byte("\x1b[B")
	case tcell.KeyRight:
		return []byte("\x1b[C")
	case tcell.KeyLeft:
		return []byte("\x1b[D")
	case tcell.KeyRune:
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, ev.Rune())
		return buf[:n]
	default:
		if r := ev.Rune(); r != 0 {
			buf := make([]byte, utf8.UTFMax)
			n := utf8.EncodeRune(buf, r)
			return buf[:n]
		}
		// Ctrl+<letter> keys arrive as their control-code Key value
		// (tcell.KeyCtrlA == 1, etc.) for keys with no printable rune.
		if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			return []byte{byte(k)}
		}
		return nil
	}
}

// translateMouse classifies the event against the buttons held on the
// previous event: a held-button mask that goes from empty to nonempty
// means a fresh Press, one that goes from nonempty to empty means
// Release, and anything else (including a button added or dropped
// while another stays held) means Motion — tcell reports only the current held set, not
// the transition, so the caller must track it across events itself.
func translateMouse(ev *tcell.EventMouse, prevButtons tcell.ButtonMask) mouse.Event {
	x, y := ev.Position()
	buttons := ev.Buttons()
	mod := ev.Modifiers()

	out := mouse.Event{
		Position:  mouse.Position{X: x, Y: y},
		Left:      buttons&tcell.Button1 != 0,
		Right:     buttons&tcell.Button2 != 0,
		Middle:    buttons&tcell.Button3 != 0,
		WheelUp:   buttons&tcell.WheelUp != 0,
		WheelDown: buttons&tcell.WheelDown != 0,
		Ctrl:      mod&tcell.ModCtrl != 0,
		Alt:       mod&tcell.ModAlt != 0,
		Shift:     mod&tcell.ModShift != 0,
	}
	heldMask := tcell.Button1 | tcell.Button2 | tcell.Button3
	switch {
	case buttons&heldMask != 0 && prevButtons&heldMask == 0:
		out.Type = mouse.Press
	case buttons&heldMask == 0 && prevButtons&heldMask != 0:
		out.Type = mouse.Release
	default:
		out.Type = mouse.Motion
	}
	return out
}
