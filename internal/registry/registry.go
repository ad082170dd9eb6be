// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/registry/registry.go
// Summary: The tab registry (component D): ordered tabs,
// per-client active-tab tracking and a history stack for toggle/close
// fallback.
//
// Grounded on texel/workspace.go's Workspace (its own per-client
// active-tab bookkeeping) generalized from a single embedded workspace
// to an explicit ordered registry of tabs, with an insertion-order and
// history-stack contract.

package registry

import "github.com/framegrace/texelation-core/internal/geometry"

// Registry holds every live tab and each client's view onto them.
type Registry struct {
	tabs   map[int]*Tab
	order  []int // insertion order

	activeIndex map[ClientID]int
	history     map[ClientID][]int
}

// NewRegistry creates an empty tab registry.
func NewRegistry() *Registry {
	return &Registry{
		tabs:        make(map[int]*Tab),
		activeIndex: make(map[ClientID]int),
		history:     make(map[ClientID][]int),
	}
}

// CreateTab appends a new tab at index max(existing)+1 (or 0 if
// empty), and returns its index.
func (r *Registry) CreateTab(name string, viewport geometry.Viewport) int {
	idx := 0
	for existing := range r.tabs {
		if existing >= idx {
			idx = existing + 1
		}
	}
	r.tabs[idx] = NewTab(name, viewport)
	r.order = append(r.order, idx)
	return idx
}

// Tab looks up a tab by index.
func (r *Registry) Tab(index int) (*Tab, bool) {
	t, ok := r.tabs[index]
	return t, ok
}

// Len returns the number of live tabs.
func (r *Registry) Len() int { return len(r.tabs) }

// Order returns tab indices in insertion (visual) order.
func (r *Registry) Order() []int {
	out := make([]int, len(r.order))
	copy(out, r.order)
	return out
}

// Position returns a tab's 0-based visual position, for UI rendering:
// visual positions renumber on close.
func (r *Registry) Position(index int) (int, bool) {
	for i, idx := range r.order {
		if idx == index {
			return i, true
		}
	}
	return -1, false
}

// ActiveTab returns the client's currently active tab index.
func (r *Registry) ActiveTab(client ClientID) (int, bool) {
	idx, ok := r.activeIndex[client]
	return idx, ok
}

// AddClient registers a new client, focused on the first tab in
// insertion order (creating one if the registry is empty is the
// caller's responsibility).
func (r *Registry) AddClient(client ClientID) error {
	if len(r.order) == 0 {
		return ErrNoTabs
	}
	r.activeIndex[client] = r.order[0]
	return nil
}

// RemoveClient forgets a client's active-tab and history state.
func (r *Registry) RemoveClient(client ClientID) {
	delete(r.activeIndex, client)
	delete(r.history, client)
}

func (r *Registry) pushHistory(client ClientID, index int) {
	r.history[client] = append(r.history[client], index)
}

func (r *Registry) popHistory(client ClientID) (int, bool) {
	h := r.history[client]
	for len(h) > 0 {
		idx := h[len(h)-1]
		h = h[:len(h)-1]
		if _, live := r.tabs[idx]; live {
			r.history[client] = h
			return idx, true
		}
	}
	r.history[client] = h
	return 0, false
}

// SwitchTabNext moves client to the next tab in insertion order,
// wrapping, pushing the previous active tab onto the client's history.
func (r *Registry) SwitchTabNext(client ClientID) (int, error) {
	return r.switchBy(client, 1)
}

// SwitchTabPrev moves client to the previous tab in insertion order,
// wrapping.
func (r *Registry) SwitchTabPrev(client ClientID) (int, error) {
	return r.switchBy(client, -1)
}

func (r *Registry) switchBy(client ClientID, step int) (int, error) {
	if len(r.order) == 0 {
		return 0, ErrNoTabs
	}
	cur, ok := r.activeIndex[client]
	pos := 0
	if ok {
		if p, found := r.Position(cur); found {
			pos = p
		}
	}
	n := len(r.order)
	next := ((pos+step)%n + n) % n
	if ok {
		r.pushHistory(client, cur)
	}
	r.activeIndex[client] = r.order[next]
	return r.order[next], nil
}

// GoToTab sets client's active tab directly, pushing the previous
// active tab onto history.
func (r *Registry) GoToTab(client ClientID, index int) error {
	if _, ok := r.tabs[index]; !ok {
		return ErrTabNotFound
	}
	if cur, ok := r.activeIndex[client]; ok {
		r.pushHistory(client, cur)
	}
	r.activeIndex[client] = index
	return nil
}

// ToggleTab swaps client between its current tab and the top of its
// history, like a "last active tab" shortcut. Returns false if there
// is no history to toggle to.
func (r *Registry) ToggleTab(client ClientID) (int, bool) {
	cur, hasCur := r.activeIndex[client]
	popped, ok := r.popHistory(client)
	if !ok {
		return 0, false
	}
	if hasCur {
		r.pushHistory(client, cur)
	}
	r.activeIndex[client] = popped
	return popped, true
}

// CloseTab removes a tab and re-homes every client focused on it: each
// falls back to the top of its history stack, then to the numerically
// previous live tab index, then — if neither exists — the client's
// session ends (returned in endedSessions).
func (r *Registry) CloseTab(index int) (endedSessions []ClientID, err error) {
	if _, ok := r.tabs[index]; !ok {
		return nil, ErrTabNotFound
	}
	delete(r.tabs, index)
	for i, idx := range r.order {
		if idx == index {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for client, active := range r.activeIndex {
		if active != index {
			continue
		}
		if popped, ok := r.popHistory(client); ok {
			r.activeIndex[client] = popped
			continue
		}
		if fallback, ok := r.previousLiveTab(index); ok {
			r.activeIndex[client] = fallback
			continue
		}
		delete(r.activeIndex, client)
		delete(r.history, client)
		endedSessions = append(endedSessions, client)
	}
	return endedSessions, nil
}

// previousLiveTab finds the live tab with the largest index strictly
// less than closed, falling back to the smallest live index if none.
func (r *Registry) previousLiveTab(closed int) (int, bool) {
	best, found := -1, false
	for idx := range r.tabs {
		if idx < closed && (!found || idx > best) {
			best, found = idx, true
		}
	}
	if found {
		return best, true
	}
	for idx := range r.tabs {
		if !found || idx < best {
			best, found = idx, true
		}
	}
	return best, found
}
