// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package workerpool

import "errors"

// ErrPluginNotRegistered is the value Execute panics with when called
// for a plugin id that was never registered: worker panics abort the
// process because affinity assumptions are violated.
var ErrPluginNotRegistered = errors.New("workerpool: plugin is not registered")
