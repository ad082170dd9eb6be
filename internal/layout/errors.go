// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import "errors"

// ErrLayoutInfeasible is returned when a declarative layout's
// constraints cannot be resolved even with percent sizes stripped.
var ErrLayoutInfeasible = errors.New("layout: constraints could not be resolved")
