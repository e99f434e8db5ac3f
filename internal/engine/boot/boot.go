// Released under an MIT license. See LICENSE.

// Package boot provides what is necessary for bootstrapping ember.
package boot

import _ "embed" // Blank import required by embed.

//go:embed boot.tcl
var script string //nolint:gochecknoglobals

// Script returns the boot script for ember.
func Script() string {
	return script
}
