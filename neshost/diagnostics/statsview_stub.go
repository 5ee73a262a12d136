//go:build !statsview

package diagnostics

import "io"

// StatsViewAddress is where the runtime statistics server listens.
const StatsViewAddress = ""

// LaunchStatsView is a no-op without the statsview build tag.
func LaunchStatsView(output io.Writer) {}

// StatsViewAvailable reports whether LaunchStatsView does anything in this build.
func StatsViewAvailable() bool {
	return false
}
