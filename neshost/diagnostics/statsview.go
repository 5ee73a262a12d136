//go:build statsview

package diagnostics

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// StatsViewAddress is where the runtime statistics server listens.
const StatsViewAddress = "localhost:12600"

const statsViewPath = "/debug/statsview"

// LaunchStatsView starts a goroutine serving live runtime statistics.
func LaunchStatsView(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(StatsViewAddress))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "stats server available at %s%s\n", StatsViewAddress, statsViewPath)
}

// StatsViewAvailable reports whether LaunchStatsView does anything in this build.
func StatsViewAvailable() bool {
	return true
}
