package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pthm-cable/aquarium/telemetry"
)

func printSceneStats(w io.Writer, rows []telemetry.SceneStats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tSIZE\tCREATURES\tPLACEMENTS\tHERO\tCENTERPIECE\tFALLBACKS\tCOVERAGE\tSPACING P10/P50/P90\tGUARANTEED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%dx%d\t%d (%d/%d/%d)\t%d\t%s\t%s\t%d/%d\t%.1f%%\t%.0f/%.0f/%.0f\t%d\n",
			r.Seed,
			r.Width, r.Height,
			r.Creatures, r.Big, r.Mid, r.Small,
			r.Placements,
			yesNo(r.Hero), yesNo(r.Centerpiece),
			r.SampleFallback, r.Reservations,
			r.Coverage*100,
			r.SpacingP10, r.SpacingP50, r.SpacingP90,
			r.Guaranteed,
		)
	}
	tw.Flush()
}

func printPerfStats(w io.Writer, s telemetry.PerfStats) {
	fmt.Fprintf(w, "\nPrepare (%d passes): avg %s  min %s  max %s\n",
		s.Passes,
		s.AvgPrepare.Round(time.Microsecond),
		s.MinPrepare.Round(time.Microsecond),
		s.MaxPrepare.Round(time.Microsecond),
	)
	for _, phase := range []string{telemetry.PhasePreload, telemetry.PhaseBackground, telemetry.PhaseLayers, telemetry.PhaseSprites} {
		fmt.Fprintf(w, "  %-12s %10s  %5.1f%%\n", phase, s.PhaseAvg[phase].Round(time.Microsecond), s.PhasePct[phase])
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
