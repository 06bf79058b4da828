package results

import (
	"fmt"
	"io"
	"time"

	"github.com/kmc-sim/kmc-sim/config"
	"github.com/kmc-sim/kmc-sim/kmc"
	"github.com/kmc-sim/kmc-sim/worker"
)

// WriteSummary writes the cross-worker summary report (§6): worker count,
// average wall time, any per-worker errors, then test-specific totals
// mirroring the reference implementation's analysis_summary.txt.
func WriteSummary(w io.Writer, outcomes []worker.Outcome, sel config.TestSelection, nWorkers int, totalElapsed time.Duration) error {
	lines := []string{
		fmt.Sprintf("Simulation was performed with %d workers.", nWorkers),
	}
	if nWorkers > 0 {
		lines = append(lines, fmt.Sprintf("Average calculation time was %.4f minutes.", totalElapsed.Minutes()/float64(nWorkers)))
	}
	if errs := worker.Errors(outcomes); len(errs) > 0 {
		lines = append(lines, "", "Errors occurred on one or more workers:")
		for _, o := range outcomes {
			if o.Err != nil {
				lines = append(lines, fmt.Sprintf("%d: %v", o.Index, o.Err))
			}
		}
	}

	switch {
	case sel.ExcitonDiffusion:
		total := worker.SumInt(outcomes, func(o *worker.Outcome) int {
			return o.Acc.SingletsRecombined + o.Acc.TripletsRecombined
		})
		diffusion := worker.Gather(outcomes, func(o *worker.Outcome) []float64 { return o.Acc.DiffusionLengthsNM })
		avg, sd := meanStdDev(diffusion)
		lines = append(lines,
			"",
			"Overall exciton diffusion test results:",
			fmt.Sprintf("%d total excitons tested.", total),
			fmt.Sprintf("Exciton diffusion length is %.6g +/- %.6g nm.", avg, sd),
		)
	case sel.ToF:
		lines = append(lines, summaryToF(outcomes, sel)...)
	case sel.Dynamics:
		total := worker.SumInt(outcomes, func(o *worker.Outcome) int { return o.Acc.ExcitonsCreated })
		lines = append(lines, "", "Overall dynamics test results:", fmt.Sprintf("%d total initial excitons.", total))
	case sel.IQE:
		created := worker.SumInt(outcomes, func(o *worker.Outcome) int { return o.Acc.ExcitonsCreated })
		collected := worker.SumInt(outcomes, func(o *worker.Outcome) int { return o.Acc.ElectronsCollected + o.Acc.HolesCollected })
		lines = append(lines,
			"",
			"Overall internal quantum efficiency test results:",
			fmt.Sprintf("%d total excitons created.", created),
			fmt.Sprintf("IQE = %.6g%%.", pct(collected, 2*created)),
		)
	}
	return writeLines(w, lines)
}

func summaryToF(outcomes []worker.Outcome, sel config.TestSelection) []string {
	var times []float64
	var mobilities []float64
	var collected, created int
	for _, o := range worker.Successful(outcomes) {
		t := o.Acc.TransitTimesElectron
		c, cr := o.Acc.ElectronsCollected, sel.ToFInitialPolarons
		if sel.ToFPolaronKind == kmc.KindHolePolaron {
			t, c = o.Acc.TransitTimesHole, o.Acc.HolesCollected
		}
		times = append(times, t...)
		mobilities = append(mobilities, Mobility(o.Sim, t)...)
		collected += c
		created += cr
	}
	tAvg, tSd := meanStdDev(times)
	mAvg, mSd := meanStdDev(mobilities)
	return []string{
		"",
		fmt.Sprintf("%d total carriers collected out of %d total attempts.", collected, created),
		"Overall time-of-flight charge transport test results:",
		fmt.Sprintf("Transit time is %.6g +/- %.6g s.", tAvg, tSd),
		fmt.Sprintf("Charge carrier mobility is %.6g +/- %.6g cm^2 V^-1 s^-1.", mAvg, mSd),
	}
}
