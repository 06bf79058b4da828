// cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kmc-sim/kmc-sim/config"
	"github.com/kmc-sim/kmc-sim/kmc"
	"github.com/kmc-sim/kmc-sim/kmc/drivers"
	"github.com/kmc-sim/kmc-sim/results"
	"github.com/kmc-sim/kmc-sim/worker"
)

var (
	paramFile   string
	runConfig   string
	seed        int64
	workerCount int
	logLevel    string
	resultsDir  string
)

var rootCmd = &cobra.Command{
	Use:   "kmc-sim",
	Short: "Kinetic Monte Carlo simulator for charge and exciton dynamics in organic semiconductor films",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured test (exciton diffusion, time-of-flight, IQE, or dynamics)",
	RunE:  runRun,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&paramFile, "params", "parameters.txt", "Path to the simulation parameter file (§6 grammar)")
	runCmd.Flags().StringVar(&runConfig, "config", "", "Path to a YAML run config overlaying defaults.yaml (workers, log level, results dir)")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "Base RNG seed; worker i runs with seed+i")
	runCmd.Flags().IntVar(&workerCount, "workers", 0, "Number of independent trajectories to run (0: use run config)")
	runCmd.Flags().StringVar(&logLevel, "log", "", "Log level (debug, info, warn, error); overrides run config")
	runCmd.Flags().StringVar(&resultsDir, "results", "", "Output directory for results files; overrides run config")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	rc, err := config.LoadRunConfig(runConfig)
	if err != nil {
		return fmt.Errorf("loading run config: %w", err)
	}
	if workerCount > 0 {
		rc.Workers = workerCount
	}
	if logLevel != "" {
		rc.LogLevel = logLevel
	}
	if resultsDir != "" {
		rc.ResultsDir = resultsDir
	}

	level, err := logrus.ParseLevel(rc.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", rc.LogLevel, err)
	}
	logrus.SetLevel(level)

	f, err := os.Open(paramFile)
	if err != nil {
		return fmt.Errorf("opening parameter file: %w", err)
	}
	defer f.Close()

	raw, err := config.ParseParameterFile(f)
	if err != nil {
		return fmt.Errorf("parsing parameter file: %w", err)
	}

	jobs := make([]worker.Job, rc.Workers)
	var sel config.TestSelection
	for i := 0; i < rc.Workers; i++ {
		params, s, err := raw.ToParams(seed + int64(i))
		if err != nil {
			return fmt.Errorf("building parameters: %w", err)
		}
		sel = s
		jobs[i] = worker.Job{Params: params, Axis: transientAxis(s), NewDriver: driverFor(s)}
	}

	runID := uuid.NewString()
	rc.ResultsDir = filepath.Join(rc.ResultsDir, runID)

	logrus.Infof("Starting run %s: %d worker(s), seed=%d", runID, rc.Workers, seed)
	start := time.Now()
	outcomes := worker.Run(context.Background(), jobs, rc.RendezvousInterval)
	elapsed := time.Since(start)

	if err := os.MkdirAll(rc.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	if err := writeOutputs(rc, outcomes, sel, elapsed); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	logrus.Info("Simulation complete.")
	return nil
}

// transientAxis builds the log-spaced binning axis a driver's test needs,
// or nil for exciton diffusion (§4.8, unbinned).
func transientAxis(sel config.TestSelection) *kmc.TimeAxis {
	switch {
	case sel.ToF:
		return kmc.NewTimeAxis(sel.ToFTransientStart, sel.ToFExpirySeconds, sel.ToFPtsPerDecade)
	case sel.Dynamics:
		return kmc.NewTimeAxis(sel.DynamicsTransientStart, sel.DynamicsTransientEnd, sel.DynamicsPtsPerDecade)
	default:
		return nil
	}
}

// driverFor returns the constructor for the one driver TestSelection
// enabled (§4.7 mutual exclusion already validated in ToParams).
func driverFor(sel config.TestSelection) func() kmc.Driver {
	switch {
	case sel.ExcitonDiffusion:
		return func() kmc.Driver { return &drivers.ExcitonDiffusion{NTests: sel.NTests} }
	case sel.ToF:
		return func() kmc.Driver {
			return &drivers.TimeOfFlight{
				PolaronKind:     sel.ToFPolaronKind,
				InitialPolarons: sel.ToFInitialPolarons,
				ExpirySeconds:   sel.ToFExpirySeconds,
			}
		}
	case sel.IQE:
		return func() kmc.Driver {
			return &drivers.IQE{TimeCutoffS: sel.IQETimeCutoff, ExtractionMapOutput: sel.ExtractionMapOutput}
		}
	default:
		return func() kmc.Driver {
			return &drivers.Dynamics{
				InitialConcCM3:    sel.DynamicsInitialConcCM3,
				TransientStartS:   sel.DynamicsTransientStart,
				TransientEndS:     sel.DynamicsTransientEnd,
				ExtractionEnabled: sel.DynamicsExtraction,
			}
		}
	}
}

func writeOutputs(rc config.RunConfig, outcomes []worker.Outcome, sel config.TestSelection, elapsed time.Duration) error {
	for _, o := range outcomes {
		path := filepath.Join(rc.ResultsDir, fmt.Sprintf("results%d.txt", o.Index))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = results.WriteWorkerResults(f, elapsed, o.Sim, sel, o.Err)
		f.Close()
		if err != nil {
			return err
		}

		if sel.ExtractionMapOutput && o.Acc != nil && len(o.Acc.ExtractionMap) > 0 {
			mapPath := filepath.Join(rc.ResultsDir, fmt.Sprintf("extraction_map%d.txt", o.Index))
			mf, err := os.Create(mapPath)
			if err != nil {
				return err
			}
			err = results.WriteExtractionMap(mf, o.Acc.ExtractionMap)
			mf.Close()
			if err != nil {
				return err
			}
		}
	}

	summaryPath := filepath.Join(rc.ResultsDir, "analysis_summary.txt")
	sf, err := os.Create(summaryPath)
	if err != nil {
		return err
	}
	err = results.WriteSummary(sf, outcomes, sel, rc.Workers, elapsed)
	sf.Close()
	if err != nil {
		return err
	}

	succ := worker.Successful(outcomes)
	switch {
	case sel.ToF && len(succ) > 0:
		return writeTransients(rc, "ToF_average_transients.txt", succ)
	case sel.Dynamics && len(succ) > 0:
		return writeTransients(rc, "dynamics_average_transients.txt", succ)
	}
	return nil
}

func writeTransients(rc config.RunConfig, name string, succ []worker.Outcome) error {
	axis := succ[0].Sim.Acc.Axis
	if axis == nil {
		return nil
	}
	accs := make([]*kmc.Accumulators, len(succ))
	var volumeTotal float64
	for i, o := range succ {
		accs[i] = o.Acc
		volumeTotal += results.VolumeCM3(o.Sim)
	}
	f, err := os.Create(filepath.Join(rc.ResultsDir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	if name == "ToF_average_transients.txt" {
		return results.WriteToFTransients(f, axis, accs, volumeTotal)
	}
	return results.WriteDynamicsTransients(f, axis, accs, volumeTotal)
}
