package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kmc-sim/kmc-sim/kmc"
)

// Job describes one trajectory to run: a validated parameter tree, an
// optional transient time axis, and a constructor for the driver that
// seeds and terminates it (§4.7). NewDriver is called once per job, on
// the job's own goroutine, so two jobs never share a driver instance.
type Job struct {
	Params    kmc.Params
	Axis      *kmc.TimeAxis
	NewDriver func() kmc.Driver
}

// Outcome is one trajectory's result after Run returns.
type Outcome struct {
	Index int
	Sim   *kmc.Simulator
	Acc   *kmc.Accumulators
	Err   error
}

// abortFlag is the cooperative-abort signal shared by every trajectory
// in one Run call: any worker hitting an unrecoverable error sets it,
// and every other worker checks it at its own next rendezvous (§5).
type abortFlag struct{ v atomic.Bool }

func (a *abortFlag) set()      { a.v.Store(true) }
func (a *abortFlag) isSet() bool { return a.v.Load() }

// Run executes every job on its own goroutine and blocks until all have
// stopped — the barrier separating the simulation phase from reduction
// (§5). rendezvousEvery is K, the executed-event cadence at which each
// worker checks for a peer's abort; the default run parameter is 5e5.
func Run(ctx context.Context, jobs []Job, rendezvousEvery uint64) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	var abort abortFlag
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			sim := kmc.NewSimulator(job.Params, job.Axis)
			d := job.NewDriver()
			err := runTrajectory(ctx, sim, d, rendezvousEvery, &abort)
			if err != nil {
				abort.set()
			}
			outcomes[i] = Outcome{Index: i, Sim: sim, Acc: sim.Acc, Err: err}
		}(i, job)
	}
	wg.Wait()
	return outcomes
}

// runTrajectory drives sim one event at a time rather than through
// kmc.Simulator.Run, so it can interleave the rendezvous check between
// steps (§5 "no suspension or cooperative yielding occurs inside a
// trajectory" — the yield point this package adds sits between events,
// never inside one).
func runTrajectory(ctx context.Context, sim *kmc.Simulator, d kmc.Driver, rendezvousEvery uint64, abort *abortFlag) error {
	if err := d.Seed(sim); err != nil {
		return err
	}
	var lastCheck uint64
	for !d.IsFinished(sim) {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := sim.Step()
		if err != nil {
			return err
		}
		if done {
			break
		}
		if sim.EventCount-lastCheck >= rendezvousEvery {
			lastCheck = sim.EventCount
			if abort.isSet() {
				return errAborted
			}
		}
	}
	return nil
}
