// Package drivers implements the four experiment modes of §4.7: each
// configures a Simulator's initial conditions, supplies a termination
// condition, and leaves the engine's own accumulators to record
// observables. A driver never reaches into Simulator internals beyond
// the exported surface kmc.Simulator offers; it is a thin policy layer
// on top of the engine, the same separation the teacher draws between
// sim.Scheduler and the workload generators that seed it.
package drivers
