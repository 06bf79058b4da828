// Package worker coordinates multiple independent trajectories (§5):
// one goroutine per trajectory, a periodic rendezvous every K executed
// events to detect and propagate an abort, and a reduction stage (sum,
// gather) once every worker has stopped. There is no shared mutable
// state between trajectories; each owns its own kmc.Simulator.
package worker
