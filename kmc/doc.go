// Package kmc implements a kinetic Monte Carlo engine for charge and
// exciton dynamics on a three-dimensional lattice of donor/acceptor sites.
//
// A Simulator owns exactly one trajectory: a lattice, a disorder-shaped
// energy landscape, a Coulomb field, a particle registry, and an event
// queue. Trajectories never share mutable state; running many of them in
// parallel and reducing their observables is the job of package worker.
package kmc
