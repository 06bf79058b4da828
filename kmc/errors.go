package kmc

import "fmt"

// ErrorKind classifies a runtime error raised while a trajectory is
// executing. Parameter and morphology errors are not ErrorKinds: those
// are surfaced by package config before a Simulator is ever constructed.
type ErrorKind int

const (
	// ErrRateInvalid marks a rate law that produced NaN or +Inf.
	ErrRateInvalid ErrorKind = iota
	// ErrQueueEmpty marks an event queue that ran dry while particles
	// were still live.
	ErrQueueEmpty
	// ErrNegativeWait marks a sampled Δt that came out negative.
	ErrNegativeWait
	// ErrOccupancyViolation marks a double-occupancy or dangling
	// occupant reference detected by an invariant check.
	ErrOccupancyViolation
	// ErrDriverMisconfigured marks a driver precondition that can never
	// be satisfied (e.g. zero-field time-of-flight under periodic z).
	ErrDriverMisconfigured
)

func (k ErrorKind) String() string {
	switch k {
	case ErrRateInvalid:
		return "rate_invalid"
	case ErrQueueEmpty:
		return "queue_empty"
	case ErrNegativeWait:
		return "negative_wait"
	case ErrOccupancyViolation:
		return "occupancy_violation"
	case ErrDriverMisconfigured:
		return "driver_misconfigured"
	default:
		return "unknown"
	}
}

// SimError records a runtime error within a trajectory. It is attached to
// the Simulator rather than returned from Run, so the scheduler loop can
// exit cleanly and the error can be propagated at the next worker
// rendezvous (§5/§7).
type SimError struct {
	Kind    ErrorKind
	Message string
	TNow    float64
}

func (e *SimError) Error() string {
	return fmt.Sprintf("%s at t=%g: %s", e.Kind, e.TNow, e.Message)
}

func newSimError(kind ErrorKind, tNow float64, format string, args ...interface{}) *SimError {
	return &SimError{Kind: kind, Message: fmt.Sprintf(format, args...), TNow: tNow}
}
