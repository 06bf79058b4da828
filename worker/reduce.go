package worker

import "errors"

var errAborted = errors.New("worker: aborted after a peer reported an error")

// Successful filters out any Outcome whose trajectory errored: per §7,
// an errored trajectory's observables are excluded from every
// reduction, not silently folded in.
func Successful(outcomes []Outcome) []Outcome {
	out := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil {
			out = append(out, o)
		}
	}
	return out
}

// Errors returns every non-nil error across outcomes, for propagation
// into the summary file's error record (§7).
func Errors(outcomes []Outcome) []error {
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

// SumInt reduces an integer scalar across every successful outcome
// (§5 "sum (scalars ...)").
func SumInt(outcomes []Outcome, sel func(*Outcome) int) int {
	var total int
	for _, o := range Successful(outcomes) {
		o := o
		total += sel(&o)
	}
	return total
}

// SumFloat reduces a float64 scalar across every successful outcome.
func SumFloat(outcomes []Outcome, sel func(*Outcome) float64) float64 {
	var total float64
	for _, o := range Successful(outcomes) {
		o := o
		total += sel(&o)
	}
	return total
}

// MeanFloat is SumFloat normalized by the successful-outcome count, or 0
// if none succeeded.
func MeanFloat(outcomes []Outcome, sel func(*Outcome) float64) float64 {
	succ := Successful(outcomes)
	if len(succ) == 0 {
		return 0
	}
	var total float64
	for _, o := range succ {
		o := o
		total += sel(&o)
	}
	return total / float64(len(succ))
}

// Gather concatenates a variable-length float64 vector across every
// successful outcome (§5 "gather (concatenate variable-length
// vectors)").
func Gather(outcomes []Outcome, sel func(*Outcome) []float64) []float64 {
	var out []float64
	for _, o := range Successful(outcomes) {
		o := o
		out = append(out, sel(&o)...)
	}
	return out
}
