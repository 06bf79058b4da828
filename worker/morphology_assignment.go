package worker

import "math/rand"

// AssignMorphologySet distributes nTestMorphologies drawn from a set of
// setSize candidate morphologies across nWorkers, so repeated morphology
// indices only appear once the full test set has been exhausted. This is
// the rendezvous-free, single-process counterpart of the reference
// implementation's rank-0 selection-and-broadcast step: select
// nTestMorphologies distinct indices by shuffling [0,setSize), then hand
// each worker one index off the back of a shuffled copy of that
// selection, reshuffling and refilling whenever the copy runs dry.
func AssignMorphologySet(rng *rand.Rand, setSize, nTestMorphologies, nWorkers int) []int {
	pool := make([]int, setSize)
	for i := range pool {
		pool[i] = i
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if nTestMorphologies > len(pool) {
		nTestMorphologies = len(pool)
	}
	selection := append([]int(nil), pool[:nTestMorphologies]...)

	assigned := make([]int, nWorkers)
	var set []int
	for w := 0; w < nWorkers; w++ {
		if len(set) == 0 {
			set = append([]int(nil), selection...)
			rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })
		}
		assigned[w] = set[len(set)-1]
		set = set[:len(set)-1]
	}
	return assigned
}
