package kmc

// EventKind enumerates the event families of §4.4/§4.6, one per rate
// law. The numeric value is the "kind ordinal" used as the tertiary
// tie-break key in §4.5 step 1.
type EventKind int

const (
	EventHop EventKind = iota
	EventDissociation
	EventRecombinationGeminate
	EventRecombinationBimolecular
	EventAnnihilationEE
	EventAnnihilationEP
	EventISC
	EventRISC
	EventRelaxation
	EventCollection
	EventGeneration
)

func (k EventKind) String() string {
	switch k {
	case EventHop:
		return "hop"
	case EventDissociation:
		return "dissociation"
	case EventRecombinationGeminate:
		return "recombination_geminate"
	case EventRecombinationBimolecular:
		return "recombination_bimolecular"
	case EventAnnihilationEE:
		return "annihilation_ee"
	case EventAnnihilationEP:
		return "annihilation_ep"
	case EventISC:
		return "isc"
	case EventRISC:
		return "risc"
	case EventRelaxation:
		return "relaxation"
	case EventCollection:
		return "collection"
	case EventGeneration:
		return "generation"
	default:
		return "unknown"
	}
}

// Event is one candidate or scheduled action in the queue (§3). Subject
// is the particle that owns the event; Subject is NoParticle only for
// EventGeneration, which is lattice-wide rather than particle-owned.
type Event struct {
	Kind    EventKind
	Subject ParticleID
	// Target is the destination site for Hop/Dissociation/Recombination/
	// Annihilation events, or -1 when the event has no target site
	// (ISC, RISC, Relaxation, Collection, Generation).
	Target SiteID
	// Partner is the other particle involved in a two-particle event
	// (Recombination, Annihilation); NoParticle otherwise.
	Partner ParticleID

	TExec float64

	// stale marks an event that has been superseded by a regeneration
	// pass, or whose subject has been destroyed, but may still sit in the
	// heap; Simulator.Step skips these lazily as it pops them rather than
	// searching the heap to remove them (§9 design notes).
	stale bool
}
