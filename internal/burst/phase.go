package burst

// Phase is one stage of the coordinated operation cycle. The cycle is
// strictly Produce → Trigger → Race → Cleanup → Produce.
type Phase uint32

const (
	// PhaseProduce: the producer is creating compact artifacts.
	PhaseProduce Phase = iota
	// PhaseTrigger: the coordinator is issuing the non-blocking flush hint.
	PhaseTrigger
	// PhaseRace: racers are expanding artifacts against the in-flight flush.
	PhaseRace
	// PhaseCleanup: the producer is closing and removing the batch.
	PhaseCleanup
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseProduce:
		return "produce"
	case PhaseTrigger:
		return "trigger"
	case PhaseRace:
		return "race"
	case PhaseCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// Next returns the phase that follows p in the cycle.
func (p Phase) Next() Phase {
	return (p + 1) % 4
}
