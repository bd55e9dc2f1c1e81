package technique

// Techniques below need more than one exercise or non-rep tracking. They
// fall back to the plain prescription so the set list still renders.

func unsupported(p prescription, reason string) Result {
	return Result{
		VirtualSets:       plainSets(p),
		IsSupported:       false,
		UnsupportedReason: reason,
	}
}

func (Superset) expand(p prescription) Result {
	return unsupported(p, "Requires pairing with another exercise")
}

func (GiantSet) expand(p prescription) Result {
	return unsupported(p, "Requires three or more exercises performed back to back")
}

func (TopSetBackoff) expand(p prescription) Result {
	return unsupported(p, "Requires separate load prescriptions for the top set and back-off sets")
}

func (Pyramid) expand(p prescription) Result {
	return unsupported(p, "Requires a per-set load and rep ladder")
}

func (MechanicalDropSet) expand(p prescription) Result {
	return unsupported(p, "Requires switching between exercise variations")
}

func (LoadedStretching) expand(p prescription) Result {
	return unsupported(p, "Timed stretch holds cannot be expressed as rep-based sets")
}

func (ForcedReps) expand(p prescription) Result {
	return unsupported(p, "Requires a training partner to assist the final reps")
}

func (PreExhaust) expand(p prescription) Result {
	return unsupported(p, "Requires pairing with an isolation exercise performed first")
}

func (LengthenedPartials) expand(p prescription) Result {
	return unsupported(p, "Partial-range reps are tracked outside the set list")
}
