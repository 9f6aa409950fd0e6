package solver

// Verdict is the outcome of one security check against a single
// labeling: whether the circuit is secure at the checked order, and,
// when it is not, the witness set of probed gates the solver found
// that together observe a secret-dependent, mask-independent value.
//
// CNF and Model carry the assembled query and, when SAT, its satisfying
// assignment, for callers that want to persist a debug dump alongside
// the verdict; neither is needed to interpret Secure/Witness.
type Verdict struct {
	Secure  bool
	Witness []string
	CNF     *CNF
	Model   Result
}
