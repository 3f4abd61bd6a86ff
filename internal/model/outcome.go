package model

// Outcome records how an engine arrived at its result, so callers can tell
// "no duplicates found" apart from "the duplicate check errored and returned
// its safe default".
type Outcome string

const (
	OutcomeOK       Outcome = "ok"       // Result computed normally
	OutcomeDegraded Outcome = "degraded" // A sub-step failed; the result fell back to a safe default
	OutcomeFailed   Outcome = "failed"   // Nothing usable was computed; the result is entirely default
)
