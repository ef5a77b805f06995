package enums

// AnalysisPhase labels the steps of the message analysis pipeline.
type AnalysisPhase string

const (
	AnalysisPhaseIdle        AnalysisPhase = "idle"
	AnalysisPhasePreparing   AnalysisPhase = "preparing"
	AnalysisPhaseUnderstand  AnalysisPhase = "understanding"
	AnalysisPhaseStructuring AnalysisPhase = "structuring"
	AnalysisPhaseValidating  AnalysisPhase = "validating"
	AnalysisPhaseDone        AnalysisPhase = "done"
	AnalysisPhaseCancelled   AnalysisPhase = "cancelled"
	AnalysisPhaseErrored     AnalysisPhase = "errored"
)

// String implements fmt.Stringer.
func (a AnalysisPhase) String() string {
	return string(a)
}

// Terminal reports whether the phase ends a run.
func (a AnalysisPhase) Terminal() bool {
	switch a {
	case AnalysisPhaseDone, AnalysisPhaseCancelled, AnalysisPhaseErrored:
		return true
	}
	return false
}
