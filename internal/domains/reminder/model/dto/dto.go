package dto

// SweepResult summarizes one reminder sweep. Errors carries one entry per
// failed dispatch so a single bad address never hides the rest of the run.
type SweepResult struct {
	TotalConsidered int      `json:"total_considered"`
	SuccessCount    int      `json:"success_count"`
	FailureCount    int      `json:"failure_count"`
	Errors          []string `json:"errors,omitempty"`
}
