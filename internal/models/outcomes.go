package models

// Outcome distinguishes soft results of a mutation
type Outcome string

const (
	OutcomeApplied          Outcome = "applied"
	OutcomeRejectedReadonly Outcome = "rejected_readonly"
	OutcomeNoChange         Outcome = "no_change"
)

// ChangeResult reports what a membership or window change did. Soft
// failures are carried here instead of as errors.
type ChangeResult struct {
	Outcome Outcome  `json:"outcome"`
	Count   int      `json:"count"`
	Applied []string `json:"applied,omitempty"`
	Skipped []string `json:"skipped,omitempty"`
}

// Rejected reports whether the change was refused outright.
func (r ChangeResult) Rejected() bool {
	return r.Outcome == OutcomeRejectedReadonly
}

// IngestOutcome is the per-ticker result of fetching and merging points
type IngestOutcome struct {
	Ticker   string `json:"ticker"`
	Fetched  int    `json:"fetched"`
	Inserted int    `json:"inserted"`
	Error    string `json:"error,omitempty"`
}

// Failed reports whether this ticker produced no usable data.
func (o IngestOutcome) Failed() bool {
	return o.Error != ""
}
