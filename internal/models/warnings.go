package models

// WarningCode categorizes warnings by subsystem.
// W2xxx = market data fetch/ingest, W3xxx = membership changes.
type WarningCode string

const (
	WarnFetchFailed       WarningCode = "W2001" // provider returned nothing or errored for the whole request
	WarnTickerFetchFailed WarningCode = "W2002" // one ticker failed; the others were ingested
	WarnIngestFailed      WarningCode = "W2003" // rows fetched but could not be stored
	WarnDuplicateSkipped  WarningCode = "W3001" // ticker already a member
	WarnTickerNotPresent  WarningCode = "W3002" // removal of a ticker that is not a member
	WarnReadonlyPortfolio WarningCode = "W3003" // change refused because the portfolio is read-only
	WarnEndDateDefaulted  WarningCode = "W3004" // interday end date omitted and set to today
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
