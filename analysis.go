package deckparse

import "context"

// Analysis is the structured startup profile derived from the extracted
// text. Every field except Name is nullable: the model only fills what the
// deck actually states. The diagnostic fields (Error, ErrorKind,
// RawResponse) are present only on degraded results.
type Analysis struct {
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	CEOName         *string  `json:"ceo_name"`
	Sector          *string  `json:"sector"`
	BusinessModel   *string  `json:"business_model"`
	City            *string  `json:"city"`
	State           *string  `json:"state"`
	Website         *string  `json:"website"`
	MRR             *float64 `json:"mrr"`
	ClientCount     *int     `json:"client_count"`
	ProblemSolution *string  `json:"problem_solution"`
	Differentials   *string  `json:"differentials"`
	Competitors     *string  `json:"competitors"`
	Market          *string  `json:"market"`

	Error       string `json:"error,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

// Error kinds reported on degraded analyses.
const (
	ErrKindNotConfigured = "not_configured" // no API credential available
	ErrKindAPI           = "api"            // the model call failed
	ErrKindParse         = "parse"          // the model response was not valid JSON
)

// Analyzer turns extracted pitch deck text into an Analysis.
//
// Analyze never fails: credential, network, and parse problems are folded
// into a degraded Analysis carrying diagnostic fields. The returned Name
// always equals startupName verbatim.
type Analyzer interface {
	Analyze(ctx context.Context, text, startupName string) *Analysis
}

// Record is the sole output of a run: the extraction outcome plus its
// analysis. It is immutable once constructed.
type Record struct {
	Extraction
	Analysis *Analysis `json:"analysis"`
}

// ErrorRecord is the JSON object emitted on a hard failure (malformed
// invocation, unreadable path, uncaught top-level error). Its
// extraction_method is the literal "failed", outside the Method enum.
type ErrorRecord struct {
	Error            string    `json:"error"`
	ExtractedText    string    `json:"extracted_text"`
	ExtractionMethod string    `json:"extraction_method"`
	Analysis         *Analysis `json:"analysis"`
}

// NewErrorRecord builds the hard-failure record for a startup name and error.
func NewErrorRecord(startupName string, err error) *ErrorRecord {
	return &ErrorRecord{
		Error:            ErrorMessage(err),
		ExtractedText:    "",
		ExtractionMethod: "failed",
		Analysis: &Analysis{
			Name:  startupName,
			Error: ErrorMessage(err),
		},
	}
}
