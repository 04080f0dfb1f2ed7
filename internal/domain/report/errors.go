package report

import "errors"

// Report client errors
var (
	ErrNoEndpoint        = errors.New("report endpoint is not configured")
	ErrFetchFailed       = errors.New("failed to fetch report from endpoint")
	ErrNoCachedReport    = errors.New("no cached report available")
	ErrSubmissionFailed  = errors.New("failed to submit leave request")
	ErrUnknownSupervisor = errors.New("supervisor is not present in the report")
)
