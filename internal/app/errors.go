package service

// unavailableError marks failures that clear once the service runs.
type unavailableError string

func (e unavailableError) Error() string { return string(e) }

// Unavailable reports that the request may be retried later.
func (unavailableError) Unavailable() bool { return true }

// Sentinel errors returned by the service.
var (
	ErrNotStarted error = unavailableError("service not started")
)
