package orchestrator

// Stage identifies which part of a scan failed. Check-level failures never
// appear here: the engine absorbs those inside the container.
type Stage string

const (
	StageInfra           Stage = "INFRA_ERROR"
	StageFetch           Stage = "FETCH_ERROR"
	StageTimeout         Stage = "TIMEOUT"
	StageMissingOutput   Stage = "MISSING_OUTPUT"
	StageMalformedOutput Stage = "MALFORMED_OUTPUT"
)

// Error is the structured, terminal failure of one scan job. Logs carries
// the scanner container's captured output when it was available, so callers
// can diagnose a failure without access to the (already torn down) job.
type Error struct {
	Stage Stage
	Msg   string
	Logs  string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }
