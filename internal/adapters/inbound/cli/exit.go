package cli

// ExitError carries a specific process exit code across the cobra
// boundary. Errors without one exit with the operational code 2.
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string { return e.Msg }
