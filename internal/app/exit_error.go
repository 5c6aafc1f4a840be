package app

import "errors"

// Process exit codes.
const (
	ExitRuntime = 1
	ExitUsage   = 2
)

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func ExitWithError(code int, err error) error {
	return ExitError{Code: code, Err: err}
}

func usageError(err error) error {
	return ExitWithError(ExitUsage, err)
}

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitRuntime
}
