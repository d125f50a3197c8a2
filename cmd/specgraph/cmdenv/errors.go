package cmdenv

import (
	"errors"
	"fmt"
	"io"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

// SilentError makes a command exit non-zero without printing anything
// further. Its output has already been written.
type SilentError struct {
	Err error
}

func (e SilentError) Error() string { return e.Err.Error() }
func (e SilentError) Unwrap() error { return e.Err }

// ErrorOutput is the JSON shape of a failed command.
type ErrorOutput struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code and message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PrintError renders err for the given output format. JSON errors go to
// stdout so callers can parse them; text errors go to stderr.
func PrintError(stdout, stderr io.Writer, output string, err error) {
	if err == nil || errors.As(err, new(SilentError)) {
		return
	}

	if output == OutputJSON {
		_ = WriteJSON(stdout, ErrorOutput{Error: ErrorBody{
			Code:    spec.ErrorCode(err),
			Message: err.Error(),
		}})
		return
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
}
