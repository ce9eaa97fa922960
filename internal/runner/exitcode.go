package runner

import (
	"errors"
	"fmt"

	"github.com/julianshen/meteofetch/internal/buffer"
	"github.com/julianshen/meteofetch/internal/config"
	"github.com/julianshen/meteofetch/internal/integrations"
	"github.com/julianshen/meteofetch/internal/output"
	"github.com/julianshen/meteofetch/internal/request"
	"github.com/julianshen/meteofetch/internal/sanitize"
)

// ExitError is returned when the CLI should exit with a specific code.
// Using a typed error instead of os.Exit ensures deferred cleanup runs.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to a process exit status: 0 for nil, the code of
// an ExitError, and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Error kinds reported by Kind.
const (
	KindConfig     = "config"
	KindURL        = "url"
	KindAllocation = "allocation"
	KindCapacity   = "capacity"
	KindNetwork    = "network"
	KindJSON       = "json"
	KindUnknown    = "unknown"
)

// Kind classifies err for diagnostics.
func Kind(err error) string {
	var netErr *integrations.NetworkError
	var parseErr *sanitize.ParseError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, request.ErrMissingCredentials),
		errors.Is(err, config.ErrMissingEnv),
		errors.Is(err, config.ErrInvalid):
		return KindConfig
	case errors.Is(err, request.ErrURLTooLong):
		return KindURL
	case errors.Is(err, buffer.ErrAllocation):
		return KindAllocation
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.Is(err, buffer.ErrCapacityExceeded):
		return KindCapacity
	case errors.As(err, &parseErr), errors.Is(err, output.ErrFormat):
		return KindJSON
	default:
		return KindUnknown
	}
}
