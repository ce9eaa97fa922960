package runner

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianshen/meteofetch/internal/buffer"
	"github.com/julianshen/meteofetch/internal/config"
	"github.com/julianshen/meteofetch/internal/output"
	"github.com/julianshen/meteofetch/internal/sanitize"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 3, ExitCode(&ExitError{Code: 3}))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("wrapped: %w", &ExitError{Code: 2})))
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 1}
	assert.Equal(t, "exit code 1", err.Error())

	// Verify errors.As works for type matching.
	var exitErr *ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)

	inner := errors.New("inner")
	wrapped := &ExitError{Code: 1, Err: inner}
	assert.Equal(t, "exit code 1: inner", wrapped.Error())
	assert.ErrorIs(t, wrapped, inner)
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("x: %w", config.ErrMissingEnv), KindConfig},
		{fmt.Errorf("x: %w", config.ErrInvalid), KindConfig},
		{buffer.ErrAllocation, KindAllocation},
		{buffer.ErrCapacityExceeded, KindCapacity},
		{&sanitize.ParseError{Msg: "bad"}, KindJSON},
		{fmt.Errorf("%w: nil", output.ErrFormat), KindJSON},
		{errors.New("mystery"), KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), "error %v", tt.err)
	}
}
