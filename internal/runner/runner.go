// internal/runner/runner.go
package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/julianshen/meteofetch/internal/buffer"
	"github.com/julianshen/meteofetch/internal/integrations"
	"github.com/julianshen/meteofetch/internal/request"
	"github.com/julianshen/meteofetch/internal/sanitize"
)

// Stage is a step of the fetch pipeline.
type Stage int

// Pipeline stages in the order a successful run reaches them. StageDone
// and StageFailed are terminal.
const (
	StageInit Stage = iota
	StageValidated
	StageURLBuilt
	StageRequested
	StageParsed
	StageSanitized
	StageDone
	StageFailed
)

var stageNames = map[Stage]string{
	StageInit:      "init",
	StageValidated: "validated",
	StageURLBuilt:  "url_built",
	StageRequested: "requested",
	StageParsed:    "parsed",
	StageSanitized: "sanitized",
	StageDone:      "done",
	StageFailed:    "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// StageError records which step failed. Stage is the stage the pipeline was
// trying to reach; Source is the file:line where the failure was detected.
type StageError struct {
	Stage  Stage
	Source string
	Err    error
}

var stageActions = map[Stage]string{
	StageValidated: "invalid configuration",
	StageURLBuilt:  "failed to construct URL",
	StageRequested: "failed to perform API request",
	StageParsed:    "failed to process JSON response",
	StageSanitized: "failed to sanitize JSON response",
}

func (e *StageError) Error() string {
	action, ok := stageActions[e.Stage]
	if !ok {
		action = "failed at " + e.Stage.String()
	}
	return fmt.Sprintf("%s: %v", action, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Fetcher streams the body of one authenticated GET into a sink.
type Fetcher interface {
	Fetch(ctx context.Context, url string, creds request.Credentials, sink integrations.Sink) error
}

// Limits bounds the resources a single run may use.
type Limits struct {
	MaxURLLength      int
	InitialBufferSize int
	MaxResponseSize   int
}

// DefaultLimits returns the stock URL and buffer limits.
func DefaultLimits() Limits {
	return Limits{
		MaxURLLength:      request.DefaultMaxURLLength,
		InitialBufferSize: buffer.DefaultInitialCapacity,
		MaxResponseSize:   buffer.DefaultMaxCapacity,
	}
}

// Result is the outcome of a successful run.
type Result struct {
	URL      string
	Document *sanitize.Document
	Bytes    int
	Duration time.Duration
}

// Runner executes the validate, build, fetch, parse, sanitize pipeline for
// a single request. A Runner is used once; it is not safe for concurrent use.
type Runner struct {
	fetcher Fetcher
	limits  Limits
	log     zerolog.Logger
	stage   Stage
}

// New creates a Runner that fetches through fetcher.
func New(fetcher Fetcher, limits Limits, log zerolog.Logger) *Runner {
	return &Runner{
		fetcher: fetcher,
		limits:  limits,
		log:     log,
		stage:   StageInit,
	}
}

// Stage returns the stage the pipeline last reached.
func (r *Runner) Stage() Stage {
	return r.stage
}

// Run executes the pipeline. On failure it returns a *StageError and no
// result; the response buffer is released on every path.
func (r *Runner) Run(ctx context.Context, cfg request.RequestConfig) (*Result, error) {
	if r.stage != StageInit {
		return nil, fmt.Errorf("runner already used (stage %s)", r.stage)
	}
	start := time.Now()

	if err := request.Validate(cfg); err != nil {
		return nil, r.fail(StageValidated, err)
	}
	r.advance(StageValidated)

	url, err := request.BuildURL(cfg, r.limits.MaxURLLength)
	if err != nil {
		return nil, r.fail(StageURLBuilt, err)
	}
	r.advance(StageURLBuilt)

	buf, err := buffer.New(r.limits.InitialBufferSize, r.limits.MaxResponseSize)
	if err != nil {
		return nil, r.fail(StageRequested, err)
	}
	defer buf.Release()

	if err := r.fetcher.Fetch(ctx, url, cfg.Credentials(), buf); err != nil {
		return nil, r.fail(StageRequested, err)
	}
	size := buf.Len()
	r.advance(StageRequested)

	doc, err := sanitize.Parse(buf.Bytes())
	if err != nil {
		return nil, r.fail(StageParsed, err)
	}
	r.advance(StageParsed)

	sanitize.Strip(doc)
	r.advance(StageSanitized)

	r.advance(StageDone)
	return &Result{
		URL:      url,
		Document: doc,
		Bytes:    size,
		Duration: time.Since(start),
	}, nil
}

func (r *Runner) advance(s Stage) {
	r.stage = s
	r.log.Debug().Stringer("stage", s).Msg("Pipeline stage reached")
}

func (r *Runner) fail(s Stage, err error) error {
	r.stage = StageFailed
	return &StageError{Stage: s, Source: callerSource(2), Err: err}
}

// callerSource returns the base file name and line skip frames up.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
