package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/replygraph/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the report filled in by
// the previous ones.
//
// Design decision: We use an interface rather than function types because:
// 1. Steps carry their own configuration (format, output path, database)
// 2. Name() gives every step a stable label for logs and PerformedSteps
// 3. Tests can swap any step for a stub without touching the CLI
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation and the report to fill in.
	// A failed crawl records its error in the report and also returns it,
	// so later steps can still see how far the crawl got.
	Do(ctx context.Context, report *model.CrawlReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to run the remaining steps
// after one fails. The errors are still returned by Execute, joined in step
// order.
//
// Design decision: The crawl command turns this on because a crawl that
// fails on page 40 still holds 39 pages of edges. The export and save steps
// then keep that partial table, and the caller still exits non-zero. The
// default stays off so a failing step stops the steps that depend on it.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// The first step error is recorded in the report. When continueOnError is
// false, Execute returns that error immediately and a cancelled context
// stops the run before the next step. Otherwise every step runs, so an
// interrupted or failed crawl is still exported and saved, and all step
// errors are returned joined.
func (p *Pipeline) Execute(ctx context.Context, report *model.CrawlReport) error {
	var errs []error

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil && !p.continueOnError {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			if report.Error == nil {
				report.SetError(err)
			}
			return err
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"videoID", report.VideoID,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"videoID", report.VideoID,
				"error", err,
			)

			if report.Error == nil {
				report.Error = err
				report.ErrorMessage = err.Error()
			}

			if !p.continueOnError {
				return err
			}
			errs = append(errs, err)
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"videoID", report.VideoID,
			)
		}

		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return errors.Join(errs...)
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
