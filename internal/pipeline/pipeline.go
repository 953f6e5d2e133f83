package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/postlabor/triage/internal/logger"
)

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially. The pipeline is
// strictly non-branching: each stage is a total function over the
// previous stage's output, and the first failure aborts the run.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewBuildPipeline creates the standard five-stage pipeline that turns
// the raw CAINC4 file into the triage table:
// ingest, extract, aggregate, filter, load.
func NewBuildPipeline() *Pipeline {
	return NewPipeline(
		&IngestStep{},
		&ExtractComponentsStep{},
		&AggregateStep{},
		&QualityFilterStep{},
		&LoadStep{},
	)
}

// BuildTriage runs the standard build pipeline over state. It assigns
// a run ID (unless the caller set one) and tags every log line of the
// run with it. One run targets one reporting year; multi-year data
// means repeated invocations.
func BuildTriage(ctx context.Context, state *State) error {
	if state.RunID == "" {
		state.RunID = uuid.NewString()
	}
	state.Log = logger.WithRun(state.Log, state.RunID)

	state.Log.Info().
		Str("source", state.SourcePath).
		Int("year", state.Year).
		Float64("threshold", state.Threshold).
		Msg("Starting triage build")

	return NewBuildPipeline().Execute(ctx, state)
}
