package agent

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/doomspork/luagents/agent"

// startRunSpan starts the span covering one Run call.
func (a *Agent) startRunSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	ctx, span := a.tracer.Start(ctx, "agent.run")
	span.SetAttributes(
		attribute.String("agent.name", a.name),
		attribute.String("agent.run_id", runID),
		attribute.String("agent.model", a.model.Info().Name),
		attribute.Int("agent.max_iterations", a.maxIterations),
		attribute.Int("agent.tools", len(a.tools)),
	)
	return ctx, span
}

// endRunSpan ends the run span with the number of iterations used.
func (a *Agent) endRunSpan(span trace.Span, iterations int, err error) {
	span.SetAttributes(attribute.Int("agent.iterations", iterations))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// startIterationSpan starts a span for one generate and execute cycle.
func (a *Agent) startIterationSpan(ctx context.Context, iteration int) (context.Context, trace.Span) {
	ctx, span := a.tracer.Start(ctx, "agent.iteration")
	span.SetAttributes(attribute.Int("iteration", iteration))
	return ctx, span
}

// endIterationSpan ends the iteration span with its outcome.
func (a *Agent) endIterationSpan(span trace.Span, outcome string, toolCalls int, err error) {
	span.SetAttributes(
		attribute.String("iteration.outcome", outcome),
		attribute.Int("iteration.tool_calls", toolCalls),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
