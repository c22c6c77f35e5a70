// Package loop implements the bounded loop execution engine: it drives
// one of three iteration disciplines (for, while, do-while) against an
// action executor and a condition evaluator, accumulating evidence for
// every completed iteration.
package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/ormasoftchile/uiloop/pkg/page"
	"github.com/ormasoftchile/uiloop/pkg/report"
	"github.com/ormasoftchile/uiloop/pkg/schema"
	"github.com/ormasoftchile/uiloop/pkg/trace"
)

const (
	// forIterationDelay paces DOM-mutating actions in fixed-count loops
	// so the page can settle before the next action queries it.
	forIterationDelay = 300 * time.Millisecond

	// conditionLoopDelay is the pause between condition-driven iterations.
	conditionLoopDelay = 100 * time.Millisecond
)

// RunConfig configures a loop execution.
type RunConfig struct {
	RunID   string
	Trace   *trace.Writer // nil disables tracing
	Session page.Session  // optional completion scope

	// Now and Sleep are injectable for tests; nil uses the real clock
	// and a context-aware sleep.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Engine executes loop requests.
type Engine struct {
	actions    page.ActionExecutor
	conditions page.ConditionEvaluator
	cfg        RunConfig
}

// New creates an engine bound to the given collaborators.
func New(actions page.ActionExecutor, conditions page.ConditionEvaluator, cfg RunConfig) *Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepCtx
	}
	return &Engine{
		actions:    actions,
		conditions: conditions,
		cfg:        cfg,
	}
}

// Run validates the request and drives the selected discipline to
// completion. Condition-never-met and bound-exceeded are normal
// termination and yield a report; a malformed request or a collaborator
// failure aborts immediately with an error and no report.
func (e *Engine) Run(ctx context.Context, req *schema.Request) (*report.Report, error) {
	if errs := schema.ValidateDomain(req); schema.HasErrors(errs) {
		for _, ve := range errs {
			if ve.Severity == "error" {
				return nil, ve
			}
		}
	}

	if e.cfg.Session != nil {
		release, err := e.cfg.Session.WaitForCompletion(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire completion scope: %w", err)
		}
		defer release()
	}

	maxIterations := req.Limits.MaxIterationsOrDefault()
	if e.cfg.Trace != nil {
		e.cfg.Trace.EmitLoopStart(string(req.Loop.Type), maxIterations)
	}

	start := e.cfg.Now()
	var (
		count    int
		evidence []report.IterationRecord
		err      error
	)

	switch req.Loop.Type {
	case schema.LoopFor:
		count, evidence, err = e.runFor(ctx, req)
	case schema.LoopWhile:
		count, evidence, err = e.runWhile(ctx, req, maxIterations, start)
	case schema.LoopDoWhile:
		count, evidence, err = e.runDoWhile(ctx, req, maxIterations, start)
	default:
		// Unreachable after domain validation.
		err = &schema.ValidationError{
			Phase:    "domain",
			Path:     "loop.type",
			Message:  fmt.Sprintf("unsupported loop type %q", req.Loop.Type),
			Severity: "error",
		}
	}
	if err != nil {
		return nil, err
	}

	rep := report.Build(count, req.Loop, req.Action, evidence)
	if e.cfg.Trace != nil {
		e.cfg.Trace.EmitLoopComplete(count, rep.Summary.Status, e.cfg.Now().Sub(start))
	}
	return rep, nil
}

// runFor repeats the action exactly Iterations times, unconditionally,
// with a fixed settle delay between iterations.
func (e *Engine) runFor(ctx context.Context, req *schema.Request) (int, []report.IterationRecord, error) {
	n := *req.Loop.Iterations
	var evidence []report.IterationRecord

	for i := 1; i <= n; i++ {
		if err := e.performAction(ctx, req.Action); err != nil {
			return 0, nil, err
		}
		evidence = append(evidence, e.record(i, req))
		if i < n {
			if err := e.cfg.Sleep(ctx, forIterationDelay); err != nil {
				return 0, nil, err
			}
		}
	}
	return n, evidence, nil
}

// runWhile pre-checks: safety bounds and stop condition are evaluated at
// the top of each cycle, before any action runs for that cycle.
func (e *Engine) runWhile(ctx context.Context, req *schema.Request, maxIterations int, start time.Time) (int, []report.IterationRecord, error) {
	var evidence []report.IterationRecord
	count := 0

	for {
		if count >= maxIterations {
			break
		}
		if e.cfg.Now().Sub(start) >= page.AttachTimeout {
			break
		}
		met, err := e.evalCondition(ctx, req.Loop.Until)
		if err != nil {
			return 0, nil, err
		}
		if met {
			break
		}

		if err := e.performAction(ctx, req.Action); err != nil {
			return 0, nil, err
		}
		count++
		evidence = append(evidence, e.record(count, req))
		if err := e.cfg.Sleep(ctx, conditionLoopDelay); err != nil {
			return 0, nil, err
		}
	}
	return count, evidence, nil
}

// runDoWhile post-checks: the action always runs before the stop
// condition is evaluated, so a started loop performs at least one action.
func (e *Engine) runDoWhile(ctx context.Context, req *schema.Request, maxIterations int, start time.Time) (int, []report.IterationRecord, error) {
	var evidence []report.IterationRecord
	count := 0

	for {
		if err := e.performAction(ctx, req.Action); err != nil {
			return 0, nil, err
		}
		count++
		evidence = append(evidence, e.record(count, req))
		if err := e.cfg.Sleep(ctx, conditionLoopDelay); err != nil {
			return 0, nil, err
		}

		met, err := e.evalCondition(ctx, req.Loop.Until)
		if err != nil {
			return 0, nil, err
		}
		if met {
			break
		}
		if count >= maxIterations {
			break
		}
		if e.cfg.Now().Sub(start) >= page.AttachTimeout {
			break
		}
	}
	return count, evidence, nil
}

// performAction locates the action target and dispatches the interaction.
func (e *Engine) performAction(ctx context.Context, a schema.ActionSpec) error {
	loc, err := e.actions.Locate(ctx, a.Target)
	if err != nil {
		return err
	}

	switch a.Type {
	case schema.ActionClick:
		return loc.Click(ctx)
	case schema.ActionHover:
		return loc.Hover(ctx)
	case schema.ActionFill:
		return loc.Fill(ctx, a.Value)
	case schema.ActionPress:
		return loc.Press(ctx, a.Value)
	default:
		// Unreachable after domain validation.
		return &schema.ValidationError{
			Phase:    "domain",
			Path:     "action.type",
			Message:  fmt.Sprintf("unsupported action type %q", a.Type),
			Severity: "error",
		}
	}
}

// evalCondition locates the condition target, evaluates the assertion,
// and applies negation.
func (e *Engine) evalCondition(ctx context.Context, c *schema.StopCondition) (bool, error) {
	loc, err := e.conditions.Locate(ctx, c.Target)
	if err != nil {
		return false, err
	}

	var met bool
	switch c.Assertion {
	case schema.ToBeVisible:
		met, err = loc.IsVisible(ctx)
	case schema.ToBeHidden:
		met, err = loc.IsHidden(ctx)
	case schema.ToBeEnabled:
		met, err = loc.IsEnabled(ctx)
	case schema.ToBeDisabled:
		met, err = loc.IsDisabled(ctx)
	default:
		// Unreachable after domain validation.
		return false, &schema.ValidationError{
			Phase:    "domain",
			Path:     "loop.until.assertion",
			Message:  fmt.Sprintf("unsupported assertion type %q", c.Assertion),
			Severity: "error",
		}
	}
	if err != nil {
		return false, err
	}

	if c.Negate {
		met = !met
	}
	if e.cfg.Trace != nil {
		e.cfg.Trace.EmitConditionEval(string(c.Assertion), c.Negate, met)
	}
	return met, nil
}

func (e *Engine) record(iteration int, req *schema.Request) report.IterationRecord {
	rec := report.Record(iteration, req.Action, req.Loop.Type)
	if e.cfg.Trace != nil {
		e.cfg.Trace.EmitIteration(iteration, string(req.Action.Type), req.Action.Target.Selector)
	}
	return rec
}

// sleepCtx waits for the duration or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
