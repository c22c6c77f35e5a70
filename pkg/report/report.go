// Package report implements evidence records and the loop invocation
// report with its pass/fail verdict.
package report

import (
	"fmt"

	"github.com/ormasoftchile/uiloop/pkg/schema"
)

// IterationRecord is the evidence for one completed iteration. Records
// are append-only and ordered strictly by iteration number, one per
// successfully completed action.
type IterationRecord struct {
	Iteration int               `json:"iteration"`
	Action    schema.ActionSpec `json:"action"`
	Message   string            `json:"message"`
}

// Record builds the evidence record for a completed iteration.
// Iteration numbers are 1-based.
func Record(iteration int, action schema.ActionSpec, loopType schema.LoopType) IterationRecord {
	return IterationRecord{
		Iteration: iteration,
		Action:    action,
		Message:   fmt.Sprintf("Performed %s-loop iteration %d", loopType, iteration),
	}
}

// CheckResult is the single assertion emitted with every report.
type CheckResult struct {
	Type     string `json:"type"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
}

// Summary aggregates the run: counters, verdict, and ordered evidence.
type Summary struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Status   string            `json:"status"` // pass, fail
	Evidence []IterationRecord `json:"evidence"`
}

// Report is the complete invocation result. Derived once by Build and
// never mutated afterwards.
type Report struct {
	Action  schema.ActionSpec `json:"action"`
	Loop    schema.LoopSpec   `json:"loop"`
	Summary Summary           `json:"summary"`
	Checks  []CheckResult     `json:"checks"`
}

// Build derives the report from the final iteration count and the
// accumulated evidence. The verdict is pass iff at least one iteration
// completed; a loop that never ran is reported as fail regardless of
// discipline. Iterations that fail abort the invocation instead of
// producing a record, so Failed is always zero here.
func Build(count int, loop schema.LoopSpec, action schema.ActionSpec, evidence []IterationRecord) *Report {
	status := "fail"
	if count > 0 {
		status = "pass"
	}

	if evidence == nil {
		evidence = []IterationRecord{}
	}

	return &Report{
		Action: action,
		Loop:   loop,
		Summary: Summary{
			Total:    count,
			Passed:   count,
			Failed:   0,
			Status:   status,
			Evidence: evidence,
		},
		Checks: []CheckResult{buildCheck(count, loop)},
	}
}

// buildCheck emits the single loop check: fixed-count loops expect their
// iteration count, condition loops expect "condition met or
// maxIterations reached".
func buildCheck(count int, loop schema.LoopSpec) CheckResult {
	expected := "condition met or maxIterations reached"
	if loop.Type == schema.LoopFor && loop.Iterations != nil {
		expected = fmt.Sprintf("%d iterations", *loop.Iterations)
	}

	passed := count > 0
	msg := fmt.Sprintf("loop performed %d iterations", count)
	if !passed {
		msg = "loop performed no iterations"
	}

	return CheckResult{
		Type:     "loop",
		Expected: expected,
		Actual:   fmt.Sprintf("%d iterations", count),
		Passed:   passed,
		Message:  msg,
	}
}
