package render

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/uiloop/pkg/report"
	"github.com/ormasoftchile/uiloop/pkg/schema"
)

func intp(n int) *int { return &n }

func TestReport_Pass(t *testing.T) {
	action := schema.ActionSpec{Target: schema.ElementRef{Selector: "#submit"}, Type: schema.ActionClick}
	loop := schema.LoopSpec{Type: schema.LoopFor, Iterations: intp(2)}
	evidence := []report.IterationRecord{
		report.Record(1, action, schema.LoopFor),
		report.Record(2, action, schema.LoopFor),
	}

	out := Report(report.Build(2, loop, action, evidence))
	for _, want := range []string{"PASS", "for ×2", "click #submit", "Performed for-loop iteration 1", "2 iterations"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReport_Fail(t *testing.T) {
	action := schema.ActionSpec{Target: schema.ElementRef{Selector: "#field"}, Type: schema.ActionFill, Value: "x"}
	loop := schema.LoopSpec{
		Type:  schema.LoopWhile,
		Until: &schema.StopCondition{Target: schema.ElementRef{Selector: "#done"}, Assertion: schema.ToBeVisible, Negate: true},
	}

	out := Report(report.Build(0, loop, action, nil))
	for _, want := range []string{"FAIL", "while until #done not toBeVisible", `fill #field "x"`, "no iterations"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
