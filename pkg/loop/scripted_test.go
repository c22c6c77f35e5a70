package loop

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ormasoftchile/uiloop/pkg/schema"
	"github.com/ormasoftchile/uiloop/pkg/scripted"
	"github.com/ormasoftchile/uiloop/pkg/trace"
)

// End-to-end runs against the scripted page using the shipped testdata
// documents, the same wiring the CLI and MCP server use.

func loadScripted(t *testing.T, specPath string) (*schema.Request, *scripted.Page) {
	t.Helper()
	req, errs := schema.ValidateFile(specPath)
	if schema.HasErrors(errs) {
		t.Fatalf("validate %s: %v", specPath, errs)
	}
	fx, err := scripted.LoadFixtureFile("../../testdata/pages/checkout.yaml")
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	pg, err := scripted.NewPage(fx)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	return req, pg
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestScripted_ForLoop(t *testing.T) {
	req, pg := loadScripted(t, "../../testdata/specs/for.yaml")

	var buf bytes.Buffer
	eng := New(pg.Actions(), pg.Conditions(), RunConfig{
		RunID:   "it-for",
		Trace:   trace.NewWriter(&buf, "it-for"),
		Session: pg,
		Sleep:   noSleep,
	})

	rep, err := eng.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Summary.Total != 3 || rep.Summary.Status != "pass" {
		t.Errorf("summary = %+v", rep.Summary)
	}
	if got := len(pg.Journal()); got != 3 {
		t.Errorf("journal len = %d, want 3", got)
	}

	out := buf.String()
	for _, want := range []string{"loop_start", "iteration", "loop_complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %s", want)
		}
	}
}

func TestScripted_WhileLoop(t *testing.T) {
	req, pg := loadScripted(t, "../../testdata/specs/while.yaml")

	eng := New(pg.Actions(), pg.Conditions(), RunConfig{RunID: "it-while", Session: pg, Sleep: noSleep})
	rep, err := eng.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// The banner becomes visible once 4 actions have been performed, so
	// the pre-check stops the fifth iteration.
	if rep.Summary.Total != 4 {
		t.Errorf("total = %d, want 4", rep.Summary.Total)
	}
	if rep.Summary.Status != "pass" {
		t.Errorf("status = %q, want pass", rep.Summary.Status)
	}
}

func TestScripted_DoWhileLoop(t *testing.T) {
	req, pg := loadScripted(t, "../../testdata/specs/do-while.yaml")

	eng := New(pg.Actions(), pg.Conditions(), RunConfig{RunID: "it-dowhile", Session: pg, Sleep: noSleep})
	rep, err := eng.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// The spinner hides after 2 actions; the post-check sees it still
	// visible after the first press and hidden after the second.
	if rep.Summary.Total != 2 {
		t.Errorf("total = %d, want 2", rep.Summary.Total)
	}
	j := pg.Journal()
	if len(j) != 2 || j[0].Action != schema.ActionPress || j[0].Value != "PageDown" {
		t.Errorf("journal = %+v", j)
	}
}
