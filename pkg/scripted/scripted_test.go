package scripted

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ormasoftchile/uiloop/pkg/page"
	"github.com/ormasoftchile/uiloop/pkg/schema"
)

func mustPage(t *testing.T, fx *Fixture) *Page {
	t.Helper()
	p, err := NewPage(fx)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	return p
}

func TestLoadFixture(t *testing.T) {
	doc := `
elements:
  - selector: "#submit"
    description: "submit button"
  - selector: "#done"
    visible: "actions >= 3"
`
	fx, err := LoadFixture(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(fx.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(fx.Elements))
	}
	if fx.Elements[1].Visible != "actions >= 3" {
		t.Errorf("visible = %q", fx.Elements[1].Visible)
	}

	if _, err := LoadFixture(strings.NewReader("elements: []\n")); err == nil {
		t.Error("expected error for empty fixture")
	}
	if _, err := LoadFixture(strings.NewReader("elements:\n  - description: x\n")); err == nil {
		t.Error("expected error for missing selector")
	}
}

func TestNewPage_InvalidExpression(t *testing.T) {
	fx := &Fixture{Elements: []ElementFixture{
		{Selector: "#x", Visible: "actions >= "},
	}}
	_, err := NewPage(fx)
	if err == nil {
		t.Fatal("expected compile error")
	}
	var fe *FixtureError
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T, want *FixtureError", err)
	}
	if fe.Selector != "#x" || fe.Field != "visible" {
		t.Errorf("fixture error = %+v", fe)
	}
}

func TestVisibilityFlipsWithActions(t *testing.T) {
	p := mustPage(t, &Fixture{Elements: []ElementFixture{
		{Selector: "#submit"},
		{Selector: "#done", Visible: "actions >= 2"},
	}})
	ctx := context.Background()

	done, err := p.Conditions().Locate(ctx, schema.ElementRef{Selector: "#done"})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if v, _ := done.IsVisible(ctx); v {
		t.Error("visible before any action")
	}
	if h, _ := done.IsHidden(ctx); !h {
		t.Error("should be hidden before any action")
	}

	submit, err := p.Actions().Locate(ctx, schema.ElementRef{Selector: "#submit"})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := submit.Click(ctx); err != nil {
			t.Fatalf("click %d: %v", i, err)
		}
	}

	if v, _ := done.IsVisible(ctx); !v {
		t.Error("should be visible after 2 actions")
	}
}

func TestActionLocate_UnknownSelectorFails(t *testing.T) {
	p := mustPage(t, &Fixture{Elements: []ElementFixture{{Selector: "#submit"}}})

	_, err := p.Actions().Locate(context.Background(), schema.ElementRef{Selector: "#ghost"})
	if err == nil {
		t.Fatal("expected NotFoundError")
	}
	var nf *page.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error type = %T, want *page.NotFoundError", err)
	}
}

func TestConditionLocate_MissingElementReportsState(t *testing.T) {
	p := mustPage(t, &Fixture{Elements: []ElementFixture{{Selector: "#submit"}}})
	ctx := context.Background()

	// Unknown selector is fine for state checks.
	loc, err := p.Conditions().Locate(ctx, schema.ElementRef{Selector: "#ghost"})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if v, _ := loc.IsVisible(ctx); v {
		t.Error("missing element reported visible")
	}
	if h, _ := loc.IsHidden(ctx); !h {
		t.Error("missing element should report hidden")
	}

	// Empty selector is structurally invalid.
	if _, err := p.Conditions().Locate(ctx, schema.ElementRef{}); err == nil {
		t.Error("expected NotFoundError for empty selector")
	}
}

func TestNotInteractableYieldsActionError(t *testing.T) {
	p := mustPage(t, &Fixture{Elements: []ElementFixture{
		{Selector: "#submit", Interactable: "actions >= 1"},
	}})
	ctx := context.Background()

	loc, err := p.Actions().Locate(ctx, schema.ElementRef{Selector: "#submit"})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	err = loc.Click(ctx)
	if err == nil {
		t.Fatal("expected ActionError")
	}
	var ae *page.ActionError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *page.ActionError", err)
	}
	if ae.Action != schema.ActionClick {
		t.Errorf("action = %q", ae.Action)
	}
}

func TestJournalOrder(t *testing.T) {
	p := mustPage(t, &Fixture{Elements: []ElementFixture{{Selector: "#field"}}})
	ctx := context.Background()

	loc, _ := p.Actions().Locate(ctx, schema.ElementRef{Selector: "#field"})
	loc.Fill(ctx, "alpha")
	loc.Press(ctx, "Enter")
	loc.Hover(ctx)

	j := p.Journal()
	if len(j) != 3 {
		t.Fatalf("journal len = %d, want 3", len(j))
	}
	if j[0].Action != schema.ActionFill || j[0].Value != "alpha" {
		t.Errorf("journal[0] = %+v", j[0])
	}
	if j[1].Action != schema.ActionPress || j[1].Value != "Enter" {
		t.Errorf("journal[1] = %+v", j[1])
	}
	if j[2].Action != schema.ActionHover {
		t.Errorf("journal[2] = %+v", j[2])
	}
}

func TestWaitForCompletionScope(t *testing.T) {
	p := mustPage(t, &Fixture{Elements: []ElementFixture{{Selector: "#submit"}}})

	release, err := p.WaitForCompletion(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release()

	// Reacquire after release must not deadlock.
	release, err = p.WaitForCompletion(context.Background())
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.WaitForCompletion(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestGenerateFixtureJSONSchema(t *testing.T) {
	data, err := GenerateFixtureJSONSchema()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(data), "interactable") {
		t.Error("schema missing interactable field")
	}
}
