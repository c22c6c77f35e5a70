// Package scripted implements a deterministic page: element state is
// driven by expr-lang expressions over loop progress, so loops can be
// executed and replayed without a live browser. Fail-closed: locating an
// element the fixture does not declare is an error for actions.
package scripted

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ormasoftchile/uiloop/pkg/page"
	"github.com/ormasoftchile/uiloop/pkg/schema"
)

// JournalEntry records one performed action, in order.
type JournalEntry struct {
	Action   schema.ActionType `json:"action"`
	Selector string            `json:"selector"`
	Value    string            `json:"value,omitempty"`
}

// Page is a scripted page. Its Actions and Conditions faces satisfy the
// engine's collaborator interfaces; the page itself is the session scope.
type Page struct {
	mu       sync.Mutex
	elements map[string]*element
	actions  int // total actions performed, drives the expr env
	start    time.Time
	journal  []JournalEntry

	scopeMu sync.Mutex // completion scope: one operation at a time
}

type element struct {
	ref          schema.ElementRef
	visible      *vm.Program // nil means always true
	enabled      *vm.Program
	interactable *vm.Program
}

// NewPage builds a scripted page from a fixture, compiling its state
// expressions.
func NewPage(fx *Fixture) (*Page, error) {
	p := &Page{
		elements: make(map[string]*element, len(fx.Elements)),
		start:    time.Now(),
	}
	for _, ef := range fx.Elements {
		el := &element{
			ref: schema.ElementRef{Selector: ef.Selector, Description: ef.Description},
		}
		var err error
		if el.visible, err = compileState(ef.Selector, "visible", ef.Visible); err != nil {
			return nil, err
		}
		if el.enabled, err = compileState(ef.Selector, "enabled", ef.Enabled); err != nil {
			return nil, err
		}
		if el.interactable, err = compileState(ef.Selector, "interactable", ef.Interactable); err != nil {
			return nil, err
		}
		p.elements[ef.Selector] = el
	}
	return p, nil
}

// Actions returns the page's action-executor face. Locate fails with
// NotFoundError when the fixture does not declare the selector.
func (p *Page) Actions() page.ActionExecutor { return actionFace{p} }

// Conditions returns the page's condition-evaluator face. Locate fails
// only for a structurally invalid (empty) selector; state checks on
// undeclared elements report booleans instead of failing.
func (p *Page) Conditions() page.ConditionEvaluator { return conditionFace{p} }

// Journal returns the ordered log of performed actions.
func (p *Page) Journal() []JournalEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]JournalEntry, len(p.journal))
	copy(out, p.journal)
	return out
}

// WaitForCompletion implements page.Session. The scope serializes
// operations against the page; release must be called on every exit path.
func (p *Page) WaitForCompletion(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.scopeMu.Lock()
	return p.scopeMu.Unlock, nil
}

type actionFace struct{ p *Page }

func (f actionFace) Locate(ctx context.Context, ref schema.ElementRef) (page.ActionLocator, error) {
	loc, err := f.p.locate(ref)
	if err != nil {
		return nil, err
	}
	if loc.el == nil {
		return nil, &page.NotFoundError{Ref: ref}
	}
	return loc, nil
}

type conditionFace struct{ p *Page }

func (f conditionFace) Locate(ctx context.Context, ref schema.ElementRef) (page.StateLocator, error) {
	return f.p.locate(ref)
}

func (p *Page) locate(ref schema.ElementRef) (*Locator, error) {
	if ref.Selector == "" {
		return nil, &page.NotFoundError{Ref: ref}
	}
	p.mu.Lock()
	el := p.elements[ref.Selector]
	p.mu.Unlock()
	return &Locator{page: p, ref: ref, el: el}, nil
}

// env builds the expression environment from current page state.
// Callers hold p.mu.
func (p *Page) env() map[string]any {
	return map[string]any{
		"actions":    p.actions,
		"elapsed_ms": int(time.Since(p.start).Milliseconds()),
	}
}

// perform journals an action after checking interactability.
func (p *Page) perform(action schema.ActionType, ref schema.ElementRef, value string, el *element) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if el == nil {
		return &page.NotFoundError{Ref: ref}
	}
	ok, err := evalState(el.interactable, p.env(), true)
	if err != nil {
		return &page.ActionError{Action: action, Ref: ref, Err: err}
	}
	if !ok {
		return &page.ActionError{Action: action, Ref: ref, Err: errors.New("element not interactable")}
	}

	p.actions++
	p.journal = append(p.journal, JournalEntry{Action: action, Selector: ref.Selector, Value: value})
	return nil
}

// state evaluates one state program under the page lock.
func (p *Page) state(prog *vm.Program, def bool) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return evalState(prog, p.env(), def)
}

// Locator is a scripted element handle. It satisfies both
// page.ActionLocator and page.StateLocator.
type Locator struct {
	page *Page
	ref  schema.ElementRef
	el   *element
}

func (l *Locator) Click(ctx context.Context) error {
	return l.page.perform(schema.ActionClick, l.ref, "", l.el)
}

func (l *Locator) Hover(ctx context.Context) error {
	return l.page.perform(schema.ActionHover, l.ref, "", l.el)
}

func (l *Locator) Fill(ctx context.Context, value string) error {
	return l.page.perform(schema.ActionFill, l.ref, value, l.el)
}

func (l *Locator) Press(ctx context.Context, key string) error {
	return l.page.perform(schema.ActionPress, l.ref, key, l.el)
}

func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	if l.el == nil {
		return false, nil // missing elements are not visible
	}
	return l.page.state(l.el.visible, true)
}

func (l *Locator) IsHidden(ctx context.Context) (bool, error) {
	visible, err := l.IsVisible(ctx)
	return !visible, err
}

func (l *Locator) IsEnabled(ctx context.Context) (bool, error) {
	if l.el == nil {
		return false, nil
	}
	return l.page.state(l.el.enabled, true)
}

func (l *Locator) IsDisabled(ctx context.Context) (bool, error) {
	if l.el == nil {
		return false, nil
	}
	enabled, err := l.page.state(l.el.enabled, true)
	return !enabled, err
}

// compileState compiles a boolean state expression. Empty means "always
// true".
func compileState(selector, field, src string) (*vm.Program, error) {
	if src == "" {
		return nil, nil
	}
	prog, err := expr.Compile(src, expr.Env(map[string]any{"actions": 0, "elapsed_ms": 0}), expr.AsBool())
	if err != nil {
		return nil, &FixtureError{Selector: selector, Field: field, Err: err}
	}
	return prog, nil
}

// evalState runs a compiled state program; a nil program yields def.
func evalState(prog *vm.Program, env map[string]any, def bool) (bool, error) {
	if prog == nil {
		return def, nil
	}
	out, err := expr.Run(prog, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, errors.New("state expression did not return bool")
	}
	return b, nil
}
