// Package page defines the collaborator interfaces the loop engine drives:
// an action executor that performs element interactions and a condition
// evaluator that inspects element state. Implementations live elsewhere
// (a real browser binding, or the scripted page used for tests and
// dry runs).
package page

import (
	"context"
	"time"

	"github.com/ormasoftchile/uiloop/pkg/schema"
)

// AttachTimeout is the wall-clock bound the session layer applies when
// waiting for an element to attach. The loop engine reuses it as the
// total-duration bound for while/do-while loops so a page that never
// reaches the expected state cannot hang an invocation.
const AttachTimeout = 5 * time.Second

// ActionLocator performs interactions against a located element.
// Each method returns an *ActionError when the interaction fails
// (e.g., element not interactable).
type ActionLocator interface {
	Click(ctx context.Context) error
	Hover(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	Press(ctx context.Context, key string) error
}

// StateLocator inspects a located element's state. Visibility-class
// checks never fail for a merely missing element; they report the
// appropriate boolean instead.
type StateLocator interface {
	IsVisible(ctx context.Context) (bool, error)
	IsHidden(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsDisabled(ctx context.Context) (bool, error)
}

// ActionExecutor resolves element references for interaction. Locate
// returns a *NotFoundError when the reference cannot be resolved.
type ActionExecutor interface {
	Locate(ctx context.Context, ref schema.ElementRef) (ActionLocator, error)
}

// ConditionEvaluator resolves element references for state inspection.
// Locate returns a *NotFoundError only when the reference itself is
// structurally invalid.
type ConditionEvaluator interface {
	Locate(ctx context.Context, ref schema.ElementRef) (StateLocator, error)
}

// Session is the hosting tab/session abstraction. WaitForCompletion
// acquires the scope that tells the host no other operation may
// interleave with this run's interactions; the returned release func
// must be called on every exit path.
type Session interface {
	WaitForCompletion(ctx context.Context) (release func(), err error)
}
