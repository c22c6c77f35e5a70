package page

import (
	"fmt"

	"github.com/ormasoftchile/uiloop/pkg/schema"
)

// NotFoundError reports an element reference that could not be resolved.
type NotFoundError struct {
	Ref schema.ElementRef
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.Ref.Selector)
}

// ActionError reports a failed interaction with a located element.
type ActionError struct {
	Action schema.ActionType
	Ref    schema.ElementRef
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Action, e.Ref.Selector, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
