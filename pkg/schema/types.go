// Package schema defines the loop request data model and its validation
// pipeline.
package schema

// ---------------------------------------------------------------------------
// Request
// ---------------------------------------------------------------------------

// Request is the top-level invocation document: which loop to run, the
// action it repeats, and optional safety limits.
type Request struct {
	Loop   LoopSpec   `yaml:"loop"             json:"loop"`
	Action ActionSpec `yaml:"action"           json:"action"`
	Limits *Limits    `yaml:"limits,omitempty" json:"limits,omitempty"`
}

// ---------------------------------------------------------------------------
// Loop
// ---------------------------------------------------------------------------

// LoopType enumerates the three loop disciplines.
type LoopType string

const (
	LoopFor     LoopType = "for"
	LoopWhile   LoopType = "while"
	LoopDoWhile LoopType = "do-while"
)

// LoopTypes lists all valid loop disciplines.
var LoopTypes = []LoopType{LoopFor, LoopWhile, LoopDoWhile}

// LoopSpec is a tagged union over the three disciplines. Iterations is
// required for `for`; Until is required for `while` and `do-while`.
type LoopSpec struct {
	Type       LoopType       `yaml:"type"                 json:"type"                 jsonschema:"enum=for,enum=while,enum=do-while"`
	Iterations *int           `yaml:"iterations,omitempty" json:"iterations,omitempty"`
	Until      *StopCondition `yaml:"until,omitempty"      json:"until,omitempty"`
}

// StopCondition is a boolean predicate over a target element's state.
// If Negate is set the evaluated result is inverted.
type StopCondition struct {
	Target    ElementRef    `yaml:"target"           json:"target"`
	Assertion AssertionType `yaml:"assertion"        json:"assertion" jsonschema:"enum=toBeVisible,enum=toBeHidden,enum=toBeEnabled,enum=toBeDisabled"`
	Negate    bool          `yaml:"negate,omitempty" json:"negate,omitempty"`
}

// AssertionType enumerates the element-state predicates a stop condition
// may evaluate.
type AssertionType string

const (
	ToBeVisible  AssertionType = "toBeVisible"
	ToBeHidden   AssertionType = "toBeHidden"
	ToBeEnabled  AssertionType = "toBeEnabled"
	ToBeDisabled AssertionType = "toBeDisabled"
)

// AssertionTypes lists all valid assertion types.
var AssertionTypes = []AssertionType{ToBeVisible, ToBeHidden, ToBeEnabled, ToBeDisabled}

// ---------------------------------------------------------------------------
// Action
// ---------------------------------------------------------------------------

// ActionType enumerates the element interactions the loop can repeat.
type ActionType string

const (
	ActionClick ActionType = "click"
	ActionHover ActionType = "hover"
	ActionFill  ActionType = "fill"
	ActionPress ActionType = "press"
)

// ActionTypes lists all valid action types.
var ActionTypes = []ActionType{ActionClick, ActionHover, ActionFill, ActionPress}

// ActionSpec describes the repeated interaction. Value carries the text
// for `fill` and the key name for `press`; it is required for those two
// action types and ignored otherwise.
type ActionSpec struct {
	Target ElementRef `yaml:"target"          json:"target"`
	Type   ActionType `yaml:"type"            json:"type" jsonschema:"enum=click,enum=hover,enum=fill,enum=press"`
	Value  string     `yaml:"value,omitempty" json:"value,omitempty"`
}

// ElementRef identifies a page element by selector. Description is
// human-readable context carried through evidence records.
type ElementRef struct {
	Selector    string `yaml:"selector"              json:"selector"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ---------------------------------------------------------------------------
// Limits
// ---------------------------------------------------------------------------

// DefaultMaxIterations is the safety cap applied to while/do-while loops
// when the request does not set one.
const DefaultMaxIterations = 20

// Limits holds optional safety bounds. MaxIterations <= 0 means "use the
// default"; it applies to while/do-while regardless of their condition.
type Limits struct {
	MaxIterations int `yaml:"maxIterations,omitempty" json:"maxIterations,omitempty"`
}

// MaxIterationsOrDefault resolves the effective iteration cap for a
// possibly-nil Limits.
func (l *Limits) MaxIterationsOrDefault() int {
	if l == nil || l.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return l.MaxIterations
}
