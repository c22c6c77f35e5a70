package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // JSON-path-like location (e.g., "loop.iterations")
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Phase, e.Message)
}

func errorf(phase, path, msg string, args ...any) *ValidationError {
	return &ValidationError{
		Phase:    phase,
		Path:     path,
		Message:  fmt.Sprintf(msg, args...),
		Severity: "error",
	}
}

func warningf(phase, path, msg string, args ...any) *ValidationError {
	return &ValidationError{
		Phase:    phase,
		Path:     path,
		Message:  fmt.Sprintf(msg, args...),
		Severity: "warning",
	}
}

// HasErrors reports whether any entry has error severity.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == "error" {
			return true
		}
	}
	return false
}

// ValidateFile performs the full validation pipeline on a request file.
// Phase 1: Structural (strict YAML decode)
// Phase 2: Semantic (JSON Schema validation)
// Phase 3: Domain (custom Go rules)
func ValidateFile(path string) (*Request, []*ValidationError) {
	req, err := LoadFile(path)
	if err != nil {
		return nil, []*ValidationError{errorf("structural", "", "failed to load: %s", err)}
	}
	return req, ValidateRequest(req)
}

// ValidateRequest runs phases 2+3 on an already-loaded request.
func ValidateRequest(req *Request) []*ValidationError {
	var errs []*ValidationError
	errs = append(errs, validateSemantic(req)...)
	if HasErrors(errs) {
		return errs
	}
	errs = append(errs, ValidateDomain(req)...)
	return errs
}

// validateSemantic validates the request against the generated JSON Schema.
func validateSemantic(req *Request) []*ValidationError {
	data, err := json.Marshal(req)
	if err != nil {
		return []*ValidationError{errorf("semantic", "", "marshal for schema validation: %v", err)}
	}

	schemaJSON, err := GenerateRequestJSONSchema()
	if err != nil {
		return []*ValidationError{errorf("semantic", "", "generate schema: %v", err)}
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return []*ValidationError{errorf("semantic", "", "unmarshal schema: %v", err)}
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("request.json", schemaDoc); err != nil {
		return []*ValidationError{errorf("semantic", "", "add schema resource: %v", err)}
	}
	sch, err := c.Compile("request.json")
	if err != nil {
		return []*ValidationError{errorf("semantic", "", "compile schema: %v", err)}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []*ValidationError{errorf("semantic", "", "unmarshal document: %v", err)}
	}

	if err := sch.Validate(doc); err != nil {
		var errs []*ValidationError
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			for _, cause := range flattenValidationErrors(ve) {
				path := strings.Join(cause.InstanceLocation, "/")
				errs = append(errs, errorf("semantic", path, "%v", cause.ErrorKind))
			}
		} else {
			errs = append(errs, errorf("semantic", "", "%s", err.Error()))
		}
		return errs
	}
	return nil
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// ValidateDomain performs the domain-level rules on a request. These are
// the checks that must hold before any iteration runs: a `for` spec
// without iterations, a `while`/`do-while` spec without a stop condition,
// a `fill`/`press` action without a value, or an unsupported enum value
// all reject the request here.
func ValidateDomain(req *Request) []*ValidationError {
	var errs []*ValidationError

	switch req.Loop.Type {
	case LoopFor:
		if req.Loop.Iterations == nil {
			errs = append(errs, errorf("domain", "loop.iterations", "for loop requires iterations"))
		} else if *req.Loop.Iterations < 0 {
			errs = append(errs, errorf("domain", "loop.iterations", "iterations must not be negative (got %d)", *req.Loop.Iterations))
		}
		if req.Loop.Until != nil {
			errs = append(errs, warningf("domain", "loop.until", "until is ignored for for loops"))
		}
	case LoopWhile, LoopDoWhile:
		if req.Loop.Until == nil {
			errs = append(errs, errorf("domain", "loop.until", "%s loop requires an until condition", req.Loop.Type))
		} else {
			errs = append(errs, validateCondition(req.Loop.Until)...)
		}
		if req.Loop.Iterations != nil {
			errs = append(errs, warningf("domain", "loop.iterations", "iterations is ignored for %s loops", req.Loop.Type))
		}
	default:
		errs = append(errs, errorf("domain", "loop.type", "unsupported loop type %q", req.Loop.Type))
	}

	errs = append(errs, validateAction(&req.Action)...)

	if req.Limits != nil && req.Limits.MaxIterations < 0 {
		errs = append(errs, errorf("domain", "limits.maxIterations", "maxIterations must not be negative (got %d)", req.Limits.MaxIterations))
	}

	return errs
}

func validateCondition(c *StopCondition) []*ValidationError {
	var errs []*ValidationError
	if c.Target.Selector == "" {
		errs = append(errs, errorf("domain", "loop.until.target.selector", "stop condition requires a target selector"))
	}
	if !slices.Contains(AssertionTypes, c.Assertion) {
		errs = append(errs, errorf("domain", "loop.until.assertion", "unsupported assertion type %q", c.Assertion))
	}
	return errs
}

func validateAction(a *ActionSpec) []*ValidationError {
	var errs []*ValidationError
	if a.Target.Selector == "" {
		errs = append(errs, errorf("domain", "action.target.selector", "action requires a target selector"))
	}
	switch a.Type {
	case ActionClick, ActionHover:
		if a.Value != "" {
			errs = append(errs, warningf("domain", "action.value", "value is ignored for %s actions", a.Type))
		}
	case ActionFill, ActionPress:
		if a.Value == "" {
			errs = append(errs, errorf("domain", "action.value", "%s action requires a value", a.Type))
		}
	default:
		errs = append(errs, errorf("domain", "action.type", "unsupported action type %q", a.Type))
	}
	return errs
}
