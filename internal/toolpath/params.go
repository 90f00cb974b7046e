package toolpath

import (
	_ "embed"
	"fmt"
	"math"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

// Validate checks p against the #RunParameters schema.
// Returns an *Error with ErrCodeInvalidParameters on violation.
func (p RunParameters) Validate() error {
	reals := []struct {
		name string
		v    float64
	}{
		{"passHeight", p.PassHeight},
		{"timeStep", p.TimeStep},
		{"velocity", p.Velocity},
	}
	for _, f := range reals {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &Error{
				Code:    ErrCodeInvalidParameters,
				Message: fmt.Sprintf("%s must be finite, got %v", f.name, f.v),
				Field:   f.name,
			}
		}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile parameter schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#RunParameters"))

	v := ctx.Encode(p)
	if err := v.Err(); err != nil {
		return &Error{Code: ErrCodeInvalidParameters, Message: "cannot encode parameters", Err: err}
	}

	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return &Error{
			Code:    ErrCodeInvalidParameters,
			Message: "parameters out of range",
			Err:     err,
		}
	}
	return nil
}
