// Package admission screens detection events before they enter the event set.
//
// The gate rejects malformed events (missing subject, out-of-range
// confidence, zero timestamp). Uniqueness by id is enforced separately
// by the event log at insert time, so the same rules apply to snapshot
// rows and live notifications alike.
package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/rollcall/internal/domain/model"
)

// Gate validates events at admission time.
type Gate interface {
	// Check returns nil if e is well formed, or an error wrapping
	// ErrMalformed describing the first violated rule.
	Check(ctx context.Context, e model.Detection) error
}

// ruleSet mirrors model.Detection with validation tags. The domain model
// stays tag-free; the rules live here with the gate that applies them.
type ruleSet struct {
	ID         int64     `validate:"gt=0"`
	Name       string    `validate:"required"`
	Confidence float64   `validate:"gte=0,lte=1"`
	ObservedAt time.Time `validate:"required"`
}

// validatorGate implements Gate using go-playground/validator.
type validatorGate struct {
	v *validator.Validate
}

// NewGate creates the default admission gate.
func NewGate() Gate {
	return &validatorGate{
		v: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Check validates a single detection event.
func (g *validatorGate) Check(ctx context.Context, e model.Detection) error {
	rs := ruleSet{
		ID:         e.ID,
		Name:       e.Name,
		Confidence: e.Confidence,
		ObservedAt: e.ObservedAt,
	}
	if err := g.v.StructCtx(ctx, rs); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: field %s failed rule %q", ErrMalformed, f.Field(), f.Tag())
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
