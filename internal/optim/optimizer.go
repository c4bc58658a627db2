// Package optim implements learning rules that update model parameters from
// externally computed gradients.
//
// A learning rule has two lifecycle states. It starts Unbound, with no
// per-parameter state. AllocateState binds it to an ordered parameter set and
// allocates its state buffers once; after that only Apply is valid, and the
// parameter/gradient order passed to Apply must match the order given to
// AllocateState. Rules are not safe for concurrent use.
package optim

import (
	"fmt"

	"github.com/born-ml/adamrule/internal/tensor"
)

// LearningRule is the interface shared by all update rules.
//
// The training loop calls AllocateState once with the full ordered list of
// trainable parameter tensors, then Apply once per training step.
type LearningRule interface {
	// Name returns the identifying name given at construction.
	Name() string

	// AllocateState allocates per-parameter state buffers.
	//
	// Returns ErrInvalidState if the rule is already bound.
	AllocateState(params []*tensor.RawTensor) error

	// Apply updates params in place from grads.
	//
	// step is the zero-based training step. Either every parameter is
	// updated or, on error, none is.
	Apply(params, grads []*tensor.RawTensor, step int) error
}

// checkParams validates a parameter set before state allocation.
func checkParams(params []*tensor.RawTensor) error {
	for i, p := range params {
		if p == nil {
			return fmt.Errorf("%w: parameter %d is nil", ErrShapeMismatch, i)
		}
		if !p.DType().IsFloat() {
			return fmt.Errorf("%w: parameter %d has non-float dtype %s", ErrDTypeMismatch, i, p.DType())
		}
	}
	return nil
}

// layout is the shape and precision a parameter was bound with.
type layout struct {
	shape tensor.Shape
	dtype tensor.DataType
}

// layoutsOf records the layout of every tensor in params.
func layoutsOf(params []*tensor.RawTensor) []layout {
	out := make([]layout, len(params))
	for i, p := range params {
		out[i] = layout{shape: p.Shape().Clone(), dtype: p.DType()}
	}
	return out
}

// checkAligned verifies that params and grads line up positionally with the
// layouts recorded when state was allocated.
func checkAligned(params, grads []*tensor.RawTensor, bound []layout) error {
	if len(params) != len(bound) {
		return fmt.Errorf("%w: got %d parameters, state tracks %d", ErrShapeMismatch, len(params), len(bound))
	}
	if len(grads) != len(params) {
		return fmt.Errorf("%w: got %d gradients for %d parameters", ErrShapeMismatch, len(grads), len(params))
	}

	for i, ref := range bound {
		p, g := params[i], grads[i]
		if p == nil || g == nil {
			return fmt.Errorf("%w: nil tensor at position %d", ErrShapeMismatch, i)
		}
		if !p.Shape().Equal(ref.shape) {
			return fmt.Errorf("%w: parameter %d has shape %v, state has %v", ErrShapeMismatch, i, p.Shape(), ref.shape)
		}
		if !g.Shape().Equal(ref.shape) {
			return fmt.Errorf("%w: gradient %d has shape %v, parameter has %v", ErrShapeMismatch, i, g.Shape(), ref.shape)
		}
		if p.DType() != ref.dtype {
			return fmt.Errorf("%w: parameter %d is %s, state is %s", ErrDTypeMismatch, i, p.DType(), ref.dtype)
		}
		if g.DType() != ref.dtype {
			return fmt.Errorf("%w: gradient %d is %s, state is %s", ErrDTypeMismatch, i, g.DType(), ref.dtype)
		}
	}
	return nil
}

// zerosLike allocates one zero-filled buffer per parameter. A dtype of
// tensor.Unknown keeps each parameter's precision.
func zerosLike[B tensor.Backend](backend B, params []*tensor.RawTensor, dtype tensor.DataType) ([]*tensor.RawTensor, error) {
	out := make([]*tensor.RawTensor, len(params))
	for i, p := range params {
		buf, err := tensor.ZerosLike(backend, p, dtype)
		if err != nil {
			return nil, fmt.Errorf("allocate state for parameter %d: %w", i, err)
		}
		out[i] = buf
	}
	return out, nil
}

// Learning rule kinds understood by NewLearningRule.
const (
	KindAdam = "adam"
	KindSGD  = "sgd"
)

// NewLearningRule builds the rule of the given kind from a configuration
// mapping. Returns ErrConfiguration for an unknown kind or invalid mapping.
func NewLearningRule[B tensor.Backend](kind, name string, m map[string]any, backend B) (LearningRule, error) {
	switch kind {
	case KindAdam:
		config, err := AdamConfigFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("adam %q: %w", name, err)
		}
		rule, err := NewAdam(name, config, backend)
		if err != nil {
			return nil, err
		}
		return rule, nil
	case KindSGD, "gradient_descent":
		config, err := SGDConfigFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("sgd %q: %w", name, err)
		}
		rule, err := NewGradientDescent(name, config, backend)
		if err != nil {
			return nil, err
		}
		return rule, nil
	default:
		return nil, fmt.Errorf("%w: unknown learning rule %q", ErrConfiguration, kind)
	}
}
