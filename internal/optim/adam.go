package optim

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/born-ml/adamrule/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) learning rule.
//
// Adam keeps, for every parameter tensor, exponential moving averages of the
// gradient (first moment) and of the squared gradient (second moment), and
// scales each element's step by their ratio.
//
// Update rule, with t = step + 1:
//
//	m    = beta1 * m + (1-beta1) * g
//	v    = beta2 * v + (1-beta2) * g²
//	lr_t = lr * sqrt(1 - beta2^t) / (1 - beta1^t)
//	p    = p - lr_t * m / (sqrt(v) + eps)
//
// lr_t folds both bias corrections into one scalar computed once per call.
// Arithmetic runs in the state precision: AdamConfig.DType when set,
// otherwise each parameter's own. When the two differ the gradient is
// converted into the state precision and the step is converted back before
// it is applied to the parameter.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Adam is not safe for concurrent use.
//
// Example:
//
//	rule, err := optim.NewAdam("adam", optim.AdamConfig{LR: 0.001}, backend)
//	if err != nil {
//	    return err
//	}
//	if err := rule.AllocateState(params); err != nil {
//	    return err
//	}
//	for step := range steps {
//	    grads := computeGradients(params)
//	    if err := rule.Apply(params, grads, step); err != nil {
//	        return err
//	    }
//	}
type Adam[B tensor.Backend] struct {
	name    string
	config  AdamConfig
	backend B

	bound   bool
	layouts []layout            // Parameter layouts recorded at allocation
	t       int                 // Last timestep applied
	m       []*tensor.RawTensor // First moment estimates
	v       []*tensor.RawTensor // Second moment estimates
	scratch []*tensor.RawTensor // Per-parameter workspace for g² and the step direction
	cast    []*tensor.RawTensor // Step in parameter precision; nil where it equals the state's
}

// NewAdam creates a new, unbound Adam learning rule.
//
// Zero-valued config fields take their defaults (LR 0.001, Beta1 0.9,
// Beta2 0.999, Epsilon 1e-8). Returns ErrConfiguration if the resulting
// hyperparameters are out of range.
func NewAdam[B tensor.Backend](name string, config AdamConfig, backend B) (*Adam[B], error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("adam %q: %w", name, err)
	}

	return &Adam[B]{
		name:    name,
		config:  config,
		backend: backend,
	}, nil
}

// Name returns the rule's identifying name.
func (a *Adam[B]) Name() string {
	return a.name
}

// Config returns the effective hyperparameters.
func (a *Adam[B]) Config() AdamConfig {
	return a.config
}

// LR returns the base learning rate.
func (a *Adam[B]) LR() float64 {
	return a.config.LR
}

// Bound reports whether AllocateState has succeeded.
func (a *Adam[B]) Bound() bool {
	return a.bound
}

// Timestep returns the last timestep t applied, or 0 before the first update.
func (a *Adam[B]) Timestep() int {
	return a.t
}

// FirstMoments returns the first moment buffers in parameter order. They are
// held in the state precision.
func (a *Adam[B]) FirstMoments() []*tensor.RawTensor {
	return a.m
}

// SecondMoments returns the second moment buffers in parameter order.
func (a *Adam[B]) SecondMoments() []*tensor.RawTensor {
	return a.v
}

// AllocateState binds the rule to params, allocating zero-filled moment
// buffers that match each parameter's shape, in order. Buffers use
// AdamConfig.DType when set and the parameter's precision otherwise.
//
// Returns ErrInvalidState if called on a bound rule. On any error the rule
// stays unbound.
func (a *Adam[B]) AllocateState(params []*tensor.RawTensor) error {
	if a.bound {
		return fmt.Errorf("adam %q: %w: state already allocated for %d parameters", a.name, ErrInvalidState, len(a.layouts))
	}
	if err := checkParams(params); err != nil {
		return fmt.Errorf("adam %q: %w", a.name, err)
	}

	dtype := a.config.DType
	m, err := zerosLike(a.backend, params, dtype)
	if err != nil {
		return fmt.Errorf("adam %q: first moment: %w", a.name, err)
	}
	v, err := zerosLike(a.backend, params, dtype)
	if err != nil {
		return fmt.Errorf("adam %q: second moment: %w", a.name, err)
	}
	scratch, err := zerosLike(a.backend, params, dtype)
	if err != nil {
		return fmt.Errorf("adam %q: scratch: %w", a.name, err)
	}

	cast := make([]*tensor.RawTensor, len(params))
	for i, p := range params {
		if p.DType() == m[i].DType() {
			continue
		}
		cast[i], err = tensor.ZerosLike(a.backend, p, tensor.Unknown)
		if err != nil {
			return fmt.Errorf("adam %q: cast buffer for parameter %d: %w", a.name, i, err)
		}
	}

	a.m, a.v, a.scratch, a.cast = m, v, scratch, cast
	a.layouts = layoutsOf(params)
	a.bound = true
	return nil
}

// Apply performs one Adam update of params from grads at the zero-based
// training step, so bias correction uses t = step + 1.
//
// Every precondition is checked before anything is written: on error no
// parameter and no moment buffer has changed. Gradients are never modified.
func (a *Adam[B]) Apply(params, grads []*tensor.RawTensor, step int) error {
	if !a.bound {
		return fmt.Errorf("adam %q: %w: AllocateState has not been called", a.name, ErrInvalidState)
	}
	if step < 0 {
		return fmt.Errorf("adam %q: %w: %d", a.name, ErrInvalidStep, step)
	}
	if err := checkAligned(params, grads, a.layouts); err != nil {
		return fmt.Errorf("adam %q: %w", a.name, err)
	}

	t := step + 1
	lr32 := a.biasCorrectedLR32(t)
	lr64 := a.biasCorrectedLR64(t)

	for i, param := range params {
		lrT := lr64
		if a.m[i].DType() == tensor.Float32 {
			lrT = float64(lr32)
		}
		a.updateParameter(param, grads[i], a.m[i], a.v[i], a.scratch[i], a.cast[i], lrT)
	}

	a.t = t
	return nil
}

// Step applies an update using the rule's own step counter, continuing from
// the last applied timestep.
func (a *Adam[B]) Step(params, grads []*tensor.RawTensor) error {
	return a.Apply(params, grads, a.t)
}

// updateParameter performs the Adam update for a single parameter tensor.
// cast is non-nil when the parameter's precision differs from the state's.
func (a *Adam[B]) updateParameter(param, grad, m, v, scratch, cast *tensor.RawTensor, lrT float64) {
	b := a.backend
	beta1, beta2 := a.config.Beta1, a.config.Beta2

	g := grad
	if cast != nil {
		b.CastTo(scratch, grad)
		g = scratch
	}

	// m = beta1 * m + (1-beta1) * g
	b.Scale(m, beta1)
	b.AddScaled(m, 1-beta1, g)

	// v = beta2 * v + (1-beta2) * g²
	b.MulTo(scratch, g, g)
	b.Scale(v, beta2)
	b.AddScaled(v, 1-beta2, scratch)

	// p = p - lr_t * m / (sqrt(v) + eps)
	b.SqrtTo(scratch, v)
	b.AddConst(scratch, a.config.Epsilon)
	b.DivTo(scratch, m, scratch)
	if cast != nil {
		b.CastTo(cast, scratch)
		b.AddScaled(param, -lrT, cast)
		return
	}
	b.AddScaled(param, -lrT, scratch)
}

// biasCorrectedLR64 returns lr * sqrt(1 - beta2^t) / (1 - beta1^t).
func (a *Adam[B]) biasCorrectedLR64(t int) float64 {
	ft := float64(t)
	return a.config.LR * math.Sqrt(1-math.Pow(a.config.Beta2, ft)) / (1 - math.Pow(a.config.Beta1, ft))
}

// biasCorrectedLR32 is biasCorrectedLR64 evaluated in float32.
//
// A beta within float32 rounding of 1 collapses one of the correction terms:
// beta1 gives a zero denominator (Inf or NaN), beta2 a zero numerator. The
// float64 value is used whenever the float32 result is not a finite positive
// number.
func (a *Adam[B]) biasCorrectedLR32(t int) float32 {
	ft := float32(t)
	lr, beta1, beta2 := float32(a.config.LR), float32(a.config.Beta1), float32(a.config.Beta2)
	lrT := lr * math32.Sqrt(1-math32.Pow(beta2, ft)) / (1 - math32.Pow(beta1, ft))
	if lrT <= 0 || math32.IsInf(lrT, 0) || math32.IsNaN(lrT) {
		return float32(a.biasCorrectedLR64(t))
	}
	return lrT
}
