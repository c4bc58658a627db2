package optim

import (
	"fmt"

	"github.com/born-ml/adamrule/internal/tensor"
)

// DefaultSGDLR is the default gradient descent learning rate.
const DefaultSGDLR = 0.01

// GradientDescent implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Velocity buffers are only allocated when momentum is non-zero.
// GradientDescent is not safe for concurrent use.
type GradientDescent[B tensor.Backend] struct {
	name    string
	config  SGDConfig
	backend B

	bound      bool
	layouts    []layout
	velocities []*tensor.RawTensor
}

// SGDConfig holds configuration for the gradient descent learning rule.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// Validate checks the hyperparameters against their domains.
func (c SGDConfig) Validate() error {
	if !positive(c.LR) {
		return fmt.Errorf("%w: learning rate must be > 0, got %v", ErrConfiguration, c.LR)
	}
	if !(c.Momentum >= 0 && c.Momentum < 1) {
		return fmt.Errorf("%w: momentum must be in [0, 1), got %v", ErrConfiguration, c.Momentum)
	}
	return nil
}

// SGDConfigFromMap builds an SGDConfig from the learning_rate and momentum
// keys of a configuration mapping, ignoring all other keys.
func SGDConfigFromMap(m map[string]any) (SGDConfig, error) {
	c := SGDConfig{LR: DefaultSGDLR}
	if err := floatOption(m, KeyLearningRate, &c.LR); err != nil {
		return SGDConfig{}, err
	}
	if err := floatOption(m, KeyMomentum, &c.Momentum); err != nil {
		return SGDConfig{}, err
	}
	if err := c.Validate(); err != nil {
		return SGDConfig{}, err
	}
	return c, nil
}

// NewGradientDescent creates a new, unbound gradient descent learning rule.
//
// A zero LR takes the default of 0.01.
func NewGradientDescent[B tensor.Backend](name string, config SGDConfig, backend B) (*GradientDescent[B], error) {
	if config.LR == 0 {
		config.LR = DefaultSGDLR
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("sgd %q: %w", name, err)
	}

	return &GradientDescent[B]{
		name:    name,
		config:  config,
		backend: backend,
	}, nil
}

// Name returns the rule's identifying name.
func (s *GradientDescent[B]) Name() string {
	return s.name
}

// LR returns the learning rate.
func (s *GradientDescent[B]) LR() float64 {
	return s.config.LR
}

// Velocities returns the momentum buffers in parameter order, or nil when
// momentum is disabled.
func (s *GradientDescent[B]) Velocities() []*tensor.RawTensor {
	return s.velocities
}

// AllocateState binds the rule to params. See Adam.AllocateState.
func (s *GradientDescent[B]) AllocateState(params []*tensor.RawTensor) error {
	if s.bound {
		return fmt.Errorf("sgd %q: %w: state already allocated", s.name, ErrInvalidState)
	}
	if err := checkParams(params); err != nil {
		return fmt.Errorf("sgd %q: %w", s.name, err)
	}

	if s.config.Momentum != 0 {
		velocities, err := zerosLike(s.backend, params, tensor.Unknown)
		if err != nil {
			return fmt.Errorf("sgd %q: velocity: %w", s.name, err)
		}
		s.velocities = velocities
	}

	s.layouts = layoutsOf(params)
	s.bound = true
	return nil
}

// Apply performs one gradient descent update. step only needs to be
// non-negative; plain and momentum SGD do not depend on it.
func (s *GradientDescent[B]) Apply(params, grads []*tensor.RawTensor, step int) error {
	if !s.bound {
		return fmt.Errorf("sgd %q: %w: AllocateState has not been called", s.name, ErrInvalidState)
	}
	if step < 0 {
		return fmt.Errorf("sgd %q: %w: %d", s.name, ErrInvalidStep, step)
	}
	if err := checkAligned(params, grads, s.layouts); err != nil {
		return fmt.Errorf("sgd %q: %w", s.name, err)
	}

	for i, param := range params {
		if s.velocities == nil {
			// param -= lr * grad
			s.backend.AddScaled(param, -s.config.LR, grads[i])
			continue
		}

		// velocity = momentum * velocity + grad
		velocity := s.velocities[i]
		s.backend.Scale(velocity, s.config.Momentum)
		s.backend.AddScaled(velocity, 1, grads[i])

		// param -= lr * velocity
		s.backend.AddScaled(param, -s.config.LR, velocity)
	}
	return nil
}
