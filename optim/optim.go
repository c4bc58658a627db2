// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/adamrule/internal/optim"
	"github.com/born-ml/adamrule/tensor"
)

// LearningRule is the interface shared by all update rules.
type LearningRule = optim.LearningRule

// Errors returned by learning rules; match with errors.Is.
var (
	ErrConfiguration = optim.ErrConfiguration
	ErrInvalidState  = optim.ErrInvalidState
	ErrShapeMismatch = optim.ErrShapeMismatch
	ErrDTypeMismatch = optim.ErrDTypeMismatch
	ErrInvalidStep   = optim.ErrInvalidStep
)

// Learning rule kinds understood by NewLearningRule.
const (
	KindAdam = optim.KindAdam
	KindSGD  = optim.KindSGD
)

// NewLearningRule builds the rule of the given kind from a configuration
// mapping.
//
// Example:
//
//	rule, err := optim.NewLearningRule(optim.KindAdam, "encoder",
//	    map[string]any{"learning_rate": 0.001}, cpu.New())
func NewLearningRule[B tensor.Backend](kind, name string, m map[string]any, backend B) (LearningRule, error) {
	return optim.NewLearningRule(kind, name, m, backend)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam learning rule.
type Adam[B tensor.Backend] = optim.Adam[B]

// AdamConfig contains configuration for the Adam learning rule.
type AdamConfig = optim.AdamConfig

// DefaultAdamConfig returns lr 0.001, betas (0.9, 0.999), epsilon 1e-8.
func DefaultAdamConfig() AdamConfig {
	return optim.DefaultAdamConfig()
}

// AdamConfigFromMap builds an AdamConfig from a configuration mapping with
// keys learning_rate, beta_1, beta_2, epsilon and param_dtype.
func AdamConfigFromMap(m map[string]any) (AdamConfig, error) {
	return optim.AdamConfigFromMap(m)
}

// NewAdam creates a new Adam learning rule with bias correction.
//
// Example:
//
//	backend := cpu.New()
//	rule, err := optim.NewAdam("encoder", optim.AdamConfig{
//	    LR:      0.001,
//	    Beta1:   0.9,
//	    Beta2:   0.999,
//	    Epsilon: 1e-8,
//	}, backend)
func NewAdam[B tensor.Backend](name string, config AdamConfig, backend B) (*Adam[B], error) {
	return optim.NewAdam(name, config, backend)
}

// Gradient descent

// GradientDescent represents SGD with optional momentum.
type GradientDescent[B tensor.Backend] = optim.GradientDescent[B]

// SGDConfig contains configuration for gradient descent.
type SGDConfig = optim.SGDConfig

// NewGradientDescent creates a new gradient descent learning rule.
func NewGradientDescent[B tensor.Backend](name string, config SGDConfig, backend B) (*GradientDescent[B], error) {
	return optim.NewGradientDescent(name, config, backend)
}
