// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides learning rules that update model parameters from
// externally computed gradients.
//
// # Overview
//
// This package contains:
//   - Adam: Adaptive Moment Estimation with bias correction
//   - GradientDescent: SGD with optional momentum
//   - LearningRule interface shared by both
//
// A rule is created unbound, bound once to an ordered parameter set with
// AllocateState, and then applied once per training step. Parameters are
// updated in place; gradients are never modified.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/adamrule/backend/cpu"
//	    "github.com/born-ml/adamrule/optim"
//	    "github.com/born-ml/adamrule/tensor"
//	)
//
//	func train(params []*tensor.RawTensor) error {
//	    rule, err := optim.NewAdam("model", optim.AdamConfig{LR: 0.001}, cpu.New())
//	    if err != nil {
//	        return err
//	    }
//	    if err := rule.AllocateState(params); err != nil {
//	        return err
//	    }
//
//	    for step := range numSteps {
//	        grads := backward(params)
//	        if err := rule.Apply(params, grads, step); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	}
//
// # Errors
//
// Misuse is reported, never repaired: ErrConfiguration for out-of-range
// hyperparameters, ErrInvalidState for lifecycle violations,
// ErrShapeMismatch and ErrDTypeMismatch for misaligned tensors and
// ErrInvalidStep for negative steps. A failed Apply changes nothing.
//
// # Concurrency
//
// Rules are not safe for concurrent use. A single Apply must complete before
// the same rule is used again.
package optim
