// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/adamrule/internal/backend/cpu"
	"github.com/born-ml/adamrule/internal/parallel"
	"github.com/born-ml/adamrule/tensor"
)

// ParallelConfig controls how element-wise work is split across goroutines.
type ParallelConfig = parallel.Config

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	w := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
//
// Example:
//
//	backend := cpu.NewWithConfig(cpu.ParallelConfig{}) // single goroutine
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}
