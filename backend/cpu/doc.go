// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for learning rules.
//
// Float64 kernels are gonum/floats routines; float32 kernels use gonum's
// blas32 for scaling and axpy and math32 for square roots. No CGO.
package cpu
