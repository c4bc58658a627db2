// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor types learning rules operate on.
//
// # Overview
//
// Learning rules exchange parameters, gradients and state buffers as
// RawTensor values: contiguous row-major buffers with a Shape and a
// DataType. Tensor[T, B] is a typed view used to build and inspect them.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/adamrule/backend/cpu"
//	    "github.com/born-ml/adamrule/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    w, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
//	    params := []*tensor.RawTensor{w.Raw()}
//	}
//
// # Supported Data Types
//
// Learning rules accept Float32 and Float64 tensors. Int32 and Int64 exist
// for completeness and are rejected by every rule.
package tensor
