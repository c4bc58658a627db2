// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/adamrule/internal/tensor"

// MockBackend is a naive float64 reference backend that counts the
// element-wise operations it executes. Useful in tests of code that drives
// learning rules.
type MockBackend = tensor.MockBackend

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return tensor.NewMockBackend()
}
