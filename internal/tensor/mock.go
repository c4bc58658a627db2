package tensor

import (
	"fmt"
	"math"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively in float64 for correctness
// verification and counts every element-wise call it receives.
type MockBackend struct {
	calls int
}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Calls returns the number of element-wise operations executed so far.
func (m *MockBackend) Calls() int {
	return m.calls
}

// Zeros allocates a zero-filled tensor.
func (m *MockBackend) Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return NewRaw(shape, dtype, m.Device())
}

// Scale computes x = alpha * x.
func (m *MockBackend) Scale(x *RawTensor, alpha float64) {
	m.apply(x, func(i int) float64 { return alpha * m.at(x, i) })
}

// AddConst computes x = x + c.
func (m *MockBackend) AddConst(x *RawTensor, c float64) {
	m.apply(x, func(i int) float64 { return m.at(x, i) + c })
}

// AddScaled computes dst = dst + alpha * x.
func (m *MockBackend) AddScaled(dst *RawTensor, alpha float64, x *RawTensor) {
	m.check("addscaled", dst, x)
	m.apply(dst, func(i int) float64 { return m.at(dst, i) + alpha*m.at(x, i) })
}

// MulTo computes dst = a * b.
func (m *MockBackend) MulTo(dst, a, b *RawTensor) {
	m.check("multo", dst, a, b)
	m.apply(dst, func(i int) float64 { return m.at(a, i) * m.at(b, i) })
}

// DivTo computes dst = a / b.
func (m *MockBackend) DivTo(dst, a, b *RawTensor) {
	m.check("divto", dst, a, b)
	m.apply(dst, func(i int) float64 { return m.at(a, i) / m.at(b, i) })
}

// SqrtTo computes dst = sqrt(x).
func (m *MockBackend) SqrtTo(dst, x *RawTensor) {
	m.check("sqrtto", dst, x)
	m.apply(dst, func(i int) float64 { return math.Sqrt(m.at(x, i)) })
}

// CastTo copies src into dst, converting to dst's data type.
func (m *MockBackend) CastTo(dst, src *RawTensor) {
	if !dst.Shape().Equal(src.Shape()) {
		panic(fmt.Sprintf("castto: shape mismatch: %v vs %v", dst.Shape(), src.Shape()))
	}
	m.apply(dst, func(i int) float64 { return m.at(src, i) })
}

// check panics unless all operands share the first operand's layout.
func (m *MockBackend) check(op string, dst *RawTensor, others ...*RawTensor) {
	for _, o := range others {
		if !dst.SameLayout(o) {
			panic(fmt.Sprintf("%s: operand mismatch: %v/%s vs %v/%s", op, dst.Shape(), dst.DType(), o.Shape(), o.DType()))
		}
	}
}

// apply computes every element with f before writing any result, so operands
// may alias dst.
func (m *MockBackend) apply(dst *RawTensor, f func(i int) float64) {
	m.calls++
	out := make([]float64, dst.NumElements())
	for i := range out {
		out[i] = f(i)
	}
	for i, v := range out {
		m.set(dst, i, v)
	}
}

// at returns element i of t as float64.
func (m *MockBackend) at(t *RawTensor, i int) float64 {
	switch t.DType() {
	case Float32:
		return float64(t.AsFloat32()[i])
	case Float64:
		return t.AsFloat64()[i]
	default:
		panic(fmt.Sprintf("mock: unsupported dtype %s", t.DType()))
	}
}

// set writes element i of t from a float64.
func (m *MockBackend) set(t *RawTensor, i int, v float64) {
	switch t.DType() {
	case Float32:
		t.AsFloat32()[i] = float32(v)
	case Float64:
		t.AsFloat64()[i] = v
	default:
		panic(fmt.Sprintf("mock: unsupported dtype %s", t.DType()))
	}
}
