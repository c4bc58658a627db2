// Package cpu implements the CPU backend on top of gonum kernels.
package cpu

import (
	"fmt"

	"github.com/born-ml/adamrule/internal/parallel"
	"github.com/born-ml/adamrule/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// Float64 kernels use gonum/floats, float32 kernels use gonum's blas32 for
// scale/axpy and math32 for the remaining element-wise math. Large tensors
// are split into disjoint chunks processed by parallel goroutines; every op
// returns only after all chunks are done.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend using cfg to split element-wise work.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// each runs f over chunks of [0, n).
func (cpu *CPUBackend) each(n int, f func(lo, hi int)) {
	parallel.Range(n, cpu.parallel, f)
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Zeros allocates a zero-filled tensor on the CPU.
func (cpu *CPUBackend) Zeros(shape tensor.Shape, dtype tensor.DataType) (*tensor.RawTensor, error) {
	raw, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		return nil, fmt.Errorf("zeros: %w", err)
	}
	return raw, nil
}

// Scale computes x = alpha * x in place.
func (cpu *CPUBackend) Scale(x *tensor.RawTensor, alpha float64) {
	switch x.DType() {
	case tensor.Float32:
		xs := x.AsFloat32()
		cpu.each(len(xs), func(lo, hi int) { scaleFloat32(xs[lo:hi], float32(alpha)) })
	case tensor.Float64:
		xs := x.AsFloat64()
		cpu.each(len(xs), func(lo, hi int) { scaleFloat64(xs[lo:hi], alpha) })
	default:
		panic(fmt.Sprintf("scale: unsupported dtype %s", x.DType()))
	}
}

// AddConst computes x = x + c in place.
func (cpu *CPUBackend) AddConst(x *tensor.RawTensor, c float64) {
	switch x.DType() {
	case tensor.Float32:
		xs := x.AsFloat32()
		cpu.each(len(xs), func(lo, hi int) { addConst(xs[lo:hi], float32(c)) })
	case tensor.Float64:
		xs := x.AsFloat64()
		cpu.each(len(xs), func(lo, hi int) { addConstFloat64(xs[lo:hi], c) })
	default:
		panic(fmt.Sprintf("addconst: unsupported dtype %s", x.DType()))
	}
}

// AddScaled computes dst = dst + alpha * x in place.
func (cpu *CPUBackend) AddScaled(dst *tensor.RawTensor, alpha float64, x *tensor.RawTensor) {
	mustMatch("addscaled", dst, x)
	switch dst.DType() {
	case tensor.Float32:
		d, xs := dst.AsFloat32(), x.AsFloat32()
		cpu.each(len(d), func(lo, hi int) { addScaledFloat32(d[lo:hi], float32(alpha), xs[lo:hi]) })
	case tensor.Float64:
		d, xs := dst.AsFloat64(), x.AsFloat64()
		cpu.each(len(d), func(lo, hi int) { addScaledFloat64(d[lo:hi], alpha, xs[lo:hi]) })
	default:
		panic(fmt.Sprintf("addscaled: unsupported dtype %s", dst.DType()))
	}
}

// MulTo computes dst = a * b element-wise.
func (cpu *CPUBackend) MulTo(dst, a, b *tensor.RawTensor) {
	mustMatch("multo", dst, a, b)
	switch dst.DType() {
	case tensor.Float32:
		d, as, bs := dst.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		cpu.each(len(d), func(lo, hi int) { mulTo(d[lo:hi], as[lo:hi], bs[lo:hi]) })
	case tensor.Float64:
		d, as, bs := dst.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		cpu.each(len(d), func(lo, hi int) { mulToFloat64(d[lo:hi], as[lo:hi], bs[lo:hi]) })
	default:
		panic(fmt.Sprintf("multo: unsupported dtype %s", dst.DType()))
	}
}

// DivTo computes dst = a / b element-wise.
func (cpu *CPUBackend) DivTo(dst, a, b *tensor.RawTensor) {
	mustMatch("divto", dst, a, b)
	switch dst.DType() {
	case tensor.Float32:
		d, as, bs := dst.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		cpu.each(len(d), func(lo, hi int) { divTo(d[lo:hi], as[lo:hi], bs[lo:hi]) })
	case tensor.Float64:
		d, as, bs := dst.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		cpu.each(len(d), func(lo, hi int) { divToFloat64(d[lo:hi], as[lo:hi], bs[lo:hi]) })
	default:
		panic(fmt.Sprintf("divto: unsupported dtype %s", dst.DType()))
	}
}

// CastTo copies src into dst, converting each element to dst's data type.
// The operands must have equal shapes.
func (cpu *CPUBackend) CastTo(dst, src *tensor.RawTensor) {
	if !dst.Shape().Equal(src.Shape()) {
		panic(fmt.Sprintf("castto: shape mismatch: %v vs %v", dst.Shape(), src.Shape()))
	}
	switch dst.DType() {
	case tensor.Float32:
		castTo(cpu, dst.AsFloat32(), src)
	case tensor.Float64:
		castTo(cpu, dst.AsFloat64(), src)
	default:
		panic(fmt.Sprintf("castto: unsupported dtype %s", dst.DType()))
	}
}

// SqrtTo computes dst = sqrt(x) element-wise.
func (cpu *CPUBackend) SqrtTo(dst, x *tensor.RawTensor) {
	mustMatch("sqrtto", dst, x)
	switch dst.DType() {
	case tensor.Float32:
		d, xs := dst.AsFloat32(), x.AsFloat32()
		cpu.each(len(d), func(lo, hi int) { sqrtToFloat32(d[lo:hi], xs[lo:hi]) })
	case tensor.Float64:
		d, xs := dst.AsFloat64(), x.AsFloat64()
		cpu.each(len(d), func(lo, hi int) { sqrtToFloat64(d[lo:hi], xs[lo:hi]) })
	default:
		panic(fmt.Sprintf("sqrtto: unsupported dtype %s", dst.DType()))
	}
}
