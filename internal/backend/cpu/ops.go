package cpu

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/born-ml/adamrule/internal/tensor"
)

// mustMatch panics unless every operand has dst's shape and dtype.
func mustMatch(op string, dst *tensor.RawTensor, operands ...*tensor.RawTensor) {
	for _, x := range operands {
		if !dst.SameLayout(x) {
			panic(fmt.Sprintf("%s: operand mismatch: %v %s vs %v %s",
				op, dst.Shape(), dst.DType(), x.Shape(), x.DType()))
		}
	}
}

// Generic kernels shared by both float widths where no gonum routine exists.

func addConst[T constraints.Float](x []T, c T) {
	for i := range x {
		x[i] += c
	}
}

func mulTo[T constraints.Float](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

func divTo[T constraints.Float](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] / b[i]
	}
}

func convert[D, S constraints.Float](dst []D, src []S) {
	for i := range dst {
		dst[i] = D(src[i])
	}
}

// castTo fills dst from src, whatever src's float width.
func castTo[D constraints.Float](cpu *CPUBackend, dst []D, src *tensor.RawTensor) {
	switch src.DType() {
	case tensor.Float32:
		s := src.AsFloat32()
		cpu.each(len(dst), func(lo, hi int) { convert(dst[lo:hi], s[lo:hi]) })
	case tensor.Float64:
		s := src.AsFloat64()
		cpu.each(len(dst), func(lo, hi int) { convert(dst[lo:hi], s[lo:hi]) })
	default:
		panic(fmt.Sprintf("castto: unsupported dtype %s", src.DType()))
	}
}

func mapTo[T constraints.Float](dst, x []T, f func(T) T) {
	for i := range dst {
		dst[i] = f(x[i])
	}
}
