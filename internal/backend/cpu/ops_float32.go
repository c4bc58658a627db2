package cpu

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/blas/blas32"
)

// Float32 kernels

func vec32(x []float32) blas32.Vector {
	return blas32.Vector{N: len(x), Inc: 1, Data: x}
}

func scaleFloat32(x []float32, alpha float32) {
	blas32.Scal(alpha, vec32(x))
}

func addScaledFloat32(dst []float32, alpha float32, x []float32) {
	blas32.Axpy(alpha, vec32(x), vec32(dst))
}

func sqrtToFloat32(dst, x []float32) {
	mapTo(dst, x, math32.Sqrt)
}
