package cpu

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Float64 kernels

func scaleFloat64(x []float64, alpha float64) {
	floats.Scale(alpha, x)
}

func addConstFloat64(x []float64, c float64) {
	floats.AddConst(c, x)
}

func addScaledFloat64(dst []float64, alpha float64, x []float64) {
	floats.AddScaled(dst, alpha, x)
}

func mulToFloat64(dst, a, b []float64) {
	floats.MulTo(dst, a, b)
}

func divToFloat64(dst, a, b []float64) {
	floats.DivTo(dst, a, b)
}

func sqrtToFloat64(dst, x []float64) {
	mapTo(dst, x, math.Sqrt)
}
