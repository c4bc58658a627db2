package tensor

// Backend defines what a learning rule needs from a compute backend:
// zero-filled allocation and in-place element-wise arithmetic.
//
// All element-wise operations require operands of identical shape and data
// type and write their result into the first tensor argument. CastTo is the
// one exception: it only requires equal shapes. Implementations
// panic on mismatched operands; callers are expected to validate first.
//
// Implementations:
//   - CPU: Pure Go, gonum-backed kernels
type Backend interface {
	// Allocation
	Zeros(shape Shape, dtype DataType) (*RawTensor, error)

	// In-place scalar operations
	Scale(x *RawTensor, alpha float64)  // x = alpha * x
	AddConst(x *RawTensor, c float64)   // x = x + c

	// In-place element-wise operations
	AddScaled(dst *RawTensor, alpha float64, x *RawTensor) // dst = dst + alpha * x
	MulTo(dst, a, b *RawTensor)                            // dst = a * b
	DivTo(dst, a, b *RawTensor)                            // dst = a / b
	SqrtTo(dst, x *RawTensor)                              // dst = sqrt(x)

	// Precision conversion
	CastTo(dst, src *RawTensor) // dst = src converted to dst's data type

	// Metadata
	Name() string
	Device() Device
}
