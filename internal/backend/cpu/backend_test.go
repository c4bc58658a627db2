package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/adamrule/internal/parallel"
	"github.com/born-ml/adamrule/internal/tensor"
)

const epsilon = 1e-6

func fromFloat64(t *testing.T, b *CPUBackend, data []float64) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape{len(data)}, b)
	require.NoError(t, err)
	return x.Raw()
}

func fromFloat32(t *testing.T, b *CPUBackend, data []float32) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape{len(data)}, b)
	require.NoError(t, err)
	return x.Raw()
}

func TestZeros(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())

	for _, dtype := range []tensor.DataType{tensor.Float32, tensor.Float64} {
		raw, err := backend.Zeros(tensor.Shape{2, 3}, dtype)
		require.NoError(t, err)
		assert.Equal(t, dtype, raw.DType())
		assert.True(t, raw.Shape().Equal(tensor.Shape{2, 3}))
		for _, v := range raw.Data() {
			assert.Zero(t, v)
		}
	}

	_, err := backend.Zeros(tensor.Shape{2, 0}, tensor.Float32)
	assert.Error(t, err)
}

func TestElementwiseFloat64(t *testing.T) {
	backend := New()

	tests := []struct {
		name string
		run  func(dst, a, b *tensor.RawTensor)
		want []float64
	}{
		{"scale", func(dst, a, _ *tensor.RawTensor) { backend.Scale(a, 0.5); copy(dst.AsFloat64(), a.AsFloat64()) }, []float64{0.5, 2, 4.5}},
		{"addconst", func(dst, a, _ *tensor.RawTensor) { backend.AddConst(a, 1); copy(dst.AsFloat64(), a.AsFloat64()) }, []float64{2, 5, 10}},
		{"addscaled", func(dst, a, b *tensor.RawTensor) { copy(dst.AsFloat64(), a.AsFloat64()); backend.AddScaled(dst, -2, b) }, []float64{-3, 0, 5}},
		{"multo", func(dst, a, b *tensor.RawTensor) { backend.MulTo(dst, a, b) }, []float64{2, 8, 18}},
		{"divto", func(dst, a, b *tensor.RawTensor) { backend.DivTo(dst, a, b) }, []float64{0.5, 2, 4.5}},
		{"sqrtto", func(dst, a, _ *tensor.RawTensor) { backend.SqrtTo(dst, a) }, []float64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := fromFloat64(t, backend, []float64{1, 4, 9})
			b := fromFloat64(t, backend, []float64{2, 2, 2})
			dst, err := backend.Zeros(tensor.Shape{3}, tensor.Float64)
			require.NoError(t, err)

			tt.run(dst, a, b)
			assert.InDeltaSlice(t, tt.want, dst.AsFloat64(), epsilon)
		})
	}
}

func TestElementwiseFloat32MatchesFloat64(t *testing.T) {
	backend := New()

	a32 := fromFloat32(t, backend, []float32{0.25, 1, 2.5, 16})
	g32 := fromFloat32(t, backend, []float32{0.5, -1, 3, 0.1})
	a64 := fromFloat64(t, backend, []float64{0.25, 1, 2.5, 16})
	g64 := fromFloat64(t, backend, []float64{0.5, -1, 3, 0.1})
	s32, _ := backend.Zeros(tensor.Shape{4}, tensor.Float32)
	s64, _ := backend.Zeros(tensor.Shape{4}, tensor.Float64)

	for _, step := range []struct {
		a, g, s *tensor.RawTensor
	}{{a32, g32, s32}, {a64, g64, s64}} {
		backend.Scale(step.a, 0.9)
		backend.AddScaled(step.a, 0.1, step.g)
		backend.MulTo(step.s, step.g, step.g)
		backend.SqrtTo(step.s, step.s)
		backend.AddConst(step.s, 1e-3)
		backend.DivTo(step.s, step.a, step.s)
	}

	got := s32.AsFloat32()
	for i, want := range s64.AsFloat64() {
		assert.InEpsilon(t, want, float64(got[i]), 1e-5, "element %d", i)
	}
}

func TestElementwiseAliasedOperands(t *testing.T) {
	backend := New()
	x := fromFloat32(t, backend, []float32{2, 3})

	backend.MulTo(x, x, x)
	assert.Equal(t, []float32{4, 9}, x.AsFloat32())

	backend.SqrtTo(x, x)
	assert.Equal(t, []float32{2, 3}, x.AsFloat32())
}

func TestElementwiseMismatchPanics(t *testing.T) {
	backend := New()
	a := fromFloat64(t, backend, []float64{1, 2})
	b := fromFloat64(t, backend, []float64{1, 2, 3})
	c := fromFloat32(t, backend, []float32{1, 2})

	assert.Panics(t, func() { backend.MulTo(a, a, b) })
	assert.Panics(t, func() { backend.AddScaled(a, 1, c) })
	assert.Panics(t, func() { backend.SqrtTo(a, b) })
}

func TestUnsupportedDTypePanics(t *testing.T) {
	backend := New()
	ints, err := backend.Zeros(tensor.Shape{2}, tensor.Int32)
	require.NoError(t, err)

	assert.Panics(t, func() { backend.Scale(ints, 2) })
	assert.Panics(t, func() { backend.AddConst(ints, 1) })
}

func TestCastTo(t *testing.T) {
	backend := New()
	x64 := fromFloat64(t, backend, []float64{0.1, -2, 1e10})
	x32, err := backend.Zeros(tensor.Shape{3}, tensor.Float32)
	require.NoError(t, err)

	backend.CastTo(x32, x64)
	assert.Equal(t, []float32{0.1, -2, 1e10}, x32.AsFloat32())

	back, err := backend.Zeros(tensor.Shape{3}, tensor.Float64)
	require.NoError(t, err)
	backend.CastTo(back, x32)
	assert.InDeltaSlice(t, []float64{0.1, -2, 1e10}, back.AsFloat64(), 1e3)
	assert.Equal(t, float64(float32(0.1)), back.AsFloat64()[0])

	// Same precision is a plain copy.
	same, err := backend.Zeros(tensor.Shape{3}, tensor.Float64)
	require.NoError(t, err)
	backend.CastTo(same, x64)
	assert.Equal(t, x64.AsFloat64(), same.AsFloat64())

	ints, err := backend.Zeros(tensor.Shape{3}, tensor.Int32)
	require.NoError(t, err)
	assert.Panics(t, func() { backend.CastTo(ints, x64) })
	assert.Panics(t, func() { backend.CastTo(x32, ints) })
	assert.Panics(t, func() { backend.CastTo(x32, fromFloat64(t, backend, []float64{1})) })
}

func TestParallelMatchesSequential(t *testing.T) {
	seq := NewWithConfig(parallel.Sequential())
	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16})

	const n = 1000
	data := make([]float64, n)
	grad := make([]float64, n)
	for i := range data {
		data[i] = float64(i%17) + 0.5
		grad[i] = float64(i%5) - 2.25
	}

	run := func(backend *CPUBackend) []float64 {
		a := fromFloat64(t, backend, data)
		g := fromFloat64(t, backend, grad)
		s, err := backend.Zeros(tensor.Shape{n}, tensor.Float64)
		require.NoError(t, err)

		backend.Scale(a, 0.9)
		backend.AddScaled(a, 0.1, g)
		backend.MulTo(s, g, g)
		backend.SqrtTo(s, s)
		backend.AddConst(s, 1e-3)
		backend.DivTo(s, a, s)
		return s.AsFloat64()
	}

	assert.Equal(t, run(seq), run(par))
}

func BenchmarkAdamKernelsFloat32(b *testing.B) {
	backend := New()
	shape := tensor.Shape{256, 256}
	g := tensor.Full[float32](shape, 0.01, backend).Raw()
	m := tensor.Zeros[float32](shape, backend).Raw()
	v := tensor.Zeros[float32](shape, backend).Raw()
	s := tensor.Zeros[float32](shape, backend).Raw()
	p := tensor.Full[float32](shape, 1, backend).Raw()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.Scale(m, 0.9)
		backend.AddScaled(m, 0.1, g)
		backend.MulTo(s, g, g)
		backend.Scale(v, 0.999)
		backend.AddScaled(v, 0.001, s)
		backend.SqrtTo(s, v)
		backend.AddConst(s, 1e-8)
		backend.DivTo(s, m, s)
		backend.AddScaled(p, -1e-3, s)
	}
}
