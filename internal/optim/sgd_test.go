package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/adamrule/internal/backend/cpu"
	"github.com/born-ml/adamrule/internal/optim"
	"github.com/born-ml/adamrule/internal/tensor"
)

var _ optim.LearningRule = (*optim.GradientDescent[*cpu.CPUBackend])(nil)

func TestSGD_SimpleUpdate(t *testing.T) {
	x := raw32(t, []float32{2.0})
	rule, err := optim.NewGradientDescent("sgd", optim.SGDConfig{LR: 0.1}, cpu.New())
	require.NoError(t, err)
	require.NoError(t, rule.AllocateState([]*tensor.RawTensor{x}))
	assert.Nil(t, rule.Velocities())

	require.NoError(t, rule.Apply([]*tensor.RawTensor{x}, []*tensor.RawTensor{raw32(t, []float32{1.0})}, 0))

	// x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0
	assert.InDelta(t, 1.9, float64(x.AsFloat32()[0]), 1e-6)
}

func TestSGD_WithMomentum(t *testing.T) {
	x := raw64(t, []float64{1.0})
	rule, err := optim.NewGradientDescent("sgd", optim.SGDConfig{LR: 0.1, Momentum: 0.9}, cpu.New())
	require.NoError(t, err)
	require.NoError(t, rule.AllocateState([]*tensor.RawTensor{x}))
	require.Len(t, rule.Velocities(), 1)

	grads := []*tensor.RawTensor{raw64(t, []float64{1.0})}

	// v_1 = 0.9 * 0 + 1.0 = 1.0, x_1 = 1.0 - 0.1 * 1.0 = 0.9
	require.NoError(t, rule.Apply([]*tensor.RawTensor{x}, grads, 0))
	assert.InDelta(t, 0.9, x.AsFloat64()[0], 1e-12)

	// v_2 = 0.9 * 1.0 + 1.0 = 1.9, x_2 = 0.9 - 0.1 * 1.9 = 0.71
	require.NoError(t, rule.Apply([]*tensor.RawTensor{x}, grads, 1))
	assert.InDelta(t, 0.71, x.AsFloat64()[0], 1e-12)
	assert.InDelta(t, 1.9, rule.Velocities()[0].AsFloat64()[0], 1e-12)
}

func TestSGD_DefaultsAndValidation(t *testing.T) {
	rule, err := optim.NewGradientDescent("sgd", optim.SGDConfig{}, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, optim.DefaultSGDLR, rule.LR())
	assert.Equal(t, "sgd", rule.Name())

	_, err = optim.NewGradientDescent("sgd", optim.SGDConfig{Momentum: 1}, cpu.New())
	assert.ErrorIs(t, err, optim.ErrConfiguration)
}

func TestSGD_Lifecycle(t *testing.T) {
	x := raw64(t, []float64{1, 2})
	rule, err := optim.NewGradientDescent("sgd", optim.SGDConfig{LR: 0.5}, cpu.New())
	require.NoError(t, err)

	err = rule.Apply([]*tensor.RawTensor{x}, []*tensor.RawTensor{raw64(t, []float64{1, 1})}, 0)
	require.ErrorIs(t, err, optim.ErrInvalidState)

	require.NoError(t, rule.AllocateState([]*tensor.RawTensor{x}))
	require.ErrorIs(t, rule.AllocateState([]*tensor.RawTensor{x}), optim.ErrInvalidState)

	err = rule.Apply([]*tensor.RawTensor{x}, []*tensor.RawTensor{raw64(t, []float64{1, 1, 1})}, 0)
	require.ErrorIs(t, err, optim.ErrShapeMismatch)

	err = rule.Apply([]*tensor.RawTensor{x}, []*tensor.RawTensor{raw64(t, []float64{1, 1})}, -3)
	require.ErrorIs(t, err, optim.ErrInvalidStep)

	assert.Equal(t, []float64{1, 2}, x.AsFloat64())
}

func TestLearningRules_Interchangeable(t *testing.T) {
	newRules := map[string]func() (optim.LearningRule, error){
		"adam": func() (optim.LearningRule, error) {
			return optim.NewAdam("adam", optim.AdamConfig{LR: 0.1}, cpu.New())
		},
		"sgd": func() (optim.LearningRule, error) {
			return optim.NewGradientDescent("sgd", optim.SGDConfig{LR: 0.1, Momentum: 0.5}, cpu.New())
		},
	}

	for name, newRule := range newRules {
		t.Run(name, func(t *testing.T) {
			rule, err := newRule()
			require.NoError(t, err)

			// f(x) = x², gradient 2x
			x := raw64(t, []float64{4})
			require.NoError(t, rule.AllocateState([]*tensor.RawTensor{x}))
			for step := 0; step < 300; step++ {
				g := raw64(t, []float64{2 * x.AsFloat64()[0]})
				require.NoError(t, rule.Apply([]*tensor.RawTensor{x}, []*tensor.RawTensor{g}, step))
			}
			assert.InDelta(t, 0, x.AsFloat64()[0], 0.1)
		})
	}
}
