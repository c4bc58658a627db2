package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/adamrule/internal/tensor"
)

// Default Adam hyperparameters.
const (
	DefaultAdamLR      = 0.001
	DefaultAdamBeta1   = 0.9
	DefaultAdamBeta2   = 0.999
	DefaultAdamEpsilon = 1e-8
)

// Configuration mapping keys understood by AdamConfigFromMap and
// SGDConfigFromMap.
const (
	KeyLearningRate = "learning_rate"
	KeyBeta1        = "beta_1"
	KeyBeta2        = "beta_2"
	KeyEpsilon      = "epsilon"
	KeyParamDType   = "param_dtype"
	KeyMomentum     = "momentum"
)

// AdamConfig holds configuration for the Adam learning rule.
//
// Zero-valued fields take their defaults in NewAdam.
type AdamConfig struct {
	LR      float64         // Learning rate (default: 0.001)
	Beta1   float64         // First moment decay rate (default: 0.9)
	Beta2   float64         // Second moment decay rate (default: 0.999)
	Epsilon float64         // Term for numerical stability (default: 1e-8)
	DType   tensor.DataType // State and arithmetic precision (default: each parameter's own)
}

// DefaultAdamConfig returns the configuration recommended by Kingma & Ba.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LR:      DefaultAdamLR,
		Beta1:   DefaultAdamBeta1,
		Beta2:   DefaultAdamBeta2,
		Epsilon: DefaultAdamEpsilon,
	}
}

// withDefaults fills zero-valued fields.
func (c AdamConfig) withDefaults() AdamConfig {
	if c.LR == 0 {
		c.LR = DefaultAdamLR
	}
	if c.Beta1 == 0 {
		c.Beta1 = DefaultAdamBeta1
	}
	if c.Beta2 == 0 {
		c.Beta2 = DefaultAdamBeta2
	}
	if c.Epsilon == 0 {
		c.Epsilon = DefaultAdamEpsilon
	}
	return c
}

// Validate checks every hyperparameter against its domain.
func (c AdamConfig) Validate() error {
	if !positive(c.LR) {
		return fmt.Errorf("%w: learning rate must be > 0, got %v", ErrConfiguration, c.LR)
	}
	if !openUnit(c.Beta1) {
		return fmt.Errorf("%w: beta_1 must be in (0, 1), got %v", ErrConfiguration, c.Beta1)
	}
	if !openUnit(c.Beta2) {
		return fmt.Errorf("%w: beta_2 must be in (0, 1), got %v", ErrConfiguration, c.Beta2)
	}
	if !positive(c.Epsilon) {
		return fmt.Errorf("%w: epsilon must be > 0, got %v", ErrConfiguration, c.Epsilon)
	}
	if c.DType != tensor.Unknown && !c.DType.IsFloat() {
		return fmt.Errorf("%w: param dtype must be floating point, got %s", ErrConfiguration, c.DType)
	}
	return nil
}

// AdamConfigFromMap builds an AdamConfig from a configuration mapping.
//
// Recognized keys are learning_rate, beta_1, beta_2, epsilon and
// param_dtype. Missing keys take their defaults and unrecognized keys are
// ignored. Unlike the zero-value defaulting of NewAdam, a key that is present
// is used as given, so {"epsilon": 0} is rejected.
func AdamConfigFromMap(m map[string]any) (AdamConfig, error) {
	c := DefaultAdamConfig()

	fields := []struct {
		key string
		dst *float64
	}{
		{KeyLearningRate, &c.LR},
		{KeyBeta1, &c.Beta1},
		{KeyBeta2, &c.Beta2},
		{KeyEpsilon, &c.Epsilon},
	}
	for _, f := range fields {
		if err := floatOption(m, f.key, f.dst); err != nil {
			return AdamConfig{}, err
		}
	}
	if err := dtypeOption(m, KeyParamDType, &c.DType); err != nil {
		return AdamConfig{}, err
	}

	if err := c.Validate(); err != nil {
		return AdamConfig{}, err
	}
	return c, nil
}

// floatOption stores m[key] into dst when present.
func floatOption(m map[string]any, key string, dst *float64) error {
	raw, ok := m[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*dst = v
	case float32:
		*dst = float64(v)
	case int:
		*dst = float64(v)
	case int32:
		*dst = float64(v)
	case int64:
		*dst = float64(v)
	default:
		return fmt.Errorf("%w: %s must be a number, got %T", ErrConfiguration, key, raw)
	}
	return nil
}

// dtypeOption stores m[key] into dst when present.
func dtypeOption(m map[string]any, key string, dst *tensor.DataType) error {
	raw, ok := m[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case tensor.DataType:
		*dst = v
	case string:
		dt, err := tensor.ParseDataType(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConfiguration, key, err)
		}
		*dst = dt
	default:
		return fmt.Errorf("%w: %s must be a type name, got %T", ErrConfiguration, key, raw)
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func openUnit(x float64) bool {
	return x > 0 && x < 1
}
