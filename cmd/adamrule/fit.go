package main

import (
	"fmt"
	"io"

	"golang.org/x/exp/constraints"

	"github.com/born-ml/adamrule/backend/cpu"
	"github.com/born-ml/adamrule/internal/config"
	"github.com/born-ml/adamrule/optim"
	"github.com/born-ml/adamrule/tensor"
)

type fitOptions struct {
	ConfigPath string
	Rule       string
	LR         float64
	Steps      int
	Dim        int
	DType      string
	Every      int
}

type fitResult struct {
	Rule  string
	Loss  float64
	Final []float64
}

// fit minimizes f(x) = sum_i (x_i - (i+1))² from x = 0 and reports progress to w.
func fit(opts fitOptions, w io.Writer) (fitResult, error) {
	if opts.Steps < 0 || opts.Dim <= 0 {
		return fitResult{}, fmt.Errorf("steps must be >= 0 and dim > 0, got %d and %d", opts.Steps, opts.Dim)
	}

	rc, err := loadRuleConfig(opts)
	if err != nil {
		return fitResult{}, err
	}
	dtype, err := tensor.ParseDataType(opts.DType)
	if err != nil {
		return fitResult{}, err
	}

	backend := cpu.New()
	rule, err := optim.NewLearningRule(rc.Rule, rc.Name, rc.Hyperparameters, backend)
	if err != nil {
		return fitResult{}, err
	}

	switch dtype {
	case tensor.Float32:
		return runQuadratic[float32](rule, backend, opts, w)
	case tensor.Float64:
		return runQuadratic[float64](rule, backend, opts, w)
	default:
		return fitResult{}, fmt.Errorf("dtype must be float32 or float64, got %s", dtype)
	}
}

func loadRuleConfig(opts fitOptions) (config.RuleConfig, error) {
	rc, err := config.Parse(nil)
	if opts.ConfigPath != "" {
		rc, err = config.LoadFile(opts.ConfigPath)
	}
	if err != nil {
		return config.RuleConfig{}, err
	}

	if opts.Rule != "" {
		if rc.Name == rc.Rule {
			rc.Name = opts.Rule
		}
		rc.Rule = opts.Rule
	}
	if opts.LR > 0 {
		rc.Hyperparameters["learning_rate"] = opts.LR
	}
	return rc, nil
}

func runQuadratic[T constraints.Float](rule optim.LearningRule, backend *cpu.Backend, opts fitOptions, w io.Writer) (fitResult, error) {
	shape := tensor.Shape{opts.Dim}
	x := tensor.Zeros[T](shape, backend)
	grad := tensor.Zeros[T](shape, backend)
	params := []*tensor.RawTensor{x.Raw()}
	grads := []*tensor.RawTensor{grad.Raw()}

	if err := rule.AllocateState(params); err != nil {
		return fitResult{}, err
	}

	loss := func() float64 {
		var sum float64
		for i, v := range x.Data() {
			d := float64(v) - float64(i+1)
			sum += d * d
		}
		return sum
	}

	fmt.Fprintf(w, "rule=%s dtype=%s dim=%d steps=%d\n", rule.Name(), x.DType(), opts.Dim, opts.Steps)
	for step := 0; step < opts.Steps; step++ {
		g := grad.Data()
		for i, v := range x.Data() {
			g[i] = 2 * (v - T(i+1))
		}
		if err := rule.Apply(params, grads, step); err != nil {
			return fitResult{}, fmt.Errorf("step %d: %w", step, err)
		}
		if opts.Every > 0 && (step+1)%opts.Every == 0 {
			fmt.Fprintf(w, "step %6d  loss %.6g\n", step+1, loss())
		}
	}

	final := make([]float64, opts.Dim)
	for i, v := range x.Data() {
		final[i] = float64(v)
	}
	res := fitResult{Rule: rule.Name(), Loss: loss(), Final: final}
	fmt.Fprintf(w, "final loss %.6g  x = %.4f\n", res.Loss, res.Final)
	return res, nil
}
