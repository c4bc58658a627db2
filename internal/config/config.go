// Package config loads learning-rule settings from YAML documents.
//
// A document names the rule and carries its hyperparameter mapping:
//
//	rule: adam
//	name: encoder
//	hyperparameters:
//	  learning_rate: 0.001
//	  beta_1: 0.9
//	  beta_2: 0.999
//	  epsilon: 1e-8
//
// The mapping is passed through unchanged; interpreting it (defaults,
// validation, ignoring unknown keys) is up to the rule.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRule is used when a document does not name a rule.
const DefaultRule = "adam"

// RuleConfig is a parsed learning-rule document.
type RuleConfig struct {
	Rule            string         `yaml:"rule"`
	Name            string         `yaml:"name"`
	Hyperparameters map[string]any `yaml:"hyperparameters"`
}

// Parse decodes a YAML document. An empty document yields the default rule
// with an empty mapping.
func Parse(data []byte) (RuleConfig, error) {
	var rc RuleConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rc); err != nil && !errors.Is(err, io.EOF) {
		return RuleConfig{}, fmt.Errorf("parse rule config: %w", err)
	}

	if rc.Rule == "" {
		rc.Rule = DefaultRule
	}
	if rc.Name == "" {
		rc.Name = rc.Rule
	}
	if rc.Hyperparameters == nil {
		rc.Hyperparameters = map[string]any{}
	}
	return rc, nil
}

// LoadFile reads and parses the YAML document at path.
func LoadFile(path string) (RuleConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return RuleConfig{}, fmt.Errorf("load rule config: %w", err)
	}
	rc, err := Parse(data)
	if err != nil {
		return RuleConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}
