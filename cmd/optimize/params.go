// Package main tunes the creation-probability table for long-lived,
// diverse ecosystems.
package main

import (
	"fmt"

	"github.com/pthm-cable/meadow/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds one creation probability per population row.
type ParamVector struct {
	Specs []ParamSpec
}

// Bounds for creation probabilities.
const (
	minCreation = 0.001
	maxCreation = 0.6
)

// NewParamVector builds the parameter set from the population table of cfg.
func NewParamVector(cfg *config.Config) *ParamVector {
	pv := &ParamVector{}
	for i, row := range cfg.Population {
		pv.Specs = append(pv.Specs, ParamSpec{
			Name:    "create_" + row.Species,
			Path:    fmt.Sprintf("population[%d].probability", i),
			Min:     minCreation,
			Max:     maxCreation,
			Default: min(max(row.Probability, minCreation), maxCreation),
		})
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into the population table and
// revalidates cfg so the resolved creation table follows.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)
	if len(cfg.Population) != len(clamped) {
		return fmt.Errorf("population has %d rows, want %d", len(cfg.Population), len(clamped))
	}
	for i := range clamped {
		cfg.Population[i].Probability = clamped[i]
	}
	return cfg.Validate()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	values := make([]float64, len(cfg.Population))
	for i, row := range cfg.Population {
		values[i] = row.Probability
	}
	return values
}
