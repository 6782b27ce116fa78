// Package main tunes flocking weights by running headless simulations under
// a derivative-free optimizer and scoring flock compactness.
package main

import (
	"github.com/pthm-cable/fauna/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all tunable flocking parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters. Perception
// geometry (radius, angle, neighbor count) stays locked to the base config;
// only the force balance is optimized.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "separation_weight", Min: 0.5, Max: 4.0, Default: 1.5},
			{Name: "alignment_weight", Min: 0.2, Max: 3.0, Default: 1.0},
			{Name: "cohesion_weight", Min: 0.2, Max: 3.0, Default: 1.0},
			{Name: "noise_weight", Min: 0.0, Max: 0.5, Default: 0.05},
			{Name: "desired_separation", Min: 1.0, Max: 8.0, Default: 3.0},
		},
	}
}

// Dim returns the parameter count.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the raw default values.
func (pv *ParamVector) DefaultVector() []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		raw[i] = s.Default
	}
	return raw
}

// Normalize maps raw values into [0,1] per spec bound.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	x := make([]float64, len(raw))
	for i, s := range pv.Specs {
		x[i] = (raw[i] - s.Min) / (s.Max - s.Min)
	}
	return x
}

// Denormalize maps [0,1] values back to raw, clamping to the bounds so the
// optimizer cannot hand the simulation an invalid config.
func (pv *ParamVector) Denormalize(x []float64) []float64 {
	raw := make([]float64, len(x))
	for i, s := range pv.Specs {
		v := s.Min + x[i]*(s.Max-s.Min)
		if v < s.Min {
			v = s.Min
		}
		if v > s.Max {
			v = s.Max
		}
		raw[i] = v
	}
	return raw
}

// Apply writes raw parameter values onto a copy of the base flocking config.
func (pv *ParamVector) Apply(raw []float64, base config.FlockingConfig) config.FlockingConfig {
	out := base
	out.SeparationWeight = raw[0]
	out.AlignmentWeight = raw[1]
	out.CohesionWeight = raw[2]
	out.NoiseWeight = raw[3]
	out.DesiredSeparation = raw[4]
	return out
}
