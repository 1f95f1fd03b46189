// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"fmt"

	"github.com/sadoe3/rigidphysics/math/lin"
	"gopkg.in/yaml.v3"
)

// WorldConfig holds the world's tunables: gravity, timestep, solver
// iteration count, the continuous-collision iteration cap, a Baumgarte
// stabilization factor, and the broad-phase epsilon. World.Step reads
// Gravity, SolverIterations and BroadPhaseEnabled. Timestep,
// ContinuousIterations, BaumgarteBeta and BroadPhaseEpsilon are loaded and
// stored but not read by the world: conservative advancement uses the
// caIterations constant, the broad phase uses broadEpsilon, and the
// constraints use their own literal Baumgarte factors.
type WorldConfig struct {
	Gravity              lin.V3  `yaml:"gravity"`
	Timestep             float64 `yaml:"timestep"`
	SolverIterations     int     `yaml:"solver_iterations"`
	ContinuousIterations int     `yaml:"continuous_iterations"`
	BaumgarteBeta        float64 `yaml:"baumgarte_beta"`
	BroadPhaseEpsilon    float64 `yaml:"broadphase_epsilon"`
	BroadPhaseEnabled    bool    `yaml:"broadphase_enabled"`
}

// DefaultWorldConfig returns the tunables baked into the package's
// constants (world.go's gravity, solverIterations, caIterations,
// broadEpsilon, and a 0.25 Baumgarte beta), so a World works without
// loading a config file.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:              gravity,
		Timestep:             1.0 / 60.0,
		SolverIterations:     solverIterations,
		ContinuousIterations: caIterations,
		BaumgarteBeta:        0.25,
		BroadPhaseEpsilon:    broadEpsilon,
		BroadPhaseEnabled:    true,
	}
}

// LoadWorldConfig parses a YAML world configuration, starting from
// DefaultWorldConfig so an omitted field keeps its default rather than
// zeroing out.
func LoadWorldConfig(data []byte) (WorldConfig, error) {
	cfg := DefaultWorldConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return WorldConfig{}, fmt.Errorf("LoadWorldConfig: yaml: %w", err)
	}
	return cfg, nil
}
