// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "testing"

func TestDefaultWorldConfigMatchesPackageConstants(t *testing.T) {
	cfg := DefaultWorldConfig()
	if cfg.SolverIterations != solverIterations {
		t.Errorf("expected default solver iterations %d, got %d", solverIterations, cfg.SolverIterations)
	}
	if cfg.Gravity != gravity {
		t.Errorf("expected default gravity %v, got %v", gravity, cfg.Gravity)
	}
	if !cfg.BroadPhaseEnabled {
		t.Errorf("expected broad-phase enabled by default")
	}
}

// An omitted field in a partial YAML document should keep its default
// rather than zeroing out.
func TestLoadWorldConfigKeepsDefaultsForOmittedFields(t *testing.T) {
	cfg, err := LoadWorldConfig([]byte("solver_iterations: 12\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SolverIterations != 12 {
		t.Errorf("expected overridden solver_iterations=12, got %d", cfg.SolverIterations)
	}
	if cfg.Timestep != DefaultWorldConfig().Timestep {
		t.Errorf("expected untouched timestep to keep its default, got %v", cfg.Timestep)
	}
}

func TestLoadWorldConfigRejectsBadYAML(t *testing.T) {
	if _, err := LoadWorldConfig([]byte("not: [valid: yaml")); err == nil {
		t.Errorf("expected an error for malformed YAML")
	}
}
