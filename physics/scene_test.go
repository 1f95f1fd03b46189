// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "testing"

func TestAddSpheresGridCountAndNextID(t *testing.T) {
	w := NewWorld()
	next := AddSpheres(w, 10, 3, 5, true)
	if next != 19 {
		t.Errorf("expected next id 19 for a 3x3 grid starting at 10, got %d", next)
	}
	if len(w.Bodies) != 9 {
		t.Errorf("expected 9 bodies, got %d", len(w.Bodies))
	}
	for _, b := range w.Bodies {
		if b.Shape.Type() != ShapeSphere {
			t.Errorf("AddSpheres should only add sphere shapes, got type %d", b.Shape.Type())
		}
	}
}

func TestAddDiamondsUsesConvexHull(t *testing.T) {
	w := NewWorld()
	AddDiamonds(w, 0, 1, 5, true)
	if len(w.Bodies) != 1 {
		t.Fatalf("expected 1 body, got %d", len(w.Bodies))
	}
	if w.Bodies[0].Shape.Type() != ShapeConvex {
		t.Errorf("AddDiamonds should build a convex shape, got type %d", w.Bodies[0].Shape.Type())
	}
}

func TestAddFloorIsStatic(t *testing.T) {
	w := NewWorld()
	next := AddFloor(w, 0, true)
	if next != 9 {
		t.Errorf("expected a 3x3 floor grid, next id 9, got %d", next)
	}
	for _, b := range w.Bodies {
		if !b.IsStatic() {
			t.Errorf("every floor body should be static")
		}
	}
}

func TestAddChainWiresDistanceConstraints(t *testing.T) {
	w := NewWorld()
	before := len(w.Constraints)
	AddChain(w, 0)
	if len(w.Constraints) <= before {
		t.Errorf("expected AddChain to add distance constraints")
	}
}

func TestAddHingeWiresOneConstraint(t *testing.T) {
	w := NewWorld()
	AddHinge(w, 0, 45)
	if len(w.Constraints) != 1 {
		t.Errorf("expected a single hinge constraint, got %d", len(w.Constraints))
	}
	if len(w.Bodies) != 2 {
		t.Errorf("expected 2 bodies for a hinge pair, got %d", len(w.Bodies))
	}
}

func TestAddSandboxEnclosesWithStaticWalls(t *testing.T) {
	w := NewWorld()
	AddSandbox(w, 0)
	for _, b := range w.Bodies {
		if !b.IsStatic() {
			t.Errorf("every sandbox wall/ground body should be static")
		}
	}
}

func TestLoadSceneBuildsBodiesAndAdvancesID(t *testing.T) {
	w := NewWorld()
	yamlDoc := []byte(`
floors: 1
floor_dense: true
stacks: 1
sandbox: false
`)
	next, err := LoadScene(w, yamlDoc, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != len(w.Bodies) {
		t.Errorf("expected next id to equal body count starting from 0, got next=%d bodies=%d", next, len(w.Bodies))
	}
	if len(w.Bodies) == 0 {
		t.Errorf("expected LoadScene to populate bodies from the scene description")
	}
}

func TestLoadSceneRejectsBadYAML(t *testing.T) {
	w := NewWorld()
	if _, err := LoadScene(w, []byte("floors: [not an int"), 0); err == nil {
		t.Errorf("expected an error for malformed scene YAML")
	}
}
