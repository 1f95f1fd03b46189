// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/sadoe3/rigidphysics/math/lin"
)

func TestSortContactsByTOI(t *testing.T) {
	contacts := []Contact{
		{TimeOfImpact: 0.5},
		{TimeOfImpact: 0.1},
		{TimeOfImpact: 0.3},
	}
	SortContactsByTOI(contacts)
	for i := 1; i < len(contacts); i++ {
		if contacts[i-1].TimeOfImpact > contacts[i].TimeOfImpact {
			t.Errorf("contacts not sorted ascending: %v", contacts)
		}
	}
}

// A head-on, already-touching collision (TimeOfImpact == 0) must separate
// the bodies along the contact normal and leave them moving apart.
func TestResolveContactSeparatesOverlap(t *testing.T) {
	a := NewBody(0, NewSphere(1), 1, 1, 0)
	b := NewBody(1, NewSphere(1), 1, 1, 0)
	a.Pose.Pos = lin.V3{X: -0.5, Y: 0, Z: 0}
	b.Pose.Pos = lin.V3{X: 0.5, Y: 0, Z: 0}
	a.LinearVelocity = lin.V3{X: 5, Y: 0, Z: 0}
	b.LinearVelocity = lin.V3{X: -5, Y: 0, Z: 0}

	c, hit := StaticIntersect(a, b)
	if !hit {
		t.Fatalf("expected overlapping spheres to report a contact")
	}
	c.TimeOfImpact = 0

	startSep := b.Pose.Pos.X - a.Pose.Pos.X
	ResolveContact(&c)
	endSep := b.Pose.Pos.X - a.Pose.Pos.X
	if endSep <= startSep {
		t.Errorf("expected bodies to separate, start=%v end=%v", startSep, endSep)
	}
	if a.LinearVelocity.X >= 0 {
		t.Errorf("bodyA should bounce backward, got vx=%v", a.LinearVelocity.X)
	}
	if b.LinearVelocity.X <= 0 {
		t.Errorf("bodyB should bounce forward, got vx=%v", b.LinearVelocity.X)
	}
}
