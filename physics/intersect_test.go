// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/sadoe3/rigidphysics/math/lin"
)

func TestStaticIntersectSphereSphere(t *testing.T) {
	a := NewBody(0, NewSphere(1), 1, 0, 0)
	b := NewBody(1, NewSphere(1), 1, 0, 0)
	a.Pose.Pos = lin.V3{X: 0, Y: 0, Z: 0}
	b.Pose.Pos = lin.V3{X: 1, Y: 1, Z: 1}
	if _, hit := StaticIntersect(a, b); !hit {
		t.Errorf("expected overlap did not happen")
	}

	b.Pose.Pos = lin.V3{X: -2, Y: -2, Z: -2}
	if _, hit := StaticIntersect(a, b); hit {
		t.Errorf("unexpected overlap")
	}
}

func TestStaticIntersectBoxBox(t *testing.T) {
	a := NewBody(0, NewBox(1, 1, 1), 1, 0, 0)
	b := NewBody(1, NewBox(1, 1, 1), 1, 0, 0)
	b.Pose.Pos = lin.V3{X: 1.5, Y: 0, Z: 0}
	if _, hit := StaticIntersect(a, b); !hit {
		t.Errorf("expected overlapping boxes to intersect")
	}

	b.Pose.Pos = lin.V3{X: 3, Y: 0, Z: 0}
	if _, hit := StaticIntersect(a, b); hit {
		t.Errorf("unexpected overlap for separated boxes")
	}
}

func TestIntersectSphereSphereDynamicFindsTOI(t *testing.T) {
	a := NewBody(0, NewSphere(1), 1, 0, 0)
	b := NewBody(1, NewSphere(1), 0, 0, 0)
	a.Pose.Pos = lin.V3{X: -10, Y: 0, Z: 0}
	b.Pose.Pos = lin.V3{X: 0, Y: 0, Z: 0}
	a.LinearVelocity = lin.V3{X: 20, Y: 0, Z: 0}

	c, hit := Intersect(a, b, 1.0)
	if !hit {
		t.Fatalf("expected a moving sphere to hit a stationary one")
	}
	if c.TimeOfImpact <= 0 || c.TimeOfImpact >= 1.0 {
		t.Errorf("time of impact out of range: got %v", c.TimeOfImpact)
	}
	if a.Pose.Pos.X != -10 {
		t.Errorf("Intersect must not leave a moved, got X=%v", a.Pose.Pos.X)
	}
}

func TestIntersectSphereSphereDynamicMiss(t *testing.T) {
	a := NewBody(0, NewSphere(1), 1, 0, 0)
	b := NewBody(1, NewSphere(1), 0, 0, 0)
	a.Pose.Pos = lin.V3{X: -10, Y: 5, Z: 0}
	b.Pose.Pos = lin.V3{X: 0, Y: 0, Z: 0}
	a.LinearVelocity = lin.V3{X: 20, Y: 0, Z: 0}

	if _, hit := Intersect(a, b, 1.0); hit {
		t.Errorf("spheres passing 5 units apart should not collide")
	}
}

func TestConservativeAdvanceLeavesBodiesInPlace(t *testing.T) {
	a := NewBody(0, NewBox(1, 1, 1), 1, 0, 0)
	b := NewBody(1, NewBox(1, 1, 1), 0, 0, 0)
	a.Pose.Pos = lin.V3{X: -10, Y: 0, Z: 0}
	a.LinearVelocity = lin.V3{X: 20, Y: 0, Z: 0}

	startA := a.Pose.Pos
	c, hit := ConservativeAdvance(a, b, 1.0)
	if !hit {
		t.Fatalf("expected boxes on a collision course to hit")
	}
	if c.TimeOfImpact <= 0 {
		t.Errorf("expected a positive time of impact, got %v", c.TimeOfImpact)
	}
	if a.Pose.Pos != startA {
		t.Errorf("ConservativeAdvance must restore body pose, got %v want %v", a.Pose.Pos, startA)
	}
}
