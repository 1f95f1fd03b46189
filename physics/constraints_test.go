// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"
	"testing"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// A distance constraint anchored between a static body and a hanging
// dynamic one should hold the anchor-to-anchor distance steady under
// gravity once the world settles (spec §8's "distance chain" scenario,
// collapsed to a single link).
func TestDistanceConstraintHoldsLength(t *testing.T) {
	w := NewWorld()
	anchor := NewBody(0, NewSphere(0.1), 0, 0, 0)
	bob := NewBody(1, NewSphere(0.5), 1, 0, 0)
	bob.Pose.Pos = lin.V3{X: 2, Y: 0, Z: 0}
	w.AddBody(anchor)
	w.AddBody(bob)
	w.AddConstraint(NewDistanceConstraint(anchor, bob, lin.V3{X: 2}, lin.V3{}))

	for i := 0; i < 300; i++ {
		w.Step(1.0 / 60.0)
	}

	var delta lin.V3
	delta.Sub(&bob.Pose.Pos, &anchor.Pose.Pos)
	length := delta.Len()
	if math.Abs(length-2) > 0.1 {
		t.Errorf("expected the anchor distance to stay near 2, got %v", length)
	}
}

// A mover constraint ignores every other body and just drives its own
// body's Y velocity along a fixed cosine.
func TestMoverConstraintDrivesVelocity(t *testing.T) {
	body := NewBody(0, NewSphere(1), 1, 0, 0)
	c := NewMoverConstraint(body)

	c.PreSolve(0)
	want := math.Cos(0) * 4.0
	if body.LinearVelocity.Y != want {
		t.Errorf("expected Vy=%v at t=0, got %v", want, body.LinearVelocity.Y)
	}

	c.PreSolve(1.0)
	want = math.Cos(0.25) * 4.0
	if body.LinearVelocity.Y != want {
		t.Errorf("expected Vy=%v at t=1, got %v", want, body.LinearVelocity.Y)
	}
}

// An orientation constraint should pull bodyB's orientation back toward
// the relative target it captured at construction once it has drifted.
func TestOrientationConstraintConvergesOrientation(t *testing.T) {
	a := NewBody(0, NewSphere(1), 0, 0, 0)
	b := NewBody(1, NewSphere(1), 1, 0, 0)
	c := NewOrientationConstraint(a, b)

	b.AngularVelocity = lin.V3{X: 0, Y: 0, Z: 2}
	for i := 0; i < 60; i++ {
		c.PreSolve(1.0 / 60.0)
		c.Solve()
		c.PostSolve()
		b.Update(1.0 / 60.0)
	}

	if b.AngularVelocity.LenSqr() > 4.0 {
		t.Errorf("expected the orientation constraint to damp angular drift, got %v", b.AngularVelocity)
	}
}

// A hinge-limited pair spun about its axis must stay joined rather than
// fly apart (spec §4.8's HingeLimited joint).
func TestHingeLimitedConstraintCaps(t *testing.T) {
	w := NewWorld()
	a := NewBody(0, NewBox(1, 1, 1), 0, 0, 0)
	b := NewBody(1, NewBox(1, 1, 1), 1, 0, 0)
	b.Pose.Pos = lin.V3{X: 2, Y: 0, Z: 0}
	w.AddBody(a)
	w.AddBody(b)
	w.AddConstraint(NewHingeLimitedConstraint(a, b, lin.V3{X: 1}, lin.V3{X: -1}, lin.V3{Z: 1}, 45))

	b.AngularVelocity = lin.V3{Z: 10}
	for i := 0; i < 600; i++ {
		w.Step(1.0 / 60.0)
	}

	var delta lin.V3
	delta.Sub(&b.Pose.Pos, &a.Pose.Pos)
	if delta.Len() > 10 {
		t.Errorf("hinge anchor should not fly apart once capped, got separation %v", delta.Len())
	}
}
