// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/sadoe3/rigidphysics/math/lin"
)

func TestNewBodyStaticVsDynamic(t *testing.T) {
	static := NewBody(0, NewSphere(1), 0, 0.5, 0.5)
	if !static.IsStatic() {
		t.Errorf("a body created with mass 0 should be static")
	}
	dynamic := NewBody(1, NewSphere(1), 2, 0.5, 0.5)
	if dynamic.IsStatic() {
		t.Errorf("a body created with positive mass should not be static")
	}
	if dynamic.InvMass != 0.5 {
		t.Errorf("expected InvMass=0.5 for mass=2, got %v", dynamic.InvMass)
	}
}

// InverseInertiaBody must invert the shape's already mass-scaled tensor
// without applying InvMass a second time.
func TestInverseInertiaBodyNotDoubleScaledByMass(t *testing.T) {
	b := NewBody(0, NewSphere(1), 2, 0, 0)
	inv := b.InverseInertiaBody()
	want := 1.0 / (0.4 * 2 * 1 * 1)
	if inv.Xx < want*0.999 || inv.Xx > want*1.001 {
		t.Errorf("expected I^-1.Xx=%v for mass 2 sphere, got %v", want, inv.Xx)
	}
}

func TestWorldToLocalRoundTrips(t *testing.T) {
	b := NewBody(0, NewSphere(1), 1, 0, 0)
	b.Pose.Pos = lin.V3{X: 3, Y: -2, Z: 5}
	worldPt := lin.V3{X: 10, Y: 10, Z: 10}

	local := b.WorldToLocal(worldPt)
	back := b.LocalToWorld(local)

	if dumpV3(&back) != dumpV3(&worldPt) {
		t.Errorf("expected round trip to recover %s, got %s", dumpV3(&worldPt), dumpV3(&back))
	}
}

func TestApplyImpulseLinearIgnoresStaticBodies(t *testing.T) {
	b := NewBody(0, NewSphere(1), 0, 0, 0)
	b.ApplyImpulseLinear(lin.V3{X: 10})
	if b.LinearVelocity != (lin.V3{}) {
		t.Errorf("a static body's velocity must not change, got %v", b.LinearVelocity)
	}
}

func TestApplyImpulseLinearScalesByInverseMass(t *testing.T) {
	b := NewBody(0, NewSphere(1), 2, 0, 0)
	b.ApplyImpulseLinear(lin.V3{X: 10})
	want := lin.V3{X: 5}
	if b.LinearVelocity != want {
		t.Errorf("expected dv=%v for mass 2, got %v", want, b.LinearVelocity)
	}
}

func TestApplyImpulseAngularClampsToMaxSpeed(t *testing.T) {
	b := NewBody(0, NewSphere(1), 1, 0, 0)
	b.ApplyImpulseAngular(lin.V3{X: 0, Y: 0, Z: 1e6})
	if b.AngularVelocity.LenSqr() > maxAngularSpeed*maxAngularSpeed+1e-6 {
		t.Errorf("expected angular velocity clamped to %v, got %v", maxAngularSpeed, b.AngularVelocity.Len())
	}
}

// Update with dt then -dt should return a body to its starting pose,
// the invariant ConservativeAdvance relies on to trial-step and unwind.
func TestUpdateIsReversible(t *testing.T) {
	b := NewBody(0, NewSphere(1), 1, 0, 0)
	b.Pose.Pos = lin.V3{X: 1, Y: 2, Z: 3}
	b.LinearVelocity = lin.V3{X: 4, Y: -1, Z: 0.5}

	start := b.Pose.Pos
	b.Update(0.1)
	b.Update(-0.1)

	if dumpV3(&b.Pose.Pos) != dumpV3(&start) {
		t.Errorf("expected Update(dt) then Update(-dt) to restore position, got %s want %s", dumpV3(&b.Pose.Pos), dumpV3(&start))
	}
}
