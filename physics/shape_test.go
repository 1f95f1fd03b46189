// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/sadoe3/rigidphysics/math/lin"
)

func TestBoundsExpandAndOverlaps(t *testing.T) {
	a := NewBounds()
	a.Expand(lin.V3{X: -1, Y: -1, Z: -1})
	a.Expand(lin.V3{X: 1, Y: 1, Z: 1})

	b := NewBounds()
	b.Expand(lin.V3{X: 0.5, Y: 0.5, Z: 0.5})
	b.Expand(lin.V3{X: 2, Y: 2, Z: 2})

	if !a.Overlaps(&b) {
		t.Errorf("expected overlapping bounds to report an overlap")
	}

	c := NewBounds()
	c.Expand(lin.V3{X: 5, Y: 5, Z: 5})
	c.Expand(lin.V3{X: 6, Y: 6, Z: 6})
	if a.Overlaps(&c) {
		t.Errorf("expected disjoint bounds to report no overlap")
	}
}

func TestSphereSupportReachesSurface(t *testing.T) {
	s := NewSphere(2)
	pose := &Pose{Rot: lin.Q{W: 1}}
	p := s.Support(lin.V3{X: 1}, pose, 0)
	want := lin.V3{X: 2}
	if dumpV3(&p) != dumpV3(&want) {
		t.Errorf("expected support point %s along +X, got %s", dumpV3(&want), dumpV3(&p))
	}
}

func TestBoxSupportPicksFarCorner(t *testing.T) {
	b := NewBox(1, 2, 3)
	pose := &Pose{Rot: lin.Q{W: 1}}
	p := b.Support(lin.V3{X: 1, Y: 1, Z: 1}, pose, 0)
	want := lin.V3{X: 1, Y: 2, Z: 3}
	if dumpV3(&p) != dumpV3(&want) {
		t.Errorf("expected the +X+Y+Z corner %s, got %s", dumpV3(&want), dumpV3(&p))
	}
}

func TestBoxInertiaTensorIsDiagonal(t *testing.T) {
	b := NewBox(1, 1, 1)
	i := b.InertiaTensor(6)
	if i.Xy != 0 || i.Xz != 0 || i.Yz != 0 {
		t.Errorf("expected a diagonal inertia tensor for an axis-aligned box, got %s", dumpM3(&i))
	}
	if i.Xx <= 0 || i.Yy <= 0 || i.Zz <= 0 {
		t.Errorf("expected positive diagonal inertia terms, got %s", dumpM3(&i))
	}
}
