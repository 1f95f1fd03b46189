// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"fmt"
	"testing"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// End-to-end check that a falling ball comes to rest on a slab below it,
// exercising broad-phase, narrow-phase, manifold persistence, and the
// solver together (spec §8's "ball drop" scenario).
func TestWorldBallComesToRest(t *testing.T) {
	w := NewWorld()
	slab := NewBody(0, NewBox(100, 100, 25), 0, 0.2, 0.5)
	slab.Pose.Pos = lin.V3{X: 0, Y: 0, Z: -25}
	ball := NewBody(1, NewSphere(1), 1, 0, 0.5)
	ball.Pose.Pos = lin.V3{X: -5, Y: -3, Z: 15}
	w.AddBody(slab)
	w.AddBody(ball)

	for i := 0; i < 180; i++ {
		w.Step(1.0 / 60.0)
	}

	got, want := dumpV3(&ball.Pose.Pos), dumpV3(&lin.V3{X: -5, Y: -3, Z: 1})
	if got != want {
		t.Errorf("ball should settle at %s, got %s", want, got)
	}
}

// Testing
// ============================================================================
// Utility functions for all package testcases.

func dumpQ(q *lin.Q) string   { return fmt.Sprintf("%2.1f", *q) }
func dumpV3(v *lin.V3) string { return fmt.Sprintf("%2.1f", *v) }
func dumpM3(m *lin.M3) string {
	format := "[%+2.1f, %+2.1f, %+2.1f]\n"
	str := fmt.Sprintf(format, m.Xx, m.Xy, m.Xz)
	str += fmt.Sprintf(format, m.Yx, m.Yy, m.Yz)
	str += fmt.Sprintf(format, m.Zx, m.Zy, m.Zz)
	return str
}
