// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// Every unordered pair among a tight cluster of bodies should come back
// exactly once, never duplicated.
func TestBroadPhaseUniquePairs(t *testing.T) {
	bodies := make([]*Body, 5)
	for i := range bodies {
		b := NewBody(i, NewSphere(1), 1, 0, 0)
		b.Pose.Pos = lin.V3{X: float64(i) * 0.1}
		bodies[i] = b
	}

	pairs := BroadPhase(bodies, 0.016)
	if len(pairs) != 10 {
		t.Errorf("expected 10 unique pairs for 5 close bodies, got %d", len(pairs))
	}
	seen := make(map[[2]int]bool)
	for _, p := range pairs {
		key := [2]int{p.A, p.B}
		if seen[key] {
			t.Errorf("pair (%d,%d) reported more than once", p.A, p.B)
		}
		seen[key] = true
	}
}

// Bodies far enough apart should not generate a candidate pair at all.
func TestBroadPhaseSeparatedBodiesExcluded(t *testing.T) {
	a := NewBody(0, NewSphere(1), 1, 0, 0)
	b := NewBody(1, NewSphere(1), 1, 0, 0)
	b.Pose.Pos = lin.V3{X: 1000}

	pairs := BroadPhase([]*Body{a, b}, 0.016)
	if len(pairs) != 0 {
		t.Errorf("expected no candidate pairs for bodies 1000 units apart, got %d", len(pairs))
	}
}

func TestBroadPhaseFewerThanTwoBodies(t *testing.T) {
	if pairs := BroadPhase(nil, 0.016); pairs != nil {
		t.Errorf("expected nil pairs for an empty body list, got %v", pairs)
	}
	a := NewBody(0, NewSphere(1), 1, 0, 0)
	if pairs := BroadPhase([]*Body{a}, 0.016); pairs != nil {
		t.Errorf("expected nil pairs for a single body, got %v", pairs)
	}
}
