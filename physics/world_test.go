// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/sadoe3/rigidphysics/math/lin"
)

func TestWorldStepMarksMovedBodiesDirty(t *testing.T) {
	w := NewWorld()
	ball := w.AddBody(NewBody(0, NewSphere(1), 1, 0, 0))
	ball.Pose.Pos = lin.V3{X: 0, Y: 10, Z: 0}

	w.Step(1.0 / 60.0)
	if !w.Dirty[ball.ID] {
		t.Errorf("a falling body should be marked dirty after Step")
	}
}

// StepPicked must leave every body but the picked one with zero velocity,
// so the only visible motion looks like the picked body was teleported.
func TestStepPickedZeroesOtherVelocities(t *testing.T) {
	w := NewWorld()
	picked := w.AddBody(NewBody(0, NewSphere(1), 1, 0, 0))
	other := w.AddBody(NewBody(1, NewSphere(1), 1, 0, 0))
	other.Pose.Pos = lin.V3{X: 5, Y: 10, Z: 0}

	w.StepPicked(1.0/60.0, picked.ID)

	if other.LinearVelocity != (lin.V3{}) {
		t.Errorf("non-picked body should have zero linear velocity, got %v", other.LinearVelocity)
	}
	if other.AngularVelocity != (lin.V3{}) {
		t.Errorf("non-picked body should have zero angular velocity, got %v", other.AngularVelocity)
	}
}

// Snapshot/Restore must round-trip a body's kinematic state.
func TestWorldSnapshotRestore(t *testing.T) {
	w := NewWorld()
	ball := w.AddBody(NewBody(0, NewSphere(1), 1, 0, 0))
	ball.Pose.Pos = lin.V3{X: 1, Y: 2, Z: 3}

	id := w.Snapshot()
	ball.Pose.Pos = lin.V3{X: 99, Y: 99, Z: 99}

	if !w.Restore(id) {
		t.Fatalf("Restore should find the snapshot it just took")
	}
	if ball.Pose.Pos != (lin.V3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Restore should put the body back at its snapshotted position, got %v", ball.Pose.Pos)
	}

	if w.Restore(w.history[0].ID); !w.Dirty[ball.ID] {
		t.Errorf("Restore should mark the restored body dirty")
	}
}

// The history ring buffer never grows past historyCapacity.
func TestWorldHistoryCapped(t *testing.T) {
	w := NewWorld()
	w.AddBody(NewBody(0, NewSphere(1), 1, 0, 0))
	for i := 0; i < historyCapacity+10; i++ {
		w.Snapshot()
	}
	if len(w.History()) != historyCapacity {
		t.Errorf("expected history capped at %d, got %d", historyCapacity, len(w.History()))
	}
}

func TestAllPairsCoversEveryUnorderedPair(t *testing.T) {
	pairs := allPairs(4)
	if len(pairs) != 6 {
		t.Errorf("expected C(4,2)=6 pairs, got %d", len(pairs))
	}
	for _, p := range pairs {
		if p.A >= p.B {
			t.Errorf("allPairs must emit a < b, got (%d, %d)", p.A, p.B)
		}
	}
}
