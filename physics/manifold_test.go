// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/sadoe3/rigidphysics/math/lin"
)

func newTouchingContact(a, b *Body, ptOnALocal, ptOnBLocal lin.V3) Contact {
	c := Contact{BodyA: a, BodyB: b, Normal: lin.V3{X: 1}, PtOnALocal: ptOnALocal, PtOnBLocal: ptOnBLocal}
	c.PtOnAWorld = a.LocalToWorld(ptOnALocal)
	c.PtOnBWorld = b.LocalToWorld(ptOnBLocal)
	return c
}

// Two contacts that land on nearly the same point should merge into one
// rather than growing the manifold (spec §4.9's merge policy).
func TestManifoldAddContactMergesNearDuplicates(t *testing.T) {
	a := NewBody(0, NewBox(1, 1, 1), 0, 0, 0)
	b := NewBody(1, NewBox(1, 1, 1), 1, 0, 0)
	m := &manifold{bodyA: a, bodyB: b}

	m.AddContact(newTouchingContact(a, b, lin.V3{X: 1, Y: 1}, lin.V3{X: -1, Y: 1}))
	m.AddContact(newTouchingContact(a, b, lin.V3{X: 1.001, Y: 1}, lin.V3{X: -1, Y: 1}))

	if len(m.contacts) != 1 {
		t.Errorf("expected near-duplicate contacts to merge, got %d contacts", len(m.contacts))
	}
}

// A manifold never tracks more than maxManifoldContacts points at once
// (spec §4.9's manifold cap).
func TestManifoldAddContactCapsAtFour(t *testing.T) {
	a := NewBody(0, NewBox(1, 1, 1), 0, 0, 0)
	b := NewBody(1, NewBox(1, 1, 1), 1, 0, 0)
	m := &manifold{bodyA: a, bodyB: b}

	corners := []lin.V3{
		{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: 1},
	}
	for _, corner := range corners {
		m.AddContact(newTouchingContact(a, b, corner, corner))
	}

	if len(m.contacts) > maxManifoldContacts {
		t.Errorf("manifold exceeded its cap of %d, got %d", maxManifoldContacts, len(m.contacts))
	}
	if len(m.contacts) != len(m.constraints) {
		t.Errorf("contacts and constraints must stay parallel, got %d and %d", len(m.contacts), len(m.constraints))
	}
}

// Once a contact point has drifted sideways past the slop distance,
// RemoveExpiredContacts should drop it.
func TestManifoldRemoveExpiredContactsOnSeparation(t *testing.T) {
	a := NewBody(0, NewBox(1, 1, 1), 0, 0, 0)
	b := NewBody(1, NewBox(1, 1, 1), 1, 0, 0)
	m := &manifold{bodyA: a, bodyB: b}
	m.AddContact(newTouchingContact(a, b, lin.V3{X: 1}, lin.V3{X: -1}))

	if m.Empty() {
		t.Fatalf("manifold should start with a contact")
	}

	b.Pose.Pos = lin.V3{Y: 10}
	m.RemoveExpiredContacts()
	if !m.Empty() {
		t.Errorf("expected a contact that has slid sideways past the slop distance to expire")
	}
}

// ManifoldCollector routes contacts by body pair and discards manifolds
// once they go empty.
func TestManifoldCollectorGroupsByBodyPair(t *testing.T) {
	a := NewBody(0, NewBox(1, 1, 1), 0, 0, 0)
	b := NewBody(1, NewBox(1, 1, 1), 1, 0, 0)
	c := NewBody(2, NewBox(1, 1, 1), 1, 0, 0)

	mc := NewManifoldCollector()
	mc.AddContact(newTouchingContact(a, b, lin.V3{X: 1}, lin.V3{X: -1}))
	mc.AddContact(newTouchingContact(a, c, lin.V3{X: -1}, lin.V3{X: 1}))
	if len(mc.manifolds) != 2 {
		t.Fatalf("expected 2 manifolds for 2 distinct pairs, got %d", len(mc.manifolds))
	}

	mc.AddContact(newTouchingContact(a, b, lin.V3{X: 1}, lin.V3{X: -1}))
	if len(mc.manifolds) != 2 {
		t.Errorf("a repeated pair must reuse its manifold, got %d manifolds", len(mc.manifolds))
	}

	mc.Clear()
	if len(mc.manifolds) != 0 {
		t.Errorf("Clear should empty the collector")
	}
}
