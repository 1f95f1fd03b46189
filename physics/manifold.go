// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/sadoe3/rigidphysics/math/lin"

// maxManifoldContacts bounds how many persistent contact points a single
// body pair tracks at once (spec §4.9). Grounded on
// orig/Physics/Manifold.h's MAX_CONTACTS.
const maxManifoldContacts = 4

// contactSlopDistance is the tangential drift, in meters, a persisted
// contact point is allowed before it is considered to have slid off the
// surfaces it described and is dropped (spec §4.9). Grounded on
// orig/Physics/Manifold.cpp's RemoveExpiredContacts/AddContact thresholds.
const contactSlopDistance = 0.02

// manifold is the set of persistent contact points between one pair of
// bodies, each backed by a Penetration constraint that warm-starts across
// steps (spec §4.9). Grounded on orig/Physics/Manifold.cpp's Manifold.
type manifold struct {
	bodyA, bodyB *Body
	contacts     []Contact
	constraints  []*penetrationConstraint
}

// AddContact inserts newContact into the manifold, normalizing its
// BodyA/BodyB order to match the manifold's, merging it into an existing
// nearby contact point, or replacing the contact closest to the set's
// average when already at capacity (spec §4.9's "Add(contact)" merge
// policy). Grounded on orig/Physics/Manifold.cpp's Manifold::AddContact.
func (m *manifold) AddContact(newContact Contact) {
	target := newContact
	if newContact.BodyA != m.bodyA || newContact.BodyB != m.bodyB {
		target.PtOnALocal, target.PtOnBLocal = newContact.PtOnBLocal, newContact.PtOnALocal
		target.PtOnAWorld, target.PtOnBWorld = newContact.PtOnBWorld, newContact.PtOnAWorld
		target.BodyA, target.BodyB = m.bodyA, m.bodyB
	}

	for _, existing := range m.contacts {
		existingA := existing.BodyA.LocalToWorld(existing.PtOnALocal)
		existingB := existing.BodyB.LocalToWorld(existing.PtOnBLocal)
		newA := target.BodyA.LocalToWorld(target.PtOnALocal)
		newB := target.BodyB.LocalToWorld(target.PtOnBLocal)

		var deltaA, deltaB lin.V3
		deltaA.Sub(&newA, &existingA)
		deltaB.Sub(&newB, &existingB)
		if deltaA.LenSqr() < contactSlopDistance*contactSlopDistance {
			return
		}
		if deltaB.LenSqr() < contactSlopDistance*contactSlopDistance {
			return
		}
	}

	targetSlot := len(m.contacts)
	if targetSlot >= maxManifoldContacts {
		slot, ok := closestToAverage(m.contacts, target)
		if !ok {
			return
		}
		targetSlot = slot
	}

	constraint := newPenetrationConstraint(&target)
	if targetSlot < len(m.contacts) {
		m.contacts[targetSlot] = target
		m.constraints[targetSlot] = constraint
	} else {
		m.contacts = append(m.contacts, target)
		m.constraints = append(m.constraints, constraint)
	}
}

// closestToAverage returns the index, among the manifold's full contact
// set plus candidate, that sits closest to their shared average local
// point on A — the slot AddContact evicts when already at capacity.
func closestToAverage(contacts []Contact, candidate Contact) (int, bool) {
	var average lin.V3
	for _, c := range contacts {
		average.X, average.Y, average.Z = average.X+c.PtOnALocal.X, average.Y+c.PtOnALocal.Y, average.Z+c.PtOnALocal.Z
	}
	average.X, average.Y, average.Z = average.X+candidate.PtOnALocal.X, average.Y+candidate.PtOnALocal.Y, average.Z+candidate.PtOnALocal.Z
	n := float64(len(contacts) + 1)
	average.X, average.Y, average.Z = average.X/n, average.Y/n, average.Z/n

	bestIndex := -1
	var bestDistSqr float64
	var candidateDelta lin.V3
	candidateDelta.Sub(&average, &candidate.PtOnALocal)
	bestDistSqr = candidateDelta.LenSqr()

	for i, c := range contacts {
		var delta lin.V3
		delta.Sub(&average, &c.PtOnALocal)
		if d := delta.LenSqr(); d < bestDistSqr {
			bestDistSqr, bestIndex = d, i
		}
	}
	return bestIndex, bestIndex != -1
}

// RemoveExpiredContacts drops every contact point whose tangential
// separation has drifted beyond contactSlopDistance, or whose penetration
// has resolved (spec §4.9). Grounded on
// orig/Physics/Manifold.cpp's RemoveExpiredContacts.
func (m *manifold) RemoveExpiredContacts() {
	kept := m.contacts[:0]
	keptConstraints := m.constraints[:0]
	for i, c := range m.contacts {
		pointA := c.BodyA.LocalToWorld(c.PtOnALocal)
		pointB := c.BodyB.LocalToWorld(c.PtOnBLocal)
		normal := c.BodyA.Pose.RotateToWorld(m.constraints[i].collisionNormal)

		var ab lin.V3
		ab.Sub(&pointB, &pointA)
		penetration := normal.Dot(&ab)
		var parallel lin.V3
		parallel.X, parallel.Y, parallel.Z = normal.X*penetration, normal.Y*penetration, normal.Z*penetration
		var perpendicular lin.V3
		perpendicular.Sub(&ab, &parallel)

		if perpendicular.LenSqr() < contactSlopDistance*contactSlopDistance && penetration <= 0 {
			kept = append(kept, c)
			keptConstraints = append(keptConstraints, m.constraints[i])
		}
	}
	m.contacts, m.constraints = kept, keptConstraints
}

// Empty reports whether every contact in the manifold has expired.
func (m *manifold) Empty() bool { return len(m.contacts) == 0 }

func (m *manifold) PreSolve(dt float64) {
	for _, c := range m.constraints {
		c.PreSolve(dt)
	}
}

func (m *manifold) Solve() {
	for _, c := range m.constraints {
		c.Solve()
	}
}

func (m *manifold) PostSolve() {
	for _, c := range m.constraints {
		c.PostSolve()
	}
}

// ManifoldCollector tracks one manifold per colliding body pair across
// steps, so contact points and their warm-started impulses persist as long
// as the pair stays in contact (spec §4.9). Grounded on
// orig/Physics/Manifold.cpp's ManifoldCollector.
type ManifoldCollector struct {
	manifolds []*manifold
}

// NewManifoldCollector returns an empty collector.
func NewManifoldCollector() *ManifoldCollector { return &ManifoldCollector{} }

// AddContact routes c into the manifold for its body pair, creating one if
// none exists yet.
func (mc *ManifoldCollector) AddContact(c Contact) {
	for _, m := range mc.manifolds {
		hasA := m.bodyA == c.BodyA || m.bodyB == c.BodyA
		hasB := m.bodyA == c.BodyB || m.bodyB == c.BodyB
		if hasA && hasB {
			m.AddContact(c)
			return
		}
	}
	m := &manifold{bodyA: c.BodyA, bodyB: c.BodyB}
	m.AddContact(c)
	mc.manifolds = append(mc.manifolds, m)
}

// RemoveExpired prunes expired contacts from every manifold and discards
// manifolds left with none.
func (mc *ManifoldCollector) RemoveExpired() {
	kept := mc.manifolds[:0]
	for _, m := range mc.manifolds {
		m.RemoveExpiredContacts()
		if !m.Empty() {
			kept = append(kept, m)
		}
	}
	mc.manifolds = kept
}

// PreSolve, Solve, and PostSolve run the corresponding pass over every
// manifold's constraints (spec §4.11's solver orchestration).
func (mc *ManifoldCollector) PreSolve(dt float64) {
	for _, m := range mc.manifolds {
		m.PreSolve(dt)
	}
}

func (mc *ManifoldCollector) Solve() {
	for _, m := range mc.manifolds {
		m.Solve()
	}
}

func (mc *ManifoldCollector) PostSolve() {
	for _, m := range mc.manifolds {
		m.PostSolve()
	}
}

// Clear empties the collector, for resetting a scene.
func (mc *ManifoldCollector) Clear() { mc.manifolds = nil }
