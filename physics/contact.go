// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"sort"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// SortContactsByTOI orders contacts ascending by TimeOfImpact, so the
// earliest impact in a step resolves first (spec §4.11's "process contacts
// in time-of-impact order"). Grounded on orig/Physics/Contact.cpp's
// CompareContacts.
func SortContactsByTOI(contacts []Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].TimeOfImpact < contacts[j].TimeOfImpact
	})
}

// ResolveContact applies the collision and friction impulses for a single
// contact and, for contacts already touching (TimeOfImpact == 0), pushes
// both bodies apart along the contact normal in proportion to their
// inverse mass (spec §4.11's "single-contact impulse resolution").
// Grounded on orig/Physics/Contact.cpp's ResolveContact.
func ResolveContact(c *Contact) {
	bodyA, bodyB := c.BodyA, c.BodyB

	pointOnA := bodyA.LocalToWorld(c.PtOnALocal)
	pointOnB := bodyB.LocalToWorld(c.PtOnBLocal)

	elasticity := bodyA.Elasticity * bodyB.Elasticity
	invMassA, invMassB := bodyA.InvMass, bodyB.InvMass

	invWorldInertiaA := bodyA.InverseInertiaWorld()
	invWorldInertiaB := bodyB.InverseInertiaWorld()

	normal := c.Normal

	comA, comB := bodyA.CenterOfMassWorld(), bodyB.CenterOfMassWorld()
	var comToPointA, comToPointB lin.V3
	comToPointA.Sub(&pointOnA, &comA)
	comToPointB.Sub(&pointOnB, &comB)

	angularJA := angularTerm(&invWorldInertiaA, &comToPointA, &normal)
	angularJB := angularTerm(&invWorldInertiaB, &comToPointB, &normal)
	var angularSum lin.V3
	angularSum.Add(&angularJA, &angularJB)
	angularFactor := angularSum.Dot(&normal)

	var wxrA, wxrB lin.V3
	wxrA.Cross(&bodyA.AngularVelocity, &comToPointA)
	wxrB.Cross(&bodyB.AngularVelocity, &comToPointB)
	var totalVelA, totalVelB lin.V3
	totalVelA.Add(&bodyA.LinearVelocity, &wxrA)
	totalVelB.Add(&bodyB.LinearVelocity, &wxrB)

	var totalRelVel lin.V3
	totalRelVel.Sub(&totalVelA, &totalVelB)

	impulseScalar := (1.0 + elasticity) * totalRelVel.Dot(&normal) / (invMassA + invMassB + angularFactor)
	impulse := lin.V3{X: normal.X * impulseScalar, Y: normal.Y * impulseScalar, Z: normal.Z * impulseScalar}
	var negImpulse lin.V3
	negImpulse.Scale(&impulse, -1)
	bodyA.ApplyImpulse(pointOnA, negImpulse)
	bodyB.ApplyImpulse(pointOnB, impulse)

	friction := bodyA.Friction * bodyB.Friction
	normalComponent := normal.Dot(&totalRelVel)
	adjustedRelVel := lin.V3{X: normal.X * normalComponent, Y: normal.Y * normalComponent, Z: normal.Z * normalComponent}
	var tangential lin.V3
	tangential.Sub(&totalRelVel, &adjustedRelVel)
	unitTangential := tangential
	unitTangential.Unit()

	inertiaA := angularTerm(&invWorldInertiaA, &comToPointA, &unitTangential)
	inertiaB := angularTerm(&invWorldInertiaB, &comToPointB, &unitTangential)
	var inertiaSum lin.V3
	inertiaSum.Add(&inertiaA, &inertiaB)
	invInertia := inertiaSum.Dot(&unitTangential)

	reducedMass := 1.0 / (invMassA + invMassB + invInertia)
	frictionImpulse := lin.V3{X: tangential.X * reducedMass * friction, Y: tangential.Y * reducedMass * friction, Z: tangential.Z * reducedMass * friction}
	var negFriction lin.V3
	negFriction.Scale(&frictionImpulse, -1)
	bodyA.ApplyImpulse(pointOnA, negFriction)
	bodyB.ApplyImpulse(pointOnB, frictionImpulse)

	if c.TimeOfImpact == 0 {
		proportionA := invMassA / (invMassA + invMassB)
		proportionB := invMassB / (invMassA + invMassB)

		var sep lin.V3
		sep.Sub(&pointOnB, &pointOnA)
		bodyA.Pose.Pos.X += sep.X * proportionA
		bodyA.Pose.Pos.Y += sep.Y * proportionA
		bodyA.Pose.Pos.Z += sep.Z * proportionA
		bodyB.Pose.Pos.X -= sep.X * proportionB
		bodyB.Pose.Pos.Y -= sep.Y * proportionB
		bodyB.Pose.Pos.Z -= sep.Z * proportionB
	}
}

// angularTerm computes (invWorldInertia * (r × axis)) × r, the angular
// contribution of a unit impulse along axis applied at lever arm r.
func angularTerm(invWorldInertia *lin.M3, r, axis *lin.V3) lin.V3 {
	var rxAxis lin.V3
	rxAxis.Cross(r, axis)
	var rotated lin.V3
	rotated.MultMv(invWorldInertia, &rxAxis)
	var out lin.V3
	out.Cross(&rotated, r)
	return out
}
