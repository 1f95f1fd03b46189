// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// epaBias is added to the GJK/EPA search so a nonzero witness direction
// exists even for touching configurations, then undone once the contact
// is extracted (spec §4.6's "general convex pairs, static"). Grounded on
// orig/Physics/Intersections.cpp's DoesIntersect bias constant.
const epaBias = 0.001

// caIterations bounds conservative advancement's advancement loop
// (spec §4.6). Grounded on orig/Physics/Intersections.cpp's
// DoesIntersect_ConservativeAdvance iteration cap.
const caIterations = 10

// Contact is a single-pair collision record (spec §4.6). Contact normal is
// a unit vector that, applied as a positive impulse to BodyA, separates
// the pair.
type Contact struct {
	BodyA, BodyB *Body

	Normal lin.V3

	PtOnAWorld, PtOnBWorld lin.V3
	PtOnALocal, PtOnBLocal lin.V3

	Separation   float64
	TimeOfImpact float64
}

func fillLocalSpace(c *Contact) {
	c.PtOnALocal = c.BodyA.WorldToLocal(c.PtOnAWorld)
	c.PtOnBLocal = c.BodyB.WorldToLocal(c.PtOnBWorld)
}

// sphereSphereStatic checks two spheres for overlap at their current
// positions (spec §4.6's "sphere/sphere, static"). Grounded on
// orig/Physics/Intersections.cpp's DoesIntersect_SphereSphereStatic.
func sphereSphereStatic(sa, sb *sphere, posA, posB lin.V3) (ptOnA, ptOnB lin.V3, hit bool) {
	var ab lin.V3
	ab.Sub(&posB, &posA)
	norm := ab
	norm.Unit()

	ptOnA = lin.V3{X: posA.X + norm.X*sa.R, Y: posA.Y + norm.Y*sa.R, Z: posA.Z + norm.Z*sa.R}
	ptOnB = lin.V3{X: posB.X - norm.X*sb.R, Y: posB.Y - norm.Y*sb.R, Z: posB.Z - norm.Z*sb.R}

	radiusSum := sa.R + sb.R
	hit = ab.LenSqr() <= radiusSum*radiusSum
	return
}

// rayHitsSphere solves the quadratic a*t²+2b*t+c=0 for a ray vs. a sphere
// of given radius centered at sphereCenter, returning the two roots.
// Grounded on orig/Physics/Intersections.cpp's DoesHit_RaySphere.
func rayHitsSphere(rayStart, rayDir, sphereCenter lin.V3, radius float64) (t1, t2 float64, hit bool) {
	var toCenter lin.V3
	toCenter.Sub(&sphereCenter, &rayStart)
	a := rayDir.Dot(&rayDir)
	b := toCenter.Dot(&rayDir)
	c := toCenter.Dot(&toCenter) - radius*radius

	discSqr := b*b - a*c
	if discSqr < 0 {
		return 0, 0, false
	}
	disc := math.Sqrt(discSqr)
	invA := 1.0 / a
	return invA * (b - disc), invA * (b + disc), true
}

// sphereSphereDynamic sweeps two spheres over dt and returns the earliest
// time of impact in [0, dt], if any (spec §4.6's "sphere/sphere,
// continuous"). Grounded on orig/Physics/Intersections.cpp's
// DoesIntersect_SphereSphereDynamic.
func sphereSphereDynamic(sa, sb *sphere, posA, posB, velA, velB lin.V3, dt float64) (ptOnA, ptOnB lin.V3, toi float64, hit bool) {
	var relVel lin.V3
	relVel.Sub(&velA, &velB)
	a := posA
	var b lin.V3
	b.X, b.Y, b.Z = posA.X+relVel.X*dt, posA.Y+relVel.Y*dt, posA.Z+relVel.Z*dt
	var rayDir lin.V3
	rayDir.Sub(&b, &a)

	var t1, t2 float64
	if rayDir.LenSqr() < 0.001*0.001 {
		var ab lin.V3
		ab.Sub(&posB, &posA)
		radiusSum := sa.R + sb.R + 0.001
		if ab.LenSqr() > radiusSum*radiusSum {
			return lin.V3{}, lin.V3{}, 0, false
		}
		t1, t2 = 0, 0
	} else {
		var ok bool
		t1, t2, ok = rayHitsSphere(posA, rayDir, posB, sa.R+sb.R)
		if !ok {
			return lin.V3{}, lin.V3{}, 0, false
		}
	}

	t1 *= dt
	t2 *= dt
	if t2 < 0 {
		return lin.V3{}, lin.V3{}, 0, false
	}
	toi = t1
	if toi < 0 {
		toi = 0
	}
	if toi > dt {
		return lin.V3{}, lin.V3{}, 0, false
	}

	wa := lin.V3{X: posA.X + velA.X*toi, Y: posA.Y + velA.Y*toi, Z: posA.Z + velA.Z*toi}
	wb := lin.V3{X: posB.X + velB.X*toi, Y: posB.Y + velB.Y*toi, Z: posB.Z + velB.Z*toi}
	var ab lin.V3
	ab.Sub(&wb, &wa)
	ab.Unit()

	ptOnA = lin.V3{X: wa.X + ab.X*sa.R, Y: wa.Y + ab.Y*sa.R, Z: wa.Z + ab.Z*sa.R}
	ptOnB = lin.V3{X: wb.X - ab.X*sb.R, Y: wb.Y - ab.Y*sb.R, Z: wb.Z - ab.Z*sb.R}
	return ptOnA, ptOnB, toi, true
}

// StaticIntersect tests bodyA and bodyB for overlap at their current poses
// (no time step), populating a Contact on hit (spec §4.6's "general convex
// pairs, static" plus the sphere/sphere static fast path). A false result
// still returns a Contact with the closest-points separation distance, for
// callers doing conservative advancement. Grounded on
// orig/Physics/Intersections.cpp's DoesIntersect(bodyA, bodyB, contact).
func StaticIntersect(bodyA, bodyB *Body) (Contact, bool) {
	c := Contact{BodyA: bodyA, BodyB: bodyB}

	if sa, ok := bodyA.Shape.(*sphere); ok {
		if sb, ok := bodyB.Shape.(*sphere); ok {
			ptOnA, ptOnB, hit := sphereSphereStatic(sa, sb, bodyA.Pose.Pos, bodyB.Pose.Pos)
			c.PtOnAWorld, c.PtOnBWorld = ptOnA, ptOnB
			if hit {
				var normal lin.V3
				normal.Sub(&bodyA.Pose.Pos, &bodyB.Pose.Pos)
				normal.Unit()
				c.Normal = normal
				fillLocalSpace(&c)

				var ab lin.V3
				ab.Sub(&bodyB.Pose.Pos, &bodyA.Pose.Pos)
				c.Separation = ab.Len() - (sa.R + sb.R)
				return c, true
			}
			var ab lin.V3
			ab.Sub(&bodyB.Pose.Pos, &bodyA.Pose.Pos)
			c.Separation = ab.Len() - (sa.R + sb.R)
			fillLocalSpace(&c)
			return c, false
		}
	}

	if hit, ptOnA, ptOnB, _ := intersectGJKEPA(bodyA, bodyB, epaBias); hit {
		var normal lin.V3
		normal.Sub(&ptOnB, &ptOnA)
		normal.Unit()

		ptOnA.X, ptOnA.Y, ptOnA.Z = ptOnA.X-normal.X*epaBias, ptOnA.Y-normal.Y*epaBias, ptOnA.Z-normal.Z*epaBias
		ptOnB.X, ptOnB.Y, ptOnB.Z = ptOnB.X+normal.X*epaBias, ptOnB.Y+normal.Y*epaBias, ptOnB.Z+normal.Z*epaBias

		c.Normal = normal
		c.PtOnAWorld, c.PtOnBWorld = ptOnA, ptOnB
		fillLocalSpace(&c)

		var sep lin.V3
		sep.Sub(&ptOnA, &ptOnB)
		c.Separation = -sep.Len()
		return c, true
	}

	ptOnA, ptOnB, separation := closestPointsGJK(bodyA, bodyB)
	c.PtOnAWorld, c.PtOnBWorld = ptOnA, ptOnB
	fillLocalSpace(&c)
	c.Separation = separation
	return c, false
}

// ConservativeAdvance bounds two fast-moving bodies together iteratively,
// advancing both by the minimum time-to-close along the closest-points
// axis until they touch or the step time is exhausted (spec §4.6's
// "general convex pairs, continuous"). Both bodies are left at their
// original pose; on a hit, Contact.TimeOfImpact reports how far into dt
// the impact occurs. Grounded on
// orig/Physics/Intersections.cpp's DoesIntersect_ConservativeAdvance.
func ConservativeAdvance(bodyA, bodyB *Body, dt float64) (Contact, bool) {
	toi := 0.0
	remaining := dt

	for iter := 0; iter < caIterations; iter++ {
		contact, hit := StaticIntersect(bodyA, bodyB)
		if hit {
			contact.TimeOfImpact = toi
			bodyA.Update(-toi)
			bodyB.Update(-toi)
			return contact, true
		}
		if remaining <= 0 {
			break
		}

		var ab lin.V3
		ab.Sub(&contact.PtOnBWorld, &contact.PtOnAWorld)
		ab.Unit()

		var relVel lin.V3
		relVel.Sub(&bodyA.LinearVelocity, &bodyB.LinearVelocity)
		orthoSpeed := relVel.Dot(&ab)

		var negAB lin.V3
		negAB.Scale(&ab, -1)
		orthoSpeed += bodyA.Shape.FastestLinearSpeed(bodyA.AngularVelocity, ab)
		orthoSpeed += bodyB.Shape.FastestLinearSpeed(bodyB.AngularVelocity, negAB)
		if orthoSpeed <= 0 {
			break
		}

		timeToGo := contact.Separation / orthoSpeed
		if timeToGo > remaining {
			break
		}

		remaining -= timeToGo
		toi += timeToGo
		bodyA.Update(timeToGo)
		bodyB.Update(timeToGo)
	}

	bodyA.Update(-toi)
	bodyB.Update(-toi)
	return Contact{BodyA: bodyA, BodyB: bodyB}, false
}

// Intersect produces a contact record for (bodyA, bodyB) over the step
// Δt (spec §4.6): sphere/sphere pairs use the closed-form continuous
// solve, everything else goes through conservative advancement. Grounded
// on orig/Physics/Intersections.cpp's DoesIntersect(bodyA, bodyB, dt, contact).
func Intersect(bodyA, bodyB *Body, dt float64) (Contact, bool) {
	c := Contact{BodyA: bodyA, BodyB: bodyB}

	if sa, ok := bodyA.Shape.(*sphere); ok {
		if sb, ok := bodyB.Shape.(*sphere); ok {
			ptOnA, ptOnB, toi, hit := sphereSphereDynamic(sa, sb, bodyA.Pose.Pos, bodyB.Pose.Pos, bodyA.LinearVelocity, bodyB.LinearVelocity, dt)
			if !hit {
				return c, false
			}

			bodyA.Update(toi)
			bodyB.Update(toi)
			c.PtOnAWorld, c.PtOnBWorld = ptOnA, ptOnB
			fillLocalSpace(&c)

			var normal lin.V3
			normal.Sub(&bodyA.Pose.Pos, &bodyB.Pose.Pos)
			normal.Unit()
			c.Normal = normal
			c.TimeOfImpact = toi

			bodyA.Update(-toi)
			bodyB.Update(-toi)

			var ab lin.V3
			ab.Sub(&bodyB.Pose.Pos, &bodyA.Pose.Pos)
			c.Separation = ab.Len() - (sa.R + sb.R)
			return c, true
		}
	}

	return ConservativeAdvance(bodyA, bodyB, dt)
}
