// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/sadoe3/rigidphysics/math/lin"

// penetrationConstraint resolves a single persistent contact point: a
// normal row holding the anchors apart by no more than the slop distance,
// plus two friction rows in the tangent plane (spec §4.8's Penetration
// constraint, backing Manifold's per-contact solve). Grounded on
// orig/Physics/Constraints/ConstraintPenetration.cpp.
type penetrationConstraint struct {
	constraintBase
	collisionNormal lin.V3 // in BodyA's local space, pointing towards BodyB
	jacobian        *lin.MatMN
	lagrange        lin.VecN
	baumgarte       float64
	friction        float64
}

// newPenetrationConstraint builds a penetration constraint from a narrow
// phase Contact, taking its local anchors and normal (expressed in BodyA's
// local space, per the original's convention).
func newPenetrationConstraint(c *Contact) *penetrationConstraint {
	var invA lin.Q
	invA.Inv(&c.BodyA.Pose.Rot)
	var negNormal lin.V3
	negNormal.Scale(&c.Normal, -1)
	var localNormal lin.V3
	localNormal.MultvQ(&negNormal, &invA)
	localNormal.Unit()

	return &penetrationConstraint{
		constraintBase:  constraintBase{BodyA: c.BodyA, BodyB: c.BodyB, AnchorA: c.PtOnALocal, AnchorB: c.PtOnBLocal},
		collisionNormal: localNormal,
		jacobian:        lin.NewMatMN(3, 12),
		lagrange:        lin.NewVecN(3),
	}
}

func (c *penetrationConstraint) PreSolve(dt float64) {
	anchorA, anchorB, toA, toB := c.worldAnchors()

	c.jacobian.Zero()
	normal := c.BodyA.Pose.RotateToWorld(c.collisionNormal)

	setNormalRow(c.jacobian, 0, normal, toA, toB)

	c.friction = c.BodyA.Friction * c.BodyB.Friction
	if c.friction > 0 {
		var u, v lin.V3
		orthoBasis(c.collisionNormal, &u, &v)
		u = c.BodyA.Pose.RotateToWorld(u)
		v = c.BodyA.Pose.RotateToWorld(v)
		setNormalRow(c.jacobian, 1, u, toA, toB)
		setNormalRow(c.jacobian, 2, v, toA, toB)
	}

	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)
	warmStart := transposed.MultVec(lin.NewVecN(12), lin.VecN(c.lagrange))
	c.applyImpulses(warmStart)

	var ab lin.V3
	ab.Sub(&anchorB, &anchorA)
	violated := ab.Dot(&normal)
	if violated+0.02 < 0 {
		violated += 0.02
	} else {
		violated = 0
	}
	const beta = 0.25
	c.baumgarte = beta * violated / dt
}

// setNormalRow fills Jacobian row r with the point-to-point constraint
// along axis (outward from A towards B), the shared shape of the
// penetration constraint's normal and friction rows.
func setNormalRow(j *lin.MatMN, r int, axis, centerToAnchorA, centerToAnchorB lin.V3) {
	var negAxis lin.V3
	negAxis.Scale(&axis, -1)
	var j2, j4 lin.V3
	j2.Cross(&centerToAnchorA, &negAxis)
	j4.Cross(&centerToAnchorB, &axis)

	j.Set(r, 0, negAxis.X)
	j.Set(r, 1, negAxis.Y)
	j.Set(r, 2, negAxis.Z)
	j.Set(r, 3, j2.X)
	j.Set(r, 4, j2.Y)
	j.Set(r, 5, j2.Z)
	j.Set(r, 6, axis.X)
	j.Set(r, 7, axis.Y)
	j.Set(r, 8, axis.Z)
	j.Set(r, 9, j4.X)
	j.Set(r, 10, j4.Y)
	j.Set(r, 11, j4.Z)
}

func (c *penetrationConstraint) Solve() {
	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)

	velocities := c.velocities()
	invMass := c.inverseMassMatrix()

	var tmp, lhs lin.MatMN
	tmp.Mult(c.jacobian, invMass)
	lhs.Mult(&tmp, &transposed)

	rhs := c.jacobian.MultVec(lin.NewVecN(3), velocities)
	rhs.Scale(rhs, -1)
	rhs[0] -= c.baumgarte

	multipliers := lin.SolveGaussSeidel(&lhs, rhs, 10)

	previous := lin.NewVecN(3).Set(c.lagrange)
	c.lagrange.Add(c.lagrange, multipliers)
	if c.lagrange[0] < 0 {
		c.lagrange[0] = 0
	}

	if c.friction > 0 {
		gravityLimit := c.friction * 10.0 / (c.BodyA.InvMass + c.BodyB.InvMass)
		normalLimit := abs(multipliers[0] * c.friction)
		maxForce := gravityLimit
		if normalLimit > maxForce {
			maxForce = normalLimit
		}
		clampSymmetric(&c.lagrange, 1, maxForce)
		clampSymmetric(&c.lagrange, 2, maxForce)
	}

	multipliers.Sub(c.lagrange, previous)
	impulses := transposed.MultVec(lin.NewVecN(12), multipliers)
	c.applyImpulses(impulses)
}

func (c *penetrationConstraint) PostSolve() {}

func clampSymmetric(l *lin.VecN, i int, limit float64) {
	if (*l)[i] > limit {
		(*l)[i] = limit
	}
	if (*l)[i] < -limit {
		(*l)[i] = -limit
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
