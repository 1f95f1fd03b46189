// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/sadoe3/rigidphysics/math/lin"

// distanceConstraint holds two anchor points coincident across bodies,
// rigidly or as a chain link (spec §4.8's Distance joint). Grounded on
// orig/Physics/Constraints/ConstraintDistance.cpp.
type distanceConstraint struct {
	constraintBase
	jacobian  *lin.MatMN
	lagrange  lin.VecN
	baumgarte float64
}

// NewDistanceConstraint anchors bodyA/bodyB at their given local-space
// anchor points, holding the distance between them fixed.
func NewDistanceConstraint(bodyA, bodyB *Body, anchorA, anchorB lin.V3) Constraint {
	return &distanceConstraint{
		constraintBase: constraintBase{BodyA: bodyA, BodyB: bodyB, AnchorA: anchorA, AnchorB: anchorB},
		jacobian:       lin.NewMatMN(1, 12),
		lagrange:       lin.NewVecN(1),
	}
}

func (c *distanceConstraint) PreSolve(dt float64) {
	anchorA, anchorB, toA, toB := c.worldAnchors()

	c.jacobian.Zero()
	setDistanceRow(c.jacobian, 0, anchorA, anchorB, toA, toB)

	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)
	warmStart := transposed.MultVec(lin.NewVecN(12), lin.VecN(c.lagrange))
	c.applyImpulses(warmStart)

	c.baumgarte = distanceBaumgarte(anchorA, anchorB, dt)
}

func (c *distanceConstraint) Solve() {
	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)

	velocities := c.velocities()
	invMass := c.inverseMassMatrix()

	var tmp, lhs lin.MatMN
	tmp.Mult(c.jacobian, invMass)
	lhs.Mult(&tmp, &transposed)

	rhs := c.jacobian.MultVec(lin.NewVecN(1), velocities)
	rhs.Scale(rhs, -1)
	rhs[0] -= c.baumgarte

	multipliers := lin.SolveGaussSeidel(&lhs, rhs, 10)

	impulses := transposed.MultVec(lin.NewVecN(12), multipliers)
	c.applyImpulses(impulses)

	c.lagrange.Add(c.lagrange, multipliers)
}

func (c *distanceConstraint) PostSolve() {
	const limit = 1e5
	clampLagrange(&c.lagrange, 0, limit)
}
