// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/sadoe3/rigidphysics/math/lin"

// orientationConstraint welds bodyB's orientation to a fixed target
// relative to bodyA, with no translational anchor at all (spec §4.8's
// Orientation joint, used to keep a scene gizmo's pointer facing a target
// without otherwise restraining its position).
// orig/Physics/Constraints/ConstraintOrientation.h declares this type's
// shape but its .cpp did not survive in the pack. The header's declared
// Jacobian(4, 12) cannot be reconciled with a pure orientation lock, which
// has exactly 3 angular degrees of freedom to constrain; this
// implementation uses 3 rows (one per axis of BodyA's local frame) rather
// than guessing at an unverifiable 4th row (see DESIGN.md's Open Question
// decisions).
type orientationConstraint struct {
	constraintBase
	targetRelativeOrientation lin.Q
	jacobian                  *lin.MatMN
	baumgarte                 float64
}

// NewOrientationConstraint welds bodyB's orientation to bodyA's, capturing
// their current relative orientation as the target to hold.
func NewOrientationConstraint(bodyA, bodyB *Body) Constraint {
	var invA, target lin.Q
	invA.Inv(&bodyA.Pose.Rot)
	target.Mult(&invA, &bodyB.Pose.Rot)
	return &orientationConstraint{
		constraintBase:            constraintBase{BodyA: bodyA, BodyB: bodyB},
		targetRelativeOrientation: target,
		jacobian:                  lin.NewMatMN(3, 12),
	}
}

func (c *orientationConstraint) PreSolve(dt float64) {
	matA, matB := quatJacobianMatrices(c.BodyA.Pose.Rot, c.BodyB.Pose.Rot, c.targetRelativeOrientation)

	c.jacobian.Zero()
	axes := [3]lin.V3{{X: 1}, {Y: 1}, {Z: 1}}
	for row, axis := range axes {
		setAngularRow(c.jacobian, row, &matA, &matB, axis)
	}

	var invA, relativeAB, targetInv, current lin.Q
	invA.Inv(&c.BodyA.Pose.Rot)
	relativeAB.Mult(&invA, &c.BodyB.Pose.Rot)
	targetInv.Inv(&c.targetRelativeOrientation)
	current.Mult(&relativeAB, &targetInv)
	drift := lin.V3{X: current.X, Y: current.Y, Z: current.Z}

	const beta = 0.05
	c.baumgarte = (beta / dt) * drift.Len()
}

func (c *orientationConstraint) Solve() {
	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)

	velocities := c.velocities()
	invMass := c.inverseMassMatrix()

	var tmp, lhs lin.MatMN
	tmp.Mult(c.jacobian, invMass)
	lhs.Mult(&tmp, &transposed)

	rhs := c.jacobian.MultVec(lin.NewVecN(3), velocities)
	rhs.Scale(rhs, -1)
	for i := range rhs {
		rhs[i] -= c.baumgarte
	}

	multipliers := lin.SolveGaussSeidel(&lhs, rhs, 10)
	impulses := transposed.MultVec(lin.NewVecN(12), multipliers)
	c.applyImpulses(impulses)
}

func (c *orientationConstraint) PostSolve() {}
