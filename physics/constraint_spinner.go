// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/sadoe3/rigidphysics/math/lin"

// spinnerConstraint is a motorized hinge: anchors coincident, the relative
// orientation about two axes perpendicular to the motor axis held fixed,
// and a target angular velocity driven about the motor axis itself
// (spec §4.8's Spinner joint). Grounded on
// orig/Physics/Constraints/ConstraintSpinner.cpp.
type spinnerConstraint struct {
	constraintBase
	motorAxis                 lin.V3 // in BodyA's local space
	motorTargetSpeed          float64
	targetRelativeOrientation lin.Q
	jacobian                  *lin.MatMN
	baumgarte                 lin.V3
}

// NewSpinnerConstraint anchors bodyA/bodyB and drives BodyB's rotation
// about motorAxis (expressed in BodyA's local space) at motorTargetSpeed
// radians/second relative to BodyA.
func NewSpinnerConstraint(bodyA, bodyB *Body, anchorA, anchorB, motorAxis lin.V3, motorTargetSpeed float64) Constraint {
	var invA, target lin.Q
	invA.Inv(&bodyA.Pose.Rot)
	target.Mult(&invA, &bodyB.Pose.Rot)
	return &spinnerConstraint{
		constraintBase:            constraintBase{BodyA: bodyA, BodyB: bodyB, AnchorA: anchorA, AnchorB: anchorB},
		motorAxis:                 motorAxis,
		motorTargetSpeed:          motorTargetSpeed,
		targetRelativeOrientation: target,
		jacobian:                  lin.NewMatMN(4, 12),
	}
}

func (c *spinnerConstraint) PreSolve(dt float64) {
	anchorA, anchorB, toA, toB := c.worldAnchors()

	motorAxis := c.BodyA.Pose.RotateToWorld(c.motorAxis)
	var u, v lin.V3
	orthoBasis(motorAxis, &u, &v)

	matA, matB := quatJacobianMatrices(c.BodyA.Pose.Rot, c.BodyB.Pose.Rot, c.targetRelativeOrientation)

	c.jacobian.Zero()
	setDistanceRow(c.jacobian, 0, anchorA, anchorB, toA, toB)

	for row, axis := range []lin.V3{u, v, motorAxis} {
		j2 := quatJacobianColumn(&matA, axis)
		j4 := quatJacobianColumn(&matB, axis)
		c.jacobian.Set(row+1, 3, j2.X)
		c.jacobian.Set(row+1, 4, j2.Y)
		c.jacobian.Set(row+1, 5, j2.Z)
		c.jacobian.Set(row+1, 9, j4.X)
		c.jacobian.Set(row+1, 10, j4.Y)
		c.jacobian.Set(row+1, 11, j4.Z)
	}

	var ab lin.V3
	ab.Sub(&anchorB, &anchorA)
	const beta = 0.05
	var invA, relativeAB, current lin.Q
	invA.Inv(&c.BodyA.Pose.Rot)
	relativeAB.Mult(&invA, &c.BodyB.Pose.Rot)
	var targetInv lin.Q
	targetInv.Inv(&c.targetRelativeOrientation)
	current.Mult(&relativeAB, &targetInv)
	currentAxis := c.BodyA.Pose.RotateToWorld(lin.V3{X: current.X, Y: current.Y, Z: current.Z})

	c.baumgarte = lin.V3{
		X: (beta / dt) * ab.Dot(&ab),
		Y: u.Dot(&currentAxis) * (beta / dt),
		Z: v.Dot(&currentAxis) * (beta / dt),
	}
}

func (c *spinnerConstraint) Solve() {
	motorAxis := c.BodyA.Pose.RotateToWorld(c.motorAxis)

	desired := lin.NewVecN(12)
	desired[3], desired[4], desired[5] = motorAxis.X*-c.motorTargetSpeed, motorAxis.Y*-c.motorTargetSpeed, motorAxis.Z*-c.motorTargetSpeed
	desired[9], desired[10], desired[11] = motorAxis.X*c.motorTargetSpeed, motorAxis.Y*c.motorTargetSpeed, motorAxis.Z*c.motorTargetSpeed

	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)

	velocities := c.velocities()
	velocities.Sub(velocities, desired)

	invMass := c.inverseMassMatrix()
	var tmp, lhs lin.MatMN
	tmp.Mult(c.jacobian, invMass)
	lhs.Mult(&tmp, &transposed)

	rhs := c.jacobian.MultVec(lin.NewVecN(4), velocities)
	rhs.Scale(rhs, -1)
	rhs[0] -= c.baumgarte.X
	rhs[1] -= c.baumgarte.Y
	rhs[2] -= c.baumgarte.Z

	multipliers := lin.SolveGaussSeidel(&lhs, rhs, 10)
	impulses := transposed.MultVec(lin.NewVecN(12), multipliers)
	c.applyImpulses(impulses)
}

func (c *spinnerConstraint) PostSolve() {}
