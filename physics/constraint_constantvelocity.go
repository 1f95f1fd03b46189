// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// constantVelocityConstraint is a universal joint: anchors coincident plus
// an angular row that keeps a chosen axis in BodyA's frame at a fixed
// relative orientation to BodyB (spec §4.8's ConstantVelocity joint, used
// for unlimited swing). Grounded on
// orig/Physics/Constraints/ConstraintConstantVelocity.cpp.
type constantVelocityConstraint struct {
	constraintBase
	targetRelativeOrientation lin.Q
	jacobian                  *lin.MatMN
	lagrange                  lin.VecN
	baumgarte                 float64
}

// NewConstantVelocityConstraint builds the unlimited variant, capturing the
// current relative orientation of bodyA/bodyB as the target to maintain.
func NewConstantVelocityConstraint(bodyA, bodyB *Body, anchorA, anchorB, axisA lin.V3) Constraint {
	var invA, target lin.Q
	invA.Inv(&bodyA.Pose.Rot)
	target.Mult(&invA, &bodyB.Pose.Rot)
	return &constantVelocityConstraint{
		constraintBase:            constraintBase{BodyA: bodyA, BodyB: bodyB, AnchorA: anchorA, AnchorB: anchorB, AxisA: axisA},
		targetRelativeOrientation: target,
		jacobian:                  lin.NewMatMN(2, 12),
		lagrange:                  lin.NewVecN(2),
	}
}

func (c *constantVelocityConstraint) PreSolve(dt float64) {
	anchorA, anchorB, toA, toB := c.worldAnchors()

	matA, matB := quatJacobianMatrices(c.BodyA.Pose.Rot, c.BodyB.Pose.Rot, c.targetRelativeOrientation)

	c.jacobian.Zero()
	setDistanceRow(c.jacobian, 0, anchorA, anchorB, toA, toB)

	j2 := quatJacobianColumn(&matA, c.AxisA)
	j4 := quatJacobianColumn(&matB, c.AxisA)
	c.jacobian.Set(1, 3, j2.X)
	c.jacobian.Set(1, 4, j2.Y)
	c.jacobian.Set(1, 5, j2.Z)
	c.jacobian.Set(1, 9, j4.X)
	c.jacobian.Set(1, 10, j4.Y)
	c.jacobian.Set(1, 11, j4.Z)

	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)
	warmStart := transposed.MultVec(lin.NewVecN(12), lin.VecN(c.lagrange))
	c.applyImpulses(warmStart)

	c.baumgarte = distanceBaumgarte(anchorA, anchorB, dt)
}

func (c *constantVelocityConstraint) Solve() {
	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)

	velocities := c.velocities()
	invMass := c.inverseMassMatrix()

	var tmp, lhs lin.MatMN
	tmp.Mult(c.jacobian, invMass)
	lhs.Mult(&tmp, &transposed)

	rhs := c.jacobian.MultVec(lin.NewVecN(2), velocities)
	rhs.Scale(rhs, -1)
	rhs[0] -= c.baumgarte

	multipliers := lin.SolveGaussSeidel(&lhs, rhs, 10)
	impulses := transposed.MultVec(lin.NewVecN(12), multipliers)
	c.applyImpulses(impulses)

	c.lagrange.Add(c.lagrange, multipliers)
}

func (c *constantVelocityConstraint) PostSolve() {
	const limit = 20.0
	clampLagrange(&c.lagrange, 0, limit)
	clampLagrange(&c.lagrange, 1, limit)
}

// constantVelocityLimitedConstraint is the swing-limited variant: the same
// distance + axis rows, plus two conditional rows that only engage when the
// relative swing about u or v exceeds the angle limit (spec §4.8's
// ConstantVelocityLimited joint, used for ragdoll shoulder/hip sockets).
// Grounded on ConstraintConstantVelocityLimited.cpp.
type constantVelocityLimitedConstraint struct {
	constraintBase
	targetRelativeOrientation lin.Q
	jacobian                  *lin.MatMN
	lagrange                  lin.VecN
	baumgarte                 float64

	angleLimitDeg        float64
	violatedU, violatedV bool
	relativeAngleU       float64
	relativeAngleV       float64
}

// NewConstantVelocityLimitedConstraint builds the swing-limited variant with
// the given symmetric angle limit in degrees.
func NewConstantVelocityLimitedConstraint(bodyA, bodyB *Body, anchorA, anchorB, axisA lin.V3, angleLimitDeg float64) Constraint {
	var invA, target lin.Q
	invA.Inv(&bodyA.Pose.Rot)
	target.Mult(&invA, &bodyB.Pose.Rot)
	return &constantVelocityLimitedConstraint{
		constraintBase:            constraintBase{BodyA: bodyA, BodyB: bodyB, AnchorA: anchorA, AnchorB: anchorB, AxisA: axisA},
		targetRelativeOrientation: target,
		jacobian:                  lin.NewMatMN(4, 12),
		lagrange:                  lin.NewVecN(4),
		angleLimitDeg:             angleLimitDeg,
	}
}

func (c *constantVelocityLimitedConstraint) PreSolve(dt float64) {
	anchorA, anchorB, toA, toB := c.worldAnchors()

	var u, v lin.V3
	orthoBasis(c.AxisA, &u, &v)

	matA, matB := quatJacobianMatrices(c.BodyA.Pose.Rot, c.BodyB.Pose.Rot, c.targetRelativeOrientation)

	var invA, targetInv, relativeAB, current lin.Q
	invA.Inv(&c.BodyA.Pose.Rot)
	relativeAB.Mult(&invA, &c.BodyB.Pose.Rot)
	targetInv.Inv(&c.targetRelativeOrientation)
	current.Mult(&relativeAB, &targetInv)

	xyz := lin.V3{X: current.X, Y: current.Y, Z: current.Z}
	const radToDeg = 180.0 / math.Pi
	c.relativeAngleU = 2 * asin(xyz.Dot(&u)) * radToDeg
	c.relativeAngleV = 2 * asin(xyz.Dot(&v)) * radToDeg

	const angleLimit = 45.0
	limit := c.angleLimitDeg
	if limit == 0 {
		limit = angleLimit
	}
	c.violatedU = c.relativeAngleU > limit || c.relativeAngleU < -limit
	c.violatedV = c.relativeAngleV > limit || c.relativeAngleV < -limit

	c.jacobian.Zero()
	setDistanceRow(c.jacobian, 0, anchorA, anchorB, toA, toB)

	j2 := quatJacobianColumn(&matA, c.AxisA)
	j4 := quatJacobianColumn(&matB, c.AxisA)
	c.jacobian.Set(1, 3, j2.X)
	c.jacobian.Set(1, 4, j2.Y)
	c.jacobian.Set(1, 5, j2.Z)
	c.jacobian.Set(1, 9, j4.X)
	c.jacobian.Set(1, 10, j4.Y)
	c.jacobian.Set(1, 11, j4.Z)

	if c.violatedU {
		j2u := quatJacobianColumn(&matA, u)
		j4u := quatJacobianColumn(&matB, u)
		c.jacobian.Set(2, 3, j2u.X)
		c.jacobian.Set(2, 4, j2u.Y)
		c.jacobian.Set(2, 5, j2u.Z)
		c.jacobian.Set(2, 9, j4u.X)
		c.jacobian.Set(2, 10, j4u.Y)
		c.jacobian.Set(2, 11, j4u.Z)
	}
	if c.violatedV {
		j2v := quatJacobianColumn(&matA, v)
		j4v := quatJacobianColumn(&matB, v)
		c.jacobian.Set(3, 3, j2v.X)
		c.jacobian.Set(3, 4, j2v.Y)
		c.jacobian.Set(3, 5, j2v.Z)
		c.jacobian.Set(3, 9, j4v.X)
		c.jacobian.Set(3, 10, j4v.Y)
		c.jacobian.Set(3, 11, j4v.Z)
	}

	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)
	warmStart := transposed.MultVec(lin.NewVecN(12), lin.VecN(c.lagrange))
	c.applyImpulses(warmStart)

	c.baumgarte = distanceBaumgarte(anchorA, anchorB, dt)
}

func (c *constantVelocityLimitedConstraint) Solve() {
	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)

	velocities := c.velocities()
	invMass := c.inverseMassMatrix()

	var tmp, lhs lin.MatMN
	tmp.Mult(c.jacobian, invMass)
	lhs.Mult(&tmp, &transposed)

	rhs := c.jacobian.MultVec(lin.NewVecN(4), velocities)
	rhs.Scale(rhs, -1)
	rhs[0] -= c.baumgarte

	multipliers := lin.SolveGaussSeidel(&lhs, rhs, 10)

	if c.violatedU {
		if c.relativeAngleU > 0 && multipliers[2] > 0 {
			multipliers[2] = 0
		}
		if c.relativeAngleU < 0 && multipliers[2] < 0 {
			multipliers[2] = 0
		}
	}
	if c.violatedV {
		if c.relativeAngleV > 0 && multipliers[3] > 0 {
			multipliers[3] = 0
		}
		if c.relativeAngleV < 0 && multipliers[3] < 0 {
			multipliers[3] = 0
		}
	}

	impulses := transposed.MultVec(lin.NewVecN(12), multipliers)
	c.applyImpulses(impulses)

	c.lagrange.Add(c.lagrange, multipliers)
}

func (c *constantVelocityLimitedConstraint) PostSolve() {
	const limit = 20.0
	for i := 0; i < 4; i++ {
		if i > 1 {
			c.lagrange[i] = 0
		}
		clampLagrange(&c.lagrange, i, limit)
	}
}

// asin clamps its argument into [-1, 1] before taking the arcsine, since
// the Dot-product argument can drift slightly outside that range from
// floating-point error.
func asin(x float64) float64 {
	if x > 1 {
		x = 1
	}
	if x < -1 {
		x = -1
	}
	return math.Asin(x)
}
