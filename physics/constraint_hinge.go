// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// hingeConstraint locks two of the three relative angular degrees of
// freedom (the plane perpendicular to the hinge axis), leaving free
// rotation about the hinge axis itself — a door hinge with no rotation
// stop (spec §4.8's Hinge joint). orig/Physics/Constraints/ConstraintHinge.h
// declares this type's shape (3-row Jacobian, single baumgarte scalar) but
// its .cpp did not survive in the pack; the row layout is authored by
// direct analogy to ConstraintConstantVelocity.cpp's angular-row
// construction, restricting both perpendicular axes u, v instead of one.
type hingeConstraint struct {
	constraintBase
	targetRelativeOrientation lin.Q
	jacobian                  *lin.MatMN
	lagrange                  lin.VecN
	baumgarte                 float64
}

// NewHingeConstraint anchors bodyA/bodyB about hingeAxis (in bodyA's local
// space), holding the other two rotational degrees of freedom fixed.
func NewHingeConstraint(bodyA, bodyB *Body, anchorA, anchorB, hingeAxis lin.V3) Constraint {
	var invA, target lin.Q
	invA.Inv(&bodyA.Pose.Rot)
	target.Mult(&invA, &bodyB.Pose.Rot)
	return &hingeConstraint{
		constraintBase:            constraintBase{BodyA: bodyA, BodyB: bodyB, AnchorA: anchorA, AnchorB: anchorB, AxisA: hingeAxis},
		targetRelativeOrientation: target,
		jacobian:                  lin.NewMatMN(3, 12),
		lagrange:                  lin.NewVecN(3),
	}
}

func (c *hingeConstraint) PreSolve(dt float64) {
	anchorA, anchorB, toA, toB := c.worldAnchors()

	var u, v lin.V3
	orthoBasis(c.AxisA, &u, &v)

	matA, matB := quatJacobianMatrices(c.BodyA.Pose.Rot, c.BodyB.Pose.Rot, c.targetRelativeOrientation)

	c.jacobian.Zero()
	setDistanceRow(c.jacobian, 0, anchorA, anchorB, toA, toB)
	setAngularRow(c.jacobian, 1, &matA, &matB, u)
	setAngularRow(c.jacobian, 2, &matA, &matB, v)

	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)
	warmStart := transposed.MultVec(lin.NewVecN(12), lin.VecN(c.lagrange))
	c.applyImpulses(warmStart)

	c.baumgarte = distanceBaumgarte(anchorA, anchorB, dt)
}

// setAngularRow fills Jacobian row r with the angular constraint that
// restricts relative rotation about axis, the shared shape of every
// orientation-row construction in the Hinge/Orientation family.
func setAngularRow(j *lin.MatMN, r int, matA, matB *lin.M4, axis lin.V3) {
	j2 := quatJacobianColumn(matA, axis)
	j4 := quatJacobianColumn(matB, axis)
	j.Set(r, 3, j2.X)
	j.Set(r, 4, j2.Y)
	j.Set(r, 5, j2.Z)
	j.Set(r, 9, j4.X)
	j.Set(r, 10, j4.Y)
	j.Set(r, 11, j4.Z)
}

func (c *hingeConstraint) Solve() {
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
	impulses := transposed.MultVec(lin.NewVecN(12), multipliers)
	c.applyImpulses(impulses)

	c.lagrange.Add(c.lagrange, multipliers)
}

func (c *hingeConstraint) PostSolve() {
	const limit = 20.0
	for i := 0; i < 3; i++ {
		clampLagrange(&c.lagrange, i, limit)
	}
}

// hingeLimitedConstraint is hingeConstraint plus a rotation stop about the
// hinge axis itself, engaged only once the relative twist exceeds
// angleLimitDeg (spec §4.8's HingeLimited joint, the knee/elbow variant).
// Authored by analogy to ConstraintConstantVelocityLimited.cpp's
// conditional-row pattern, applied to the hinge axis rather than the swing
// plane.
type hingeLimitedConstraint struct {
	constraintBase
	targetRelativeOrientation lin.Q
	jacobian                  *lin.MatMN
	lagrange                  lin.VecN
	baumgarte                 float64

	angleLimitDeg float64
	violated      bool
	relativeAngle float64
}

// NewHingeLimitedConstraint is NewHingeConstraint plus a symmetric rotation
// limit, in degrees, about hingeAxis.
func NewHingeLimitedConstraint(bodyA, bodyB *Body, anchorA, anchorB, hingeAxis lin.V3, angleLimitDeg float64) Constraint {
	var invA, target lin.Q
	invA.Inv(&bodyA.Pose.Rot)
	target.Mult(&invA, &bodyB.Pose.Rot)
	return &hingeLimitedConstraint{
		constraintBase:            constraintBase{BodyA: bodyA, BodyB: bodyB, AnchorA: anchorA, AnchorB: anchorB, AxisA: hingeAxis},
		targetRelativeOrientation: target,
		jacobian:                  lin.NewMatMN(4, 12),
		lagrange:                  lin.NewVecN(4),
		angleLimitDeg:             angleLimitDeg,
	}
}

func (c *hingeLimitedConstraint) PreSolve(dt float64) {
	anchorA, anchorB, toA, toB := c.worldAnchors()

	var u, v lin.V3
	orthoBasis(c.AxisA, &u, &v)

	matA, matB := quatJacobianMatrices(c.BodyA.Pose.Rot, c.BodyB.Pose.Rot, c.targetRelativeOrientation)

	var invA, relativeAB, targetInv, current lin.Q
	invA.Inv(&c.BodyA.Pose.Rot)
	relativeAB.Mult(&invA, &c.BodyB.Pose.Rot)
	targetInv.Inv(&c.targetRelativeOrientation)
	current.Mult(&relativeAB, &targetInv)

	xyz := lin.V3{X: current.X, Y: current.Y, Z: current.Z}
	const radToDeg = 180.0 / math.Pi
	c.relativeAngle = 2 * asin(xyz.Dot(&c.AxisA)) * radToDeg
	c.violated = c.relativeAngle > c.angleLimitDeg || c.relativeAngle < -c.angleLimitDeg

	c.jacobian.Zero()
	setDistanceRow(c.jacobian, 0, anchorA, anchorB, toA, toB)
	setAngularRow(c.jacobian, 1, &matA, &matB, u)
	setAngularRow(c.jacobian, 2, &matA, &matB, v)
	if c.violated {
		setAngularRow(c.jacobian, 3, &matA, &matB, c.AxisA)
	}

	var transposed lin.MatMN
	transposed.Transpose(c.jacobian)
	warmStart := transposed.MultVec(lin.NewVecN(12), lin.VecN(c.lagrange))
	c.applyImpulses(warmStart)

	c.baumgarte = distanceBaumgarte(anchorA, anchorB, dt)
}

func (c *hingeLimitedConstraint) Solve() {
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

	if c.violated {
		if c.relativeAngle > 0 && multipliers[3] > 0 {
			multipliers[3] = 0
		}
		if c.relativeAngle < 0 && multipliers[3] < 0 {
			multipliers[3] = 0
		}
	}

	impulses := transposed.MultVec(lin.NewVecN(12), multipliers)
	c.applyImpulses(impulses)

	c.lagrange.Add(c.lagrange, multipliers)
}

func (c *hingeLimitedConstraint) PostSolve() {
	const limit = 20.0
	for i := 0; i < 4; i++ {
		if i == 3 && !c.violated {
			c.lagrange[i] = 0
		}
		clampLagrange(&c.lagrange, i, limit)
	}
}
