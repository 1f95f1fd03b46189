// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"github.com/sadoe3/rigidphysics/math/lin"
)

// Constraint is a bilateral joint between two bodies, solved by Gauss-Seidel
// over a cached-Lagrange-multiplier Jacobian (spec §4.8). PostSolve is a
// no-op for constraints that don't warm-start-clamp.
type Constraint interface {
	PreSolve(dt float64)
	Solve()
	PostSolve()
}

// constraintBase carries the state common to every constraint variant: the
// two bodies and the anchor/axis pair expressed in each body's local space
// (spec §4.8). Grounded on orig/Physics/Constraints/ConstraintBase.h.
type constraintBase struct {
	BodyA, BodyB *Body

	AnchorA, AnchorB lin.V3
	AxisA, AxisB     lin.V3
}

// inverseMassMatrix returns the 12x12 block-diagonal inverse mass/inertia
// matrix for (BodyA, BodyB), grounded on ConstraintBase::GetInverseMassMatrix.
func (c *constraintBase) inverseMassMatrix() *lin.MatMN {
	invInertiaA := c.BodyA.InverseInertiaWorld()
	invInertiaB := c.BodyB.InverseInertiaWorld()
	return lin.NewDiag12(c.BodyA.InvMass, &invInertiaA, c.BodyB.InvMass, &invInertiaB)
}

// velocities returns the 12-wide (linear, angular) x (A, B) velocity
// vector, grounded on ConstraintBase::GetVelocities.
func (c *constraintBase) velocities() lin.VecN {
	v := lin.NewVecN(12)
	v[0], v[1], v[2] = c.BodyA.LinearVelocity.X, c.BodyA.LinearVelocity.Y, c.BodyA.LinearVelocity.Z
	v[3], v[4], v[5] = c.BodyA.AngularVelocity.X, c.BodyA.AngularVelocity.Y, c.BodyA.AngularVelocity.Z
	v[6], v[7], v[8] = c.BodyB.LinearVelocity.X, c.BodyB.LinearVelocity.Y, c.BodyB.LinearVelocity.Z
	v[9], v[10], v[11] = c.BodyB.AngularVelocity.X, c.BodyB.AngularVelocity.Y, c.BodyB.AngularVelocity.Z
	return v
}

// applyImpulses distributes a 12-wide impulse vector back onto the two
// bodies' linear and angular velocities, grounded on
// ConstraintBase::ApplyImpulses.
func (c *constraintBase) applyImpulses(impulses lin.VecN) {
	c.BodyA.ApplyImpulseLinear(lin.V3{X: impulses[0], Y: impulses[1], Z: impulses[2]})
	c.BodyA.ApplyImpulseAngular(lin.V3{X: impulses[3], Y: impulses[4], Z: impulses[5]})
	c.BodyB.ApplyImpulseLinear(lin.V3{X: impulses[6], Y: impulses[7], Z: impulses[8]})
	c.BodyB.ApplyImpulseAngular(lin.V3{X: impulses[9], Y: impulses[10], Z: impulses[11]})
}

// worldAnchors returns the world-space anchor points and the lever arms
// from each body's center of mass to its anchor.
func (c *constraintBase) worldAnchors() (anchorA, anchorB, centerToAnchorA, centerToAnchorB lin.V3) {
	anchorA = c.BodyA.LocalToWorld(c.AnchorA)
	anchorB = c.BodyB.LocalToWorld(c.AnchorB)
	comA, comB := c.BodyA.CenterOfMassWorld(), c.BodyB.CenterOfMassWorld()
	centerToAnchorA.Sub(&anchorA, &comA)
	centerToAnchorB.Sub(&anchorB, &comB)
	return
}

// setDistanceRow fills Jacobian row r with the point-to-point distance
// constraint between anchorA and anchorB, shared by every joint variant
// that holds two anchors coincident (Distance, Hinge, ConstantVelocity, Spinner).
func setDistanceRow(j *lin.MatMN, r int, anchorA, anchorB, centerToAnchorA, centerToAnchorB lin.V3) {
	j1 := lin.V3{X: (anchorA.X - anchorB.X) * 2, Y: (anchorA.Y - anchorB.Y) * 2, Z: (anchorA.Z - anchorB.Z) * 2}
	var j2, j3, j4 lin.V3
	j3.Scale(&j1, -1)
	j2.Cross(&centerToAnchorA, &j1)
	j4.Cross(&centerToAnchorB, &j3)

	j.Set(r, 0, j1.X)
	j.Set(r, 1, j1.Y)
	j.Set(r, 2, j1.Z)
	j.Set(r, 3, j2.X)
	j.Set(r, 4, j2.Y)
	j.Set(r, 5, j2.Z)
	j.Set(r, 6, j3.X)
	j.Set(r, 7, j3.Y)
	j.Set(r, 8, j3.Z)
	j.Set(r, 9, j4.X)
	j.Set(r, 10, j4.Y)
	j.Set(r, 11, j4.Z)
}

// distanceBaumgarte returns the Baumgarte stabilization term for the
// point-to-point distance constraint, grounded on
// ConstraintDistance::PreSolve's violatedDistance/Beta formula.
func distanceBaumgarte(anchorA, anchorB lin.V3, dt float64) float64 {
	var ab lin.V3
	ab.Sub(&anchorB, &anchorA)
	violated := ab.Dot(&ab)
	if violated < 0.01 {
		violated = 0
	} else {
		violated -= 0.01
	}
	const beta = 0.05
	return (beta / dt) * violated
}

// quatJacobianMatrices returns the MatA/MatB 4x4 matrices that map an axis,
// expressed as a 4-vector (0, axis), to the angular-velocity Jacobian rows
// of a relative-orientation constraint (spec §4.8's ConstantVelocity/
// Spinner/Hinge/Orientation family). Grounded on
// ConstraintConstantVelocity::PreSolve's MatA/MatB construction.
func quatJacobianMatrices(orientationA, orientationB, targetRelativeOrientation lin.Q) (matA, matB lin.M4) {
	var orientationAInv, targetInv, rightArg lin.Q
	orientationAInv.Inv(&orientationA)
	targetInv.Inv(&targetRelativeOrientation)
	rightArg.Mult(&orientationB, &targetInv)

	left := lin.QLeft(&orientationAInv)
	right := lin.QRight(&rightArg)

	var product lin.M4
	product.Mult(left, right)

	// Drop the scalar (w) row/column: row 0 and column 0 of the 4x4 never
	// contribute to the angular Jacobian, matching the original's
	// zero-row/zero-column projection matrix.
	projected := product
	projected.Xx, projected.Xy, projected.Xz, projected.Xw = 0, 0, 0, 0
	projected.Yx = 0
	projected.Zx = 0
	projected.Wx = 0

	matA = projected
	matA.Scale(-0.5)
	matB = projected
	matB.Scale(0.5)
	return
}

// quatJacobianColumn applies m to the 4-vector (0, axis) and returns the
// xyz components, the per-row J2/J4 angular Jacobian term.
func quatJacobianColumn(m *lin.M4, axis lin.V3) lin.V3 {
	v := lin.V4{X: 0, Y: axis.X, Z: axis.Y, W: axis.Z}
	var out lin.V4
	out.MultMv(m, &v)
	return lin.V3{X: out.Y, Y: out.Z, Z: out.W}
}

func clampLagrange(l *lin.VecN, i int, limit float64) {
	if isNaN((*l)[i]) {
		(*l)[i] = 0
	}
	if (*l)[i] > limit {
		(*l)[i] = limit
	}
	if (*l)[i] < -limit {
		(*l)[i] = -limit
	}
}

func isNaN(f float64) bool { return f != f }
