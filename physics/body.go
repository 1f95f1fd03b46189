// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"github.com/sadoe3/rigidphysics/math/lin"
)

// maxAngularSpeed clamps angular velocity after an impulse, matching the
// original's arbitrary stability limit (spec §4.3). Grounded on
// orig/Physics/Body.cpp's ApplyImpulseAngular.
const maxAngularSpeed = 30.0

// Body is a rigid body: kinematic state plus the material/shape properties
// the solver and collision layers need (spec §3).
type Body struct {
	ID int

	Pose Pose

	LinearVelocity  lin.V3
	AngularVelocity lin.V3

	InvMass    float64
	Elasticity float64
	Friction   float64
	Shape      Shape

	// Name and Material are authoring metadata only, never read by any
	// solver or collision code path. Grounded on orig/Physics/Body.h's
	// m_geometryName/m_objectName/m_materialName.
	Name     string
	Material string
}

// NewBody returns a Body with identity orientation and the given mass
// (0 == static/kinematic, infinite mass) and shape.
func NewBody(id int, shape Shape, mass, elasticity, friction float64) *Body {
	b := &Body{
		ID:         id,
		Pose:       Pose{Rot: lin.Q{W: 1}},
		Elasticity: elasticity,
		Friction:   friction,
		Shape:      shape,
	}
	if mass > 0 {
		b.InvMass = 1.0 / mass
	}
	return b
}

// IsStatic reports whether the body has infinite mass.
func (b *Body) IsStatic() bool { return b.InvMass == 0 }

// CenterOfMassWorld returns the body's center of mass in world space.
func (b *Body) CenterOfMassWorld() lin.V3 {
	com := b.Shape.CenterOfMass()
	return b.Pose.ToWorld(com)
}

// WorldToLocal transforms a world point into body space, relative to the
// center of mass (spec §4.1's per-body local frame).
func (b *Body) WorldToLocal(worldPt lin.V3) lin.V3 {
	com := b.CenterOfMassWorld()
	var tmp lin.V3
	tmp.Sub(&worldPt, &com)
	inv := lin.NewQ().Inv(&b.Pose.Rot)
	var out lin.V3
	out.MultvQ(&tmp, inv)
	return out
}

// LocalToWorld transforms a body-space point (relative to the center of
// mass) into world space.
func (b *Body) LocalToWorld(localPt lin.V3) lin.V3 {
	com := b.CenterOfMassWorld()
	var rotated lin.V3
	rotated.MultvQ(&localPt, &b.Pose.Rot)
	var out lin.V3
	out.Add(&com, &rotated)
	return out
}

// InverseInertiaBody returns the body-space inverse inertia tensor.
func (b *Body) InverseInertiaBody() lin.M3 {
	if b.InvMass == 0 {
		return lin.M3{}
	}
	i := b.Shape.InertiaTensor(b.massOrZero())
	var inv lin.M3
	inv.Inv(&i)
	return inv
}

// InverseInertiaWorld returns the world-space inverse inertia tensor,
// rotating the body-space tensor by the body's current orientation
// (spec §4.3's I⁻¹_world = R·I⁻¹_body·Rᵀ).
func (b *Body) InverseInertiaWorld() lin.M3 {
	bodySpace := b.InverseInertiaBody()
	var rot lin.M3
	rot.SetQ(&b.Pose.Rot)
	var rotT lin.M3
	rotT.Transpose(&rot)
	var tmp lin.M3
	tmp.Mult(&rot, &bodySpace)
	var world lin.M3
	world.Mult(&tmp, &rotT)
	return world
}

// ApplyImpulseLinear applies a linear impulse (spec §4.3).
func (b *Body) ApplyImpulseLinear(impulse lin.V3) {
	if b.InvMass == 0 {
		return
	}
	var dv lin.V3
	dv.Scale(&impulse, b.InvMass)
	b.LinearVelocity.Add(&b.LinearVelocity, &dv)
}

// ApplyImpulseAngular applies an angular impulse, clamping the resulting
// angular speed to maxAngularSpeed (spec §4.3). Grounded on
// orig/Physics/Body.cpp's ApplyImpulseAngular.
func (b *Body) ApplyImpulseAngular(impulse lin.V3) {
	if b.InvMass == 0 {
		return
	}
	world := b.InverseInertiaWorld()
	var dw lin.V3
	dw.MultMv(&world, &impulse)
	b.AngularVelocity.Add(&b.AngularVelocity, &dw)

	if b.AngularVelocity.LenSqr() > maxAngularSpeed*maxAngularSpeed {
		b.AngularVelocity.Unit()
		b.AngularVelocity.Scale(&b.AngularVelocity, maxAngularSpeed)
	}
}

// ApplyImpulse applies an impulse at a world-space point, decomposing it
// into a linear impulse plus the angular impulse from the lever arm about
// the center of mass (spec §4.3).
func (b *Body) ApplyImpulse(point, impulse lin.V3) {
	if b.InvMass == 0 {
		return
	}
	b.ApplyImpulseLinear(impulse)

	com := b.CenterOfMassWorld()
	var r lin.V3
	r.Sub(&point, &com)
	var angular lin.V3
	angular.Cross(&r, &impulse)
	b.ApplyImpulseAngular(angular)
}

// Update advances the body's kinematic state by dt, integrating gravity-free
// velocities already accumulated onto LinearVelocity/AngularVelocity, the
// gyroscopic term, and the position/orientation update that preserves the
// offset between the body's reference position and its center of mass
// (spec §4.3). Passing a negative dt unwinds a trial step, used by
// conservative advancement.
func (b *Body) Update(dt float64) {
	b.Pose.Pos.X += b.LinearVelocity.X * dt
	b.Pose.Pos.Y += b.LinearVelocity.Y * dt
	b.Pose.Pos.Z += b.LinearVelocity.Z * dt

	com := b.CenterOfMassWorld()
	var comToPos lin.V3
	comToPos.Sub(&b.Pose.Pos, &com)

	var rot lin.M3
	rot.SetQ(&b.Pose.Rot)
	var rotT lin.M3
	rotT.Transpose(&rot)
	bodyInertia := b.Shape.InertiaTensor(b.massOrZero())
	var tmp lin.M3
	tmp.Mult(&rot, &bodyInertia)
	var worldInertia lin.M3
	worldInertia.Mult(&tmp, &rotT)

	var iw lin.V3
	iw.MultMv(&worldInertia, &b.AngularVelocity)
	var torque lin.V3
	torque.Cross(&b.AngularVelocity, &iw)

	var invWorldInertia lin.M3
	invWorldInertia.Inv(&worldInertia)
	var accel lin.V3
	accel.MultMv(&invWorldInertia, &torque)

	b.AngularVelocity.X += accel.X * dt
	b.AngularVelocity.Y += accel.Y * dt
	b.AngularVelocity.Z += accel.Z * dt

	deltaAngle := b.AngularVelocity
	deltaAngle.Scale(&deltaAngle, dt)
	angle := deltaAngle.Len()
	deltaQuat := lin.NewQ()
	if angle > 0 {
		deltaQuat.SetAa(deltaAngle.X, deltaAngle.Y, deltaAngle.Z, angle)
	} else {
		deltaQuat.SetS(0, 0, 0, 1)
	}

	b.Pose.Rot.Mult(deltaQuat, &b.Pose.Rot)
	b.Pose.Rot.Unit()

	var rotatedOffset lin.V3
	rotatedOffset.MultvQ(&comToPos, deltaQuat)
	b.Pose.Pos.Add(&com, &rotatedOffset)
}

// massOrZero recovers mass from InvMass for shape inertia-tensor queries.
// Static bodies (InvMass == 0) report mass 0, which gives a zero inertia
// tensor. ApplyImpulseAngular/InverseInertiaWorld short circuit before
// using it; Update does consult it, and there M3.Inv leaves the zero
// inverse unchanged for the singular tensor, so no angular acceleration
// results.
func (b *Body) massOrZero() float64 {
	if b.InvMass == 0 {
		return 0
	}
	return 1.0 / b.InvMass
}
