// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "math"

// moverConstraint drives bodyA's linear velocity along a fixed sinusoid,
// independent of any other body (spec §4.8's Mover, a scripted platform
// driver rather than a bilateral joint). Grounded on
// orig/Physics/Constraints/ConstraintMover.cpp.
type moverConstraint struct {
	body            *Body
	accumulatedTime float64
}

// NewMoverConstraint drives body's Y velocity as cos(t*0.25)*4.
func NewMoverConstraint(body *Body) Constraint {
	return &moverConstraint{body: body}
}

func (c *moverConstraint) PreSolve(dt float64) {
	c.accumulatedTime += dt
	c.body.LinearVelocity.Y = math.Cos(c.accumulatedTime*0.25) * 4.0
}

func (c *moverConstraint) Solve()     {}
func (c *moverConstraint) PostSolve() {}
