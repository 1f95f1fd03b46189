// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// Shape is a physics collision primitive, always expressed in a body's
// local space centered at that body's center of mass. The variant set is
// fixed: Sphere, Box, Convex (spec §3 "Shape is a variant over {Sphere,
// Box, Convex}"). Shapes do not allocate in their hot paths.
type Shape interface {
	Type() int // ShapeSphere, ShapeBox, or ShapeConvex.

	// Support returns the point of the shape, transformed by pose and
	// inflated by bias along the normalized dir, that maximizes dir.dot(p).
	Support(dir lin.V3, pose *Pose, bias float64) lin.V3

	// InertiaTensor returns the shape's inertia tensor about its local
	// center of mass, for the given mass.
	InertiaTensor(mass float64) lin.M3

	// CenterOfMass returns the shape's center of mass in local space.
	CenterOfMass() lin.V3

	// Bounds returns the shape's axis aligned bounding box in local space.
	Bounds() Bounds

	// WorldBounds returns the shape's axis aligned bounding box transformed
	// by pose.
	WorldBounds(pose *Pose) Bounds

	// FastestLinearSpeed returns the maximum, over every vertex v of the
	// shape, of dir.dot(w.cross(v - com)). Used by conservative advancement
	// to bound rotational motion along a direction (spec §4.6).
	FastestLinearSpeed(w, dir lin.V3) float64
}

// Shape type discriminants (spec §3 "a discriminant tag exposing which
// variant it is").
const (
	ShapeSphere = iota
	ShapeBox
	ShapeConvex
)

// Pose is a position + orientation pair, the minimal frame a Shape needs to
// place its local-space geometry in world space (spec §3's Body carries
// exactly these two fields as its kinematic state).
type Pose struct {
	Pos lin.V3
	Rot lin.Q
}

// ToWorld transforms local point p into world space using this pose.
func (ps *Pose) ToWorld(p lin.V3) lin.V3 {
	var rotated lin.V3
	rotated.MultvQ(&p, &ps.Rot)
	var out lin.V3
	out.Add(&ps.Pos, &rotated)
	return out
}

// ToLocal transforms world point p into this pose's local space.
func (ps *Pose) ToLocal(p lin.V3) lin.V3 {
	var delta lin.V3
	delta.Sub(&p, &ps.Pos)
	inv := lin.NewQ().Inv(&ps.Rot)
	var out lin.V3
	out.MultvQ(&delta, inv)
	return out
}

// RotateToWorld rotates (but does not translate) local direction d.
func (ps *Pose) RotateToWorld(d lin.V3) lin.V3 {
	var out lin.V3
	out.MultvQ(&d, &ps.Rot)
	return out
}

// Bounds is an axis-aligned box, spec §3: "{min, max} with Expand(point),
// Expand(point_cloud), per-axis widths." Invariant: Min <= Max componentwise
// once any point has been added; an empty Bounds carries +/-math.MaxFloat64 sentinels
// so the first Expand call establishes both corners correctly.
type Bounds struct {
	Min, Max lin.V3
}

// NewBounds returns an empty Bounds ready for Expand calls.
func NewBounds() Bounds {
	return Bounds{
		Min: lin.V3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: lin.V3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// Expand grows the bounds, if necessary, to include point p.
func (b *Bounds) Expand(p lin.V3) {
	b.Min.X, b.Min.Y, b.Min.Z = math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)
	b.Max.X, b.Max.Y, b.Max.Z = math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)
}

// ExpandAll grows the bounds to include every point in pts.
func (b *Bounds) ExpandAll(pts []lin.V3) {
	for _, p := range pts {
		b.Expand(p)
	}
}

// Widths returns the per-axis extents of the bounds.
func (b *Bounds) Widths() (dx, dy, dz float64) {
	return b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z
}

// Inflate grows the bounds by margin on every side, in place.
func (b *Bounds) Inflate(margin float64) {
	b.Min.X, b.Min.Y, b.Min.Z = b.Min.X-margin, b.Min.Y-margin, b.Min.Z-margin
	b.Max.X, b.Max.Y, b.Max.Z = b.Max.X+margin, b.Max.Y+margin, b.Max.Z+margin
}

// Overlaps returns true if bounds b and o intersect (touching does not count).
func (b *Bounds) Overlaps(o *Bounds) bool {
	return b.Max.X > o.Min.X && b.Min.X < o.Max.X &&
		b.Max.Y > o.Min.Y && b.Min.Y < o.Max.Y &&
		b.Max.Z > o.Min.Z && b.Min.Z < o.Max.Z
}

// Shape interface
// ============================================================================
// sphere shape

// sphere is a collision shape primitive defined by a radius around the
// origin. Grounded on orig/Physics/Shapes/ShapeSphere.cpp.
type sphere struct {
	R float64
}

// NewSphere creates a Sphere shape. Negative radius values are turned positive.
func NewSphere(radius float64) Shape { return &sphere{math.Abs(radius)} }

func (s *sphere) Type() int { return ShapeSphere }

func (s *sphere) Support(dir lin.V3, pose *Pose, bias float64) lin.V3 {
	dir.Unit()
	local := lin.V3{X: dir.X * (s.R + bias), Y: dir.Y * (s.R + bias), Z: dir.Z * (s.R + bias)}
	return pose.ToWorld(local)
}

func (s *sphere) InertiaTensor(mass float64) lin.M3 {
	elem := 0.4 * mass * s.R * s.R
	return lin.M3{Xx: elem, Yy: elem, Zz: elem}
}

func (s *sphere) CenterOfMass() lin.V3 { return lin.V3{} }

func (s *sphere) Bounds() Bounds {
	return Bounds{Min: lin.V3{X: -s.R, Y: -s.R, Z: -s.R}, Max: lin.V3{X: s.R, Y: s.R, Z: s.R}}
}

func (s *sphere) WorldBounds(pose *Pose) Bounds {
	b := NewBounds()
	b.Expand(lin.V3{X: pose.Pos.X - s.R, Y: pose.Pos.Y - s.R, Z: pose.Pos.Z - s.R})
	b.Expand(lin.V3{X: pose.Pos.X + s.R, Y: pose.Pos.Y + s.R, Z: pose.Pos.Z + s.R})
	return b
}

func (s *sphere) FastestLinearSpeed(w, dir lin.V3) float64 {
	// Every point on a sphere's surface is equidistant from its center so
	// the fastest point is whichever is tangential to both w and dir.
	var wxd lin.V3
	wxd.Cross(&w, &dir)
	return wxd.Len() * s.R
}

// sphere
// ============================================================================
// box shape

// box is a collision shape primitive, an axis aligned box centered at the
// origin and defined by half-lengths along each axis.
type box struct {
	Hx, Hy, Hz float64
	verts      [8]lin.V3
}

// NewBox creates a Box shape. Negative input values are turned positive.
func NewBox(hx, hy, hz float64) Shape {
	hx, hy, hz = math.Abs(hx), math.Abs(hy), math.Abs(hz)
	b := &box{Hx: hx, Hy: hy, Hz: hz}
	i := 0
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				b.verts[i] = lin.V3{X: sx * hx, Y: sy * hy, Z: sz * hz}
				i++
			}
		}
	}
	return b
}

func (b *box) Type() int { return ShapeBox }

func (b *box) Support(dir lin.V3, pose *Pose, bias float64) lin.V3 {
	// Support is evaluated in local space: rotate dir into local space,
	// scan the 8 corners, then transform the winner to world and inflate.
	invRot := lin.NewQ().Inv(&pose.Rot)
	var ld lin.V3
	ld.MultvQ(&dir, invRot)

	best := b.verts[0]
	bestDot := best.Dot(&ld)
	for _, v := range b.verts[1:] {
		d := v.Dot(&ld)
		if d > bestDot {
			bestDot, best = d, v
		}
	}
	world := pose.ToWorld(best)
	unit := dir
	unit.Unit()
	world.X += unit.X * bias
	world.Y += unit.Y * bias
	world.Z += unit.Z * bias
	return world
}

func (b *box) InertiaTensor(mass float64) lin.M3 {
	lx2, ly2, lz2 := 4.0*b.Hx*b.Hx, 4.0*b.Hy*b.Hy, 4.0*b.Hz*b.Hz
	return lin.M3{
		Xx: mass / 12.0 * (ly2 + lz2),
		Yy: mass / 12.0 * (lx2 + lz2),
		Zz: mass / 12.0 * (lx2 + ly2),
	}
}

func (b *box) CenterOfMass() lin.V3 { return lin.V3{} }

func (b *box) Bounds() Bounds {
	return Bounds{Min: lin.V3{X: -b.Hx, Y: -b.Hy, Z: -b.Hz}, Max: lin.V3{X: b.Hx, Y: b.Hy, Z: b.Hz}}
}

func (b *box) WorldBounds(pose *Pose) Bounds {
	bo := NewBounds()
	for _, v := range b.verts {
		bo.Expand(pose.ToWorld(v))
	}
	return bo
}

func (b *box) FastestLinearSpeed(w, dir lin.V3) float64 {
	fastest := 0.0
	for _, v := range b.verts {
		var wxv lin.V3
		wxv.Cross(&w, &v)
		if s := wxv.Dot(&dir); s > fastest {
			fastest = s
		}
	}
	return fastest
}
