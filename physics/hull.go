// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"errors"
	"math"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// tri is a CCW-wound triangle referencing hull vertex indices. Grounded on
// orig/Physics/Shapes/ShapeConvex.cpp's tri_t.
type tri struct {
	A, B, C int
}

type edge struct {
	A, B int
}

// convex is a Shape backed by a convex hull built from an input point cloud
// (spec §4.4). Support is a linear scan over the stored hull vertices; mass
// properties are precomputed once at construction via tetrahedral
// decomposition about the vertex-list centroid.
type convex struct {
	points   []lin.V3
	tris     []tri
	bounds   Bounds
	com      lin.V3
	inertia  lin.M3
}

// NewConvex builds a convex hull Shape from an arbitrary input point cloud
// (spec §4.4). Returns an error if fewer than 4 distinct points are supplied,
// per the spec's edge case "fewer than 4 distinct input points ⇒ no hull
// built; caller may not use the shape."
func NewConvex(input []lin.V3) (Shape, error) {
	if len(input) < 4 {
		return nil, errors.New("physics: convex hull needs at least 4 points")
	}
	points, tris := buildConvexHull(input)
	if len(points) < 4 || len(tris) < 4 {
		return nil, errors.New("physics: convex hull degenerate, points are coplanar or coincident")
	}
	c := &convex{points: points, tris: tris}
	c.bounds = NewBounds()
	c.bounds.ExpandAll(points)
	c.com = centerOfMassByTetrahedra(points, tris)
	c.inertia = inertiaTensorByTetrahedra(points, tris, c.com)
	return c, nil
}

func (c *convex) Type() int { return ShapeConvex }

func (c *convex) Support(dir lin.V3, pose *Pose, bias float64) lin.V3 {
	best := pose.ToWorld(c.points[0])
	bestDot := dir.Dot(&best)
	for _, p := range c.points[1:] {
		w := pose.ToWorld(p)
		if d := dir.Dot(&w); d > bestDot {
			bestDot, best = d, w
		}
	}
	unit := dir
	unit.Unit()
	best.X += unit.X * bias
	best.Y += unit.Y * bias
	best.Z += unit.Z * bias
	return best
}

func (c *convex) InertiaTensor(mass float64) lin.M3 {
	return lin.M3{
		Xx: mass * c.inertia.Xx, Xy: mass * c.inertia.Xy, Xz: mass * c.inertia.Xz,
		Yx: mass * c.inertia.Yx, Yy: mass * c.inertia.Yy, Yz: mass * c.inertia.Yz,
		Zx: mass * c.inertia.Zx, Zy: mass * c.inertia.Zy, Zz: mass * c.inertia.Zz,
	}
}

func (c *convex) CenterOfMass() lin.V3 { return c.com }

func (c *convex) Bounds() Bounds { return c.bounds }

func (c *convex) WorldBounds(pose *Pose) Bounds {
	b := NewBounds()
	for _, p := range c.points {
		b.Expand(pose.ToWorld(p))
	}
	return b
}

func (c *convex) FastestLinearSpeed(w, dir lin.V3) float64 {
	fastest := 0.0
	for _, p := range c.points {
		var off lin.V3
		off.Sub(&p, &c.com)
		var v lin.V3
		v.Cross(&w, &off)
		if s := v.Dot(&dir); s > fastest {
			fastest = s
		}
	}
	return fastest
}

// findFurthestInDir returns the index of the point in points that maximizes
// dir.Dot(point).
func findFurthestInDir(points []lin.V3, dir lin.V3) int {
	best := 0
	bestDot := dir.Dot(&points[0])
	for i := 1; i < len(points); i++ {
		if d := dir.Dot(&points[i]); d > bestDot {
			bestDot, best = d, i
		}
	}
	return best
}

// distanceFromLine returns the perpendicular distance of target from the
// line through a and b.
func distanceFromLine(a, b, target lin.V3) float64 {
	var ab lin.V3
	ab.Sub(&b, &a)
	ab.Unit()
	var toTarget lin.V3
	toTarget.Sub(&target, &a)
	proj := toTarget.Dot(&ab)
	var projected lin.V3
	projected.Scale(&ab, proj)
	var perp lin.V3
	perp.Sub(&toTarget, &projected)
	return perp.Len()
}

func findFurthestFromLine(points []lin.V3, a, b lin.V3) lin.V3 {
	best := 0
	bestDist := distanceFromLine(a, b, points[0])
	for i := 1; i < len(points); i++ {
		if d := distanceFromLine(a, b, points[i]); d > bestDist {
			bestDist, best = d, i
		}
	}
	return points[best]
}

// distanceFromTriangle returns the signed distance of target from the plane
// of triangle (a, b, c), positive on the side the CCW normal points toward.
func distanceFromTriangle(a, b, c, target lin.V3) float64 {
	var ab, ac lin.V3
	ab.Sub(&b, &a)
	ac.Sub(&c, &a)
	var normal lin.V3
	normal.Cross(&ab, &ac)
	normal.Unit()
	var toTarget lin.V3
	toTarget.Sub(&target, &a)
	return toTarget.Dot(&normal)
}

func findFurthestFromTriangle(points []lin.V3, a, b, c lin.V3) lin.V3 {
	best := 0
	bestDist := distanceFromTriangle(a, b, c, points[0])
	for i := 1; i < len(points); i++ {
		d := distanceFromTriangle(a, b, c, points[i])
		if d*d > bestDist*bestDist {
			bestDist, best = d, i
		}
	}
	return points[best]
}

// buildSeedTetrahedron picks the four hull seed points per spec §4.4 step 1
// and returns them as a CCW-wound tetrahedron (4 points, 4 outward faces).
func buildSeedTetrahedron(vertices []lin.V3) (points []lin.V3, tris []tri) {
	var simplex [4]lin.V3
	simplex[0] = vertices[findFurthestInDir(vertices, lin.V3{X: 1})]
	var neg lin.V3
	neg.Scale(&simplex[0], -1)
	simplex[1] = vertices[findFurthestInDir(vertices, neg)]
	simplex[2] = findFurthestFromLine(vertices, simplex[0], simplex[1])
	simplex[3] = findFurthestFromTriangle(vertices, simplex[0], simplex[1], simplex[2])

	if distanceFromTriangle(simplex[0], simplex[1], simplex[2], simplex[3]) > 0.0 {
		simplex[0], simplex[1] = simplex[1], simplex[0]
	}

	points = append(points, simplex[0], simplex[1], simplex[2], simplex[3])
	tris = append(tris,
		tri{0, 1, 2},
		tri{0, 2, 3},
		tri{2, 1, 3},
		tri{1, 0, 3},
	)
	return points, tris
}

// removeInternalPoints drops every point in candidates that is not strictly
// outside the current hull, and every point within 0.01 of a hull vertex
// (spec §4.4 step 2).
func removeInternalPoints(points []lin.V3, tris []tri, candidates []lin.V3) []lin.V3 {
	kept := candidates[:0:0]
	for _, p := range candidates {
		external := false
		for _, t := range tris {
			if distanceFromTriangle(points[t.A], points[t.B], points[t.C], p) > 0.0 {
				external = true
				break
			}
		}
		if !external {
			continue
		}
		kept = append(kept, p)
	}

	candidates = kept
	kept = candidates[:0:0]
	for _, p := range candidates {
		tooClose := false
		for _, hp := range points {
			var d lin.V3
			d.Sub(&hp, &p)
			if d.LenSqr() < 0.01*0.01 {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, p)
		}
	}
	return kept
}

func triEdges(t tri) [3]edge {
	return [3]edge{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
}

// isEdgeUnique reports whether e is not shared by any other facing triangle
// (other than the one at skip), i.e. it lies on the open boundary of the
// triangle fan being removed.
func isEdgeUnique(tris []tri, facing []int, skip int, e edge) bool {
	for _, idx := range facing {
		if idx == skip {
			continue
		}
		for _, oe := range triEdges(tris[idx]) {
			if oe == e || (oe.A == e.B && oe.B == e.A) {
				return false
			}
		}
	}
	return true
}

// addPoint inserts newPoint into the hull, removing every triangle whose
// outward half-space contains it and fan-triangulating the resulting open
// boundary with newPoint as apex (spec §4.4 step 3).
func addPoint(points []lin.V3, tris []tri, newPoint lin.V3) ([]lin.V3, []tri) {
	var facing []int
	for i := len(tris) - 1; i >= 0; i-- {
		t := tris[i]
		if distanceFromTriangle(points[t.A], points[t.B], points[t.C], newPoint) > 0.0 {
			facing = append(facing, i)
		}
	}

	var boundary []edge
	for _, idx := range facing {
		for _, e := range triEdges(tris[idx]) {
			if isEdgeUnique(tris, facing, idx, e) {
				boundary = append(boundary, e)
			}
		}
	}

	remove := make(map[int]bool, len(facing))
	for _, idx := range facing {
		remove[idx] = true
	}
	kept := tris[:0:0]
	for i, t := range tris {
		if !remove[i] {
			kept = append(kept, t)
		}
	}
	tris = kept

	points = append(points, newPoint)
	newIndex := len(points) - 1
	for _, e := range boundary {
		tris = append(tris, tri{e.A, e.B, newIndex})
	}
	return points, tris
}

// removeUnreferencedVertices drops hull vertices no longer named by any
// triangle and renumbers the remaining triangle indices (spec §4.4 step 4).
func removeUnreferencedVertices(points []lin.V3, tris []tri) ([]lin.V3, []tri) {
	for i := 0; i < len(points); i++ {
		used := false
		for _, t := range tris {
			if t.A == i || t.B == i || t.C == i {
				used = true
				break
			}
		}
		if used {
			continue
		}
		for j := range tris {
			if tris[j].A > i {
				tris[j].A--
			}
			if tris[j].B > i {
				tris[j].B--
			}
			if tris[j].C > i {
				tris[j].C--
			}
		}
		points = append(points[:i], points[i+1:]...)
		i--
	}
	return points, tris
}

// expandConvexHull repeatedly pops an external point and folds it into the
// hull until no input vertex remains outside it (spec §4.4 steps 2-4).
func expandConvexHull(points []lin.V3, tris []tri, input []lin.V3) ([]lin.V3, []tri) {
	external := make([]lin.V3, len(input))
	copy(external, input)
	external = removeInternalPoints(points, tris, external)

	for len(external) > 0 {
		idx := findFurthestInDir(external, external[0])
		support := external[idx]
		external = append(external[:idx], external[idx+1:]...)
		points, tris = addPoint(points, tris, support)
		external = removeInternalPoints(points, tris, external)
	}
	return removeUnreferencedVertices(points, tris)
}

// buildConvexHull runs the full pipeline (spec §4.4): seed tetrahedron, then
// expand it against every input vertex.
func buildConvexHull(vertices []lin.V3) ([]lin.V3, []tri) {
	points, tris := buildSeedTetrahedron(vertices)
	return expandConvexHull(points, tris, vertices)
}

// tetrahedronVolume returns the unsigned volume of the tetrahedron (a, b, c, d).
func tetrahedronVolume(a, b, c, d lin.V3) float64 {
	var ac, ab, ad lin.V3
	ac.Sub(&c, &a)
	ab.Sub(&b, &a)
	ad.Sub(&d, &a)
	var cross lin.V3
	cross.Cross(&ab, &ac)
	return math.Abs(ad.Dot(&cross)) / 6.0
}

// centerOfMassByTetrahedra decomposes the hull into tetrahedra sharing the
// centroid of the vertex list and returns the volume-weighted average of
// their centroids (spec §4.4).
func centerOfMassByTetrahedra(points []lin.V3, tris []tri) lin.V3 {
	var centroid lin.V3
	for _, p := range points {
		centroid.X += p.X
		centroid.Y += p.Y
		centroid.Z += p.Z
	}
	n := float64(len(points))
	centroid.X, centroid.Y, centroid.Z = centroid.X/n, centroid.Y/n, centroid.Z/n

	var com lin.V3
	totalVolume := 0.0
	for _, t := range tris {
		b, c, d := points[t.A], points[t.B], points[t.C]
		vol := tetrahedronVolume(centroid, b, c, d)
		tcx, tcy, tcz := (centroid.X+b.X+c.X+d.X)*0.25, (centroid.Y+b.Y+c.Y+d.Y)*0.25, (centroid.Z+b.Z+c.Z+d.Z)*0.25
		com.X += tcx * vol
		com.Y += tcy * vol
		com.Z += tcz * vol
		totalVolume += vol
	}
	com.X, com.Y, com.Z = com.X/totalVolume, com.Y/totalVolume, com.Z/totalVolume
	return com
}

func termsForDiagonal(c1, c2, c3 float64) float64 {
	return c1*c1 + c1*c2 + c2*c2 + c1*c3 + c2*c3 + c3*c3
}

func termsForOffDiagonal(a1, a2, a3, b1, b2, b3 float64) float64 {
	return a1*b1 + a1*b2 + a2*b1 + a2*b2 + a1*b3 + a3*b1 + a2*b3 + a3*b2 + a3*b3
}

// inertiaTensorOfTetrahedron returns the inertia tensor of a mass-scaled
// tetrahedron (origin, b, c, d), i.e. one vertex already translated to the
// origin, per spec §4.4's closed-form diagonal/off-diagonal terms.
func inertiaTensorOfTetrahedron(b, c, d lin.V3, mass float64) lin.M3 {
	coeff := mass / 20.0
	var m lin.M3
	m.Xx = coeff * (termsForDiagonal(b.Y, c.Y, d.Y) + termsForDiagonal(b.Z, c.Z, d.Z))
	m.Yy = coeff * (termsForDiagonal(b.X, c.X, d.X) + termsForDiagonal(b.Z, c.Z, d.Z))
	m.Zz = coeff * (termsForDiagonal(b.X, c.X, d.X) + termsForDiagonal(b.Y, c.Y, d.Y))

	negCoeff := -coeff
	m.Xy = negCoeff * termsForOffDiagonal(b.X, c.X, d.X, b.Y, c.Y, d.Y)
	m.Yx = m.Xy
	m.Yz = negCoeff * termsForOffDiagonal(b.Y, c.Y, d.Y, b.Z, c.Z, d.Z)
	m.Zy = m.Yz
	m.Xz = negCoeff * termsForOffDiagonal(b.X, c.X, d.X, b.Z, c.Z, d.Z)
	m.Zx = m.Xz
	return m
}

// inertiaTensorByTetrahedra accumulates the per-tetrahedron inertia tensor
// over the hull's tetrahedral decomposition about com, scaled to unit
// density (spec §4.4).
func inertiaTensorByTetrahedra(points []lin.V3, tris []tri, com lin.V3) lin.M3 {
	var total lin.M3
	totalVolume := 0.0
	for _, t := range tris {
		var b, c, d lin.V3
		pb, pc, pd := points[t.A], points[t.B], points[t.C]
		b.Sub(&pb, &com)
		c.Sub(&pc, &com)
		d.Sub(&pd, &com)

		var origin lin.V3
		vol := tetrahedronVolume(origin, b, c, d)
		totalVolume += vol

		ti := inertiaTensorOfTetrahedron(b, c, d, vol)
		total.Xx += ti.Xx
		total.Yy += ti.Yy
		total.Zz += ti.Zz
		total.Xy += ti.Xy
		total.Yx += ti.Yx
		total.Xz += ti.Xz
		total.Zx += ti.Zx
		total.Yz += ti.Yz
		total.Zy += ti.Zy
	}
	inv := 1.0 / totalVolume
	total.Xx *= inv
	total.Yy *= inv
	total.Zz *= inv
	total.Xy *= inv
	total.Yx *= inv
	total.Xz *= inv
	total.Zx *= inv
	total.Yz *= inv
	total.Zy *= inv
	return total
}
