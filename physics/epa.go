// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// epaTriangleNormal returns the outward unit normal of triangle t in the
// given point set.
func epaTriangleNormal(t tri, points []simplexPoint) lin.V3 {
	a, b, c := points[t.A].XYZ, points[t.B].XYZ, points[t.C].XYZ
	var ab, ac lin.V3
	ab.Sub(&b, &a)
	ac.Sub(&c, &a)
	var normal lin.V3
	normal.Cross(&ab, &ac)
	normal.Unit()
	return normal
}

// epaSignedDistance returns the signed distance of target from the plane
// of triangle t, positive on the outward side.
func epaSignedDistance(t tri, target lin.V3, points []simplexPoint) float64 {
	normal := epaTriangleNormal(t, points)
	a := points[t.A].XYZ
	var toTarget lin.V3
	toTarget.Sub(&target, &a)
	return toTarget.Dot(&normal)
}

// closestTriangleToOrigin returns the index of the polytope triangle whose
// plane is closest to the origin (spec §4.5's "find the closest triangle on
// the current polytope to the origin"). Grounded on
// orig/Physics/GJK.cpp's GetClosestTriangleToOrigin.
func closestTriangleToOrigin(tris []tri, points []simplexPoint) int {
	best := -1
	bestDistSqr := math.MaxFloat64
	for i, t := range tris {
		d := epaSignedDistance(t, lin.V3{}, points)
		if d*d < bestDistSqr {
			best, bestDistSqr = i, d*d
		}
	}
	return best
}

// epaAlreadyAdded reports whether target coincides with a vertex already
// referenced by tris, within a small tolerance.
func epaAlreadyAdded(target lin.V3, tris []tri, points []simplexPoint) bool {
	const eps = 0.001 * 0.001
	for _, t := range tris {
		for _, idx := range []int{t.A, t.B, t.C} {
			var delta lin.V3
			delta.Sub(&target, &points[idx].XYZ)
			if delta.LenSqr() < eps {
				return true
			}
		}
	}
	return false
}

// removeTrianglesFacingPoint deletes every triangle whose outward
// half-space contains target, returning the remaining triangles and how
// many were removed.
func removeTrianglesFacingPoint(target lin.V3, tris []tri, points []simplexPoint) ([]tri, int) {
	kept := tris[:0:0]
	removed := 0
	for _, t := range tris {
		if epaSignedDistance(t, target, points) > 0 {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	return kept, removed
}

// danglingEdges returns every triangle edge referenced by exactly one
// triangle in tris, i.e. the open boundary left by a removed triangle fan.
// Grounded on orig/Physics/GJK.cpp's FindDanglingEdges.
func danglingEdges(tris []tri) []edge {
	var out []edge
	for i, t := range tris {
		for _, e := range triEdges(t) {
			shared := false
			for j, other := range tris {
				if i == j {
					continue
				}
				for _, oe := range triEdges(other) {
					if oe == e || (oe.A == e.B && oe.B == e.A) {
						shared = true
						break
					}
				}
				if shared {
					break
				}
			}
			if !shared {
				out = append(out, e)
			}
		}
	}
	return out
}

// epaBarycentric returns the barycentric weights of the projection of
// target onto triangle (s1, s2, s3), using the dominant-axis 2-D area
// method (spec §4.5). Grounded on orig/Physics/GJK.cpp's
// GetBarycentricCoordinates.
func epaBarycentric(s1, s2, s3, target lin.V3) (l0, l1, l2 float64) {
	var a, b, c lin.V3
	a.Sub(&s1, &target)
	b.Sub(&s2, &target)
	c.Sub(&s3, &target)

	var ab, ac lin.V3
	ab.Sub(&b, &a)
	ac.Sub(&c, &a)
	var normal lin.V3
	normal.Cross(&ab, &ac)
	normLenSqr := normal.LenSqr()
	proj := a.Dot(&normal) / normLenSqr
	projectedPA := lin.V3{X: normal.X * proj, Y: normal.Y * proj, Z: normal.Z * proj}

	pts := [3]lin.V3{a, b, c}
	coord := func(v lin.V3, axis int) float64 {
		switch axis {
		case 0:
			return v.X
		case 1:
			return v.Y
		default:
			return v.Z
		}
	}

	targetAxis := 0
	maxArea := 0.0
	for axis := 0; axis < 3; axis++ {
		axisA, axisB := (axis+1)%3, (axis+2)%3
		ax, ay := coord(pts[0], axisA), coord(pts[0], axisB)
		bx, by := coord(pts[1], axisA), coord(pts[1], axisB)
		cx, cy := coord(pts[2], axisA), coord(pts[2], axisB)
		abx, aby := bx-ax, by-ay
		acx, acy := cx-ax, cy-ay
		area := abx*acy - aby*acx
		if area*area > maxArea*maxArea {
			targetAxis, maxArea = axis, area
		}
	}

	axisA, axisB := (targetAxis+1)%3, (targetAxis+2)%3
	projTri := [3][2]float64{
		{coord(pts[0], axisA), coord(pts[0], axisB)},
		{coord(pts[1], axisA), coord(pts[1], axisB)},
		{coord(pts[2], axisA), coord(pts[2], axisB)},
	}
	projTarget := [2]float64{coord(projectedPA, axisA), coord(projectedPA, axisB)}

	var areas [3]float64
	for v := 0; v < 3; v++ {
		vA, vB := (v+1)%3, (v+2)%3
		ax, ay := projTarget[0], projTarget[1]
		bx, by := projTri[vA][0], projTri[vA][1]
		cx, cy := projTri[vB][0], projTri[vB][1]
		abx, aby := bx-ax, by-ay
		acx, acy := cx-ax, cy-ay
		areas[v] = abx*acy - aby*acx
	}

	if maxArea == 0 {
		return 1, 0, 0
	}
	l0, l1, l2 = areas[0]/maxArea, areas[1]/maxArea, areas[2]/maxArea
	if math.IsNaN(l0) || math.IsNaN(l1) || math.IsNaN(l2) {
		return 1, 0, 0
	}
	return
}

// buildInitialEpaTetrahedron builds the 4 CCW, outward-facing faces of the
// seed tetrahedron formed by the 4 GJK simplex points.
func buildInitialEpaTetrahedron(points []simplexPoint) []tri {
	tris := make([]tri, 0, 4)
	for v := 0; v < 4; v++ {
		a, b := (v+1)%4, (v+2)%4
		t := tri{A: v, B: a, C: b}
		unused := (v + 3) % 4
		if epaSignedDistance(t, points[unused].XYZ, points) > 0 {
			t.A, t.B = t.B, t.A
		}
		tris = append(tris, t)
	}
	return tris
}

// expandEPA expands the terminal GJK tetrahedron (already inflated by bias)
// to find the polytope face closest to the origin, and returns the
// penetration depth plus the witness points on A and B (spec §4.5's EPA
// description). Grounded on orig/Physics/GJK.cpp's Expand_EPA.
func expandEPA(bodyA, bodyB *Body, bias float64, simplex []simplexPoint) (depth float64, ptOnA, ptOnB lin.V3) {
	points := make([]simplexPoint, len(simplex))
	copy(points, simplex)

	var center lin.V3
	for _, p := range points {
		center.X += p.XYZ.X
		center.Y += p.XYZ.Y
		center.Z += p.XYZ.Z
	}
	center.X, center.Y, center.Z = center.X*0.25, center.Y*0.25, center.Z*0.25

	tris := buildInitialEpaTetrahedron(points)

	for {
		closest := closestTriangleToOrigin(tris, points)
		normal := epaTriangleNormal(tris[closest], points)
		newPoint := support(bodyA, bodyB, normal, bias)

		if epaAlreadyAdded(newPoint.XYZ, tris, points) {
			break
		}
		if epaSignedDistance(tris[closest], newPoint.XYZ, points) <= 0 {
			break
		}

		newIndex := len(points)
		points = append(points, newPoint)

		var removed int
		tris, removed = removeTrianglesFacingPoint(newPoint.XYZ, tris, points)
		if removed == 0 {
			break
		}

		edges := danglingEdges(tris)
		if len(edges) == 0 {
			break
		}

		for _, e := range edges {
			t := tri{A: newIndex, B: e.B, C: e.A}
			if epaSignedDistance(t, center, points) > 0 {
				t.B, t.C = t.C, t.B
			}
			tris = append(tris, t)
		}
	}

	closest := closestTriangleToOrigin(tris, points)
	t := tris[closest]
	l0, l1, l2 := epaBarycentric(points[t.A].XYZ, points[t.B].XYZ, points[t.C].XYZ, lin.V3{})

	ptOnA = lin.V3{
		X: points[t.A].PtA.X*l0 + points[t.B].PtA.X*l1 + points[t.C].PtA.X*l2,
		Y: points[t.A].PtA.Y*l0 + points[t.B].PtA.Y*l1 + points[t.C].PtA.Y*l2,
		Z: points[t.A].PtA.Z*l0 + points[t.B].PtA.Z*l1 + points[t.C].PtA.Z*l2,
	}
	ptOnB = lin.V3{
		X: points[t.A].PtB.X*l0 + points[t.B].PtB.X*l1 + points[t.C].PtB.X*l2,
		Y: points[t.A].PtB.Y*l0 + points[t.B].PtB.Y*l1 + points[t.C].PtB.Y*l2,
		Z: points[t.A].PtB.Z*l0 + points[t.B].PtB.Z*l1 + points[t.C].PtB.Z*l2,
	}

	var delta lin.V3
	delta.Sub(&ptOnB, &ptOnA)
	depth = delta.Len()
	return
}
