// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// simplexPoint is a point on the Minkowski difference A ⊖ B, carrying its
// preimage on each body (spec §4.5). Grounded on orig/Physics/GJK.cpp's
// point_t.
type simplexPoint struct {
	XYZ, PtA, PtB lin.V3
}

// support returns the Minkowski-difference support point of (bodyA, bodyB)
// along dir, inflated by bias on each side. Grounded on
// orig/Physics/GJK.cpp's GetSupportPoint.
func support(bodyA, bodyB *Body, dir lin.V3, bias float64) simplexPoint {
	dir.Unit()
	ptA := bodyA.Shape.Support(dir, &bodyA.Pose, bias)
	var neg lin.V3
	neg.Scale(&dir, -1)
	ptB := bodyB.Shape.Support(neg, &bodyB.Pose, bias)
	var xyz lin.V3
	xyz.Sub(&ptA, &ptB)
	return simplexPoint{XYZ: xyz, PtA: ptA, PtB: ptB}
}

// baryLineToOrigin projects the origin onto the segment s1-s2 and returns
// the barycentric weights of that projection, using the axis of greatest
// extent to keep the division well conditioned (spec §4.5's "dominant
// axis" projection). Grounded on
// orig/Physics/GJK.cpp's GetBarycentricCoordinatesFromLineToOrigin.
func baryLineToOrigin(s1, s2 lin.V3) (l0, l1 float64) {
	var ab lin.V3
	ab.Sub(&s2, &s1)
	var ao lin.V3
	var origin lin.V3
	ao.Sub(&origin, &s1)
	t := ab.Dot(&ao) / ab.LenSqr()
	ap := lin.V3{X: s1.X + ab.X*t, Y: s1.Y + ab.Y*t, Z: s1.Z + ab.Z*t}

	diffs := [3]float64{s2.X - s1.X, s2.Y - s1.Y, s2.Z - s1.Z}
	s1arr := [3]float64{s1.X, s1.Y, s1.Z}
	s2arr := [3]float64{s2.X, s2.Y, s2.Z}
	aparr := [3]float64{ap.X, ap.Y, ap.Z}

	axis := 0
	maxDiff := 0.0
	for i, d := range diffs {
		if d*d > maxDiff*maxDiff {
			maxDiff, axis = d, i
		}
	}

	a, b, p := s1arr[axis], s2arr[axis], aparr[axis]
	distAP := p - a
	distPB := b - p

	if (p > a && p < b) || (p > b && p < a) {
		return distPB / maxDiff, distAP / maxDiff
	}
	if (a <= b && p <= a) || (a >= b && p >= a) {
		return 1, 0
	}
	return 0, 1
}

func compareSigns(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

// baryTriangleToOrigin projects the origin onto triangle s1-s2-s3. If the
// projection lies outside the triangle the closest point on an edge is used
// instead (spec §4.5). Grounded on
// orig/Physics/GJK.cpp's GetBarycentricCoordinatesFromTriangleToOrigin.
func baryTriangleToOrigin(s1, s2, s3 lin.V3) (l0, l1, l2 float64) {
	var ab, ac lin.V3
	ab.Sub(&s2, &s1)
	ac.Sub(&s3, &s1)
	var normal lin.V3
	normal.Cross(&ab, &ac)
	normLenSqr := normal.LenSqr()
	proj := s1.Dot(&normal) / normLenSqr
	projectedOA := lin.V3{X: normal.X * proj, Y: normal.Y * proj, Z: normal.Z * proj}

	pts := [3]lin.V3{s1, s2, s3}
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
	projOrigin := [2]float64{coord(projectedOA, axisA), coord(projectedOA, axisB)}

	var areas [3]float64
	for v := 0; v < 3; v++ {
		vA, vB := (v+1)%3, (v+2)%3
		ax, ay := projOrigin[0], projOrigin[1]
		bx, by := projTri[vA][0], projTri[vA][1]
		cx, cy := projTri[vB][0], projTri[vB][1]
		abx, aby := bx-ax, by-ay
		acx, acy := cx-ax, cy-ay
		areas[v] = abx*acy - aby*acx
	}

	if compareSigns(maxArea, areas[0]) && compareSigns(maxArea, areas[1]) && compareSigns(maxArea, areas[2]) {
		return areas[0] / maxArea, areas[1] / maxArea, areas[2] / maxArea
	}

	lambdas := [3]float64{1, 0, 0}
	closestDistSqr := math.MaxFloat64
	for count := 0; count < 3; count++ {
		idxA, idxB := (count+1)%3, (count+2)%3
		eA, eB := baryLineToOrigin(pts[idxA], pts[idxB])
		point := lin.V3{
			X: pts[idxA].X*eA + pts[idxB].X*eB,
			Y: pts[idxA].Y*eA + pts[idxB].Y*eB,
			Z: pts[idxA].Z*eA + pts[idxB].Z*eB,
		}
		if d := point.LenSqr(); d < closestDistSqr {
			closestDistSqr = d
			lambdas[count] = 0
			lambdas[idxA] = eA
			lambdas[idxB] = eB
		}
	}
	return lambdas[0], lambdas[1], lambdas[2]
}

// det3 returns the determinant of the 3x3 matrix with the given rows.
func det3(a, b, c, d, e, f, g, h, i float64) float64 {
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

// baryTetrahedronToOrigin projects the origin onto tetrahedron
// s1-s2-s3-s4 using cofactors of the 4x4 augmented simplex matrix (spec
// §4.5). If the origin is not enclosed, falls back to the closest point on
// a face. Grounded on
// orig/Physics/GJK.cpp's GetBarycentricCoordinatesFromTetrahedronToOrigin.
func baryTetrahedronToOrigin(s1, s2, s3, s4 lin.V3) (l0, l1, l2, l3 float64) {
	pts := [4]lin.V3{s1, s2, s3, s4}

	var cofactors [4]float64
	for j := 0; j < 4; j++ {
		var cols [3]int
		k := 0
		for idx := 0; idx < 4; idx++ {
			if idx == j {
				continue
			}
			cols[k] = idx
			k++
		}
		p, q, r := pts[cols[0]], pts[cols[1]], pts[cols[2]]
		minor := det3(
			p.X, q.X, r.X,
			p.Y, q.Y, r.Y,
			p.Z, q.Z, r.Z,
		)
		if (3+j)%2 != 0 {
			minor = -minor
		}
		cofactors[j] = minor
	}

	volume := cofactors[0] + cofactors[1] + cofactors[2] + cofactors[3]
	if compareSigns(volume, cofactors[0]) && compareSigns(volume, cofactors[1]) &&
		compareSigns(volume, cofactors[2]) && compareSigns(volume, cofactors[3]) {
		return cofactors[0] / volume, cofactors[1] / volume, cofactors[2] / volume, cofactors[3] / volume
	}

	var lambdas [4]float64
	closestDistSqr := math.MaxFloat64
	for v := 0; v < 4; v++ {
		vA, vB := (v+1)%4, (v+2)%4
		fl0, fl1, fl2 := baryTriangleToOrigin(pts[v], pts[vA], pts[vB])
		point := lin.V3{
			X: pts[v].X*fl0 + pts[vA].X*fl1 + pts[vB].X*fl2,
			Y: pts[v].Y*fl0 + pts[vA].Y*fl1 + pts[vB].Y*fl2,
			Z: pts[v].Z*fl0 + pts[vA].Z*fl1 + pts[vB].Z*fl2,
		}
		if d := point.LenSqr(); d < closestDistSqr {
			closestDistSqr = d
			lambdas = [4]float64{}
			lambdas[v] = fl0
			lambdas[vA] = fl1
			lambdas[vB] = fl2
		}
	}
	return lambdas[0], lambdas[1], lambdas[2], lambdas[3]
}

const gjkEpsilon = 0.0001 * 0.0001

// baryToOrigin dispatches to the line/triangle/tetrahedron barycentric
// projection by simplex size, returning the new search direction (from the
// projection toward the origin) and whether the origin is enclosed.
func baryToOrigin(points []simplexPoint) (newDir lin.V3, lambdas [4]float64, encloses bool) {
	switch len(points) {
	case 3:
		lambdas[0], lambdas[1], lambdas[2] = baryTriangleToOrigin(points[0].XYZ, points[1].XYZ, points[2].XYZ)
	case 4:
		lambdas[0], lambdas[1], lambdas[2], lambdas[3] = baryTetrahedronToOrigin(points[0].XYZ, points[1].XYZ, points[2].XYZ, points[3].XYZ)
	default:
		lambdas[0], lambdas[1] = baryLineToOrigin(points[0].XYZ, points[1].XYZ)
	}

	var closest lin.V3
	for i, p := range points {
		closest.X += p.XYZ.X * lambdas[i]
		closest.Y += p.XYZ.Y * lambdas[i]
		closest.Z += p.XYZ.Z * lambdas[i]
	}
	newDir = lin.V3{X: -closest.X, Y: -closest.Y, Z: -closest.Z}
	encloses = closest.LenSqr() < gjkEpsilon
	return
}

func isAlreadyAdded(points []simplexPoint, candidate simplexPoint) bool {
	const precision = 1e-6 * 1e-6
	for _, p := range points {
		var delta lin.V3
		delta.Sub(&p.XYZ, &candidate.XYZ)
		if delta.LenSqr() < precision {
			return true
		}
	}
	return false
}

// filterValid keeps only the simplex points whose barycentric weight is
// nonzero, i.e. the vertices that actually support the new search
// direction (spec §4.5 "any simplex vertex with a zero barycentric is
// culled"). Grounded on
// orig/Physics/GJK.cpp's SortValidSupportPoints/GetNumberOfValidPoints.
func filterValid(points []simplexPoint, lambdas [4]float64) []simplexPoint {
	kept := make([]simplexPoint, 0, len(points))
	for i, p := range points {
		if lambdas[i] != 0 {
			kept = append(kept, p)
		}
	}
	return kept
}

// Intersects reports whether bodyA and bodyB overlap, using GJK with zero
// bias (spec §4.5). Grounded on orig/Physics/GJK.cpp's
// DoesIntersect_GJK(bodyA, bodyB).
func Intersects(bodyA, bodyB *Body) bool {
	first := support(bodyA, bodyB, lin.V3{X: 1, Y: 1, Z: 1}, 0)
	points := []simplexPoint{first}
	newDir := lin.V3{X: -first.XYZ.X, Y: -first.XYZ.Y, Z: -first.XYZ.Z}
	closestDist := math.MaxFloat64
	encloses := false

	for {
		newPoint := support(bodyA, bodyB, newDir, 0)
		if isAlreadyAdded(points, newPoint) {
			break
		}
		points = append(points, newPoint)

		if newDir.Dot(&newPoint.XYZ) < 0 {
			break
		}

		var lambdas [4]float64
		newDir, lambdas, encloses = baryToOrigin(points)
		if encloses {
			break
		}

		dist := newDir.LenSqr()
		if dist >= closestDist {
			break
		}
		closestDist = dist

		points = filterValid(points, lambdas)
		if len(points) == 4 {
			encloses = true
			break
		}
	}
	return encloses
}

// closestPointsGJK returns the closest points on bodyA and bodyB along with
// the separation distance, regardless of whether they intersect (spec
// §4.6's conservative-advancement "call static GJK to compute closest
// points and separation distance"). Grounded on
// orig/Physics/GJK.cpp's FindClosestPoints_GJK.
func closestPointsGJK(bodyA, bodyB *Body) (ptOnA, ptOnB lin.V3, separation float64) {
	first := support(bodyA, bodyB, lin.V3{X: 1, Y: 1, Z: 1}, 0)
	points := []simplexPoint{first}
	lambdas := [4]float64{1, 0, 0, 0}
	newDir := lin.V3{X: -first.XYZ.X, Y: -first.XYZ.Y, Z: -first.XYZ.Z}
	closestDist := math.MaxFloat64

	for len(points) < 4 {
		newPoint := support(bodyA, bodyB, newDir, 0)
		if isAlreadyAdded(points, newPoint) {
			break
		}
		points = append(points, newPoint)

		newDir, lambdas, _ = baryToOrigin(points)
		points = filterValid(points, lambdas)
		kept := 0
		for _, l := range lambdas {
			if l != 0 {
				lambdas[kept] = l
				kept++
			}
		}
		for ; kept < len(lambdas); kept++ {
			lambdas[kept] = 0
		}

		dist := newDir.LenSqr()
		if dist >= closestDist {
			break
		}
		closestDist = dist
	}

	for i, p := range points {
		ptOnA.X += p.PtA.X * lambdas[i]
		ptOnA.Y += p.PtA.Y * lambdas[i]
		ptOnA.Z += p.PtA.Z * lambdas[i]
		ptOnB.X += p.PtB.X * lambdas[i]
		ptOnB.Y += p.PtB.Y * lambdas[i]
		ptOnB.Z += p.PtB.Z * lambdas[i]
	}
	var delta lin.V3
	delta.Sub(&ptOnB, &ptOnA)
	separation = delta.Len()
	return
}

// maxGJKBiasIterations bounds the biased GJK used ahead of EPA, matching
// the original's defensive iteration cap. Grounded on
// orig/Physics/GJK.cpp's DoesIntersect_GJK(..., bias, ...)'s
// MAX_ITERATION_COUNT.
const maxGJKBiasIterations = 10

// intersectGJKEPA runs biased GJK and, on intersection, expands the
// terminal simplex with EPA to recover witness points and penetration
// depth (spec §4.5, §4.6's "general convex pairs, static"). Grounded on
// orig/Physics/GJK.cpp's DoesIntersect_GJK(bodyA, bodyB, bias, ptA, ptB).
func intersectGJKEPA(bodyA, bodyB *Body, bias float64) (hit bool, ptOnA, ptOnB lin.V3, depth float64) {
	first := support(bodyA, bodyB, lin.V3{X: 1, Y: 1, Z: 1}, 0)
	points := []simplexPoint{first}
	newDir := lin.V3{X: -first.XYZ.X, Y: -first.XYZ.Y, Z: -first.XYZ.Z}
	closestDist := math.MaxFloat64
	encloses := false

	for iter := 0; iter <= maxGJKBiasIterations; iter++ {
		newPoint := support(bodyA, bodyB, newDir, 0)
		if isAlreadyAdded(points, newPoint) {
			break
		}
		points = append(points, newPoint)

		if newDir.Dot(&newPoint.XYZ) < 0 {
			break
		}

		var lambdas [4]float64
		newDir, lambdas, encloses = baryToOrigin(points)
		if encloses {
			break
		}

		dist := newDir.LenSqr()
		if dist >= closestDist {
			break
		}
		closestDist = dist

		points = filterValid(points, lambdas)
		if len(points) == 4 {
			encloses = true
			break
		}
	}

	if !encloses {
		return false, lin.V3{}, lin.V3{}, 0
	}

	points = fillToTetrahedron(bodyA, bodyB, points)

	var center lin.V3
	for _, p := range points {
		center.X += p.XYZ.X
		center.Y += p.XYZ.Y
		center.Z += p.XYZ.Z
	}
	center.X, center.Y, center.Z = center.X*0.25, center.Y*0.25, center.Z*0.25

	for i := range points {
		var dir lin.V3
		dir.Sub(&points[i].XYZ, &center)
		dir.Unit()
		points[i].PtA.X += dir.X * bias
		points[i].PtA.Y += dir.Y * bias
		points[i].PtA.Z += dir.Z * bias
		points[i].PtB.X -= dir.X * bias
		points[i].PtB.Y -= dir.Y * bias
		points[i].PtB.Z -= dir.Z * bias
		points[i].XYZ.Sub(&points[i].PtA, &points[i].PtB)
	}

	depth, ptOnA, ptOnB = expandEPA(bodyA, bodyB, bias, points)
	return true, ptOnA, ptOnB, depth
}

// fillToTetrahedron expands a 1-, 2-, or 3-point terminal simplex to a full
// tetrahedron so EPA always has a nondegenerate starting polytope (spec
// §4.5's "expand the terminal simplex to a full tetrahedron if needed").
// Grounded on orig/Physics/GJK.cpp's inline expansion in
// DoesIntersect_GJK(..., bias, ...).
func fillToTetrahedron(bodyA, bodyB *Body, points []simplexPoint) []simplexPoint {
	if len(points) == 1 {
		var dir lin.V3
		dir.Scale(&points[0].XYZ, -1)
		points = append(points, support(bodyA, bodyB, dir, 0))
	}
	if len(points) == 2 {
		var ab, u, v lin.V3
		ab.Sub(&points[1].XYZ, &points[0].XYZ)
		orthoBasis(ab, &u, &v)
		points = append(points, support(bodyA, bodyB, u, 0))
	}
	if len(points) == 3 {
		var ab, ac, normal lin.V3
		ab.Sub(&points[1].XYZ, &points[0].XYZ)
		ac.Sub(&points[2].XYZ, &points[0].XYZ)
		normal.Cross(&ab, &ac)
		points = append(points, support(bodyA, bodyB, normal, 0))
	}
	return points
}

// orthoBasis returns two vectors u, v that together with n form an
// orthogonal basis, matching Vec3::GetOrtho's arbitrary-perpendicular
// construction.
func orthoBasis(n lin.V3, u, v *lin.V3) {
	var ref lin.V3
	if math.Abs(n.X) < math.Abs(n.Y) && math.Abs(n.X) < math.Abs(n.Z) {
		ref = lin.V3{X: 1}
	} else if math.Abs(n.Y) < math.Abs(n.Z) {
		ref = lin.V3{Y: 1}
	} else {
		ref = lin.V3{Z: 1}
	}
	u.Cross(&n, &ref)
	u.Unit()
	v.Cross(&n, u)
	v.Unit()
}
