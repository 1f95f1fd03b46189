// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"sort"

	"github.com/sadoe3/rigidphysics/math/lin"
)

// broadEpsilon pads every swept bound slightly so near-touching bodies are
// still generated as a candidate pair (spec §4.7). Grounded on
// orig/Physics/Broadphase.cpp's SortBodiesBounds epsilon.
const broadEpsilon = 0.01

// Pair is an unordered candidate collision pair, a < b by body index.
type Pair struct {
	A, B int
}

// endpoint is a projected bound endpoint used by the sweep. Grounded on
// orig/Physics/Broadphase.cpp's psuedoBody_t.
type endpoint struct {
	bodyIndex int
	value     float64
	isMin     bool
}

// sweptBounds returns the world bound of bodies[i], expanded to cover its
// linear motion over dt and padded by broadEpsilon on every side (spec
// §4.7's "bounds swept by body velocity over the step").
func sweptBounds(bodies []*Body, i int, dt float64) Bounds {
	b := bodies[i]
	bounds := b.Shape.WorldBounds(&b.Pose)

	var vel lin.V3
	vel.Scale(&b.LinearVelocity, dt)
	bounds.Expand(lin.V3{X: bounds.Min.X + vel.X, Y: bounds.Min.Y + vel.Y, Z: bounds.Min.Z + vel.Z})
	bounds.Expand(lin.V3{X: bounds.Max.X + vel.X, Y: bounds.Max.Y + vel.Y, Z: bounds.Max.Z + vel.Z})

	bounds.Inflate(broadEpsilon)
	return bounds
}

// chooseSweepAxis picks the unit axis along which the full set of swept
// bounds has the largest extent, minimizing spurious overlaps along the
// sweep (spec §4.7's "dynamic axis selection"). Grounded on
// orig/Physics/Broadphase.cpp's SortBodiesBounds.
func chooseSweepAxis(swept []Bounds) lin.V3 {
	global := NewBounds()
	for _, b := range swept {
		global.Expand(b.Min)
		global.Expand(b.Max)
	}
	ex, ey, ez := global.Widths()
	switch {
	case ex >= ey && ex >= ez:
		return lin.V3{X: 1}
	case ey >= ex && ey >= ez:
		return lin.V3{Y: 1}
	default:
		return lin.V3{Z: 1}
	}
}

// BroadPhase returns every candidate collision pair among bodies whose
// swept bounds overlap along the step's dominant axis, using a 1-D
// sweep-and-prune with an O(N) active-list pass (spec §4.7). Grounded on
// orig/Physics/Broadphase.cpp's BroadPhase/SweepAndPrune1D/BuildPairs.
func BroadPhase(bodies []*Body, dt float64) []Pair {
	n := len(bodies)
	if n < 2 {
		return nil
	}

	swept := make([]Bounds, n)
	for i := range bodies {
		swept[i] = sweptBounds(bodies, i, dt)
	}
	axis := chooseSweepAxis(swept)

	endpoints := make([]endpoint, 0, n*2)
	for i, b := range swept {
		endpoints = append(endpoints,
			endpoint{bodyIndex: i, value: axis.Dot(&b.Min), isMin: true},
			endpoint{bodyIndex: i, value: axis.Dot(&b.Max), isMin: false},
		)
	}
	sort.Slice(endpoints, func(i, j int) bool { return endpoints[i].value < endpoints[j].value })

	var pairs []Pair
	active := make([]int, 0, n)
	for _, e := range endpoints {
		if e.isMin {
			for _, other := range active {
				a, b := e.bodyIndex, other
				if a > b {
					a, b = b, a
				}
				pairs = append(pairs, Pair{A: a, B: b})
			}
			active = append(active, e.bodyIndex)
		} else {
			for i, id := range active {
				if id == e.bodyIndex {
					active = append(active[:i], active[i+1:]...)
					break
				}
			}
		}
	}
	return pairs
}
