// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// QLeft returns the 4x4 matrix L such that, for any quaternion s expressed
// as the column (s.X, s.Y, s.Z, s.W), L*s equals q.Mult(q, s) i.e. the
// Hamilton product s*q. Used by constraint Jacobians that need quaternion
// multiplication expressed as ordinary matrix-vector multiply (spec §4.1).
func QLeft(q *Q) *M4 {
	return &M4{
		Xx: q.W, Xy: q.Z, Xz: -q.Y, Xw: q.X,
		Yx: -q.Z, Yy: q.W, Yz: q.X, Yw: q.Y,
		Zx: q.Y, Zy: -q.X, Zz: q.W, Zw: q.Z,
		Wx: -q.X, Wy: -q.Y, Wz: -q.Z, Ww: q.W,
	}
}

// QRight returns the 4x4 matrix R such that, for any quaternion r expressed
// as the column (r.X, r.Y, r.Z, r.W), R*r equals q.Mult(r, q) i.e. the
// Hamilton product q*r. Used alongside QLeft to build relative-orientation
// Jacobians for bilateral constraints (spec §4.1, §4.8).
func QRight(q *Q) *M4 {
	return &M4{
		Xx: q.W, Xy: -q.Z, Xz: q.Y, Xw: q.X,
		Yx: q.Z, Yy: q.W, Yz: -q.X, Yw: q.Y,
		Zx: -q.Y, Zy: q.X, Zz: q.W, Zw: q.Z,
		Wx: -q.X, Wy: -q.Y, Wz: -q.Z, Ww: q.W,
	}
}
