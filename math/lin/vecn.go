// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// VecN and MatMN provide dimensionally tagged dynamic-size linear algebra
// for the constraint solver, where Jacobians are (rows, 12) and the cached
// Lagrange multiplier vectors are (rows). Unlike V3/V4/M3/M4 these sizes are
// only known at constraint-authoring time, so they are backed by slices
// rather than fixed fields.

// VecN is a variable length vector of float64 scalars.
type VecN []float64

// NewVecN returns a new, all zero, vector of length n.
func NewVecN(n int) VecN { return make(VecN, n) }

// Set copies the values of r into v. Both vectors must be the same length.
func (v VecN) Set(r VecN) VecN {
	copy(v, r)
	return v
}

// Add (+) adds vectors a and b storing the results in v. All three vectors
// must be the same length. Vector v may be used as one or both parameters.
func (v VecN) Add(a, b VecN) VecN {
	for i := range v {
		v[i] = a[i] + b[i]
	}
	return v
}

// Sub (-) subtracts vector b from a storing the results in v.
func (v VecN) Sub(a, b VecN) VecN {
	for i := range v {
		v[i] = a[i] - b[i]
	}
	return v
}

// Scale (*=) multiplies each element of a by s storing the results in v.
func (v VecN) Scale(a VecN, s float64) VecN {
	for i := range v {
		v[i] = a[i] * s
	}
	return v
}

// Dot returns the dot product of v and r. Both vectors must be the same length.
func (v VecN) Dot(r VecN) float64 {
	sum := 0.0
	for i := range v {
		sum += v[i] * r[i]
	}
	return sum
}

// Zero resets every element of v to 0 and returns v.
func (v VecN) Zero() VecN {
	for i := range v {
		v[i] = 0
	}
	return v
}
