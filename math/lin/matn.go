// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// MatMN is a row-major, variable size, dense matrix of float64 scalars.
// It backs the constraint Jacobians (rows, 12) and the 12x12 block-diagonal
// inverse mass matrix used by the Gauss-Seidel solver (spec §4.1, §4.8).
type MatMN struct {
	Rows, Cols int
	Data       []float64
}

// NewMatMN returns a new, all zero, rows x cols matrix.
func NewMatMN(rows, cols int) *MatMN {
	return &MatMN{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the element at (row, col).
func (m *MatMN) At(row, col int) float64 { return m.Data[row*m.Cols+col] }

// Set assigns the element at (row, col). The updated matrix m is returned.
func (m *MatMN) Set(row, col int, val float64) *MatMN {
	m.Data[row*m.Cols+col] = val
	return m
}

// Row returns a view (not a copy) of the given row.
func (m *MatMN) Row(row int) VecN {
	start := row * m.Cols
	return VecN(m.Data[start : start+m.Cols])
}

// Zero resets every element of m to 0 and returns m.
func (m *MatMN) Zero() *MatMN {
	for i := range m.Data {
		m.Data[i] = 0
	}
	return m
}

// Transpose updates m to be the transpose of a, resizing m's storage if
// needed. Matrix m must not be a.
func (m *MatMN) Transpose(a *MatMN) *MatMN {
	m.Rows, m.Cols = a.Cols, a.Rows
	if len(m.Data) < m.Rows*m.Cols {
		m.Data = make([]float64, m.Rows*m.Cols)
	}
	for r := 0; r < a.Rows; r++ {
		for c := 0; c < a.Cols; c++ {
			m.Data[c*m.Cols+r] = a.Data[r*a.Cols+c]
		}
	}
	return m
}

// MultVec updates v to be the product of matrix m (rows x cols) and
// column vector cv (length cols). The resulting v has length rows.
func (m *MatMN) MultVec(v VecN, cv VecN) VecN {
	for r := 0; r < m.Rows; r++ {
		sum := 0.0
		row := m.Data[r*m.Cols : r*m.Cols+m.Cols]
		for c, val := range row {
			sum += val * cv[c]
		}
		v[r] = sum
	}
	return v
}

// Mult updates m to be the product a * b, resizing m's storage if needed.
// Matrix m must not alias a or b.
func (m *MatMN) Mult(a, b *MatMN) *MatMN {
	m.Rows, m.Cols = a.Rows, b.Cols
	if len(m.Data) < m.Rows*m.Cols {
		m.Data = make([]float64, m.Rows*m.Cols)
	}
	for r := 0; r < a.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			sum := 0.0
			for k := 0; k < a.Cols; k++ {
				sum += a.At(r, k) * b.At(k, c)
			}
			m.Set(r, c, sum)
		}
	}
	return m
}

// NewDiag12 builds a 12x12 block-diagonal inverse-mass matrix for a pair of
// bodies: bodyA linear inverse mass on [0:3], bodyA world inverse inertia
// tensor on [3:6,3:6], bodyB linear inverse mass on [6:9], bodyB world
// inverse inertia tensor on [9:12,9:12] (spec §4.8, ConstraintBase's
// GetInverseMassMatrix).
func NewDiag12(invMassA float64, invInertiaA *M3, invMassB float64, invInertiaB *M3) *MatMN {
	m := NewMatMN(12, 12)
	m.Set(0, 0, invMassA)
	m.Set(1, 1, invMassA)
	m.Set(2, 2, invMassA)
	setBlock3(m, 3, invInertiaA)
	m.Set(6, 6, invMassB)
	m.Set(7, 7, invMassB)
	m.Set(8, 8, invMassB)
	setBlock3(m, 9, invInertiaB)
	return m
}

func setBlock3(m *MatMN, at int, t *M3) {
	m.Set(at+0, at+0, t.Xx)
	m.Set(at+0, at+1, t.Xy)
	m.Set(at+0, at+2, t.Xz)
	m.Set(at+1, at+0, t.Yx)
	m.Set(at+1, at+1, t.Yy)
	m.Set(at+1, at+2, t.Yz)
	m.Set(at+2, at+0, t.Zx)
	m.Set(at+2, at+1, t.Zy)
	m.Set(at+2, at+2, t.Zz)
}

// SolveGaussSeidel solves A*x = b for small dense systems using projected
// Gauss-Seidel (spec §4.10): xi <- xi + (bi - sum_j Aij*xj) / Aii. The
// solver provides no convergence guarantee; callers clamp the result per
// constraint (warm-start caches, friction cones).
func SolveGaussSeidel(a *MatMN, b VecN, iterations int) VecN {
	x := NewVecN(a.Rows)
	for iter := 0; iter < iterations; iter++ {
		for i := 0; i < a.Rows; i++ {
			aii := a.At(i, i)
			if aii == 0 {
				continue
			}
			row := a.Row(i)
			sum := row.Dot(VecN(x))
			dx := (b[i] - sum) / aii
			x[i] += dx
		}
	}
	return x
}
