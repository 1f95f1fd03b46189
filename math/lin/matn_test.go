// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "testing"

func TestMatMNTranspose(t *testing.T) {
	m := NewMatMN(2, 3)
	for i := 0; i < 6; i++ {
		m.Data[i] = float64(i)
	}
	mt := NewMatMN(3, 2)
	mt.Transpose(m)
	if mt.At(0, 0) != m.At(0, 0) || mt.At(1, 0) != m.At(0, 1) || mt.At(2, 1) != m.At(1, 2) {
		t.Errorf("transpose mismatch: %v", mt.Data)
	}
}

// A zero-value MatMN must size and allocate itself on use, since every
// constraint declares its scratch matrices with "var m lin.MatMN".
func TestMatMNTransposeZeroValueDestination(t *testing.T) {
	m := NewMatMN(2, 3)
	for i := 0; i < 6; i++ {
		m.Data[i] = float64(i)
	}
	var mt MatMN
	mt.Transpose(m)
	if mt.Rows != 3 || mt.Cols != 2 {
		t.Errorf("expected a 3x2 result, got %dx%d", mt.Rows, mt.Cols)
	}
	if mt.At(0, 0) != m.At(0, 0) || mt.At(1, 0) != m.At(0, 1) || mt.At(2, 1) != m.At(1, 2) {
		t.Errorf("transpose mismatch: %v", mt.Data)
	}
}

func TestMatMNMultZeroValueDestination(t *testing.T) {
	a := NewMatMN(2, 2)
	a.Set(0, 0, 1).Set(0, 1, 2).Set(1, 0, 3).Set(1, 1, 4)
	b := NewMatMN(2, 2)
	b.Set(0, 0, 1).Set(1, 1, 1)

	var m MatMN
	m.Mult(a, b)
	if m.Rows != 2 || m.Cols != 2 {
		t.Errorf("expected a 2x2 result, got %dx%d", m.Rows, m.Cols)
	}
	if m.At(0, 0) != 1 || m.At(0, 1) != 2 || m.At(1, 0) != 3 || m.At(1, 1) != 4 {
		t.Errorf("expected identity-multiply to return a, got %v", m.Data)
	}
}

func TestMatMNMultVec(t *testing.T) {
	m := NewMatMN(2, 2)
	m.Set(0, 0, 1).Set(0, 1, 2).Set(1, 0, 3).Set(1, 1, 4)
	v := NewVecN(2)
	m.MultVec(v, VecN{1, 1})
	if v[0] != 3 || v[1] != 7 {
		t.Errorf("expected {3 7}, got %v", v)
	}
}

func TestSolveGaussSeidelIdentity(t *testing.T) {
	a := NewMatMN(2, 2)
	a.Set(0, 0, 1).Set(1, 1, 1)
	b := VecN{2, 3}
	x := SolveGaussSeidel(a, b, 10)
	if !Aeq(x[0], 2) || !Aeq(x[1], 3) {
		t.Errorf("expected {2 3}, got %v", x)
	}
}

func TestQLeftRightMatchMult(t *testing.T) {
	q := NewQ().SetAa(0, 1, 0, 0.7)
	s := NewQ().SetAa(1, 0, 0, 0.3)
	want := NewQ().Mult(q, s)

	l := QLeft(q)
	gotL := NewV4().MultMv(l, &V4{s.X, s.Y, s.Z, s.W})
	if !Aeq(gotL.X, want.X) || !Aeq(gotL.Y, want.Y) || !Aeq(gotL.Z, want.Z) || !Aeq(gotL.W, want.W) {
		t.Errorf("QLeft mismatch: got %v want %v", gotL, want)
	}

	r := QRight(s)
	gotR := NewV4().MultMv(r, &V4{q.X, q.Y, q.Z, q.W})
	if !Aeq(gotR.X, want.X) || !Aeq(gotR.Y, want.Y) || !Aeq(gotR.Z, want.Z) || !Aeq(gotR.W, want.W) {
		t.Errorf("QRight mismatch: got %v want %v", gotR, want)
	}
}
