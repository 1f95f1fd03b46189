// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"fmt"

	"github.com/sadoe3/rigidphysics/math/lin"
	"gopkg.in/yaml.v3"
)

// diamondPoints is the point cloud the convex-hull builder turns into the
// "diamond" shape used by AddDiamonds/AddConvex (spec §6's scene-builder
// DSL). Grounded on orig/Main/GeneralConstants.cpp's g_diamond.
var diamondPoints = []lin.V3{
	{X: 0, Y: 0, Z: 1},
	{X: 1, Y: 0, Z: 0},
	{X: -1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: -1, Z: 0},
	{X: 0, Y: 0, Z: -1},
}

// mustConvex builds a convex hull from a fixed, known-valid authoring
// point cloud; LoadScene's YAML authoring path has no way to supply a
// hull, so the only caller of NewConvex here is these hardcoded scenes,
// where a construction failure is a programmer error in this file, not a
// runtime condition per §7.
func mustConvex(points []lin.V3) Shape {
	s, err := NewConvex(points)
	if err != nil {
		panic(fmt.Sprintf("physics: scene builder: %v", err))
	}
	return s
}

// AddSpheres appends a stressLevel×stressLevel grid of unit dynamic
// spheres at startHeight, spaced apart by dense (tight) or loose packing
// (spec §6's scene-builder DSL). Grounded on
// orig/Main/SceneConfiguration.cpp's AddSpheres.
func AddSpheres(w *World, startIndex, stressLevel int, startHeight float64, dense bool) int {
	id := startIndex
	offset := 2.0
	if !dense {
		offset = 30.0
	}
	const radius = 0.5
	for x := 1; x <= stressLevel; x++ {
		for y := 1; y <= stressLevel; y++ {
			xx := (float64(x) - float64(stressLevel)/2.0) * radius * offset
			yy := (float64(y) - float64(stressLevel)/2.0) * radius * offset
			b := NewBody(id, NewSphere(radius), 1.0, 0.5, 0.5)
			b.Pose.Pos = lin.V3{X: xx, Y: yy, Z: startHeight}
			b.Name, b.Material = "spheres", "brick"
			w.AddBody(b)
			id++
		}
	}
	return id
}

// AddDiamonds is AddSpheres for convex-hull diamonds instead of spheres.
// Grounded on orig/Main/SceneConfiguration.cpp's AddDiamonds.
func AddDiamonds(w *World, startIndex, stressLevel int, startHeight float64, dense bool) int {
	id := startIndex
	offset := 2.0
	if !dense {
		offset = 15.0
	}
	const gap = 1.0
	for x := 1; x <= stressLevel; x++ {
		for y := 1; y <= stressLevel; y++ {
			xx := (float64(x) - float64(stressLevel)/2.0) * gap * offset
			yy := (float64(y) - float64(stressLevel)/2.0) * gap * offset
			b := NewBody(id, mustConvex(diamondPoints), 1.0, 0.5, 0.5)
			b.Pose.Pos = lin.V3{X: xx, Y: yy, Z: startHeight}
			b.Name, b.Material = "diamonds", "brick"
			w.AddBody(b)
			id++
		}
	}
	return id
}

// AddFloor appends a 3x3 grid of large static spheres approximating a flat
// floor (spec §6). Grounded on
// orig/Main/SceneConfiguration.cpp's AddFloor.
func AddFloor(w *World, startIndex int, dense bool) int {
	id := startIndex
	radius := 80.0
	if !dense {
		radius *= 2
	}
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			xx := float64(x-1) * radius * 0.25
			yy := float64(y-1) * radius * 0.25
			b := NewBody(id, NewSphere(radius), 0, 0.99, 0.5)
			b.Pose.Pos = lin.V3{X: xx - 5.0, Y: yy - 5.0, Z: -radius}
			b.Name, b.Material = "floor", "brick"
			w.AddBody(b)
			id++
		}
	}
	return id
}

// AddStack appends a 5-high vertical stack of unit boxes, alternating
// 0.15 horizontal offsets to make their resting equilibrium nontrivial
// (spec §6, testable property scenario 5 "box stack"). Grounded on
// orig/Main/SceneConfiguration.cpp's AddStack.
func AddStack(w *World, startIndex int) int {
	id := startIndex
	const stackHeight = 5
	const delta = 0.04
	const scaleHeight = 2.0 + delta
	const deltaHeight = 1.0 + delta
	for z := 0; z < stackHeight; z++ {
		offset := 0.0
		if z&1 != 0 {
			offset = 0.15
		}
		b := NewBody(id, NewBox(0.5, 0.5, 0.5), 1.0, 0.5, 0.5)
		b.Pose.Pos = lin.V3{X: offset * scaleHeight, Y: offset * scaleHeight, Z: deltaHeight + float64(z)*scaleHeight}
		b.Name, b.Material = "stack", "brick"
		w.AddBody(b)
		id++
	}
	return id
}

// AddMover appends a kinematic platform driven by a Mover constraint plus
// one dynamic box riding it, to exercise the scripted-motion joint (spec
// §6, §4.8's Mover). Grounded on
// orig/Main/SceneConfiguration.cpp's AddMover.
func AddMover(w *World, startIndex int) int {
	id := startIndex

	platform := NewBody(id, NewBox(2, 2, 0.25), 0, 0.1, 0.9)
	platform.Pose.Pos = lin.V3{X: 10, Y: 0, Z: 5}
	platform.Name, platform.Material = "mover", "brick"
	w.AddBody(platform)
	id++
	w.AddConstraint(NewMoverConstraint(platform))

	rider := NewBody(id, NewBox(0.5, 0.5, 0.5), 1.0, 0.1, 0.9)
	rider.Pose.Pos = lin.V3{X: 10, Y: 0, Z: 6.3}
	rider.Name, rider.Material = "mover", "brick"
	w.AddBody(rider)
	id++

	return id
}

// AddChain appends a 5-box Distance-constrained chain hanging from a
// static anchor box (spec §6, testable property scenario 2 "distance
// chain"). Grounded on orig/Main/SceneConfiguration.cpp's AddChain.
func AddChain(w *World, startIndex int) int {
	id := startIndex
	const numJoints = 5

	top := NewBody(id, NewBox(0.25, 0.25, 0.25), 0, 1.0, 0.5)
	top.Pose.Pos = lin.V3{X: 0, Y: 5, Z: float64(numJoints) + 3.0}
	top.Name, top.Material = "chain", "brick"
	w.AddBody(top)
	id++

	previous := top
	for i := 0; i < numJoints; i++ {
		anchorWorld := previous.Pose.Pos

		link := NewBody(id, NewBox(0.25, 0.25, 0.25), 1.0, 1.0, 0.5)
		link.Pose.Pos = addV3(anchorWorld, lin.V3{X: 1})
		link.Name, link.Material = "chain", "brick"
		w.AddBody(link)
		id++

		anchorA := previous.WorldToLocal(anchorWorld)
		anchorB := link.WorldToLocal(anchorWorld)
		w.AddConstraint(NewDistanceConstraint(previous, link, anchorA, anchorB))

		previous = link
	}
	return id
}

// AddHinge appends two boxes joined by a HingeLimited constraint about
// BodyA's local X axis (spec §6, testable property scenario 3 "hinge
// limit"). Grounded on orig/Main/SceneConfiguration.cpp's AddHinge.
func AddHinge(w *World, startIndex int, limitDeg float64) int {
	id := startIndex

	a := NewBody(id, NewBox(0.25, 0.25, 0.25), 0, 0.9, 0.5)
	a.Pose.Pos = lin.V3{X: -2, Y: -5, Z: 6}
	a.Name, a.Material = "hinge", "brick"
	w.AddBody(a)
	id++

	b := NewBody(id, NewBox(0.25, 0.25, 0.25), 1.0, 1.0, 0.5)
	b.Pose.Pos = lin.V3{X: -2, Y: -5, Z: 5}
	b.Name, b.Material = "hinge", "brick"
	w.AddBody(b)
	id++

	anchorWorld := a.Pose.Pos
	anchorA := a.WorldToLocal(anchorWorld)
	anchorB := b.WorldToLocal(anchorWorld)
	axisA := lin.V3{X: 1}
	w.AddConstraint(NewHingeLimitedConstraint(a, b, anchorA, anchorB, axisA, limitDeg))

	return id
}

// AddVelocity appends two boxes joined by a ConstantVelocityLimited
// constraint about BodyA's local Z axis (spec §6, testable property
// scenario 4's relative used by the Spinner — this is the plain, limited
// swing variant). Grounded on
// orig/Main/SceneConfiguration.cpp's AddVelocity.
func AddVelocity(w *World, startIndex int, limitDeg float64) int {
	id := startIndex

	a := NewBody(id, NewBox(0.25, 0.25, 0.25), 0, 0.9, 0.5)
	a.Pose.Pos = lin.V3{X: 2, Y: -5, Z: 6}
	a.Name, a.Material = "velocity", "brick"
	w.AddBody(a)
	id++

	b := NewBody(id, NewBox(0.25, 0.25, 0.25), 1.0, 1.0, 0.5)
	b.Pose.Pos = lin.V3{X: 2, Y: -5, Z: 5}
	b.Name, b.Material = "velocity", "brick"
	w.AddBody(b)
	id++

	anchorWorld := a.Pose.Pos
	anchorA := a.WorldToLocal(anchorWorld)
	anchorB := b.WorldToLocal(anchorWorld)
	axisA := lin.V3{Z: 1}
	w.AddConstraint(NewConstantVelocityLimitedConstraint(a, b, anchorA, anchorB, axisA, limitDeg))

	return id
}

// AddOrientation appends two boxes welded by an Orientation constraint
// (spec §6, §4.8's Orientation joint). Grounded on
// orig/Main/SceneConfiguration.cpp's AddOrientation.
func AddOrientation(w *World, startIndex int) int {
	id := startIndex

	a := NewBody(id, NewBox(0.25, 0.25, 0.25), 0, 0.9, 0.5)
	a.Pose.Pos = lin.V3{X: 5, Y: 0, Z: 5}
	a.Name, a.Material = "orientation", "brick"
	w.AddBody(a)
	id++

	b := NewBody(id, NewBox(0.25, 0.25, 0.25), 1000.0, 1.0, 0.5)
	b.Pose.Pos = lin.V3{X: 6, Y: 0, Z: 5}
	b.Name, b.Material = "orientation", "brick"
	w.AddBody(b)
	id++

	w.AddConstraint(NewOrientationConstraint(a, b))

	return id
}

// AddSpinner appends a pivot and a beam joined by a Spinner constraint
// with motorTargetSpeed=2 about the world Z axis (spec §6, testable
// property scenario 4 "spinner motor"). Grounded on
// orig/Main/SceneConfiguration.cpp's AddSpinner.
func AddSpinner(w *World, startIndex int) int {
	id := startIndex
	motorPos := lin.V3{X: 5, Y: 0, Z: 2}
	motorAxisWorld := lin.V3{Z: 1}

	pivot := NewBody(id, NewBox(0.25, 0.25, 0.25), 0, 0.9, 0.5)
	pivot.Pose.Pos = motorPos
	pivot.Name, pivot.Material = "spinner", "brick"
	w.AddBody(pivot)
	id++

	beam := NewBody(id, NewBox(1.5, 0.25, 0.25), 100.0, 1.0, 0.5)
	beam.Pose.Pos = lin.V3{X: motorPos.X, Y: motorPos.Y, Z: motorPos.Z - 1}
	beam.Name, beam.Material = "spinner", "brick"
	w.AddBody(beam)
	id++

	anchorA := pivot.WorldToLocal(motorPos)
	anchorB := beam.WorldToLocal(motorPos)
	var localAxis lin.V3
	inv := lin.NewQ().Inv(&pivot.Pose.Rot)
	localAxis.MultvQ(&motorAxisWorld, inv)

	w.AddConstraint(NewSpinnerConstraint(pivot, beam, anchorA, anchorB, localAxis, 2.0))

	return id
}

// AddRagdoll appends a six-body ragdoll (head, torso, two arms, two legs)
// joined by a neck/hip Hinge pair and shoulder ConstantVelocityLimited
// joints (spec §6). Grounded on
// orig/Main/SceneConfiguration.cpp's AddRagdoll.
func AddRagdoll(w *World, startIndex int) int {
	id := startIndex
	offset := lin.V3{X: -5}

	newPart := func(pos lin.V3, half lin.V3, mass float64, name string) *Body {
		b := NewBody(id, NewBox(half.X, half.Y, half.Z), mass, 1.0, 1.0)
		b.Pose.Pos = pos
		b.Name, b.Material = name, "brick"
		w.AddBody(b)
		id++
		return b
	}

	head := newPart(addV3(lin.V3{X: 0, Y: 0, Z: 5.5}, offset), lin.V3{X: 0.25, Y: 0.25, Z: 0.25}, 0.5, "head")
	torso := newPart(addV3(lin.V3{X: 0, Y: 0, Z: 4}, offset), lin.V3{X: 0.25, Y: 0.75, Z: 1}, 2.0, "torso")
	armLeft := newPart(addV3(lin.V3{X: 0, Y: 2, Z: 4.75}, offset), lin.V3{X: 0.25, Y: 0.75, Z: 0.25}, 1.0, "arm_left")
	armRight := newPart(addV3(lin.V3{X: 0, Y: -2, Z: 4.75}, offset), lin.V3{X: 0.25, Y: 0.75, Z: 0.25}, 1.0, "arm_right")
	legLeft := newPart(addV3(lin.V3{X: 0, Y: 1, Z: 2.5}, offset), lin.V3{X: 0.25, Y: 0.25, Z: 1}, 1.0, "leg_left")
	legRight := newPart(addV3(lin.V3{X: 0, Y: -1, Z: 2.5}, offset), lin.V3{X: 0.25, Y: 0.25, Z: 1}, 1.0, "leg_right")

	neckAnchor := addV3(head.Pose.Pos, lin.V3{Z: -0.5})
	w.AddConstraint(NewHingeLimitedConstraint(head, torso, head.WorldToLocal(neckAnchor), torso.WorldToLocal(neckAnchor), lin.V3{Y: 1}, 45))

	shoulderLeftAnchor := addV3(armLeft.Pose.Pos, lin.V3{Y: -1})
	w.AddConstraint(NewConstantVelocityLimitedConstraint(torso, armLeft, torso.WorldToLocal(shoulderLeftAnchor), armLeft.WorldToLocal(shoulderLeftAnchor), lin.V3{Y: 1}, 80))

	shoulderRightAnchor := addV3(armRight.Pose.Pos, lin.V3{Y: 1})
	w.AddConstraint(NewConstantVelocityLimitedConstraint(torso, armRight, torso.WorldToLocal(shoulderRightAnchor), armRight.WorldToLocal(shoulderRightAnchor), lin.V3{Y: -1}, 80))

	hipLeftAnchor := addV3(legLeft.Pose.Pos, lin.V3{Z: 0.5})
	w.AddConstraint(NewHingeLimitedConstraint(torso, legLeft, torso.WorldToLocal(hipLeftAnchor), legLeft.WorldToLocal(hipLeftAnchor), lin.V3{Y: 1}, 45))

	hipRightAnchor := addV3(legRight.Pose.Pos, lin.V3{Z: 0.5})
	w.AddConstraint(NewHingeLimitedConstraint(torso, legRight, torso.WorldToLocal(hipRightAnchor), legRight.WorldToLocal(hipRightAnchor), lin.V3{Y: 1}, 45))

	return id
}

func addV3(a, b lin.V3) lin.V3 {
	var out lin.V3
	out.Add(&a, &b)
	return out
}

// AddConvex appends one dynamic sphere and one dynamic diamond hull side
// by side, to exercise the GJK/EPA path against both shape kinds (spec
// §6, testable property scenario 6 "convex diamond drop"). Grounded on
// orig/Main/SceneConfiguration.cpp's AddConvex.
func AddConvex(w *World, startIndex int) int {
	id := startIndex

	sphere := NewBody(id, NewSphere(1.0), 1.0, 0.9, 0.5)
	sphere.Pose.Pos = lin.V3{X: -10, Y: 0, Z: 5}
	sphere.Name, sphere.Material = "convex", "brick"
	w.AddBody(sphere)
	id++

	diamond := NewBody(id, mustConvex(diamondPoints), 1.0, 1.0, 0.5)
	diamond.Pose.Pos = lin.V3{X: -10, Y: 0, Z: 10}
	diamond.Name, diamond.Material = "convex", "brick"
	w.AddBody(diamond)
	id++

	return id
}

// AddSandbox appends a static ground slab and four walls bounding a
// 100x50 play area (spec §6). Grounded on
// orig/Main/SceneConfiguration.cpp's AddSandbox.
func AddSandbox(w *World, startIndex int) int {
	id := startIndex

	ground := NewBody(id, NewBox(50, 25, 0.5), 0, 0.5, 0.5)
	ground.Name, ground.Material = "sandbox", "brick"
	w.AddBody(ground)
	id++

	wallH := func(x float64) {
		b := NewBody(id, NewBox(0.5, 25, 5), 0, 0.5, 0)
		b.Pose.Pos = lin.V3{X: x}
		b.Name, b.Material = "sandbox", "brick"
		w.AddBody(b)
		id++
	}
	wallH(50)
	wallH(-50)

	wallV := func(y float64) {
		b := NewBody(id, NewBox(50, 0.5, 5), 0, 0.5, 0)
		b.Pose.Pos = lin.V3{Y: y}
		b.Name, b.Material = "sandbox", "brick"
		w.AddBody(b)
		id++
	}
	wallV(25)
	wallV(-25)

	return id
}

// Scene is the YAML-authored counterpart to the AddX factory functions
// (spec §6's "a scene can be authored data-first instead of code-first").
type Scene struct {
	Spheres []struct {
		StressLevel int     `yaml:"stress_level"`
		StartHeight float64 `yaml:"start_height"`
		Dense       bool    `yaml:"dense"`
	} `yaml:"spheres"`
	Diamonds []struct {
		StressLevel int     `yaml:"stress_level"`
		StartHeight float64 `yaml:"start_height"`
		Dense       bool    `yaml:"dense"`
	} `yaml:"diamonds"`
	Floors     int  `yaml:"floors"`
	FloorDense bool `yaml:"floor_dense"`
	Stacks     int  `yaml:"stacks"`
	Chains     int  `yaml:"chains"`
	Movers     int  `yaml:"movers"`
	Sandbox    bool `yaml:"sandbox"`
}

// LoadScene parses a YAML scene description and appends the bodies/
// constraints it describes onto w, starting ids at nextID. It returns the
// next free id after every factory call.
func LoadScene(w *World, data []byte, nextID int) (int, error) {
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nextID, fmt.Errorf("LoadScene: yaml: %w", err)
	}

	id := nextID
	for _, s := range scene.Spheres {
		id = AddSpheres(w, id, s.StressLevel, s.StartHeight, s.Dense)
	}
	for _, d := range scene.Diamonds {
		id = AddDiamonds(w, id, d.StressLevel, d.StartHeight, d.Dense)
	}
	for i := 0; i < scene.Floors; i++ {
		id = AddFloor(w, id, scene.FloorDense)
	}
	for i := 0; i < scene.Stacks; i++ {
		id = AddStack(w, id)
	}
	for i := 0; i < scene.Chains; i++ {
		id = AddChain(w, id)
	}
	for i := 0; i < scene.Movers; i++ {
		id = AddMover(w, id)
	}
	if scene.Sandbox {
		id = AddSandbox(w, id)
	}
	return id, nil
}
