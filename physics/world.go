// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/sadoe3/rigidphysics/math/lin"
)

// gravity is the world's constant downward acceleration, applied as an
// impulse scaled by mass and dt (spec §4.11 step 2).
var gravity = lin.V3{Z: -10}

// solverIterations is the number of Gauss-Seidel passes the world runs over
// every bilateral constraint and manifold contact per step (spec §4.11
// step 7, "5 outer solver passes"). WorldConfig can override this.
const solverIterations = 5

// historyCapacity bounds the snapshot/restore ring buffer (§6 "Snapshot /
// restore").
const historyCapacity = 120

// World owns every body and constraint in a simulation and orchestrates
// one time step end to end (spec §4.11, §5's "single-threaded and
// cooperative" model).
type World struct {
	Bodies      []*Body
	Constraints []Constraint
	Manifolds   *ManifoldCollector

	Config WorldConfig

	// Dirty marks bodies whose pose changed during the last step (§6's
	// "dirty flag per body id, raised whenever an integration or impulse
	// changed its pose").
	Dirty map[int]bool

	history []HistoryFrame
}

// NewWorld returns an empty world with default tuning.
func NewWorld() *World {
	return &World{
		Manifolds: NewManifoldCollector(),
		Config:    DefaultWorldConfig(),
		Dirty:     make(map[int]bool),
	}
}

// AddBody appends body to the world and returns it for chaining.
func (w *World) AddBody(b *Body) *Body {
	w.Bodies = append(w.Bodies, b)
	return b
}

// AddConstraint appends c to the world's bilateral constraint list.
func (w *World) AddConstraint(c Constraint) {
	w.Constraints = append(w.Constraints, c)
}

// dynamicContact is a contact produced by the continuous intersection
// layer that has not yet happened (TimeOfImpact > 0), queued for
// TOI-ordered replay (spec §4.11 steps 4-5, 9).
type dynamicContact struct {
	contact Contact
}

// Step advances the world by dt (spec §4.11's step(Δt)).
func (w *World) Step(dt float64) {
	for id := range w.Dirty {
		delete(w.Dirty, id)
	}
	before := make([]Pose, len(w.Bodies))
	for i, b := range w.Bodies {
		before[i] = b.Pose
	}

	w.Manifolds.RemoveExpired()

	for _, b := range w.Bodies {
		if b.InvMass == 0 {
			continue
		}
		g := w.Config.Gravity
		impulseGravity := lin.V3{X: g.X * w.massOf(b) * dt, Y: g.Y * w.massOf(b) * dt, Z: g.Z * w.massOf(b) * dt}
		b.ApplyImpulseLinear(impulseGravity)
	}

	var pairs []Pair
	if w.Config.BroadPhaseEnabled {
		pairs = BroadPhase(w.Bodies, dt)
	} else {
		pairs = allPairs(len(w.Bodies))
	}

	var dynamic []dynamicContact
	for _, p := range pairs {
		bodyA, bodyB := w.Bodies[p.A], w.Bodies[p.B]
		if bodyA.IsStatic() && bodyB.IsStatic() {
			continue
		}
		contact, hit := Intersect(bodyA, bodyB, dt)
		if !hit {
			continue
		}
		if contact.TimeOfImpact == 0 {
			w.Manifolds.AddContact(contact)
		} else {
			dynamic = append(dynamic, dynamicContact{contact: contact})
		}
	}

	sortDynamicByTOI(dynamic)

	for _, c := range w.Constraints {
		c.PreSolve(dt)
	}
	w.Manifolds.PreSolve(dt)

	for i := 0; i < w.Config.SolverIterations; i++ {
		for _, c := range w.Constraints {
			c.Solve()
		}
		w.Manifolds.Solve()
	}

	for i := len(w.Constraints) - 1; i >= 0; i-- {
		w.Constraints[i].PostSolve()
	}
	w.Manifolds.PostSolve()

	accumulatedTOI := 0.0
	for _, dc := range dynamic {
		advance := dc.contact.TimeOfImpact - accumulatedTOI
		for _, b := range w.Bodies {
			b.Update(advance)
		}
		ResolveContact(&dc.contact)
		accumulatedTOI += advance
	}
	remaining := dt - accumulatedTOI
	for _, b := range w.Bodies {
		b.Update(remaining)
	}

	for i, b := range w.Bodies {
		if b.Pose != before[i] {
			w.Dirty[b.ID] = true
		}
	}

	if invMassSumIsNaN(w.Bodies) {
		slog.Error("physics: body velocity went NaN after step", "dt", dt)
	}
}

// StepPicked steps the whole world normally, which advances every body's
// pose, then zeroes the linear and angular velocity of every body except
// pickedID. The other bodies' poses are not restored, so they can move
// during the step; the picked body keeps its velocity
// (spec §6's apply_picked_item_step, used only while paused).
func (w *World) StepPicked(dt float64, pickedID int) {
	w.Step(dt)
	for _, b := range w.Bodies {
		if b.ID == pickedID {
			continue
		}
		b.LinearVelocity = lin.V3{}
		b.AngularVelocity = lin.V3{}
	}
}

func (w *World) massOf(b *Body) float64 {
	if b.InvMass == 0 {
		return 0
	}
	return 1.0 / b.InvMass
}

// allPairs returns every unordered pair among n bodies, the O(N²)
// fallback when broad-phase is disabled (spec §4.11 step 3).
func allPairs(n int) []Pair {
	var pairs []Pair
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			pairs = append(pairs, Pair{A: a, B: b})
		}
	}
	return pairs
}

// sortDynamicByTOI orders queued continuous-collision contacts ascending
// by time of impact (spec §4.11 step 5), mirroring SortContactsByTOI's
// comparator for the dynamicContact wrapper.
func sortDynamicByTOI(dynamic []dynamicContact) {
	sort.SliceStable(dynamic, func(i, j int) bool {
		return dynamic[i].contact.TimeOfImpact < dynamic[j].contact.TimeOfImpact
	})
}

func invMassSumIsNaN(bodies []*Body) bool {
	for _, b := range bodies {
		if isNaN(b.LinearVelocity.X) || isNaN(b.LinearVelocity.Y) || isNaN(b.LinearVelocity.Z) {
			return true
		}
	}
	return false
}

// HistoryFrame is one entry of the snapshot/restore ring buffer (spec §6):
// every body's kinematic state at the moment the frame was captured.
type HistoryFrame struct {
	ID     uuid.UUID
	Bodies map[int]BodyState
}

// BodyState is the snapshot of one body's kinematic state.
type BodyState struct {
	Position        lin.V3
	Orientation     lin.Q
	LinearVelocity  lin.V3
	AngularVelocity lin.V3
}

// Snapshot captures the world's current kinematic state into the history
// ring, discarding the oldest entry once historyCapacity is exceeded.
func (w *World) Snapshot() uuid.UUID {
	frame := HistoryFrame{ID: uuid.New(), Bodies: make(map[int]BodyState, len(w.Bodies))}
	for _, b := range w.Bodies {
		frame.Bodies[b.ID] = BodyState{
			Position:        b.Pose.Pos,
			Orientation:     b.Pose.Rot,
			LinearVelocity:  b.LinearVelocity,
			AngularVelocity: b.AngularVelocity,
		}
	}
	w.history = append(w.history, frame)
	if len(w.history) > historyCapacity {
		w.history = w.history[len(w.history)-historyCapacity:]
	}
	return frame.ID
}

// Restore writes a previously captured frame's kinematic state back onto
// the matching bodies, leaving bodies absent from the frame untouched. It
// reports whether id was found.
func (w *World) Restore(id uuid.UUID) bool {
	var frame *HistoryFrame
	for i := range w.history {
		if w.history[i].ID == id {
			frame = &w.history[i]
			break
		}
	}
	if frame == nil {
		return false
	}
	for _, b := range w.Bodies {
		state, ok := frame.Bodies[b.ID]
		if !ok {
			continue
		}
		b.Pose.Pos = state.Position
		b.Pose.Rot = state.Orientation
		b.LinearVelocity = state.LinearVelocity
		b.AngularVelocity = state.AngularVelocity
		w.Dirty[b.ID] = true
	}
	return true
}

// History returns the ring buffer's current frames, oldest first.
func (w *World) History() []HistoryFrame { return w.history }
