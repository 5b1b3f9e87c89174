package md

import "math"

// Vec is a 3-component vector used for positions and displacements.
type Vec [3]float64

func (v Vec) Add(o Vec) Vec { return Vec{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

func (v Vec) Sub(o Vec) Vec { return Vec{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

func (v Vec) Scale(f float64) Vec { return Vec{v[0] * f, v[1] * f, v[2] * f} }

// Norm2 returns the squared length.
func (v Vec) Norm2() float64 { return v[0]*v[0] + v[1]*v[1] + v[2]*v[2] }

func (v Vec) Norm() float64 { return math.Sqrt(v.Norm2()) }

// NoBody marks a particle that belongs to no rigid group.
const NoBody = -1

// Snapshot is the read-only particle state the subsystem observes. Positions
// are owned by the caller; the subsystem never mutates them. Type holds a
// species tag per particle and Body an optional rigid-group id (NoBody when
// unset). Type and Body may be nil, meaning all particles share species 0
// and no particle has a body.
type Snapshot struct {
	Pos  []Vec
	Type []int
	Body []int
	Box  Box
}

// N returns the particle count.
func (s *Snapshot) N() int { return len(s.Pos) }

// TypeOf returns the species tag of particle i.
func (s *Snapshot) TypeOf(i int) int {
	if s.Type == nil {
		return 0
	}
	return s.Type[i]
}

// BodyOf returns the rigid-group id of particle i, or NoBody.
func (s *Snapshot) BodyOf(i int) int {
	if s.Body == nil {
		return NoBody
	}
	return s.Body[i]
}
