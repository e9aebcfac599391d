package maze

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

const (
	wallUp uint8 = 1 << iota
	wallRight
	wallDown
	wallLeft

	allWalls = wallUp | wallRight | wallDown | wallLeft
)

func wallBit(d Direction) uint8 {
	switch d {
	case Up:
		return wallUp
	case Right:
		return wallRight
	case Down:
		return wallDown
	case Left:
		return wallLeft
	}
	return 0
}

// View is the read-only face of a maze handed to environments and agents.
type View interface {
	Dimensions() (width, height int)
	ContainsPoint(p Point) bool
	IsWall(a, b Point) bool
	CanMove(p Point, d Direction) bool
	Admits(p Point, d Direction) bool
	Neighbours(p Point) []Direction
	Reached(p Point) bool
}

// Maze is an immutable rectangular grid. Build one with a Builder.
type Maze struct {
	width  int
	height int
	cells  []uint8
	bound  orb.Bound
	start  Point
	goal   Goal
}

var _ View = (*Maze)(nil)

func (m *Maze) Dimensions() (width, height int) {
	return m.width, m.height
}

// ContainsPoint reports whether p lies inside the grid.
func (m *Maze) ContainsPoint(p Point) bool {
	return m.bound.Contains(orb.Point{float64(p.X), float64(p.Y)})
}

// CanMove reports whether an agent at p may move in direction d. Standing
// still is always legal; leaving the grid is legal only through an exit.
func (m *Maze) CanMove(p Point, d Direction) bool {
	if d == None {
		return true
	}
	if !m.ContainsPoint(p) {
		return false
	}
	return m.cells[m.index(p)]&wallBit(d) == 0
}

// Admits reports whether a move from p in direction d is open and ends
// somewhere an agent may stand: a cell of the grid, or the goal itself.
// Border openings of a maze whose goal lies inside only admit standing still.
func (m *Maze) Admits(p Point, d Direction) bool {
	if !m.CanMove(p, d) {
		return false
	}
	next := p.Move(d)
	return m.ContainsPoint(next) || m.Reached(next)
}

// IsWall reports whether a wall separates a from b. Cells that are not
// adjacent are always considered walled off from each other.
func (m *Maze) IsWall(a, b Point) bool {
	if !m.ContainsPoint(a) {
		a, b = b, a
	}
	if !m.ContainsPoint(a) {
		return true
	}
	d, ok := directionBetween(a, b)
	if !ok {
		return true
	}
	return !m.CanMove(a, d)
}

// Neighbours returns the directions an agent at p may take, in clockwise
// order.
func (m *Maze) Neighbours(p Point) []Direction {
	dirs := make([]Direction, 0, len(Directions))
	for _, d := range Directions {
		if m.Admits(p, d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (m *Maze) Reached(p Point) bool {
	return m.goal.Reached(m, p)
}

// Start is the default start cell for agents placed without one.
func (m *Maze) Start() Point {
	return m.start
}

func (m *Maze) Goal() Goal {
	return m.goal
}

// Exits lists the border openings as (cell, direction) pairs.
func (m *Maze) Exits() []Exit {
	var exits []Exit
	for y := range m.height {
		for x := range m.width {
			p := Point{X: x, Y: y}
			for _, d := range Directions {
				if !m.ContainsPoint(p.Move(d)) && m.CanMove(p, d) {
					exits = append(exits, Exit{Cell: p, Dir: d})
				}
			}
		}
	}
	return exits
}

func (m *Maze) String() string {
	return fmt.Sprintf("%dx%d", m.width, m.height)
}

func (m *Maze) index(p Point) int {
	return p.Y*m.width + p.X
}

// Exit is a border opening.
type Exit struct {
	Cell Point
	Dir  Direction
}

// Builder assembles a Maze. Every cell starts fully walled in; walls are
// always opened and closed on both sides at once so connectivity stays
// symmetric.
type Builder struct {
	width  int
	height int
	cells  []uint8
	start  Point
	goal   Goal
	err    error
}

func NewBuilder(width, height int) *Builder {
	b := &Builder{width: width, height: height}
	if width <= 0 || height <= 0 {
		b.err = fmt.Errorf("maze dimensions must be positive, got %dx%d", width, height)
		return b
	}
	b.cells = make([]uint8, width*height)
	for i := range b.cells {
		b.cells[i] = allWalls
	}
	return b
}

func (b *Builder) contains(p Point) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// Open removes the wall on side d of p. Opening a border side makes an exit.
func (b *Builder) Open(p Point, d Direction) *Builder {
	return b.set(p, d, false)
}

// Close puts a wall on side d of p.
func (b *Builder) Close(p Point, d Direction) *Builder {
	return b.set(p, d, true)
}

func (b *Builder) set(p Point, d Direction, wall bool) *Builder {
	if b.err != nil {
		return b
	}
	if !b.contains(p) || d == None {
		b.err = fmt.Errorf("cannot change wall %s of %s", d, p)
		return b
	}
	apply := func(q Point, side Direction) {
		i := q.Y*b.width + q.X
		if wall {
			b.cells[i] |= wallBit(side)
		} else {
			b.cells[i] &^= wallBit(side)
		}
	}
	apply(p, d)
	if q := p.Move(d); b.contains(q) {
		apply(q, d.Opposite())
	}
	return b
}

// OpenInterior removes every wall between cells, leaving the border closed.
func (b *Builder) OpenInterior() *Builder {
	for y := range b.height {
		for x := range b.width {
			p := Point{X: x, Y: y}
			if x+1 < b.width {
				b.Open(p, Right)
			}
			if y+1 < b.height {
				b.Open(p, Down)
			}
		}
	}
	return b
}

func (b *Builder) Start(p Point) *Builder {
	b.start = p
	return b
}

func (b *Builder) Goal(g Goal) *Builder {
	b.goal = g
	return b
}

// Build validates and freezes the maze. Without an explicit goal the maze
// is finished by leaving it through an exit.
func (b *Builder) Build() (*Maze, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.contains(b.start) {
		return nil, fmt.Errorf("start %s outside %dx%d maze", b.start, b.width, b.height)
	}
	goal := b.goal
	if goal == nil {
		goal = GoalExit()
	}
	m := &Maze{
		width:  b.width,
		height: b.height,
		cells:  append([]uint8(nil), b.cells...),
		bound: orb.Bound{
			Min: orb.Point{0, 0},
			Max: orb.Point{float64(b.width - 1), float64(b.height - 1)},
		},
		start: b.start,
		goal:  goal,
	}
	if _, exit := goal.(goalExit); exit && len(m.Exits()) == 0 {
		return nil, errors.New("exit goal needs at least one border opening")
	}
	return m, nil
}

// MustBuild is Build for statically known mazes; it panics on error.
func (b *Builder) MustBuild() *Maze {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
