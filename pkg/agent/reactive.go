package agent

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/boristopalov/mazerace/pkg/maze"
)

const (
	KindPriority     = "priority"
	KindWallFollower = "wallfollower"
	KindRandom       = "random"
)

// PriorityAgent takes the first open direction from a fixed preference list.
// It keeps no memory.
type PriorityAgent struct {
	identity
	order []maze.Direction
}

func NewPriority(order []maze.Direction, opts ...AgentOption) *PriorityAgent {
	return &PriorityAgent{
		identity: newIdentity(KindPriority, opts),
		order:    append([]maze.Direction(nil), order...),
	}
}

func newPriorityFromParams(_ Deps, p Params, opts ...AgentOption) (Agent, error) {
	order, err := p.Directions("order", []maze.Direction{maze.Right, maze.Down, maze.Left, maze.Up})
	if err != nil {
		return nil, err
	}
	return NewPriority(order, opts...), nil
}

func (a *PriorityAgent) DecideMove(_ context.Context, s State) (maze.Direction, error) {
	for _, d := range a.order {
		if s.Maze.Admits(s.Position, d) {
			return d, nil
		}
	}
	return maze.None, nil
}

func (a *PriorityAgent) ResetMemory() {}

func (a *PriorityAgent) Params() Params {
	names := make([]string, len(a.order))
	for i, d := range a.order {
		names[i] = d.String()
	}
	return Params{"order": strings.Join(names, ",")}
}

func (a *PriorityAgent) Clone() Agent {
	return &PriorityAgent{identity: a.cloned(), order: append([]maze.Direction(nil), a.order...)}
}

// Hand selects which wall a WallFollower keeps touching.
type Hand int

const (
	RightHand Hand = iota
	LeftHand
)

func parseHand(s string) (Hand, error) {
	switch strings.ToLower(s) {
	case "", "right":
		return RightHand, nil
	case "left":
		return LeftHand, nil
	}
	return RightHand, fmt.Errorf("unknown hand %q", s)
}

func (h Hand) String() string {
	if h == LeftHand {
		return "left"
	}
	return "right"
}

// WallFollower senses only the four sides of its cell and keeps one hand on
// the wall. Its memory is the current heading.
type WallFollower struct {
	identity
	hand    Hand
	initial maze.Direction
	heading maze.Direction
}

func NewWallFollower(hand Hand, heading maze.Direction, opts ...AgentOption) *WallFollower {
	if heading == maze.None {
		heading = maze.Right
	}
	return &WallFollower{
		identity: newIdentity(KindWallFollower, opts),
		hand:     hand,
		initial:  heading,
		heading:  heading,
	}
}

func newWallFollowerFromParams(_ Deps, p Params, opts ...AgentOption) (Agent, error) {
	hand, err := parseHand(p.String("hand", "right"))
	if err != nil {
		return nil, err
	}
	heading, err := maze.ParseDirection(p.String("heading", "RIGHT"))
	if err != nil {
		return nil, err
	}
	return NewWallFollower(hand, heading, opts...), nil
}

func (a *WallFollower) DecideMove(_ context.Context, s State) (maze.Direction, error) {
	var candidates [4]maze.Direction
	if a.hand == RightHand {
		candidates = [4]maze.Direction{a.heading.Clockwise(), a.heading, a.heading.CounterClockwise(), a.heading.Opposite()}
	} else {
		candidates = [4]maze.Direction{a.heading.CounterClockwise(), a.heading, a.heading.Clockwise(), a.heading.Opposite()}
	}
	for _, d := range candidates {
		if s.Maze.Admits(s.Position, d) {
			a.heading = d
			return d, nil
		}
	}
	return maze.None, nil
}

func (a *WallFollower) ResetMemory() {
	a.heading = a.initial
}

func (a *WallFollower) Params() Params {
	return Params{"hand": a.hand.String(), "heading": a.initial.String()}
}

func (a *WallFollower) Clone() Agent {
	return &WallFollower{identity: a.cloned(), hand: a.hand, initial: a.initial, heading: a.initial}
}

// RandomWalker picks uniformly among the open directions. The generator is
// seeded, so a given seed always produces the same walk.
type RandomWalker struct {
	identity
	seed uint64
	rnd  *rand.Rand
}

func NewRandomWalker(seed uint64, opts ...AgentOption) *RandomWalker {
	return &RandomWalker{
		identity: newIdentity(KindRandom, opts),
		seed:     seed,
		rnd:      rand.New(rand.NewPCG(seed, 0)),
	}
}

func newRandomFromParams(_ Deps, p Params, opts ...AgentOption) (Agent, error) {
	return NewRandomWalker(p.Uint64("seed", 1), opts...), nil
}

func (a *RandomWalker) DecideMove(_ context.Context, s State) (maze.Direction, error) {
	open := s.Maze.Neighbours(s.Position)
	if len(open) == 0 {
		return maze.None, nil
	}
	return open[a.rnd.IntN(len(open))], nil
}

func (a *RandomWalker) ResetMemory() {
	a.rnd = rand.New(rand.NewPCG(a.seed, 0))
}

func (a *RandomWalker) Params() Params {
	return Params{"seed": a.seed}
}

func (a *RandomWalker) Clone() Agent {
	return &RandomWalker{identity: a.cloned(), seed: a.seed, rnd: rand.New(rand.NewPCG(a.seed, 0))}
}
