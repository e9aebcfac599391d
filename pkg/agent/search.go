package agent

import (
	"context"
	"errors"

	"github.com/boristopalov/mazerace/pkg/maze"
)

const (
	KindDFS = "dfs"
	KindBFS = "bfs"
)

var ErrNoSolution = errors.New("no path to the goal")

// DFSAgent explores depth-first online: it walks into the first unvisited
// neighbour and backtracks along its own path at dead ends.
type DFSAgent struct {
	identity
	visited map[maze.Point]bool
	stack   []maze.Point
}

func NewDFS(opts ...AgentOption) *DFSAgent {
	return &DFSAgent{
		identity: newIdentity(KindDFS, opts),
		visited:  map[maze.Point]bool{},
	}
}

func (a *DFSAgent) DecideMove(_ context.Context, s State) (maze.Direction, error) {
	current := s.Position
	a.visited[current] = true

	for _, d := range maze.Directions {
		if !s.Maze.Admits(current, d) {
			continue
		}
		next := current.Move(d)
		if !a.visited[next] {
			a.stack = append(a.stack, current)
			return d, nil
		}
	}

	if len(a.stack) == 0 {
		return maze.None, ErrNoSolution
	}
	previous := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	return stepTowards(current, previous), nil
}

func (a *DFSAgent) ResetMemory() {
	a.visited = map[maze.Point]bool{}
	a.stack = nil
}

func (a *DFSAgent) Params() Params { return Params{} }

func (a *DFSAgent) Clone() Agent {
	return &DFSAgent{identity: a.cloned(), visited: map[maze.Point]bool{}}
}

// BFSAgent plans a shortest path over the whole maze on its first move and
// then follows it. It replans if it finds itself off the plan.
type BFSAgent struct {
	identity
	plan     []maze.Direction
	expected maze.Point
	planned  bool
}

func NewBFS(opts ...AgentOption) *BFSAgent {
	return &BFSAgent{identity: newIdentity(KindBFS, opts)}
}

func (a *BFSAgent) DecideMove(_ context.Context, s State) (maze.Direction, error) {
	if !a.planned || s.Position != a.expected {
		plan, err := shortestPath(s.Maze, s.Position)
		if err != nil {
			return maze.None, err
		}
		a.plan, a.planned = plan, true
	}
	if len(a.plan) == 0 {
		a.expected = s.Position
		return maze.None, nil
	}
	d := a.plan[0]
	a.plan = a.plan[1:]
	a.expected = s.Position.Move(d)
	return d, nil
}

func (a *BFSAgent) ResetMemory() {
	a.plan = nil
	a.planned = false
	a.expected = maze.Point{}
}

func (a *BFSAgent) Params() Params { return Params{} }

func (a *BFSAgent) Clone() Agent {
	return &BFSAgent{identity: a.cloned()}
}

func shortestPath(v maze.View, start maze.Point) ([]maze.Direction, error) {
	if v.Reached(start) {
		return nil, nil
	}
	type step struct {
		from maze.Point
		dir  maze.Direction
	}
	came := map[maze.Point]step{start: {}}
	queue := []maze.Point{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, d := range maze.Directions {
			if !v.Admits(current, d) {
				continue
			}
			next := current.Move(d)
			if _, seen := came[next]; seen {
				continue
			}
			came[next] = step{from: current, dir: d}
			if v.Reached(next) {
				var path []maze.Direction
				for p := next; p != start; p = came[p].from {
					path = append(path, came[p].dir)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path, nil
			}
			if v.ContainsPoint(next) {
				queue = append(queue, next)
			}
		}
	}
	return nil, ErrNoSolution
}
