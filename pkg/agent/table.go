package agent

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/boristopalov/mazerace/pkg/memory"
)

const (
	KindTable = "table"

	defaultTrailLength = 64
)

// Perception encodes the four sides of a cell in Up, Right, Down, Left
// order: '1' for open, '0' for wall. "0110" means only right and down are open.
type Perception string

func Perceive(v maze.View, p maze.Point) Perception {
	var sb strings.Builder
	for _, d := range maze.Directions {
		if v.CanMove(p, d) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return Perception(sb.String())
}

// TableAgent looks its perception up in a fixed table. When the table has
// no usable entry it falls back to the open neighbour it has seen least
// recently, using a bounded trail of visited cells.
type TableAgent struct {
	identity
	table  map[Perception]maze.Direction
	trail  *memory.Memory[maze.Point]
	length int
}

func NewTable(table map[Perception]maze.Direction, trailLength int, opts ...AgentOption) *TableAgent {
	if trailLength <= 0 {
		trailLength = defaultTrailLength
	}
	return &TableAgent{
		identity: newIdentity(KindTable, opts),
		table:    maps.Clone(table),
		trail:    memory.NewMemory[maze.Point](trailLength),
		length:   trailLength,
	}
}

func newTableFromParams(_ Deps, p Params, opts ...AgentOption) (Agent, error) {
	table := map[Perception]maze.Direction{}
	for key, name := range p.StringMap("table") {
		if len(key) != 4 || strings.Trim(key, "01") != "" {
			return nil, fmt.Errorf("table: bad perception %q", key)
		}
		d, err := maze.ParseDirection(name)
		if err != nil {
			return nil, fmt.Errorf("table: %w", err)
		}
		table[Perception(key)] = d
	}
	return NewTable(table, p.Int("trail", defaultTrailLength), opts...), nil
}

func (a *TableAgent) DecideMove(_ context.Context, s State) (maze.Direction, error) {
	a.trail.Store(s.Position)

	if d, ok := a.table[Perceive(s.Maze, s.Position)]; ok && s.Maze.Admits(s.Position, d) {
		return d, nil
	}

	trail := a.trail.All()
	lastSeen := func(p maze.Point) int {
		for i := len(trail) - 1; i >= 0; i-- {
			if trail[i] == p {
				return i
			}
		}
		return -1
	}

	best, bestSeen := maze.None, len(trail)
	for _, d := range maze.Directions {
		if !s.Maze.Admits(s.Position, d) {
			continue
		}
		if seen := lastSeen(s.Position.Move(d)); seen < bestSeen {
			best, bestSeen = d, seen
		}
	}
	return best, nil
}

func (a *TableAgent) ResetMemory() {
	a.trail.Reset()
}

func (a *TableAgent) Params() Params {
	table := make(map[string]any, len(a.table))
	for perception, d := range a.table {
		table[string(perception)] = d.String()
	}
	return Params{"table": table, "trail": a.length}
}

func (a *TableAgent) Clone() Agent {
	return &TableAgent{
		identity: a.cloned(),
		table:    maps.Clone(a.table),
		trail:    memory.NewMemory[maze.Point](a.length),
		length:   a.length,
	}
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
