package agent

import (
	"context"

	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/google/uuid"
)

// Agent is a maze-solving decision unit. The environment owns the agent's
// position; the agent only decides where to go next.
type Agent interface {
	ID() string
	Name() string
	Kind() string
	// DecideMove picks the next direction for the agent standing at
	// s.Position. It may read and update the agent's memory.
	DecideMove(ctx context.Context, s State) (maze.Direction, error)
	// ResetMemory returns the agent to the behaviour of a fresh instance.
	ResetMemory()
	// Clone copies the configuration with fresh memory and a new ID.
	Clone() Agent
	// Params returns the configuration that rebuilds an equivalent agent
	// through a Factory.
	Params() Params
}

// State is what an agent perceives when asked for a move.
type State struct {
	Position maze.Point
	Maze     maze.View
	Tick     int
}

type AgentParams struct {
	AgentID string
	Name    string
}

type AgentOption func(*AgentParams)

func WithAgentId(id string) AgentOption {
	return func(p *AgentParams) {
		p.AgentID = id
	}
}

func WithName(name string) AgentOption {
	return func(p *AgentParams) {
		p.Name = name
	}
}

// identity carries the fields every strategy shares.
type identity struct {
	id   string
	name string
	kind string
}

func newIdentity(kind string, opts []AgentOption) identity {
	params := &AgentParams{
		AgentID: "agent-" + uuid.New().String(),
	}
	for _, opt := range opts {
		opt(params)
	}
	if params.Name == "" {
		suffix := params.AgentID
		if len(suffix) > 4 {
			suffix = suffix[len(suffix)-4:]
		}
		params.Name = kind + "-" + suffix
	}
	return identity{id: params.AgentID, name: params.Name, kind: kind}
}

// cloned keeps name and kind but gives the copy its own ID.
func (i identity) cloned() identity {
	i.id = "agent-" + uuid.New().String()
	return i
}

func (i identity) ID() string   { return i.id }
func (i identity) Name() string { return i.name }
func (i identity) Kind() string { return i.kind }

func stepTowards(from, to maze.Point) maze.Direction {
	for _, d := range maze.Directions {
		if from.Move(d) == to {
			return d
		}
	}
	return maze.None
}
