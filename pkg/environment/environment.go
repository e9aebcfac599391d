package environment

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/boristopalov/mazerace/pkg/agent"
	"github.com/boristopalov/mazerace/pkg/core"
	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const noSelection = -1

// Placement is an agent's live position and run bookkeeping inside one
// environment.
type Placement struct {
	Agent      agent.Agent
	Start      maze.Point
	Position   maze.Point
	Steps      int
	StartTick  int
	FinishTick int
	Finished   bool
}

// TimeTaken is the number of ticks between placement and finish.
func (p Placement) TimeTaken() int {
	if !p.Finished {
		return 0
	}
	return p.FinishTick - p.StartTick
}

// Finish is emitted once for every agent that reaches the goal.
type Finish struct {
	Agent agent.Agent
	Tick  int
	Steps int
}

type StepReport struct {
	Finished []Finish
	// Done is true once every agent in the environment has finished.
	Done bool
}

// Environment binds one shared maze to the agents walking it. It is the
// only owner of its agents' positions.
type Environment struct {
	id         string
	title      string
	maze       *maze.Maze
	placements []*Placement
	selected   int
	tick       int
	frozen     bool
	logger     *log.Logger
	mu         sync.RWMutex
}

type Option func(*Environment)

func WithTitle(title string) Option {
	return func(e *Environment) {
		e.title = title
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// New creates an empty environment on m.
func New(m *maze.Maze, opts ...Option) *Environment {
	e := &Environment{
		id:         "env-" + uuid.New().String(),
		maze:       m,
		placements: make([]*Placement, 0),
		selected:   noSelection,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.title == "" {
		e.title = e.id[:12]
	}
	e.logger = e.logger.WithPrefix(e.title)
	return e
}

func (e *Environment) ID() string {
	return e.id
}

func (e *Environment) Title() string {
	return e.title
}

// Maze returns the shared maze. Mazes have no mutators, so sharing the
// pointer is safe.
func (e *Environment) Maze() *maze.Maze {
	return e.maze
}

// AddAgent places a on the maze at start. The agent's memory is reset so a
// previously finished agent starts over.
func (e *Environment) AddAgent(a agent.Agent, start maze.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		return fmt.Errorf("add agent %s: %w", a.Name(), core.ErrBusy)
	}
	if !e.maze.ContainsPoint(start) {
		return fmt.Errorf("add agent %s: start %s outside %s maze: %w", a.Name(), start, e.maze, core.ErrInvalidOperation)
	}
	if e.indexOf(a) >= 0 {
		return fmt.Errorf("add agent %s: already placed: %w", a.Name(), core.ErrInvalidOperation)
	}

	a.ResetMemory()
	e.placements = append(e.placements, &Placement{
		Agent:     a,
		Start:     start,
		Position:  start,
		StartTick: e.tick,
	})
	return nil
}

// RemoveAgent removes a from the environment, clearing the selection if a
// was selected.
func (e *Environment) RemoveAgent(a agent.Agent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		return fmt.Errorf("remove agent %s: %w", a.Name(), core.ErrBusy)
	}
	i := e.indexOf(a)
	if i < 0 {
		return fmt.Errorf("remove agent %s: not found: %w", a.Name(), core.ErrInvalidOperation)
	}
	e.placements = slices.Delete(e.placements, i, i+1)
	switch {
	case e.selected == i:
		e.selected = noSelection
	case e.selected > i:
		e.selected--
	}
	return nil
}

func (e *Environment) indexOf(a agent.Agent) int {
	return slices.IndexFunc(e.placements, func(p *Placement) bool {
		return p.Agent.ID() == a.ID()
	})
}

// Contains reports whether a is placed in this environment.
func (e *Environment) Contains(a agent.Agent) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.indexOf(a) >= 0
}

// Agents returns the agents in step order.
func (e *Environment) Agents() []agent.Agent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	agents := make([]agent.Agent, len(e.placements))
	for i, p := range e.placements {
		agents[i] = p.Agent
	}
	return agents
}

// Placements returns a snapshot of every placement in step order.
func (e *Environment) Placements() []Placement {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Placement, len(e.placements))
	for i, p := range e.placements {
		out[i] = *p
	}
	return out
}

// Placement returns the snapshot for a, if placed here.
func (e *Environment) Placement(a agent.Agent) (Placement, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	i := e.indexOf(a)
	if i < 0 {
		return Placement{}, false
	}
	return *e.placements[i], true
}

func (e *Environment) SelectAgent(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i == noSelection {
		e.selected = noSelection
		return nil
	}
	if i < 0 || i >= len(e.placements) {
		return fmt.Errorf("select agent %d of %d: %w", i, len(e.placements), core.ErrInvalidOperation)
	}
	e.selected = i
	return nil
}

func (e *Environment) SelectedAgent() (agent.Agent, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.selected == noSelection {
		return nil, fmt.Errorf("%s: no agent selected: %w", e.title, core.ErrNoSelection)
	}
	return e.placements[e.selected].Agent, nil
}

// Step advances every unfinished agent by one move. Illegal moves, including
// walking out through a border opening that is not the goal, and failed
// decisions still count as a step but leave the agent in place.
// Finished agents are never touched again.
func (e *Environment) Step(ctx context.Context, tick int) (StepReport, error) {
	if err := ctx.Err(); err != nil {
		return StepReport{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick = tick
	report := StepReport{Done: true}
	for _, p := range e.placements {
		if p.Finished {
			continue
		}

		d, err := p.Agent.DecideMove(ctx, agent.State{
			Position: p.Position,
			Maze:     e.maze,
			Tick:     tick,
		})
		if err != nil {
			e.logger.Warn("agent decision failed", "agent", p.Agent.Name(), "tick", tick, "err", err)
			d = maze.None
		}
		p.Steps++
		if e.maze.Admits(p.Position, d) {
			p.Position = p.Position.Move(d)
		} else {
			e.logger.Debug("bumped into a wall", "agent", p.Agent.Name(), "at", p.Position, "dir", d)
		}

		if e.maze.Reached(p.Position) {
			p.Finished = true
			p.FinishTick = tick
			report.Finished = append(report.Finished, Finish{Agent: p.Agent, Tick: tick, Steps: p.Steps})
			e.logger.Debug("agent finished", "agent", p.Agent.Name(), "tick", tick, "steps", p.Steps)
			continue
		}
		report.Done = false
	}
	return report, nil
}

// Done reports whether every agent has finished.
func (e *Environment) Done() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.placements {
		if !p.Finished {
			return false
		}
	}
	return true
}

// Reset puts every agent back on its start cell with fresh memory and
// clears the run bookkeeping.
func (e *Environment) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tick = 0
	for _, p := range e.placements {
		p.Agent.ResetMemory()
		p.Position = p.Start
		p.Steps = 0
		p.StartTick = 0
		p.FinishTick = 0
		p.Finished = false
	}
}

// ResetMemory resets every agent's memory without moving anyone.
func (e *Environment) ResetMemory() {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.placements {
		p.Agent.ResetMemory()
	}
}

func (e *Environment) setFrozen(frozen bool) {
	e.mu.Lock()
	e.frozen = frozen
	e.mu.Unlock()
}

// rehost copies the roster onto a new environment on m, keeping positions
// and bookkeeping. It fails if m cannot contain every current position.
func (e *Environment) rehost(m *maze.Maze) (*Environment, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, p := range e.placements {
		if !m.ContainsPoint(p.Start) || (!p.Finished && !m.ContainsPoint(p.Position)) {
			return nil, fmt.Errorf("maze %s cannot host agent %s at %s: %w", m, p.Agent.Name(), p.Position, core.ErrInvalidOperation)
		}
	}

	replacement := New(m, WithTitle(e.title), WithLogger(e.logger))
	replacement.tick = e.tick
	replacement.selected = e.selected
	for _, p := range e.placements {
		cp := *p
		replacement.placements = append(replacement.placements, &cp)
	}
	return replacement, nil
}
