package simulation

import (
	"slices"
	"sync"

	"github.com/boristopalov/mazerace/pkg/agent"
	"github.com/boristopalov/mazerace/pkg/environment"
	"github.com/boristopalov/mazerace/pkg/maze"
)

// AgentSteps is one agent's line in a results record.
type AgentSteps struct {
	Agent      agent.Agent
	Steps      int
	Finished   bool
	FinishTick int
}

// Record aggregates the finishes of one maze or one environment.
// TimeTakenFirst and TimeTakenLast are zero and Winner is nil when nobody
// finished.
type Record struct {
	Winner         agent.Agent
	TimeTakenFirst int
	TimeTakenLast  int
	Steps          []AgentSteps
}

func (r *Record) add(s AgentSteps) {
	r.Steps = append(r.Steps, s)
	if !s.Finished {
		return
	}
	if r.Winner == nil || s.FinishTick < r.TimeTakenFirst {
		r.Winner = s.Agent
		r.TimeTakenFirst = s.FinishTick
	}
	if s.FinishTick > r.TimeTakenLast {
		r.TimeTakenLast = s.FinishTick
	}
}

func (r *Record) clone() Record {
	if r == nil {
		return Record{}
	}
	cp := *r
	cp.Steps = slices.Clone(r.Steps)
	return cp
}

// Results holds the per-maze and per-environment outcome of one run. It
// is fed by the manager while the run is in progress and is read-only once
// handed to observers.
type Results struct {
	mazes  []*maze.Maze
	envs   []*environment.Environment
	byMaze map[*maze.Maze]*Record
	byEnv  map[*environment.Environment]*Record
	// finishes keeps every recorded finish by environment and agent ID
	finishes map[*environment.Environment]map[string]AgentSteps
	ticks    int
	mu       sync.RWMutex
}

func NewResults() *Results {
	return &Results{
		byMaze:   make(map[*maze.Maze]*Record),
		byEnv:    make(map[*environment.Environment]*Record),
		finishes: make(map[*environment.Environment]map[string]AgentSteps),
	}
}

// recordFinish notes that a finished in env at tick. Ties on the finish
// tick keep the agent recorded first.
func (r *Results) recordFinish(env *environment.Environment, a agent.Agent, steps, tick int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := AgentSteps{Agent: a, Steps: steps, Finished: true, FinishTick: tick}
	if r.finishes[env] == nil {
		r.finishes[env] = make(map[string]AgentSteps)
	}
	r.finishes[env][a.ID()] = s
	r.recordLocked(env, s)
}

func (r *Results) recordLocked(env *environment.Environment, s AgentSteps) {
	m := env.Maze()
	er, ok := r.byEnv[env]
	if !ok {
		er = &Record{}
		r.byEnv[env] = er
		r.envs = append(r.envs, env)
	}
	mr, ok := r.byMaze[m]
	if !ok {
		mr = &Record{}
		r.byMaze[m] = mr
		r.mazes = append(r.mazes, m)
	}
	er.add(s)
	mr.add(s)
}

// seal lays the records out in set and placement order. Recorded finishes
// are kept as they were recorded; the final placements add the agents that
// never finished, and environments exchanged or removed mid-run are
// reported as they ended up.
func (r *Results) seal(envs []*environment.Environment, ticks int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mazes = r.mazes[:0]
	r.envs = r.envs[:0]
	clear(r.byMaze)
	clear(r.byEnv)
	r.ticks = ticks

	for _, env := range envs {
		placements := env.Placements()
		if len(placements) == 0 {
			r.byEnv[env] = &Record{}
			r.envs = append(r.envs, env)
			if _, ok := r.byMaze[env.Maze()]; !ok {
				r.byMaze[env.Maze()] = &Record{}
				r.mazes = append(r.mazes, env.Maze())
			}
			continue
		}
		for _, p := range placements {
			if s, ok := r.finishes[env][p.Agent.ID()]; ok {
				r.recordLocked(env, s)
				continue
			}
			r.recordLocked(env, AgentSteps{
				Agent:      p.Agent,
				Steps:      p.Steps,
				Finished:   p.Finished,
				FinishTick: p.FinishTick,
			})
		}
	}
}

// Maze returns the aggregate over every environment sharing m.
func (r *Results) Maze(m *maze.Maze) Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byMaze[m].clone()
}

// Environment returns the record of env.
func (r *Results) Environment(env *environment.Environment) Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byEnv[env].clone()
}

// Mazes returns the mazes in the order they were first seen.
func (r *Results) Mazes() []*maze.Maze {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.mazes)
}

// Environments returns the environments in set order.
func (r *Results) Environments() []*environment.Environment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.envs)
}

// Ticks is the number of ticks the run took.
func (r *Results) Ticks() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ticks
}

// Winner is a shorthand for Maze(m).Winner.
func (r *Results) Winner(m *maze.Maze) agent.Agent {
	return r.Maze(m).Winner
}

// StepsOf returns the step count recorded for a in env.
func (r *Results) StepsOf(env *environment.Environment, a agent.Agent) (int, bool) {
	for _, s := range r.Environment(env).Steps {
		if s.Agent.ID() == a.ID() {
			return s.Steps, true
		}
	}
	return 0, false
}
