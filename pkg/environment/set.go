package environment

import (
	"fmt"
	"slices"
	"sync"

	"github.com/boristopalov/mazerace/pkg/agent"
	"github.com/boristopalov/mazerace/pkg/core"
	"github.com/boristopalov/mazerace/pkg/maze"
)

// Set is the ordered collection of environments sharing one simulation
// clock. While frozen (the simulation is running) every structural
// mutation fails with core.ErrBusy.
type Set struct {
	envs     []*Environment
	selected int
	zoom     float64
	frozen   bool
	mu       sync.RWMutex
}

func NewSet() *Set {
	return &Set{
		envs:     make([]*Environment, 0),
		selected: noSelection,
		zoom:     1,
	}
}

func (s *Set) checkMutable(op string) error {
	if s.frozen {
		return fmt.Errorf("%s: %w", op, core.ErrBusy)
	}
	return nil
}

// Add appends env to the set.
func (s *Set) Add(env *Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable("add environment"); err != nil {
		return err
	}
	if slices.Contains(s.envs, env) {
		return fmt.Errorf("add environment %s: already in set: %w", env.Title(), core.ErrInvalidOperation)
	}
	for _, a := range env.Agents() {
		if s.holderOf(a) != nil {
			return fmt.Errorf("add environment %s: agent %s already placed: %w", env.Title(), a.Name(), core.ErrInvalidOperation)
		}
	}
	s.envs = append(s.envs, env)
	return nil
}

// Remove takes env out of the set, adjusting the selection.
func (s *Set) Remove(env *Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable("remove environment"); err != nil {
		return err
	}
	i := slices.Index(s.envs, env)
	if i < 0 {
		return fmt.Errorf("remove environment %s: not in set: %w", env.Title(), core.ErrInvalidOperation)
	}
	s.removeAt(i)
	return nil
}

// RemoveSelected removes the selected environment and clears the selection.
func (s *Set) RemoveSelected() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable("remove selected environment"); err != nil {
		return err
	}
	if s.selected == noSelection {
		return fmt.Errorf("remove selected environment: %w", core.ErrNoSelection)
	}
	s.removeAt(s.selected)
	return nil
}

func (s *Set) removeAt(i int) {
	s.envs = slices.Delete(s.envs, i, i+1)
	switch {
	case s.selected == i:
		s.selected = noSelection
	case s.selected > i:
		s.selected--
	}
}

// Select makes the i-th environment current; -1 clears the selection.
func (s *Set) Select(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i == noSelection {
		s.selected = noSelection
		return nil
	}
	if i < 0 || i >= len(s.envs) {
		return fmt.Errorf("select environment %d of %d: %w", i, len(s.envs), core.ErrInvalidOperation)
	}
	s.selected = i
	return nil
}

func (s *Set) Selected() (*Environment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedLocked()
}

func (s *Set) selectedLocked() (*Environment, error) {
	if s.selected == noSelection {
		return nil, fmt.Errorf("no environment selected: %w", core.ErrNoSelection)
	}
	return s.envs[s.selected], nil
}

// SelectedIndex returns the selection index, or -1 when nothing is selected.
func (s *Set) SelectedIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Environments returns the environments in step order.
func (s *Set) Environments() []*Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.envs)
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.envs)
}

// Zoom is a display scale carried for presentation layers.
func (s *Set) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

func (s *Set) SetZoom(zoom float64) {
	if zoom <= 0 {
		return
	}
	s.mu.Lock()
	s.zoom = zoom
	s.mu.Unlock()
}

// ExchangeMaze swaps env for a new environment on m carrying the same
// agents at the same positions. If m cannot host them the set is left
// unchanged.
func (s *Set) ExchangeMaze(env *Environment, m *maze.Maze) (*Environment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable("exchange maze"); err != nil {
		return nil, err
	}
	i := slices.Index(s.envs, env)
	if i < 0 {
		return nil, fmt.Errorf("exchange maze: %s not in set: %w", env.Title(), core.ErrInvalidOperation)
	}
	replacement, err := env.rehost(m)
	if err != nil {
		return nil, fmt.Errorf("exchange maze: %w", err)
	}
	s.envs[i] = replacement
	return replacement, nil
}

// AddAgentToSelected places a in the selected environment. An agent may
// only live in one environment of the set.
func (s *Set) AddAgentToSelected(a agent.Agent, start maze.Point) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkMutable("add agent"); err != nil {
		return err
	}
	env, err := s.selectedLocked()
	if err != nil {
		return fmt.Errorf("add agent %s: %w", a.Name(), err)
	}
	if holder := s.holderOf(a); holder != nil {
		return fmt.Errorf("add agent %s: already in %s: %w", a.Name(), holder.Title(), core.ErrInvalidOperation)
	}
	return env.AddAgent(a, start)
}

// RemoveAgentFrom removes a from env.
func (s *Set) RemoveAgentFrom(env *Environment, a agent.Agent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkMutable("remove agent"); err != nil {
		return err
	}
	if env == nil {
		return fmt.Errorf("remove agent %s: %w", a.Name(), core.ErrNoSelection)
	}
	if !slices.Contains(s.envs, env) {
		return fmt.Errorf("remove agent %s: %s not in set: %w", a.Name(), env.Title(), core.ErrInvalidOperation)
	}
	return env.RemoveAgent(a)
}

// RemoveSelectedAgent removes the selected agent of the selected environment.
func (s *Set) RemoveSelectedAgent() error {
	env, err := s.Selected()
	if err != nil {
		return fmt.Errorf("remove selected agent: %w", err)
	}
	a, err := env.SelectedAgent()
	if err != nil {
		return fmt.Errorf("remove selected agent: %w", err)
	}
	return s.RemoveAgentFrom(env, a)
}

// CloneSelected adds a new environment on the selected environment's maze
// populated with clones of its agents at their start cells.
func (s *Set) CloneSelected() (*Environment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable("clone environment"); err != nil {
		return nil, err
	}
	env, err := s.selectedLocked()
	if err != nil {
		return nil, fmt.Errorf("clone environment: %w", err)
	}

	clone := New(env.Maze(), WithTitle(env.Title()+" (copy)"), WithLogger(env.logger))
	for _, p := range env.Placements() {
		if err := clone.AddAgent(p.Agent.Clone(), p.Start); err != nil {
			return nil, fmt.Errorf("clone environment: %w", err)
		}
	}
	s.envs = append(s.envs, clone)
	return clone, nil
}

// DuplicateSelectedAgent clones the selected agent of the selected
// environment into the same environment, at the original's start cell.
func (s *Set) DuplicateSelectedAgent() (agent.Agent, error) {
	env, err := s.Selected()
	if err != nil {
		return nil, fmt.Errorf("duplicate agent: %w", err)
	}
	a, err := env.SelectedAgent()
	if err != nil {
		return nil, fmt.Errorf("duplicate agent: %w", err)
	}
	p, _ := env.Placement(a)
	clone := a.Clone()
	if err := s.AddAgentToSelected(clone, p.Start); err != nil {
		return nil, err
	}
	return clone, nil
}

// Freeze blocks structural mutation of the set and all its environments.
func (s *Set) Freeze() {
	s.setFrozen(true)
}

// Thaw undoes Freeze.
func (s *Set) Thaw() {
	s.setFrozen(false)
}

func (s *Set) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

func (s *Set) setFrozen(frozen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = frozen
	for _, env := range s.envs {
		env.setFrozen(frozen)
	}
}

// Reset resets every environment for a fresh run.
func (s *Set) Reset() {
	for _, env := range s.Environments() {
		env.Reset()
	}
}

// ResetMemory resets every agent's memory in every environment.
func (s *Set) ResetMemory() {
	for _, env := range s.Environments() {
		env.ResetMemory()
	}
}

func (s *Set) holderOf(a agent.Agent) *Environment {
	for _, env := range s.envs {
		if env.Contains(a) {
			return env
		}
	}
	return nil
}
