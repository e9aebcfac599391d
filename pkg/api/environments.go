package api

import (
	"fmt"
	"net/http"

	"github.com/boristopalov/mazerace/pkg/agent"
	"github.com/boristopalov/mazerace/pkg/core"
	"github.com/boristopalov/mazerace/pkg/environment"
	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

type placementView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Start      maze.Point `json:"start"`
	Position   maze.Point `json:"position"`
	Steps      int        `json:"steps"`
	Finished   bool       `json:"finished"`
	FinishTick int        `json:"finish_tick,omitempty"`
}

type environmentView struct {
	Index    int             `json:"index"`
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Maze     string          `json:"maze"`
	Goal     string          `json:"goal"`
	Selected bool            `json:"selected"`
	Done     bool            `json:"done"`
	Agents   []placementView `json:"agents"`
}

type environmentsView struct {
	Zoom         float64           `json:"zoom"`
	Frozen       bool              `json:"frozen"`
	Environments []environmentView `json:"environments"`
}

func newEnvironmentView(i int, env *environment.Environment, selected bool) environmentView {
	placements := env.Placements()
	view := environmentView{
		Index:    i,
		ID:       env.ID(),
		Title:    env.Title(),
		Maze:     env.Maze().String(),
		Goal:     env.Maze().Goal().String(),
		Selected: selected,
		Done:     env.Done(),
		Agents:   make([]placementView, len(placements)),
	}
	for j, p := range placements {
		view.Agents[j] = newPlacementView(p)
	}
	return view
}

func newPlacementView(p environment.Placement) placementView {
	return placementView{
		ID:         p.Agent.ID(),
		Name:       p.Agent.Name(),
		Kind:       p.Agent.Kind(),
		Start:      p.Start,
		Position:   p.Position,
		Steps:      p.Steps,
		Finished:   p.Finished,
		FinishTick: p.FinishTick,
	}
}

func handleGetEnvironments(set *environment.Set) echo.HandlerFunc {
	return func(c echo.Context) error {
		selected := set.SelectedIndex()
		envs := set.Environments()
		view := environmentsView{
			Zoom:         set.Zoom(),
			Frozen:       set.Frozen(),
			Environments: make([]environmentView, len(envs)),
		}
		for i, env := range envs {
			view.Environments[i] = newEnvironmentView(i, env, i == selected)
		}
		return c.JSON(http.StatusOK, view)
	}
}

func handleSelectEnvironment(set *environment.Set) echo.HandlerFunc {
	type request struct {
		Index int `json:"index"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		}
		if err := set.Select(req.Index); err != nil {
			return c.JSON(statusFor(err), errorBody{Error: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func handleRemoveSelected(logger *log.Logger, set *environment.Set) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := set.RemoveSelected(); err != nil {
			return respondError(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func handleCloneSelected(logger *log.Logger, set *environment.Set) echo.HandlerFunc {
	return func(c echo.Context) error {
		clone, err := set.CloneSelected()
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(http.StatusCreated, newEnvironmentView(set.Len()-1, clone, false))
	}
}

func handleAddAgent(logger *log.Logger, set *environment.Set, factory *agent.Factory) echo.HandlerFunc {
	type request struct {
		Kind   string         `json:"kind"`
		Name   string         `json:"name"`
		Start  *maze.Point    `json:"start"`
		Params map[string]any `json:"params"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		}

		env, err := set.Selected()
		if err != nil {
			return respondError(c, logger, err)
		}
		var opts []agent.AgentOption
		if req.Name != "" {
			opts = append(opts, agent.WithName(req.Name))
		}
		a, err := factory.New(req.Kind, req.Params, opts...)
		if err != nil {
			return respondError(c, logger, fmt.Errorf("%w: %w", core.ErrInvalidOperation, err))
		}

		start := env.Maze().Start()
		if req.Start != nil {
			start = *req.Start
		}
		if err := set.AddAgentToSelected(a, start); err != nil {
			return respondError(c, logger, err)
		}
		p, _ := env.Placement(a)
		return c.JSON(http.StatusCreated, newPlacementView(p))
	}
}

func handleRemoveAgent(logger *log.Logger, set *environment.Set) echo.HandlerFunc {
	return func(c echo.Context) error {
		env, err := set.Selected()
		if err != nil {
			return respondError(c, logger, err)
		}
		a, ok := findAgent(env, c.Param("agentId"))
		if !ok {
			return agentNotFound(c, env)
		}
		if err := set.RemoveAgentFrom(env, a); err != nil {
			return respondError(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func findAgent(env *environment.Environment, id string) (agent.Agent, bool) {
	for _, a := range env.Agents() {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

func agentNotFound(c echo.Context, env *environment.Environment) error {
	return c.JSON(http.StatusNotFound, errorBody{Error: fmt.Sprintf("agent %s not in %s", c.Param("agentId"), env.Title())})
}

func handleExchangeMaze(logger *log.Logger, set *environment.Set, mazes MazeSource) echo.HandlerFunc {
	type request struct {
		Maze string `json:"maze"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		}

		env, err := set.Selected()
		if err != nil {
			return respondError(c, logger, err)
		}
		if mazes == nil {
			return respondError(c, logger, fmt.Errorf("no mazes to exchange with: %w", core.ErrInvalidOperation))
		}
		m, err := mazes.Maze(req.Maze)
		if err != nil {
			return respondError(c, logger, err)
		}
		replacement, err := set.ExchangeMaze(env, m)
		if err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(http.StatusOK, newEnvironmentView(set.SelectedIndex(), replacement, true))
	}
}
