package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/boristopalov/mazerace/pkg/agent"
	"github.com/boristopalov/mazerace/pkg/config"
	"github.com/boristopalov/mazerace/pkg/core"
	"github.com/boristopalov/mazerace/pkg/environment"
	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

func handleSelectAgent(logger *log.Logger, set *environment.Set) echo.HandlerFunc {
	type request struct {
		Index int `json:"index"`
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
		if err := env.SelectAgent(req.Index); err != nil {
			return respondError(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func handleDuplicateAgent(logger *log.Logger, set *environment.Set) echo.HandlerFunc {
	return func(c echo.Context) error {
		dup, err := set.DuplicateSelectedAgent()
		if err != nil {
			return respondError(c, logger, err)
		}
		env, err := set.Selected()
		if err != nil {
			return respondError(c, logger, err)
		}
		p, _ := env.Placement(dup)
		return c.JSON(http.StatusCreated, newPlacementView(p))
	}
}

// agentFile maps a requested file name into dir. Only the base name is
// used, so requests cannot reach outside the agent directory.
func agentFile(dir, file string) (string, error) {
	name := filepath.Base(file)
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
	default:
		return "", fmt.Errorf("agent file %q must end in .yaml, .yml or .json: %w", file, core.ErrInvalidOperation)
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name), nil
}

func handleSaveAgent(logger *log.Logger, set *environment.Set, dir string) echo.HandlerFunc {
	type request struct {
		File string `json:"file"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		}
		path, err := agentFile(dir, req.File)
		if err != nil {
			return respondError(c, logger, err)
		}

		env, err := set.Selected()
		if err != nil {
			return respondError(c, logger, err)
		}
		a, ok := findAgent(env, c.Param("agentId"))
		if !ok {
			return agentNotFound(c, env)
		}
		p, _ := env.Placement(a)
		start := p.Start

		if err := config.SaveAgent(path, config.AgentConfig{
			Kind:   a.Kind(),
			Name:   a.Name(),
			Start:  &start,
			Params: a.Params(),
		}); err != nil {
			return respondError(c, logger, err)
		}
		logger.Info("saved agent", "agent", a.Name(), "file", path)
		return c.JSON(http.StatusCreated, map[string]string{"file": filepath.Base(path)})
	}
}

func handleLoadAgent(logger *log.Logger, set *environment.Set, factory *agent.Factory, dir string) echo.HandlerFunc {
	type request struct {
		File  string      `json:"file"`
		Start *maze.Point `json:"start"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		}
		path, err := agentFile(dir, req.File)
		if err != nil {
			return respondError(c, logger, err)
		}

		env, err := set.Selected()
		if err != nil {
			return respondError(c, logger, err)
		}
		saved, err := config.LoadAgent(path)
		if errors.Is(err, fs.ErrNotExist) {
			return c.JSON(http.StatusNotFound, errorBody{Error: fmt.Sprintf("no agent file %s", filepath.Base(path))})
		}
		if err != nil {
			return respondError(c, logger, fmt.Errorf("%w: %w", core.ErrInvalidOperation, err))
		}

		var opts []agent.AgentOption
		if saved.Name != "" {
			opts = append(opts, agent.WithName(saved.Name))
		}
		a, err := factory.New(saved.Kind, saved.Params, opts...)
		if err != nil {
			return respondError(c, logger, fmt.Errorf("%w: %w", core.ErrInvalidOperation, err))
		}

		start := env.Maze().Start()
		switch {
		case req.Start != nil:
			start = *req.Start
		case saved.Start != nil:
			start = *saved.Start
		}
		if err := set.AddAgentToSelected(a, start); err != nil {
			return respondError(c, logger, err)
		}
		p, _ := env.Placement(a)
		return c.JSON(http.StatusCreated, newPlacementView(p))
	}
}
