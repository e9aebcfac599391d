package simulation

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/boristopalov/mazerace/pkg/agent"
	"github.com/boristopalov/mazerace/pkg/environment"
	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

var quiet = log.New(io.Discard)

// openMaze has no inner walls and a single goal cell in the bottom right
// corner.
func openMaze(t *testing.T, w, h int) *maze.Maze {
	t.Helper()
	return maze.NewBuilder(w, h).
		OpenInterior().
		Goal(maze.GoalCells(maze.Point{X: w - 1, Y: h - 1})).
		MustBuild()
}

// sealedMaze has a goal nobody can reach.
func sealedMaze(t *testing.T) *maze.Maze {
	t.Helper()
	return maze.NewBuilder(2, 2).Goal(maze.GoalCells(maze.Point{X: 1, Y: 1})).MustBuild()
}

func rightDown(name string) agent.Agent {
	return agent.NewPriority([]maze.Direction{maze.Right, maze.Down}, agent.WithName(name))
}

func newEnv(t *testing.T, set *environment.Set, m *maze.Maze, title string) *environment.Environment {
	t.Helper()
	env := environment.New(m, environment.WithTitle(title), environment.WithLogger(quiet))
	require.NoError(t, set.Add(env))
	return env
}

func awaitResults(t *testing.T, ch <-chan *Results) *Results {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for results")
	}
	return nil
}

func waitLoop(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Wait(ctx))
}
