package agent

import (
	"context"
	"testing"

	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corridorMaze is a 4x3 maze with a single route from (0,0) to the exit on
// the right side of (3,2):
//
//	S . . .
//	# # # .
//	. . . . >
func corridorMaze(t *testing.T) *maze.Maze {
	t.Helper()
	m, err := maze.NewBuilder(4, 3).
		Open(maze.Point{X: 0, Y: 0}, maze.Right).
		Open(maze.Point{X: 1, Y: 0}, maze.Right).
		Open(maze.Point{X: 2, Y: 0}, maze.Right).
		Open(maze.Point{X: 3, Y: 0}, maze.Down).
		Open(maze.Point{X: 3, Y: 1}, maze.Down).
		Open(maze.Point{X: 0, Y: 2}, maze.Right).
		Open(maze.Point{X: 1, Y: 2}, maze.Right).
		Open(maze.Point{X: 2, Y: 2}, maze.Right).
		Open(maze.Point{X: 3, Y: 2}, maze.Right).
		Build()
	require.NoError(t, err)
	return m
}

func openMaze(t *testing.T) *maze.Maze {
	t.Helper()
	m, err := maze.NewBuilder(3, 3).OpenInterior().Goal(maze.GoalCells(maze.Point{X: 2, Y: 2})).Build()
	require.NoError(t, err)
	return m
}

// walk drives a single agent until it reaches the goal or runs out of ticks
// and returns the visited positions, starting position first.
func walk(t *testing.T, a Agent, m *maze.Maze, start maze.Point, limit int) []maze.Point {
	t.Helper()
	pos := start
	path := []maze.Point{pos}
	for tick := 1; tick <= limit && !m.Reached(pos); tick++ {
		d, err := a.DecideMove(context.Background(), State{Position: pos, Maze: m, Tick: tick})
		require.NoError(t, err)
		if m.CanMove(pos, d) {
			pos = pos.Move(d)
		}
		path = append(path, pos)
	}
	return path
}

func TestPriorityAgent(t *testing.T) {
	a := NewPriority([]maze.Direction{maze.Right, maze.Down}, WithName("right-down"))
	path := walk(t, a, openMaze(t), maze.Point{}, 10)

	assert.Equal(t, []maze.Point{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}, path)
	assert.Equal(t, "right-down", a.Name())
	assert.Equal(t, KindPriority, a.Kind())
}

func TestStrategiesSolveCorridor(t *testing.T) {
	cases := map[string]Agent{
		"wall follower right": NewWallFollower(RightHand, maze.Right),
		"wall follower left":  NewWallFollower(LeftHand, maze.Right),
		"dfs":                 NewDFS(),
		"bfs":                 NewBFS(),
		"table":               NewTable(nil, 8),
		"random":              NewRandomWalker(7),
	}
	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			m := corridorMaze(t)
			path := walk(t, a, m, maze.Point{}, 2000)
			assert.True(t, m.Reached(path[len(path)-1]), "did not reach the exit: %v", path)
		})
	}
}

func TestBFSFindsShortestPath(t *testing.T) {
	m := corridorMaze(t)
	path := walk(t, NewBFS(), m, maze.Point{}, 50)
	// 3 right, 2 down, 1 right out of the maze
	assert.Len(t, path, 7)
}

func TestResetMemoryReplaysSameMoves(t *testing.T) {
	agents := []Agent{
		NewRandomWalker(42),
		NewDFS(),
		NewBFS(),
		NewWallFollower(LeftHand, maze.Down),
		NewTable(map[Perception]maze.Direction{"0110": maze.Down}, 4),
	}
	for _, a := range agents {
		t.Run(a.Kind(), func(t *testing.T) {
			m := corridorMaze(t)
			first := walk(t, a, m, maze.Point{}, 40)
			a.ResetMemory()
			second := walk(t, a, m, maze.Point{}, 40)
			assert.Equal(t, first, second)
		})
	}
}

func TestClone(t *testing.T) {
	original := NewRandomWalker(3, WithName("walker"))
	m := corridorMaze(t)
	_ = walk(t, original, m, maze.Point{}, 5)

	clone := original.Clone()
	assert.NotEqual(t, original.ID(), clone.ID())
	assert.Equal(t, original.Name(), clone.Name())
	assert.Equal(t, original.Kind(), clone.Kind())

	// the clone starts from fresh memory, like the original after a reset
	original.ResetMemory()
	assert.Equal(t, walk(t, original, m, maze.Point{}, 30), walk(t, clone, m, maze.Point{}, 30))
}

func TestDFSReportsNoSolution(t *testing.T) {
	m, err := maze.NewBuilder(2, 1).Goal(maze.GoalCells(maze.Point{X: 1, Y: 0})).Build()
	require.NoError(t, err)

	d, err := NewDFS().DecideMove(context.Background(), State{Position: maze.Point{}, Maze: m})
	assert.ErrorIs(t, err, ErrNoSolution)
	assert.Equal(t, maze.None, d)
}

func TestPerceive(t *testing.T) {
	m := openMaze(t)
	assert.Equal(t, Perception("0110"), Perceive(m, maze.Point{}))
	assert.Equal(t, Perception("1111"), Perceive(m, maze.Point{X: 1, Y: 1}))
}

func TestFactory(t *testing.T) {
	f := NewFactory(Deps{})

	t.Run("known kinds", func(t *testing.T) {
		assert.Subset(t, Kinds(), []string{KindPriority, KindWallFollower, KindRandom, KindTable, KindDFS, KindBFS, KindLLM})
	})

	t.Run("priority from params", func(t *testing.T) {
		a, err := f.New(KindPriority, Params{"order": "right, down"}, WithName("p"))
		require.NoError(t, err)
		path := walk(t, a, openMaze(t), maze.Point{}, 10)
		assert.Equal(t, maze.Point{X: 2, Y: 2}, path[len(path)-1])
	})

	t.Run("table from params", func(t *testing.T) {
		a, err := f.New(KindTable, Params{"table": map[string]any{"0110": "down"}})
		require.NoError(t, err)
		d, err := a.DecideMove(context.Background(), State{Position: maze.Point{}, Maze: openMaze(t)})
		require.NoError(t, err)
		assert.Equal(t, maze.Down, d)
	})

	t.Run("bad params", func(t *testing.T) {
		_, err := f.New(KindPriority, Params{"order": []any{"up", "sideways"}})
		assert.Error(t, err)
		_, err = f.New(KindTable, Params{"table": map[string]any{"01": "down"}})
		assert.Error(t, err)
		_, err = f.New(KindWallFollower, Params{"hand": "third"})
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := f.New("teleporter", nil)
		assert.Error(t, err)
	})

	t.Run("llm needs a provider", func(t *testing.T) {
		_, err := f.New(KindLLM, nil)
		assert.Error(t, err)
	})
}

func TestParamsRebuildAgent(t *testing.T) {
	f := NewFactory(Deps{})
	agents := []Agent{
		NewPriority([]maze.Direction{maze.Down, maze.Right}),
		NewWallFollower(LeftHand, maze.Down),
		NewRandomWalker(99),
		NewTable(map[Perception]maze.Direction{"0110": maze.Down}, 4),
		NewDFS(),
		NewBFS(),
	}
	for _, a := range agents {
		t.Run(a.Kind(), func(t *testing.T) {
			rebuilt, err := f.New(a.Kind(), a.Params())
			require.NoError(t, err)
			assert.Equal(t, a.Params(), rebuilt.Params())

			m := corridorMaze(t)
			assert.Equal(t, walk(t, a, m, maze.Point{}, 40), walk(t, rebuilt, m, maze.Point{}, 40))
		})
	}
}
