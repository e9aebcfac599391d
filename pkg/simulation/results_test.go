package simulation

import (
	"testing"

	"github.com/boristopalov/mazerace/pkg/environment"
	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFinishAggregates(t *testing.T) {
	m := openMaze(t, 3, 3)
	other := openMaze(t, 2, 2)
	first := environment.New(m, environment.WithLogger(quiet))
	second := environment.New(m, environment.WithLogger(quiet))
	third := environment.New(other, environment.WithLogger(quiet))
	a, b, c, d := rightDown("a"), rightDown("b"), rightDown("c"), rightDown("d")

	res := NewResults()
	res.recordFinish(first, a, 7, 7)
	res.recordFinish(second, b, 4, 4)
	res.recordFinish(second, c, 4, 4)
	res.recordFinish(third, d, 2, 2)

	rec := res.Maze(m)
	assert.Equal(t, b, rec.Winner, "ties keep the first recorded agent")
	assert.Equal(t, 4, rec.TimeTakenFirst)
	assert.Equal(t, 7, rec.TimeTakenLast)
	assert.Len(t, rec.Steps, 3)

	assert.Equal(t, a, res.Environment(first).Winner)
	assert.Equal(t, d, res.Winner(other))
	assert.Equal(t, []*maze.Maze{m, other}, res.Mazes())
}

func TestRecordWithoutFinishers(t *testing.T) {
	res := NewResults()
	m := openMaze(t, 2, 2)

	rec := res.Maze(m)
	assert.Nil(t, rec.Winner)
	assert.Zero(t, rec.TimeTakenFirst)
	assert.Zero(t, rec.TimeTakenLast)
	assert.Empty(t, rec.Steps)
}

func TestSealUsesFinalPlacements(t *testing.T) {
	set := environment.NewSet()
	m := openMaze(t, 3, 3)
	env := newEnv(t, set, m, "sealed")
	stuck := rightDown("stuck")
	require.NoError(t, env.AddAgent(stuck, maze.Point{X: 2, Y: 1}))
	require.NoError(t, env.AddAgent(rightDown("idle"), maze.Point{}))

	res := NewResults()
	res.seal(set.Environments(), 0)

	rec := res.Environment(env)
	require.Len(t, rec.Steps, 2)
	assert.False(t, rec.Steps[0].Finished)
	assert.Nil(t, rec.Winner)
	assert.Equal(t, []*environment.Environment{env}, res.Environments())

	// accessors hand out copies
	rec.Steps[0].Steps = 99
	assert.Zero(t, res.Environment(env).Steps[0].Steps)
}

func TestSealKeepsRecordedFinishes(t *testing.T) {
	set := environment.NewSet()
	m := openMaze(t, 3, 3)
	env := newEnv(t, set, m, "kept")
	a, b := rightDown("a"), rightDown("b")
	require.NoError(t, env.AddAgent(a, maze.Point{}))
	require.NoError(t, env.AddAgent(b, maze.Point{}))

	res := NewResults()
	res.recordFinish(env, b, 6, 5)
	res.seal(set.Environments(), 9)

	rec := res.Environment(env)
	require.Len(t, rec.Steps, 2)
	assert.Equal(t, a, rec.Steps[0].Agent)
	assert.False(t, rec.Steps[0].Finished)
	assert.Equal(t, AgentSteps{Agent: b, Steps: 6, Finished: true, FinishTick: 5}, rec.Steps[1])
	assert.Equal(t, b, rec.Winner)
	assert.Equal(t, 5, res.Maze(m).TimeTakenFirst)
	assert.Equal(t, 9, res.Ticks())
}
