package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("rejects bad dimensions", func(t *testing.T) {
		_, err := NewBuilder(0, 3).Build()
		assert.Error(t, err)
	})

	t.Run("rejects start outside", func(t *testing.T) {
		_, err := NewBuilder(2, 2).Open(Point{0, 0}, Left).Start(Point{5, 5}).Build()
		assert.Error(t, err)
	})

	t.Run("exit goal needs an opening", func(t *testing.T) {
		_, err := NewBuilder(2, 2).OpenInterior().Build()
		assert.Error(t, err)

		m, err := NewBuilder(2, 2).OpenInterior().Open(Point{1, 1}, Down).Build()
		require.NoError(t, err)
		assert.Equal(t, []Exit{{Cell: Point{1, 1}, Dir: Down}}, m.Exits())
	})
}

func TestWallsAreSymmetric(t *testing.T) {
	m := NewBuilder(3, 3).
		OpenInterior().
		Close(Point{1, 1}, Right).
		Goal(GoalCells(Point{2, 2})).
		MustBuild()

	assert.True(t, m.IsWall(Point{1, 1}, Point{2, 1}))
	assert.True(t, m.IsWall(Point{2, 1}, Point{1, 1}))
	assert.False(t, m.CanMove(Point{2, 1}, Left))
	assert.False(t, m.IsWall(Point{0, 0}, Point{1, 0}))
	assert.False(t, m.IsWall(Point{1, 0}, Point{0, 0}))

	// not adjacent
	assert.True(t, m.IsWall(Point{0, 0}, Point{2, 2}))
	// border without an exit
	assert.True(t, m.IsWall(Point{0, 0}, Point{-1, 0}))
	assert.False(t, m.CanMove(Point{0, 0}, Up))
}

func TestContainsAndGoals(t *testing.T) {
	m := NewBuilder(3, 3).OpenInterior().Open(Point{2, 2}, Right).MustBuild()

	w, h := m.Dimensions()
	assert.Equal(t, 3, w)
	assert.Equal(t, 3, h)

	assert.True(t, m.ContainsPoint(Point{0, 0}))
	assert.True(t, m.ContainsPoint(Point{2, 2}))
	assert.False(t, m.ContainsPoint(Point{3, 2}))
	assert.False(t, m.ContainsPoint(Point{-1, 0}))

	assert.Equal(t, "exit", m.Goal().String())
	assert.False(t, m.Reached(Point{2, 2}))
	assert.True(t, m.CanMove(Point{2, 2}, Right))
	assert.True(t, m.Reached(Point{2, 2}.Move(Right)))
	assert.False(t, m.IsWall(Point{3, 2}, Point{2, 2}))

	cells := NewBuilder(3, 3).OpenInterior().Goal(GoalCells(Point{2, 2})).MustBuild()
	assert.True(t, cells.Reached(Point{2, 2}))
	assert.False(t, cells.Reached(Point{1, 2}))
}

func TestNeighbours(t *testing.T) {
	m := NewBuilder(3, 3).OpenInterior().Goal(GoalCells(Point{2, 2})).MustBuild()

	assert.Equal(t, []Direction{Right, Down}, m.Neighbours(Point{0, 0}))
	assert.Equal(t, []Direction{Up, Right, Down, Left}, m.Neighbours(Point{1, 1}))
	assert.Empty(t, m.Neighbours(Point{7, 7}))
}

func TestDirections(t *testing.T) {
	for _, d := range Directions {
		assert.Equal(t, d, d.Opposite().Opposite())
		assert.Equal(t, d, d.Clockwise().CounterClockwise())
		parsed, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}

	d, err := ParseDirection(" east ")
	require.NoError(t, err)
	assert.Equal(t, Right, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestAdmits(t *testing.T) {
	inner := NewBuilder(3, 1).
		OpenInterior().
		Open(Point{0, 0}, Left).
		Goal(GoalCells(Point{2, 0})).
		MustBuild()

	assert.True(t, inner.CanMove(Point{0, 0}, Left))
	assert.False(t, inner.Admits(Point{0, 0}, Left))
	assert.True(t, inner.Admits(Point{0, 0}, Right))
	assert.True(t, inner.Admits(Point{0, 0}, None))
	assert.Equal(t, []Direction{Right}, inner.Neighbours(Point{0, 0}))

	exit := NewBuilder(3, 1).OpenInterior().Open(Point{0, 0}, Left).MustBuild()
	assert.True(t, exit.Admits(Point{0, 0}, Left))
}
