package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	t.Run("drops oldest when full", func(t *testing.T) {
		m := NewMemory[int](3)
		for i := range 5 {
			m.Store(i)
		}
		assert.Equal(t, []int{2, 3, 4}, m.All())
		assert.Equal(t, 3, m.Len())
	})

	t.Run("recent", func(t *testing.T) {
		m := NewMemory[string](10)
		m.Store("a")
		m.Store("b")
		m.Store("c")
		assert.Equal(t, []string{"b", "c"}, m.Recent(2))
		assert.Equal(t, []string{"a", "b", "c"}, m.Recent(50))
		assert.Empty(t, m.Recent(0))
	})

	t.Run("all returns a copy", func(t *testing.T) {
		m := NewMemory[int](2)
		m.Store(1)
		all := m.All()
		all[0] = 42
		assert.Equal(t, []int{1}, m.All())
	})

	t.Run("reset", func(t *testing.T) {
		m := NewMemory[int](2)
		m.Store(1)
		m.Reset()
		assert.Equal(t, 0, m.Len())
		assert.Equal(t, 2, m.Capacity())
	})
}
