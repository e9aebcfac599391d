package maze

import (
	"fmt"
	"slices"
	"strings"
)

// Goal decides whether a position counts as arrived.
type Goal interface {
	Reached(v View, p Point) bool
	String() string
}

type goalCells struct {
	cells []Point
}

// GoalCells is reached when the agent stands on one of the given cells.
func GoalCells(cells ...Point) Goal {
	return goalCells{cells: slices.Clone(cells)}
}

func (g goalCells) Reached(_ View, p Point) bool {
	return slices.Contains(g.cells, p)
}

func (g goalCells) String() string {
	parts := make([]string, 0, len(g.cells))
	for _, c := range g.cells {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("cells[%s]", strings.Join(parts, " "))
}

type goalExit struct{}

// GoalExit is reached once the agent has left the grid through a border
// opening, i.e. the maze no longer contains its position.
func GoalExit() Goal {
	return goalExit{}
}

func (goalExit) Reached(v View, p Point) bool {
	return !v.ContainsPoint(p)
}

func (goalExit) String() string {
	return "exit"
}
