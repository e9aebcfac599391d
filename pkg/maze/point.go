package maze

import (
	"fmt"
	"strings"
)

// Point is a cell coordinate. X grows to the right, Y grows downwards.
type Point struct {
	X int `json:"x" mapstructure:"x"`
	Y int `json:"y" mapstructure:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Move returns the point one cell away in direction d.
func (p Point) Move(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

type Direction int

const (
	None Direction = iota
	Up
	Right
	Down
	Left
)

// Directions lists the four movement directions in clockwise order.
var Directions = [...]Direction{Up, Right, Down, Left}

func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	}
	return None
}

// Clockwise rotates d a quarter turn to the right.
func (d Direction) Clockwise() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	}
	return None
}

// CounterClockwise rotates d a quarter turn to the left.
func (d Direction) CounterClockwise() Direction {
	return d.Clockwise().Opposite()
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Right:
		return "RIGHT"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	}
	return "NONE"
}

// ParseDirection accepts UP/RIGHT/DOWN/LEFT (and compass names), case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP", "NORTH", "N":
		return Up, nil
	case "RIGHT", "EAST", "E":
		return Right, nil
	case "DOWN", "SOUTH", "S":
		return Down, nil
	case "LEFT", "WEST", "W":
		return Left, nil
	case "NONE", "STAY", "":
		return None, nil
	}
	return None, fmt.Errorf("unknown direction %q", s)
}

// directionBetween returns the direction leading from a to an adjacent b.
func directionBetween(a, b Point) (Direction, bool) {
	for _, d := range Directions {
		if a.Move(d) == b {
			return d, true
		}
	}
	return None, false
}
