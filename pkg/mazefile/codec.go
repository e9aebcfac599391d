// Package mazefile reads and writes mazes as ASCII drawings.
//
// A w x h maze is drawn on a (2h+1) x (2w+1) character grid. Cell (x, y)
// sits at row 2y+1, column 2x+1; the characters between cells are walls
// when they are '#' and passages otherwise. Gaps in the outer border are
// exits. A cell marked 'S' is the default start; cells marked 'E' are goal
// cells and '*' marks a start that is also a goal. A maze without goal
// cells is solved by leaving it through an exit.
//
//	#######
//	#S    #
//	### # #
//	#   #E#
//	#######
package mazefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/boristopalov/mazerace/pkg/maze"
)

const (
	wallChar  = '#'
	startChar = 'S'
	goalChar  = 'E'
	bothChar  = '*'
)

// Parse reads one maze drawing from r.
func Parse(r io.Reader) (*maze.Maze, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rows = append(rows, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read maze: %w", err)
	}
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if len(rows) < 3 || len(rows)%2 == 0 || cols < 3 || cols%2 == 0 {
		return nil, fmt.Errorf("maze drawing must be an odd grid of at least 3x3 characters, got %d rows of %d", len(rows), cols)
	}
	grid := make([][]byte, len(rows))
	for i, row := range rows {
		grid[i] = []byte(row + strings.Repeat(" ", cols-len(row)))
	}

	width, height := (cols-1)/2, (len(rows)-1)/2
	b := maze.NewBuilder(width, height)
	var goals []maze.Point
	for y := range height {
		for x := range width {
			p := maze.Point{X: x, Y: y}
			row, col := 2*y+1, 2*x+1
			switch grid[row][col] {
			case startChar:
				b.Start(p)
			case goalChar:
				goals = append(goals, p)
			case bothChar:
				b.Start(p)
				goals = append(goals, p)
			case wallChar:
				return nil, fmt.Errorf("cell %s is drawn as a wall", p)
			}
			if grid[row][col+1] != wallChar {
				b.Open(p, maze.Right)
			}
			if grid[row+1][col] != wallChar {
				b.Open(p, maze.Down)
			}
			if x == 0 && grid[row][0] != wallChar {
				b.Open(p, maze.Left)
			}
			if y == 0 && grid[0][col] != wallChar {
				b.Open(p, maze.Up)
			}
		}
	}
	if len(goals) > 0 {
		b.Goal(maze.GoalCells(goals...))
	}
	m, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build maze: %w", err)
	}
	return m, nil
}

// ParseString is Parse for an in-memory drawing.
func ParseString(s string) (*maze.Maze, error) {
	return Parse(strings.NewReader(s))
}

// Write draws m to w in the format Parse reads.
func Write(w io.Writer, m *maze.Maze) error {
	width, height := m.Dimensions()
	grid := make([][]byte, 2*height+1)
	for i := range grid {
		grid[i] = bytes.Repeat([]byte{wallChar}, 2*width+1)
	}

	for y := range height {
		for x := range width {
			p := maze.Point{X: x, Y: y}
			row, col := 2*y+1, 2*x+1
			switch {
			case p == m.Start() && m.Reached(p):
				grid[row][col] = bothChar
			case p == m.Start():
				grid[row][col] = startChar
			case m.Reached(p):
				grid[row][col] = goalChar
			default:
				grid[row][col] = ' '
			}
			if m.CanMove(p, maze.Right) {
				grid[row][col+1] = ' '
			}
			if m.CanMove(p, maze.Down) {
				grid[row+1][col] = ' '
			}
			if m.CanMove(p, maze.Left) {
				grid[row][col-1] = ' '
			}
			if m.CanMove(p, maze.Up) {
				grid[row-1][col] = ' '
			}
		}
	}

	bw := bufio.NewWriter(w)
	for _, row := range grid {
		bw.Write(row)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Format returns the drawing of m as a string.
func Format(m *maze.Maze) string {
	var sb strings.Builder
	_ = Write(&sb, m)
	return sb.String()
}
