package api

import (
	"net/http"

	"github.com/boristopalov/mazerace/pkg/simulation"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

func handleGetSimulation(m *simulation.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, m.Status())
	}
}

func handleTransition(logger *log.Logger, m *simulation.Manager, transition func() error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := transition(); err != nil {
			return respondError(c, logger, err)
		}
		return c.JSON(http.StatusOK, m.Status())
	}
}

type agentResult struct {
	Name       string `json:"name"`
	Steps      int    `json:"steps"`
	Finished   bool   `json:"finished"`
	FinishTick int    `json:"finish_tick,omitempty"`
}

type recordView struct {
	TimeTakenFirst int           `json:"time_taken_first"`
	TimeTakenLast  int           `json:"time_taken_last"`
	Winner         string        `json:"winner,omitempty"`
	Agents         []agentResult `json:"agents"`
}

type envResult struct {
	Title string `json:"title"`
	recordView
}

type mazeResult struct {
	Size string `json:"size"`
	recordView
	Environments []envResult `json:"environments"`
}

type resultsView struct {
	Ticks int          `json:"ticks"`
	Mazes []mazeResult `json:"mazes"`
}

func newRecordView(r simulation.Record) recordView {
	v := recordView{
		TimeTakenFirst: r.TimeTakenFirst,
		TimeTakenLast:  r.TimeTakenLast,
		Agents:         make([]agentResult, len(r.Steps)),
	}
	if r.Winner != nil {
		v.Winner = r.Winner.Name()
	}
	for i, s := range r.Steps {
		v.Agents[i] = agentResult{
			Name:       s.Agent.Name(),
			Steps:      s.Steps,
			Finished:   s.Finished,
			FinishTick: s.FinishTick,
		}
	}
	return v
}

func newResultsView(res *simulation.Results) resultsView {
	view := resultsView{Ticks: res.Ticks(), Mazes: []mazeResult{}}
	envs := res.Environments()
	for _, m := range res.Mazes() {
		mr := mazeResult{
			Size:         m.String(),
			recordView:   newRecordView(res.Maze(m)),
			Environments: []envResult{},
		}
		for _, env := range envs {
			if env.Maze() == m {
				mr.Environments = append(mr.Environments, envResult{
					Title:      env.Title(),
					recordView: newRecordView(res.Environment(env)),
				})
			}
		}
		view.Mazes = append(view.Mazes, mr)
	}
	return view
}

func handleGetResults(m *simulation.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		res := m.LastResults()
		if res == nil {
			return c.JSON(http.StatusNotFound, errorBody{Error: "no completed run yet"})
		}
		return c.JSON(http.StatusOK, newResultsView(res))
	}
}
