package api

import (
	"net/http"
	"time"

	"github.com/boristopalov/mazerace/pkg/agent"
	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/boristopalov/mazerace/pkg/messaging"
	"github.com/boristopalov/mazerace/pkg/simulation"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// MazeSource resolves the maze names accepted by the maze exchange route.
type MazeSource interface {
	Maze(name string) (*maze.Maze, error)
}

type ServerDependencies struct {
	Manager  *simulation.Manager
	Agents   *agent.Factory
	Broker   messaging.Broker
	Mazes    MazeSource
	AgentDir string
}

func NewServer(logger *log.Logger, deps *ServerDependencies) *http.Server {
	e := newEcho(logger, deps)
	server := &http.Server{
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       25 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		ErrorLog:          logger.StandardLog(),
		MaxHeaderBytes:    1 << 12,
	}
	return server
}

func newEcho(logger *log.Logger, deps *ServerDependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	registerRoutes(e, logger, deps)
	return e
}
