package api

import (
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, logger *log.Logger, deps *ServerDependencies) {
	m := deps.Manager
	e.GET("/simulation", handleGetSimulation(m))
	e.POST("/simulation/start", handleTransition(logger, m, m.Start))
	e.POST("/simulation/pause", handleTransition(logger, m, m.Pause))
	e.POST("/simulation/step", handleTransition(logger, m, m.Step))
	e.POST("/simulation/stop", handleTransition(logger, m, m.Stop))

	e.GET("/environments", handleGetEnvironments(m.Set()))
	e.POST("/environments/select", handleSelectEnvironment(m.Set()))
	e.DELETE("/environments/selected", handleRemoveSelected(logger, m.Set()))
	e.POST("/environments/selected/clone", handleCloneSelected(logger, m.Set()))
	e.POST("/environments/selected/maze", handleExchangeMaze(logger, m.Set(), deps.Mazes))
	e.POST("/environments/selected/agents", handleAddAgent(logger, m.Set(), deps.Agents))
	e.POST("/environments/selected/agents/select", handleSelectAgent(logger, m.Set()))
	e.POST("/environments/selected/agents/selected/duplicate", handleDuplicateAgent(logger, m.Set()))
	e.POST("/environments/selected/agents/load", handleLoadAgent(logger, m.Set(), deps.Agents, deps.AgentDir))
	e.POST("/environments/selected/agents/:agentId/save", handleSaveAgent(logger, m.Set(), deps.AgentDir))
	e.DELETE("/environments/selected/agents/:agentId", handleRemoveAgent(logger, m.Set()))

	e.GET("/results", handleGetResults(m))
	e.GET("/ws", handleWebsocket(logger, deps.Broker))
}
