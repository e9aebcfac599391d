package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
name: head to head
ticks_per_second: 20
mazes:
  - name: small
    path: mazes/small.maze
environments:
  - title: reactive
    maze: small
    agents:
      - kind: priority
        name: right-down
        start: {x: 1, y: 2}
        params:
          order: RIGHT,DOWN
      - kind: random
        count: 3
        params:
          seed: 7
  - title: search
    maze: small
    agents:
      - kind: bfs
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "race.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, sample)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "head to head", cfg.Name)
	assert.Equal(t, 20.0, cfg.TicksPerSecond)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "openai", cfg.Provider.Name)
	assert.Equal(t, 6565, cfg.Server.Port)

	mazePath, ok := cfg.MazePath("small")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "mazes", "small.maze"), mazePath)

	require.Len(t, cfg.Environments, 2)
	agents := cfg.Environments[0].Agents
	require.Len(t, agents, 2)
	assert.Equal(t, &maze.Point{X: 1, Y: 2}, agents[0].Start)
	assert.Equal(t, 1, agents[0].Count)
	assert.Equal(t, "RIGHT,DOWN", agents[0].Params["order"])
	assert.Nil(t, agents[1].Start)
	assert.Equal(t, 3, agents[1].Count)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MAZERACE_MAX_TICKS", "250")
	t.Setenv("MAZERACE_PROVIDER_MODEL", "gemini-2.0-flash-exp")

	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.MaxTicks)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.Provider.Model)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown maze", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
environments:
  - title: lost
    maze: nowhere
    agents:
      - kind: dfs
`))
		assert.ErrorContains(t, err, `unknown maze "nowhere"`)
	})

	t.Run("missing kind", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
mazes:
  - name: m
    path: m.maze
environments:
  - maze: m
    agents:
      - name: nobody
`))
		assert.ErrorContains(t, err, "missing kind")
	})
}
