package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadAgent(t *testing.T) {
	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "agents", "alice"+ext)
			require.NoError(t, SaveAgent(path, AgentConfig{
				Kind:   "priority",
				Name:   "alice",
				Start:  &maze.Point{X: 2, Y: 1},
				Params: map[string]any{"order": "RIGHT,DOWN"},
			}))

			a, err := LoadAgent(path)
			require.NoError(t, err)
			assert.Equal(t, "priority", a.Kind)
			assert.Equal(t, "alice", a.Name)
			assert.Equal(t, 1, a.Count)
			assert.Equal(t, &maze.Point{X: 2, Y: 1}, a.Start)
			assert.Equal(t, "RIGHT,DOWN", a.Params["order"])
		})
	}

	t.Run("errors", func(t *testing.T) {
		dir := t.TempDir()
		assert.Error(t, SaveAgent(filepath.Join(dir, "nokind.yaml"), AgentConfig{Name: "x"}))
		_, err := LoadAgent(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfigAgentFromFile(t *testing.T) {
	path := writeConfig(t, `
mazes:
  - name: m
    path: m.maze
environments:
  - maze: m
    agents:
      - file: agents/saved.yaml
        name: renamed
`)
	require.NoError(t, SaveAgent(filepath.Join(filepath.Dir(path), "agents", "saved.yaml"), AgentConfig{
		Kind:   "wallfollower",
		Name:   "saved",
		Params: map[string]any{"hand": "left"},
	}))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	a := cfg.Environments[0].Agents[0]
	assert.Equal(t, "wallfollower", a.Kind)
	assert.Equal(t, "renamed", a.Name)
	assert.Equal(t, "left", a.Params["hand"])
	assert.Equal(t, filepath.Join(filepath.Dir(path), "agents"), cfg.Server.AgentDir)
}
