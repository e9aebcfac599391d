package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/spf13/viper"
)

const EnvPrefix = "MAZERACE"

type SimulationConfig struct {
	Name           string         `mapstructure:"name"`
	TicksPerSecond float64        `mapstructure:"ticks_per_second"`
	MaxTicks       int            `mapstructure:"max_ticks"`
	Mazes          []MazeConfig   `mapstructure:"mazes"`
	Environments   []EnvConfig    `mapstructure:"environments"`
	Logging        LogConfig      `mapstructure:"logging"`
	Provider       ProviderConfig `mapstructure:"provider"`
	Server         ServerConfig   `mapstructure:"server"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// MazeConfig names a maze file. Relative paths are resolved against the
// directory of the config file.
type MazeConfig struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
}

type EnvConfig struct {
	Title  string        `mapstructure:"title"`
	Maze   string        `mapstructure:"maze"`
	Agents []AgentConfig `mapstructure:"agents"`
}

// AgentConfig describes Count agents of one kind. Without a start they are
// placed on the maze's default start cell. File names a saved agent whose
// settings fill in whatever is left unset here.
type AgentConfig struct {
	Kind   string         `mapstructure:"kind"`
	Name   string         `mapstructure:"name"`
	Count  int            `mapstructure:"count"`
	Start  *maze.Point    `mapstructure:"start"`
	Params map[string]any `mapstructure:"params"`
	File   string         `mapstructure:"file"`
}

type ProviderConfig struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
	// AgentDir is where the API saves and loads agent files.
	AgentDir string `mapstructure:"agent_dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "maze race")
	v.SetDefault("ticks_per_second", 0)
	v.SetDefault("max_ticks", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("provider.name", "openai")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", "")
	v.SetDefault("server.port", 6565)
	v.SetDefault("server.agent_dir", "agents")
}

// LoadConfig reads a YAML simulation file. Scalar settings can be
// overridden from the environment, e.g. MAZERACE_MAX_TICKS=500 or
// MAZERACE_PROVIDER_MODEL=gpt-4o.
func LoadConfig(path string) (*SimulationConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg SimulationConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	dir := filepath.Dir(path)
	for i, m := range cfg.Mazes {
		if m.Path != "" && !filepath.IsAbs(m.Path) {
			cfg.Mazes[i].Path = filepath.Join(dir, m.Path)
		}
	}
	if !filepath.IsAbs(cfg.Server.AgentDir) {
		cfg.Server.AgentDir = filepath.Join(dir, cfg.Server.AgentDir)
	}
	for i := range cfg.Environments {
		for j := range cfg.Environments[i].Agents {
			a := &cfg.Environments[i].Agents[j]
			if a.Count == 0 {
				a.Count = 1
			}
			if a.File == "" {
				continue
			}
			if !filepath.IsAbs(a.File) {
				a.File = filepath.Join(dir, a.File)
			}
			if err := a.fillFromFile(); err != nil {
				return nil, fmt.Errorf("environments[%d].agents[%d]: %w", i, j, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks references between sections. Agent kinds are checked
// when the agents are built.
func (c *SimulationConfig) Validate() error {
	var errs []error
	if c.TicksPerSecond < 0 {
		errs = append(errs, fmt.Errorf("ticks_per_second must not be negative"))
	}
	if c.MaxTicks < 0 {
		errs = append(errs, fmt.Errorf("max_ticks must not be negative"))
	}

	names := make(map[string]bool, len(c.Mazes))
	for i, m := range c.Mazes {
		switch {
		case m.Name == "":
			errs = append(errs, fmt.Errorf("mazes[%d]: missing name", i))
		case m.Path == "":
			errs = append(errs, fmt.Errorf("maze %q: missing path", m.Name))
		case names[m.Name]:
			errs = append(errs, fmt.Errorf("maze %q: defined twice", m.Name))
		}
		names[m.Name] = true
	}

	for i, env := range c.Environments {
		if !names[env.Maze] {
			errs = append(errs, fmt.Errorf("environments[%d]: unknown maze %q", i, env.Maze))
		}
		for j, a := range env.Agents {
			if a.Kind == "" {
				errs = append(errs, fmt.Errorf("environments[%d].agents[%d]: missing kind", i, j))
			}
			if a.Count < 0 {
				errs = append(errs, fmt.Errorf("environments[%d].agents[%d]: negative count", i, j))
			}
		}
	}
	return errors.Join(errs...)
}

// MazePath returns the path of the named maze.
func (c *SimulationConfig) MazePath(name string) (string, bool) {
	for _, m := range c.Mazes {
		if m.Name == name {
			return m.Path, true
		}
	}
	return "", false
}
