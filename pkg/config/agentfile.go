package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SaveAgent writes one agent description to path. The format follows the
// extension: .yaml, .yml or .json.
func SaveAgent(path string, a AgentConfig) error {
	if a.Kind == "" {
		return errors.New("save agent: missing kind")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save agent: %w", err)
	}

	v := viper.New()
	v.Set("kind", a.Kind)
	if a.Name != "" {
		v.Set("name", a.Name)
	}
	if a.Start != nil {
		v.Set("start", map[string]any{"x": a.Start.X, "y": a.Start.Y})
	}
	if len(a.Params) > 0 {
		v.Set("params", a.Params)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("save agent %s: %w", path, err)
	}
	return nil
}

// LoadAgent reads an agent description written by SaveAgent.
func LoadAgent(path string) (*AgentConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}

	var a AgentConfig
	if err := v.Unmarshal(&a); err != nil {
		return nil, fmt.Errorf("decode agent %s: %w", path, err)
	}
	if a.Kind == "" {
		return nil, fmt.Errorf("agent %s: missing kind", path)
	}
	a.Count = 1
	a.File = path
	return &a, nil
}

func (a *AgentConfig) fillFromFile() error {
	saved, err := LoadAgent(a.File)
	if err != nil {
		return err
	}
	if a.Kind == "" {
		a.Kind = saved.Kind
	}
	if a.Name == "" {
		a.Name = saved.Name
	}
	if a.Start == nil {
		a.Start = saved.Start
	}
	if a.Params == nil {
		a.Params = saved.Params
	}
	return nil
}
