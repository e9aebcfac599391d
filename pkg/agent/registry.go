package agent

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/boristopalov/mazerace/pkg/providers"
	"github.com/charmbracelet/log"
	"github.com/spf13/cast"
)

// Deps are the collaborators a strategy may need at construction time.
type Deps struct {
	Provider providers.Provider
	Logger   *log.Logger
}

// Constructor builds an agent of one kind from its parameters.
type Constructor func(deps Deps, params Params, opts ...AgentOption) (Agent, error)

var (
	registryMu   sync.RWMutex
	constructors = map[string]Constructor{}
)

// Register adds a strategy constructor under kind, replacing any previous one.
func Register(kind string, ctor Constructor) {
	if kind == "" || ctor == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	constructors[kind] = ctor
}

// Kinds lists the registered strategy names, sorted.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(constructors))
}

// Factory hands out agents by kind, wiring in shared dependencies.
type Factory struct {
	deps Deps
}

func NewFactory(deps Deps) *Factory {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return &Factory{deps: deps}
}

func (f *Factory) New(kind string, params Params, opts ...AgentOption) (Agent, error) {
	registryMu.RLock()
	ctor, ok := constructors[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown agent kind %q (known: %v)", kind, Kinds())
	}
	a, err := ctor(f.deps, params, opts...)
	if err != nil {
		return nil, fmt.Errorf("new %s agent: %w", kind, err)
	}
	return a, nil
}

func init() {
	Register(KindPriority, newPriorityFromParams)
	Register(KindWallFollower, newWallFollowerFromParams)
	Register(KindRandom, newRandomFromParams)
	Register(KindTable, newTableFromParams)
	Register(KindDFS, func(_ Deps, _ Params, opts ...AgentOption) (Agent, error) {
		return NewDFS(opts...), nil
	})
	Register(KindBFS, func(_ Deps, _ Params, opts ...AgentOption) (Agent, error) {
		return NewBFS(opts...), nil
	})
	Register(KindLLM, newLLMFromParams)
}

// Params is the free-form per-agent configuration.
type Params map[string]any

func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		if s := cast.ToString(v); s != "" {
			return s
		}
	}
	return def
}

func (p Params) Uint64(key string, def uint64) uint64 {
	if v, ok := p[key]; ok {
		return cast.ToUint64(v)
	}
	return def
}

func (p Params) Int(key string, def int) int {
	if v, ok := p[key]; ok {
		return cast.ToInt(v)
	}
	return def
}

// Directions reads a list (or comma separated string) of direction names.
func (p Params) Directions(key string, def []maze.Direction) ([]maze.Direction, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	var names []string
	if s, isString := v.(string); isString {
		names = splitList(s)
	} else {
		names = cast.ToStringSlice(v)
	}
	dirs := make([]maze.Direction, 0, len(names))
	for _, name := range names {
		d, err := maze.ParseDirection(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

func (p Params) StringMap(key string) map[string]string {
	v, ok := p[key]
	if !ok {
		return nil
	}
	return cast.ToStringMapString(v)
}
