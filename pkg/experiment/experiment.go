package experiment

import (
	"context"
	"fmt"

	"github.com/boristopalov/mazerace/pkg/agent"
	"github.com/boristopalov/mazerace/pkg/config"
	"github.com/boristopalov/mazerace/pkg/core"
	"github.com/boristopalov/mazerace/pkg/environment"
	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/boristopalov/mazerace/pkg/mazefile"
	"github.com/boristopalov/mazerace/pkg/messaging"
	"github.com/boristopalov/mazerace/pkg/simulation"
	"github.com/charmbracelet/log"
)

// Deps are the collaborators an experiment is assembled from.
type Deps struct {
	Logger *log.Logger
	Loader *mazefile.Loader
	Agents *agent.Factory
	Sink   messaging.Sink
}

// Experiment is a configured environment set together with the manager
// driving it.
type Experiment struct {
	name    string
	cfg     *config.SimulationConfig
	loader  *mazefile.Loader
	set     *environment.Set
	manager *simulation.Manager
	results chan *simulation.Results
	logger  *log.Logger
	sink    messaging.Sink
}

func NewExperiment(cfg *config.SimulationConfig, deps Deps) (*Experiment, error) {
	if deps.Sink == nil {
		deps.Sink = messaging.Discard
	}
	set, err := BuildSet(cfg, deps)
	if err != nil {
		return nil, err
	}

	manager := simulation.NewManager(set, deps.Logger,
		simulation.WithTicksPerSecond(cfg.TicksPerSecond),
		simulation.WithMaxTicks(cfg.MaxTicks),
		simulation.WithSink(deps.Sink),
	)
	e := &Experiment{
		name:    cfg.Name,
		cfg:     cfg,
		loader:  deps.Loader,
		set:     set,
		manager: manager,
		results: make(chan *simulation.Results, 1),
		logger:  deps.Logger.WithPrefix("experiment"),
		sink:    deps.Sink,
	}
	manager.AddObserver(simulation.ChannelObserver(e.results))
	manager.AddObserver(simulation.ObserverFunc(func(res *simulation.Results) {
		if err := simulation.Report(res, e.sink); err != nil {
			e.logger.Warn("failed to publish report", "err", err)
		}
	}))
	return e, nil
}

// BuildSet loads every configured maze and places the configured agents.
// Environments naming the same maze file share one maze.
func BuildSet(cfg *config.SimulationConfig, deps Deps) (*environment.Set, error) {
	set := environment.NewSet()
	for i, envCfg := range cfg.Environments {
		path, ok := cfg.MazePath(envCfg.Maze)
		if !ok {
			return nil, fmt.Errorf("environment %d: unknown maze %q", i, envCfg.Maze)
		}
		m, err := deps.Loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("environment %d: %w", i, err)
		}

		title := envCfg.Title
		if title == "" {
			title = fmt.Sprintf("%s %d", envCfg.Maze, i+1)
		}
		env := environment.New(m, environment.WithTitle(title), environment.WithLogger(deps.Logger))

		for _, agentCfg := range envCfg.Agents {
			start := m.Start()
			if agentCfg.Start != nil {
				start = *agentCfg.Start
			}
			for n := range agentCfg.Count {
				var opts []agent.AgentOption
				if name := agentName(agentCfg.Name, n, agentCfg.Count); name != "" {
					opts = append(opts, agent.WithName(name))
				}
				params := withProviderModel(agentCfg, cfg.Provider)
				a, err := deps.Agents.New(agentCfg.Kind, params, opts...)
				if err != nil {
					return nil, fmt.Errorf("environment %s: %w", title, err)
				}
				if err := env.AddAgent(a, start); err != nil {
					return nil, fmt.Errorf("environment %s: %w", title, err)
				}
			}
		}

		if err := set.Add(env); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func agentName(name string, n, count int) string {
	if name == "" || count == 1 {
		return name
	}
	return fmt.Sprintf("%s-%d", name, n+1)
}

// withProviderModel fills in the configured model for llm agents that do
// not name one themselves.
func withProviderModel(a config.AgentConfig, p config.ProviderConfig) agent.Params {
	params := make(agent.Params, len(a.Params)+1)
	for k, v := range a.Params {
		params[k] = v
	}
	if _, ok := params["model"]; !ok && a.Kind == agent.KindLLM && p.Model != "" {
		params["model"] = p.Model
	}
	return params
}

func (e *Experiment) Name() string {
	return e.name
}

func (e *Experiment) Set() *environment.Set {
	return e.set
}

func (e *Experiment) Manager() *simulation.Manager {
	return e.manager
}

// Maze returns the configured maze called name. Environments already on
// that maze share the returned value.
func (e *Experiment) Maze(name string) (*maze.Maze, error) {
	path, ok := e.cfg.MazePath(name)
	if !ok {
		return nil, fmt.Errorf("unknown maze %q: %w", name, core.ErrInvalidOperation)
	}
	return e.loader.Load(path)
}

// Run starts the simulation and blocks until it finishes on its own. If
// ctx ends first the simulation is stopped and no results are returned.
func (e *Experiment) Run(ctx context.Context) (*simulation.Results, error) {
	e.logger.Info("running", "name", e.name, "environments", e.set.Len())
	if err := e.manager.Start(); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	select {
	case res := <-e.results:
		if err := e.manager.Wait(ctx); err != nil {
			return res, err
		}
		return res, nil
	case <-ctx.Done():
		if err := e.manager.Stop(); err != nil {
			return nil, fmt.Errorf("stop: %w", err)
		}
		return nil, ctx.Err()
	}
}
