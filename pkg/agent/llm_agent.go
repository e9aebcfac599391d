package agent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/boristopalov/mazerace/pkg/memory"
	"github.com/boristopalov/mazerace/pkg/providers"
	"github.com/charmbracelet/log"
)

const (
	KindLLM = "llm"

	SYSTEM_PROMPT = `You are an agent walking through a grid maze one cell at a time. You cannot see the whole maze, only which sides of your current cell are open. Your goal is to reach the exit in as few moves as possible. Remember where you have been and avoid walking in circles.`

	MOVE_PROMPT_TEMPLATE = `Your name is %s. It is tick %d and you are standing at cell %s of a %dx%d maze (x grows to the right, y grows downwards).

Open directions from here: %s.

%s

Which direction do you move? Answer with exactly one of UP, RIGHT, DOWN or LEFT after the string "MOVE" like so: MOVE: RIGHT`

	defaultLLMModel   = "gpt-4o-mini"
	defaultLLMHistory = 20
)

var moveAnswer = regexp.MustCompile(`(?i)MOVE:\s*(UP|RIGHT|DOWN|LEFT)`)

// LLMAgent asks a language model for every move. It remembers its recent
// positions and moves and includes them in the prompt.
type LLMAgent struct {
	identity
	provider providers.Provider
	model    string
	history  int
	memory   *memory.Memory[string]
	logger   *log.Logger
}

func NewLLMAgent(provider providers.Provider, model string, history int, logger *log.Logger, opts ...AgentOption) (*LLMAgent, error) {
	if provider == nil {
		return nil, errors.New("llm agent needs a provider")
	}
	if model == "" {
		model = defaultLLMModel
	}
	if history <= 0 {
		history = defaultLLMHistory
	}
	if logger == nil {
		logger = log.Default()
	}
	id := newIdentity(KindLLM, opts)
	return &LLMAgent{
		identity: id,
		provider: provider,
		model:    model,
		history:  history,
		memory:   memory.NewMemory[string](history),
		logger:   logger.WithPrefix(id.name),
	}, nil
}

func newLLMFromParams(deps Deps, p Params, opts ...AgentOption) (Agent, error) {
	return NewLLMAgent(deps.Provider, p.String("model", defaultLLMModel), p.Int("history", defaultLLMHistory), deps.Logger, opts...)
}

func (a *LLMAgent) DecideMove(ctx context.Context, s State) (maze.Direction, error) {
	open := s.Maze.Neighbours(s.Position)
	if len(open) == 0 {
		return maze.None, nil
	}

	names := make([]string, 0, len(open))
	for _, d := range open {
		names = append(names, d.String())
	}
	width, height := s.Maze.Dimensions()
	prompt := fmt.Sprintf(MOVE_PROMPT_TEMPLATE,
		a.name,
		s.Tick,
		s.Position,
		width, height,
		strings.Join(names, ", "),
		a.recentHistory(),
	)

	response, err := a.provider.Complete(ctx, a.model, SYSTEM_PROMPT, prompt)
	if err != nil {
		return maze.None, fmt.Errorf("failed to generate move: %w", err)
	}
	a.logger.Debug("move response", "tick", s.Tick, "response", response)

	d, err := parseMoveResponse(response)
	if err != nil {
		return maze.None, err
	}
	a.memory.Store(fmt.Sprintf("At %s I moved %s.", s.Position, d))
	return d, nil
}

func (a *LLMAgent) recentHistory() string {
	recent := a.memory.Recent(a.history)
	if len(recent) == 0 {
		return "This is your first move, so you have no history yet."
	}
	return "Your most recent moves, oldest first:\n" + strings.Join(recent, "\n")
}

func (a *LLMAgent) ResetMemory() {
	a.memory.Reset()
}

func (a *LLMAgent) Params() Params {
	return Params{"model": a.model, "history": a.history}
}

func (a *LLMAgent) Clone() Agent {
	id := a.cloned()
	return &LLMAgent{
		identity: id,
		provider: a.provider,
		model:    a.model,
		history:  a.history,
		memory:   memory.NewMemory[string](a.history),
		logger:   a.logger,
	}
}

// GetMemory exposes the remembered moves, oldest first.
func (a *LLMAgent) GetMemory() []string {
	return a.memory.All()
}

func parseMoveResponse(response string) (maze.Direction, error) {
	matches := moveAnswer.FindStringSubmatch(response)
	if len(matches) < 2 {
		return maze.None, fmt.Errorf("could not find move in response: %q", response)
	}
	return maze.ParseDirection(matches[1])
}
