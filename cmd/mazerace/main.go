package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/boristopalov/mazerace/pkg/agent"
	"github.com/boristopalov/mazerace/pkg/api"
	"github.com/boristopalov/mazerace/pkg/config"
	"github.com/boristopalov/mazerace/pkg/experiment"
	"github.com/boristopalov/mazerace/pkg/mazefile"
	"github.com/boristopalov/mazerace/pkg/messaging"
	"github.com/boristopalov/mazerace/pkg/providers"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "mazerace",
		Short:         "Mazerace races maze-solving agents against each other in lockstep simulations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mazerace.yaml", "simulation config file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured simulation to completion and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), configPath)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the control API for the configured simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the available agent kinds",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(strings.Join(agent.Kinds(), "\n"))
		},
	}

	mazeCmd := &cobra.Command{
		Use:   "maze <file>",
		Short: "Parse a maze file and print it back with its exits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mazefile.NewLoader(log.Default()).Load(args[0])
			if err != nil {
				return err
			}
			fmt.Print(mazefile.Format(m))
			fmt.Printf("size %s, start %s, goal %s, %d exits\n", m, m.Start(), m.Goal(), len(m.Exits()))
			return nil
		},
	}

	for _, envFile := range []string{
		".env",
		"../../.env",
		"../../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rootCmd.AddCommand(runCmd, serveCmd, kindsCmd, mazeCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		cancel()
		os.Exit(1)
	}
}

func newLogger(cfg *config.SimulationConfig) *log.Logger {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}

// newDeps wires the collaborators shared by every command. A provider is
// only created when some agent talks to a language model.
func newDeps(ctx context.Context, cfg *config.SimulationConfig, logger *log.Logger, sink messaging.Sink) (experiment.Deps, error) {
	agentDeps := agent.Deps{Logger: logger.WithPrefix("agent")}
	if usesLLM(cfg) {
		if cfg.Provider.Model == "" {
			cfg.Provider.Model = providers.DefaultModel(cfg.Provider.Name)
		}
		p, err := providers.New(ctx, cfg.Provider.Name,
			providers.WithBaseURL(cfg.Provider.BaseURL),
			providers.WithAPIKey(cfg.Provider.APIKey),
		)
		if err != nil {
			return experiment.Deps{}, fmt.Errorf("provider: %w", err)
		}
		agentDeps.Provider = p
	}

	return experiment.Deps{
		Logger: logger,
		Loader: mazefile.NewLoader(logger.WithPrefix("mazes")),
		Agents: agent.NewFactory(agentDeps),
		Sink:   sink,
	}, nil
}

func usesLLM(cfg *config.SimulationConfig) bool {
	for _, env := range cfg.Environments {
		for _, a := range env.Agents {
			if a.Kind == agent.KindLLM {
				return true
			}
		}
	}
	return false
}

func runSimulation(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	deps, err := newDeps(ctx, cfg, logger, messaging.NewLogSink(logger))
	if err != nil {
		return err
	}
	exp, err := experiment.NewExperiment(cfg, deps)
	if err != nil {
		return fmt.Errorf("build experiment: %w", err)
	}

	if _, err := exp.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted, results discarded")
			return nil
		}
		return err
	}
	return nil
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	cfs := CleanupFuncs{logger: logger}
	defer func() {
		if err := cfs.Cleanup(); err != nil {
			logger.Error("cleanup funcs", "err", err)
		}
	}()

	broker := messaging.NewBroker()
	cfs.Defer("broker", func() error {
		broker.Reset()
		return nil
	})

	console := make(chan messaging.Message, 256)
	if err := broker.Subscribe("console", console); err != nil {
		return err
	}
	go func() {
		if err := messaging.Drain(ctx, console, messaging.NewLogSink(logger)); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("console", "err", err)
		}
	}()

	deps, err := newDeps(ctx, cfg, logger, broker)
	if err != nil {
		return err
	}
	exp, err := experiment.NewExperiment(cfg, deps)
	if err != nil {
		return fmt.Errorf("build experiment: %w", err)
	}
	cfs.Defer("simulation", exp.Manager().Stop)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("net listen: %w", err)
	}

	s := api.NewServer(logger.WithPrefix("api"), &api.ServerDependencies{
		Manager:  exp.Manager(),
		Agents:   deps.Agents,
		Broker:   broker,
		Mazes:    exp,
		AgentDir: cfg.Server.AgentDir,
	})
	go func() {
		logger.Printf("serving on %s", ln.Addr())
		err := s.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "err", err)
		}
	}()

	<-ctx.Done()
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(closeCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
