package simulation

import (
	"errors"
	"fmt"

	"github.com/boristopalov/mazerace/pkg/messaging"
)

const (
	reportTitle = "Simulation results"
	reportRule  = "=================="
)

// Report writes the run summary to sink one line per message: a block per
// maze, then each environment on that maze with its agents' step counts.
func Report(res *Results, sink messaging.Sink) error {
	var errs []error
	emit := func(format string, args ...any) {
		msg := messaging.New("simulation", messaging.KindReport, fmt.Sprintf(format, args...))
		if err := sink.Publish(msg); err != nil {
			errs = append(errs, err)
		}
	}

	envs := res.Environments()
	emit(reportTitle)
	emit(reportRule)
	for i, m := range res.Mazes() {
		w, h := m.Dimensions()
		emit("=== Maze %d (%dx%d) ===", i+1, w, h)
		summary(emit, res.Maze(m))

		for _, env := range envs {
			if env.Maze() != m {
				continue
			}
			rec := res.Environment(env)
			emit("  == %s ==", env.Title())
			summary(emit, rec)
			emit("  * Agents detail:")
			for _, s := range rec.Steps {
				status := "not finished"
				if s.Finished {
					status = "finished"
				}
				emit("    - %s: %d steps [%s]", s.Agent.Name(), s.Steps, status)
			}
		}
	}
	emit(reportRule)
	return errors.Join(errs...)
}

func summary(emit func(string, ...any), rec Record) {
	winner := "none"
	if rec.Winner != nil {
		winner = rec.Winner.Name()
	}
	emit("* Time taken (first): %d", rec.TimeTakenFirst)
	emit("* Time taken (last): %d", rec.TimeTakenLast)
	emit("* Winner: %s", winner)
	emit("")
}
