package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

type shutdownStep struct {
	name string
	run  func() error
}

// CleanupFuncs collects the teardown of a serve session. Steps run in
// reverse registration order and every step runs even if an earlier one
// failed.
type CleanupFuncs struct {
	steps  []shutdownStep
	logger *log.Logger
}

func (cf *CleanupFuncs) Defer(name string, f func() error) {
	cf.steps = append(cf.steps, shutdownStep{name: name, run: f})
}

func (cf *CleanupFuncs) Cleanup() error {
	var errs []error
	for i := len(cf.steps) - 1; i >= 0; i-- {
		step := cf.steps[i]
		if err := step.run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
			continue
		}
		if cf.logger != nil {
			cf.logger.Debug("shut down", "step", step.name)
		}
	}
	cf.steps = nil
	return errors.Join(errs...)
}
