package core

import "errors"

var (
	// ErrInvalidTransition is returned when a state machine call is not valid
	// for the current run state, e.g. pausing a stopped simulation.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrBusy is returned for structural mutations attempted while running.
	ErrBusy = errors.New("simulation is running")
	// ErrNoSelection is returned when an operation needs a selected
	// environment or agent and there is none.
	ErrNoSelection = errors.New("nothing selected")
	// ErrInvalidOperation is returned when an operation cannot be applied,
	// e.g. exchanging in a maze that cannot host the current agents.
	ErrInvalidOperation = errors.New("invalid operation")
)
