package core

// Controller drives a simulation through its run states.
type Controller interface {
	// Start launches a run or resumes a paused one
	Start() error
	// Pause suspends a running simulation at the next tick boundary
	Pause() error
	// Step advances a paused or stopped simulation by exactly one tick
	Step() error
	// Stop halts the simulation and discards partial results
	Stop() error
	// Status returns the current run state and tick
	Status() SimulationStatus
}
