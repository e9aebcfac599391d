package core

import (
	"time"
)

// RunState is the state of a simulation run.
type RunState int

const (
	Stopped RunState = iota
	Running
	Paused
)

func (s RunState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// MarshalText lets run states show up by name in JSON payloads.
func (s RunState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type SimulationStatus struct {
	State     RunState  `json:"state"`
	Tick      int       `json:"tick"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
