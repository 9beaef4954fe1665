package lib

import (
	"strconv"
	"time"
)

// ServerState is the supervisor's view of the backend lifecycle.
// Starting and Stopping are transient guard states.
type ServerState int

const (
	ServerStateStopped ServerState = iota
	ServerStateStarting
	ServerStateRunning
	ServerStateStopping
)

func (s ServerState) String() string {
	switch s {
	case ServerStateStopped:
		return "stopped"
	case ServerStateStarting:
		return "starting"
	case ServerStateRunning:
		return "running"
	case ServerStateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// StartOutcome is the result reported to callers of a start request.
type StartOutcome string

const (
	Started        StartOutcome = "started"
	AlreadyRunning StartOutcome = "already_running"
)

// StopOutcome is the result reported to callers of a stop request.
type StopOutcome string

const (
	Stopped    StopOutcome = "stopped"
	NotRunning StopOutcome = "not_running"
)

// ExitStatus describes how a child process ended.
// Code is nil when the process was terminated by a signal.
type ExitStatus struct {
	Code   *int
	Signal string
	Err    error
}

func (e ExitStatus) String() string {
	switch {
	case e.Code != nil:
		return "exit code " + strconv.Itoa(*e.Code)
	case e.Signal != "":
		return "signal " + e.Signal
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown"
	}
}

// ServerStatus is a point-in-time snapshot of the supervised backend.
type ServerStatus struct {
	State      ServerState
	LaunchID   string
	Pid        int
	StartTime  time.Time
	LastExit   *ExitStatus
	Executable string
}

// DeviceRecord describes one successfully opened bus device.
type DeviceRecord struct {
	VendorID     string
	ProductID    string
	Manufacturer string
	Product      string
}
