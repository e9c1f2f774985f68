// Package execution defines the data captured about a single observed
// process spawn and the event stream the collector writes about it.
package execution

import "time"

// Execution is the immutable tuple captured when a process is spawned.
// Arguments is never empty; Arguments[0] is the logical program name the
// caller used, which may differ from Executable.
type Execution struct {
	Executable  string            `json:"executable"`
	Arguments   []string          `json:"arguments"`
	WorkingDir  string            `json:"working_dir"`
	Environment map[string]string `json:"environment"`
}

// Kind distinguishes the three event payloads the store carries.
type Kind string

const (
	Started    Kind = "started"
	Signalled  Kind = "signalled"
	Terminated Kind = "terminated"
)

// Event is one record in the append-only event store. Exactly one of the
// payload fields is meaningful, selected by Kind. For a given Pid there is
// at most one Started event and at most one terminal event (Terminated or
// a final Signalled), and the terminal event never precedes Started.
type Event struct {
	Pid       int       `json:"pid"`
	ParentPid int       `json:"parent_pid"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`

	// Started payload.
	Execution *Execution `json:"execution,omitempty"`
	// Signalled payload.
	Signal int `json:"signal,omitempty"`
	// Terminated payload.
	Status int `json:"status,omitempty"`
}

// StartedEvent builds a Started event for pid, spawned by parentPid.
func StartedEvent(pid, parentPid int, when time.Time, exec Execution) Event {
	return Event{Pid: pid, ParentPid: parentPid, Timestamp: when, Kind: Started, Execution: &exec}
}

// SignalledEvent builds a Signalled event.
func SignalledEvent(pid int, when time.Time, signal int) Event {
	return Event{Pid: pid, Timestamp: when, Kind: Signalled, Signal: signal}
}

// TerminatedEvent builds a Terminated event.
func TerminatedEvent(pid int, when time.Time, status int) Event {
	return Event{Pid: pid, Timestamp: when, Kind: Terminated, Status: status}
}
