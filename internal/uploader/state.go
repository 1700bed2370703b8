// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package uploader

import "fmt"

// State tracks an asset through its upload lifecycle.
type State string

const (
	StatePending   State = "pending"
	StateUploading State = "uploading"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// Event moves an asset between states.
type Event string

const (
	EventStart   Event = "start"
	EventSuccess Event = "success"
	EventFailure Event = "failure"
)

// Next returns the state reached from s by e. Transitions are strict:
// pending can only start, uploading can only succeed or fail, and the
// terminal states accept nothing.
func Next(s State, e Event) (State, error) {
	switch s {
	case StatePending:
		if e == EventStart {
			return StateUploading, nil
		}
	case StateUploading:
		switch e {
		case EventSuccess:
			return StateDone, nil
		case EventFailure:
			return StateFailed, nil
		}
	}
	return s, fmt.Errorf("invalid transition: %s on %s", e, s)
}
