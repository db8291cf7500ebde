// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"github.com/tochemey/sphactor/capability"
	"github.com/tochemey/sphactor/message"
)

// EventKind tags the reason a behavior is invoked.
type EventKind int

const (
	// EventInit is delivered once, before the loop starts.
	EventInit EventKind = iota
	// EventTime is delivered when the actor's timeout elapses. It carries no message.
	EventTime
	// EventSock is delivered for every message received from a connected actor.
	EventSock
	// EventFDSock is delivered when a custom source registered with AddSource is ready.
	EventFDSock
	// EventAPI is delivered for control commands the runtime does not handle itself.
	// The first frame of the message is the command name.
	EventAPI
	// EventStop is delivered once when termination has been requested.
	EventStop
	// EventDestroy is delivered once during teardown.
	EventDestroy
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventInit:
		return "INIT"
	case EventTime:
		return "TIME"
	case EventSock:
		return "SOCK"
	case EventFDSock:
		return "FDSOCK"
	case EventAPI:
		return "API"
	case EventStop:
		return "STOP"
	case EventDestroy:
		return "DESTROY"
	default:
		return "UNKNOWN"
	}
}

// status maps an event kind onto the status it puts the actor in.
func (k EventKind) status() Status {
	switch k {
	case EventInit:
		return StatusInit
	case EventTime:
		return StatusTime
	case EventSock:
		return StatusSock
	case EventFDSock:
		return StatusFDSock
	case EventAPI:
		return StatusAPI
	case EventStop:
		return StatusStop
	default:
		return StatusDestroy
	}
}

// Event is handed to a Behavior on every invocation.
// An Event and the Actor it refers to must not be retained or shared with
// other goroutines.
type Event struct {
	// Kind is the reason of the invocation.
	Kind EventKind
	// Msg is the payload: the received message for SOCK, the command and its
	// arguments for API, nil otherwise. The behavior owns it and may return it.
	Msg *message.Message
	// Name is the actor's name at the time of the event.
	Name string
	// UUID is the actor's identifier.
	UUID string
	// Source identifies the ready source of an FDSOCK event.
	Source SourceID

	value capability.Value
	actor *Actor
}

// Actor returns the running actor. It is only valid during the invocation.
func (ev *Event) Actor() *Actor {
	return ev.actor
}

// Value returns the typed value of an API event sent through AskAPI or a
// capability binding.
func (ev *Event) Value() (capability.Value, bool) {
	return ev.value, !ev.value.IsZero()
}

// Behavior is the logic of an actor. OnEvent runs on the actor's own
// goroutine, one event at a time. A returned message is published to every
// subscriber of the actor, except for API events where it becomes the reply.
type Behavior interface {
	OnEvent(ev *Event) (*message.Message, error)
}

// BehaviorFunc adapts a function to the Behavior interface.
type BehaviorFunc func(ev *Event) (*message.Message, error)

// OnEvent calls f(ev).
func (f BehaviorFunc) OnEvent(ev *Event) (*message.Message, error) {
	return f(ev)
}
