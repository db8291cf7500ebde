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

package testkit

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/sphactor/actor"
	"github.com/tochemey/sphactor/message"
)

const (
	MessagesQueueMax int           = 1000
	DefaultTimeout   time.Duration = 3 * time.Second
)

// Probe defines the probe interface that helps perform some assertions
// when implementing unit tests with actors
type Probe interface {
	// ExpectMessage asserts that the next message received has the given frames
	ExpectMessage(frames ...string)
	// ExpectMessageWithin asserts that the next message received within a time duration has the given frames
	ExpectMessageWithin(duration time.Duration, frames ...string)
	// ExpectNoMessage asserts that no message is received
	ExpectNoMessage()
	// ExpectAnyMessage asserts that any message is received
	ExpectAnyMessage() *message.Message
	// ExpectAnyMessageWithin asserts that any message is received within a time duration
	ExpectAnyMessageWithin(duration time.Duration) *message.Message
	// ExpectEvent asserts that the probe actor was invoked with the given event kind
	ExpectEvent(kind actor.EventKind)
	// Events returns the event kinds the probe actor has seen so far
	Events() []actor.EventKind
	// Watch subscribes the probe to the output of the given actor
	Watch(handle *actor.Handle)
	// Send publishes a message from the probe. Actors connected to the probe receive it.
	Send(frames ...string)
	// Handle returns the handle of the probe actor
	Handle() *actor.Handle
	// Stop stops the test probe
	Stop()
}

// probeActor pushes every received message to the probe queue
type probeActor struct {
	mu           sync.Mutex
	events       []actor.EventKind
	messageQueue chan *message.Message
}

// ensure that probeActor implements the Behavior interface
var _ actor.Behavior = (*probeActor)(nil)

// OnEvent handles the events of the probe actor
func (x *probeActor) OnEvent(ev *actor.Event) (*message.Message, error) {
	x.mu.Lock()
	x.events = append(x.events, ev.Kind)
	x.mu.Unlock()

	if ev.Kind == actor.EventSock && ev.Msg != nil {
		select {
		case x.messageQueue <- ev.Msg:
		default:
			// queue is full, the test is not reading
		}
	}
	return nil, nil
}

func (x *probeActor) snapshot() []actor.EventKind {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.events)
}

// probe defines the test probe implementation
type probe struct {
	pt *testing.T

	handle         *actor.Handle
	behavior       *probeActor
	defaultTimeout time.Duration
}

// ensure that probe implements Probe
var _ Probe = (*probe)(nil)

// newProbe creates an instance of probe
func newProbe(t *testing.T, opts ...actor.Option) (*probe, error) {
	behavior := &probeActor{messageQueue: make(chan *message.Message, MessagesQueueMax)}
	handle, err := actor.New(behavior, append(opts, actor.WithName("probe"))...)
	if err != nil {
		return nil, err
	}

	return &probe{
		pt:             t,
		handle:         handle,
		behavior:       behavior,
		defaultTimeout: DefaultTimeout,
	}, nil
}

// ExpectMessage asserts that the next message received has the given frames
func (x *probe) ExpectMessage(frames ...string) {
	x.expectMessage(x.defaultTimeout, frames)
}

// ExpectMessageWithin asserts that the next message received within a time duration has the given frames
func (x *probe) ExpectMessageWithin(duration time.Duration, frames ...string) {
	x.expectMessage(duration, frames)
}

// ExpectNoMessage asserts that no message is received
func (x *probe) ExpectNoMessage() {
	x.expectNoMessage(100 * time.Millisecond)
}

// ExpectAnyMessage asserts that any message is received
func (x *probe) ExpectAnyMessage() *message.Message {
	return x.expectAnyMessage(x.defaultTimeout)
}

// ExpectAnyMessageWithin asserts that any message is received within a time duration
func (x *probe) ExpectAnyMessageWithin(duration time.Duration) *message.Message {
	return x.expectAnyMessage(duration)
}

// ExpectEvent asserts that the probe actor was invoked with the given event kind
func (x *probe) ExpectEvent(kind actor.EventKind) {
	require.Eventually(x.pt, func() bool {
		return slices.Contains(x.behavior.snapshot(), kind)
	}, x.defaultTimeout, 10*time.Millisecond, fmt.Sprintf("event %s not observed", kind))
}

// Events returns the event kinds the probe actor has seen so far
func (x *probe) Events() []actor.EventKind {
	return x.behavior.snapshot()
}

// Watch subscribes the probe to the output of the given actor
func (x *probe) Watch(handle *actor.Handle) {
	require.NoError(x.pt, x.handle.Connect(handle.Endpoint()))
}

// Send publishes a message from the probe
func (x *probe) Send(frames ...string) {
	require.NoError(x.pt, x.handle.Send(frames...))
}

// Handle returns the handle of the probe actor
func (x *probe) Handle() *actor.Handle {
	return x.handle
}

// Stop stops the test probe
func (x *probe) Stop() {
	require.NoError(x.pt, x.handle.Destroy(x.pt.Context()))
}

// receiveOne receives one message within a maximum time duration
func (x *probe) receiveOne(max time.Duration) *message.Message {
	timer := time.NewTimer(max)
	defer timer.Stop()

	select {
	case m := <-x.behavior.messageQueue:
		return m
	case <-timer.C:
		return nil
	}
}

// expectMessage assert the expectation of a message within a maximum time duration
func (x *probe) expectMessage(max time.Duration, frames []string) {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectMessage while waiting for %v", max, frames))
	require.Equal(x.pt, frames, received.Strings(), fmt.Sprintf("expected %v, found %v", frames, received))
}

// expectNoMessage asserts that no message is expected
func (x *probe) expectNoMessage(max time.Duration) {
	received := x.receiveOne(max)
	require.Nil(x.pt, received, fmt.Sprintf("received unexpected message %v", received))
}

// expectAnyMessage asserts that any message is expected
func (x *probe) expectAnyMessage(max time.Duration) *message.Message {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectAnyMessage while waiting", max))
	return received
}
