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
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/sphactor/capability"
	gerrors "github.com/tochemey/sphactor/errors"
	"github.com/tochemey/sphactor/internal/bus"
	"github.com/tochemey/sphactor/log"
	"github.com/tochemey/sphactor/message"
)

const boundSchema = `
capabilities:
  - name: timeout
    type: int
    value: "30"
    api_call: SET TIMEOUT
    api_value: i
  - name: rate
    type: int
    value: "25"
    api_call: SET RATE
    api_value: i
`

var hexUUID = regexp.MustCompile(`^[0-9A-F]{32}$`)

// newIdleActor prepares an actor without running its goroutine so a test
// can drive the loop itself
func newIdleActor(t *testing.T, behavior Behavior, opts ...Option) *Actor {
	t.Helper()
	options := append([]Option{WithLogger(log.DiscardLogger), WithBus(bus.New())}, opts...)
	a, err := newActor(behavior, newConfig(options...))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = a.shutdown()
	})
	return a
}

func TestIdentity(t *testing.T) {
	t.Run("With generated uuid", func(t *testing.T) {
		h := spawn(t, bus.New(), newRecorder(nil))
		assert.Regexp(t, hexUUID, h.UUID())
		assert.Equal(t, "inproc://"+h.UUID(), h.Endpoint())
		assert.Equal(t, h.UUID()[:6], h.Name())
	})
	t.Run("With dashed uuid", func(t *testing.T) {
		h := spawn(t, bus.New(), newRecorder(nil), WithUUID("7b21d87c-b6b0-4fc5-801a-5b396269876d"), WithName("logger"))
		assert.Equal(t, "7B21D87CB6B04FC5801A5B396269876D", h.UUID())
		assert.Equal(t, "logger", h.Name())
		assert.Equal(t, "inproc://7B21D87CB6B04FC5801A5B396269876D", h.Endpoint())
	})
	t.Run("With invalid uuid", func(t *testing.T) {
		_, err := New(newRecorder(nil), WithLogger(log.DiscardLogger), WithUUID("nope"))
		assert.ErrorIs(t, err, gerrors.ErrInvalidUUID)
	})
	t.Run("With uuid already bound", func(t *testing.T) {
		b := bus.New()
		h := spawn(t, b, newRecorder(nil))
		_, err := New(newRecorder(nil), WithLogger(log.DiscardLogger), WithBus(b), WithUUID(h.UUID()))
		assert.ErrorIs(t, err, gerrors.ErrEndpointAlreadyBound)
	})
	t.Run("With nil behavior", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, gerrors.ErrInvalidValue)
	})
}

func TestLifecycle(t *testing.T) {
	t.Run("With no message received", func(t *testing.T) {
		rec := newRecorder(nil)
		rec.reports = true
		h, err := New(rec, WithLogger(log.DiscardLogger), WithBus(bus.New()), WithTimeout(10))
		require.NoError(t, err)

		require.Eventually(t, func() bool { return rec.count(EventTime) >= 3 }, waitFor, tick)
		require.NoError(t, h.Destroy(context.Background()))

		kinds := rec.kinds()
		require.GreaterOrEqual(t, len(kinds), 5)
		assert.Equal(t, EventInit, kinds[0])
		assert.Equal(t, EventStop, kinds[len(kinds)-2])
		assert.Equal(t, EventDestroy, kinds[len(kinds)-1])
		for _, kind := range kinds[1 : len(kinds)-2] {
			assert.Equal(t, EventTime, kind)
		}

		// the report of the current status is available to the handler
		for _, e := range rec.snapshot() {
			assert.Equal(t, e.kind.status(), e.status)
			require.NotNil(t, e.report, e.kind.String())
			assert.Equal(t, e.kind.status(), e.report.Status())
		}
	})
	t.Run("With TIME at the configured interval", func(t *testing.T) {
		rec := newRecorder(nil)
		spawn(t, bus.New(), rec, WithTimeout(20))

		time.Sleep(300 * time.Millisecond)
		count := rec.count(EventTime)
		assert.GreaterOrEqual(t, count, 5)
		assert.LessOrEqual(t, count, 20)
	})
	t.Run("With timeout never", func(t *testing.T) {
		rec := newRecorder(nil)
		h := spawn(t, bus.New(), rec)

		timeout, err := h.Timeout()
		require.NoError(t, err)
		assert.Equal(t, NeverTimeout, timeout)

		time.Sleep(100 * time.Millisecond)
		assert.Zero(t, rec.count(EventTime))
	})
	t.Run("With timeout changed at runtime", func(t *testing.T) {
		rec := newRecorder(nil)
		h := spawn(t, bus.New(), rec)

		require.NoError(t, h.SetTimeout(10))
		require.Eventually(t, func() bool { return rec.count(EventTime) >= 2 }, waitFor, tick)

		timeout, err := h.Timeout()
		require.NoError(t, err)
		assert.EqualValues(t, 10, timeout)
	})
	t.Run("With Destroy called twice", func(t *testing.T) {
		rec := newRecorder(nil)
		h, err := New(rec, WithLogger(log.DiscardLogger), WithBus(bus.New()))
		require.NoError(t, err)

		require.NoError(t, h.Destroy(context.Background()))
		require.NoError(t, h.Destroy(context.Background()))
		assert.Equal(t, 1, rec.count(EventStop))
		assert.Equal(t, 1, rec.count(EventDestroy))

		select {
		case <-h.Done():
		default:
			assert.Fail(t, "actor goroutine still running")
		}

		_, err = h.Timeout()
		assert.ErrorIs(t, err, gerrors.ErrActorTerminated)
		assert.ErrorIs(t, h.Send("ping"), gerrors.ErrActorTerminated)
		assert.ErrorIs(t, h.Connect("inproc://X"), gerrors.ErrActorTerminated)
	})
}

type closingBehavior struct {
	*recorder
	closed *atomic.Bool
}

func (c closingBehavior) Close() error {
	c.closed.Store(true)
	return nil
}

func TestHandlerFailure(t *testing.T) {
	t.Run("With panicking handler", func(t *testing.T) {
		rec := newRecorder(func(ev *Event) (*message.Message, error) {
			if ev.Kind == EventTime {
				panic("boom")
			}
			return nil, nil
		})
		spawn(t, bus.New(), rec, WithTimeout(5))
		require.Eventually(t, func() bool { return rec.count(EventTime) >= 3 }, waitFor, tick)
	})
	t.Run("With STOP failing DESTROY still runs", func(t *testing.T) {
		closed := atomic.NewBool(false)
		rec := newRecorder(func(ev *Event) (*message.Message, error) {
			switch ev.Kind {
			case EventStop:
				panic(errors.New("stop failed"))
			case EventDestroy:
				return nil, errors.New("destroy failed")
			default:
				return nil, nil
			}
		})

		h, err := New(closingBehavior{recorder: rec, closed: closed}, WithLogger(log.DiscardLogger), WithBus(bus.New()))
		require.NoError(t, err)
		require.NoError(t, h.Destroy(context.Background()))

		assert.Equal(t, []EventKind{EventInit, EventStop, EventDestroy}, rec.kinds())
		assert.True(t, closed.Load())
	})
	t.Run("With invoke returning the panic as error", func(t *testing.T) {
		a := newIdleActor(t, BehaviorFunc(func(*Event) (*message.Message, error) {
			panic(errors.New("kaput"))
		}))
		out, err := a.invoke(EventTime, nil, 0, capability.Value{})
		assert.Nil(t, out)
		var pe *gerrors.PanicError
		require.ErrorAs(t, err, &pe)
		assert.Contains(t, err.Error(), "kaput")
	})
}

func TestRunOnce(t *testing.T) {
	t.Run("With deadline catch up", func(t *testing.T) {
		rec := newRecorder(nil)
		a := newIdleActor(t, rec, WithTimeout(10))

		interval := 10 * time.Millisecond
		past := time.Now().Add(-35 * time.Millisecond)
		a.deadline = past
		a.runOnce()

		assert.Equal(t, []EventKind{EventTime}, rec.kinds())
		assert.True(t, a.deadline.After(time.Now()))
		advance := a.deadline.Sub(past)
		assert.Zero(t, advance%interval)
		assert.LessOrEqual(t, advance, 60*time.Millisecond)
		assert.EqualValues(t, 1, a.Iterations())
	})
	t.Run("With ready request parked on a skipped tick", func(t *testing.T) {
		rec := newRecorder(nil)
		a := newIdleActor(t, rec, WithTimeout(10))
		a.deadline = time.Now().Add(-time.Millisecond)

		req := newRequest(CmdUUID).expectReply()
		a.control <- req

		a.runOnce()
		assert.Equal(t, []EventKind{EventTime}, rec.kinds())
		require.NotNil(t, a.pending)
		assert.Empty(t, req.reply)

		a.runOnce()
		assert.Nil(t, a.pending)
		resp := <-req.reply
		assert.Equal(t, a.UUID(), resp.value)
		assert.Equal(t, StatusAPI, a.Status())
		assert.EqualValues(t, 2, a.Iterations())
	})
	t.Run("With trigger keeping the API status", func(t *testing.T) {
		a := newIdleActor(t, newRecorder(nil), WithTimeout(50))
		a.armDeadline()
		a.control <- newRequest(CmdTrigger)
		a.cell.consume()

		a.runOnce()
		report := a.Report()
		require.NotNil(t, report)
		assert.Equal(t, StatusAPI, report.Status())
		assert.EqualValues(t, 0, report.Iterations())
	})
	t.Run("With spurious inbound wake up", func(t *testing.T) {
		rec := newRecorder(nil)
		a := newIdleActor(t, rec)
		a.pending = &pollResult{kind: pollInbound}

		a.runOnce()
		assert.Empty(t, rec.kinds())
		assert.EqualValues(t, 1, a.Iterations())
	})
	t.Run("With closed source removed while waiting", func(t *testing.T) {
		rec := newRecorder(nil)
		a := newIdleActor(t, rec, WithTimeout(20))
		ready := make(chan struct{})
		close(ready)
		id := a.AddSource(SourceFunc(func() <-chan struct{} { return ready }))
		a.armDeadline()

		a.runOnce()
		assert.Equal(t, []EventKind{EventTime}, rec.kinds())
		_, ok := a.Source(id)
		assert.False(t, ok)
		assert.Len(t, a.cases, int(sourcesCase))
		assert.EqualValues(t, 1, a.Iterations())
	})
	t.Run("With reporting disabled", func(t *testing.T) {
		a := newIdleActor(t, newRecorder(nil), WithReporting(false))
		a.cell.consume()
		a.control <- newRequest(CmdTrigger)
		a.runOnce()
		assert.Nil(t, a.Report())
	})
}

func TestCapability(t *testing.T) {
	t.Run("With capability set twice", func(t *testing.T) {
		first := capability.MustParse(boundSchema)
		second := capability.MustParse("capabilities:\n  - name: other\n")
		results := make(chan error, 2)

		rec := newRecorder(func(ev *Event) (*message.Message, error) {
			switch ev.Kind {
			case EventInit:
				results <- ev.Actor().SetCapability(first)
				results <- ev.Actor().SetCapability(second)
			case EventAPI:
				return nil, nil
			}
			return nil, nil
		})
		h := spawn(t, bus.New(), rec)

		require.NoError(t, <-results)
		assert.ErrorIs(t, <-results, gerrors.ErrCapabilityAlreadySet)

		got, err := h.Capability()
		require.NoError(t, err)
		require.NotNil(t, got)
		_, ok := got.Param("timeout")
		assert.True(t, ok)
		_, ok = got.Param("other")
		assert.False(t, ok)
	})
	t.Run("With bindings applied on acceptance", func(t *testing.T) {
		rec := newRecorder(func(ev *Event) (*message.Message, error) {
			if ev.Kind == EventInit {
				return nil, ev.Actor().SetCapability(capability.MustParse(boundSchema))
			}
			return nil, nil
		})
		h := spawn(t, bus.New(), rec)

		// SET TIMEOUT is a runtime command applied right away
		timeout, err := h.Timeout()
		require.NoError(t, err)
		assert.EqualValues(t, 30, timeout)

		// SET RATE belongs to the behavior and follows INIT
		require.Eventually(t, func() bool { return rec.count(EventAPI) == 1 }, waitFor, tick)
		kinds := rec.kinds()
		assert.Equal(t, EventInit, kinds[0])
		assert.Equal(t, EventAPI, kinds[1])

		api := rec.of(EventAPI)[0]
		assert.Equal(t, []string{"SET RATE", "25"}, api.msg.Strings())
		assert.EqualValues(t, 25, api.value)
	})
	t.Run("With capability preset", func(t *testing.T) {
		timeouts := make(chan int64, 1)
		rec := newRecorder(func(ev *Event) (*message.Message, error) {
			if ev.Kind == EventInit {
				timeouts <- ev.Actor().Timeout()
				assert.ErrorIs(t, ev.Actor().SetCapability(capability.MustParse(boundSchema)), gerrors.ErrCapabilityAlreadySet)
			}
			return nil, nil
		})
		spawn(t, bus.New(), rec, WithCapability(capability.MustParse(boundSchema)))

		assert.EqualValues(t, 30, <-timeouts)
		require.Eventually(t, func() bool { return rec.count(EventAPI) == 1 }, waitFor, tick)
	})
	t.Run("With unknown binding logged", func(t *testing.T) {
		rec := newRecorder(nil)
		h := spawn(t, bus.New(), rec, WithCapability(capability.MustParse(boundSchema)))

		require.Eventually(t, func() bool { return rec.count(EventAPI) == 1 }, waitFor, tick)
		// the actor is still alive
		_, err := h.Timeout()
		require.NoError(t, err)
	})
}

func TestSources(t *testing.T) {
	t.Run("With one FDSOCK per receive", func(t *testing.T) {
		ready := make(chan struct{}, 1)
		ids := make(chan SourceID, 1)
		resolved := make(chan bool, 1)
		removed := make(chan error, 2)

		rec := newRecorder(func(ev *Event) (*message.Message, error) {
			switch ev.Kind {
			case EventInit:
				ids <- ev.Actor().AddSource(SourceFunc(func() <-chan struct{} { return ready }))
			case EventFDSock:
				_, ok := ev.Actor().Source(ev.Source)
				resolved <- ok
				removed <- ev.Actor().RemoveSource(ev.Source)
				removed <- ev.Actor().RemoveSource(ev.Source)
			}
			return nil, nil
		})
		spawn(t, bus.New(), rec)

		id := <-ids
		ready <- struct{}{}

		assert.True(t, <-resolved)
		assert.NoError(t, <-removed)
		assert.ErrorIs(t, <-removed, gerrors.ErrSourceNotFound)

		fdsock := rec.of(EventFDSock)
		require.Len(t, fdsock, 1)
		assert.Equal(t, StatusFDSock, fdsock[0].status)
		assert.NotZero(t, id)
	})
	t.Run("With closed source dropped", func(t *testing.T) {
		ready := make(chan struct{})
		ids := make(chan SourceID, 1)

		rec := newRecorder(func(ev *Event) (*message.Message, error) {
			switch ev.Kind {
			case EventInit:
				ids <- ev.Actor().AddSource(SourceFunc(func() <-chan struct{} { return ready }))
			case EventAPI:
				if _, ok := ev.Actor().Source(<-ids); ok {
					return message.NewString("present"), nil
				}
				return message.NewString("absent"), nil
			}
			return nil, nil
		})
		h := spawn(t, bus.New(), rec)

		id := <-ids
		close(ready)
		time.Sleep(100 * time.Millisecond)
		assert.Zero(t, rec.count(EventFDSock))

		ids <- id
		reply, err := h.Request("HAS SOURCE")
		require.NoError(t, err)
		assert.Equal(t, []string{"absent"}, reply.Strings())
		assert.Zero(t, rec.count(EventFDSock))
	})
}

func TestForward(t *testing.T) {
	t.Run("With unknown command awaiting a reply", func(t *testing.T) {
		a := newIdleActor(t, newRecorder(nil))
		req := newRequest("BOGUS").expectReply()
		a.forward(req)
		resp := <-req.reply
		assert.Equal(t, -1, resp.code)
		assert.ErrorIs(t, resp.err, gerrors.ErrUnknownCommand)
	})
	t.Run("With unknown capability binding", func(t *testing.T) {
		a := newIdleActor(t, newRecorder(nil))
		req := newRequest("SET RATE", "25")
		req.binding = true
		assert.NotPanics(t, func() { a.forward(req) })
	})
	t.Run("With unknown fire-and-forget command", func(t *testing.T) {
		rec := newRecorder(nil)
		a := newIdleActor(t, rec)
		assert.Panics(t, func() { a.forward(newRequest("BOGUS")) })
		assert.Equal(t, []EventKind{EventAPI}, rec.kinds())
	})
}
