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
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/sphactor/capability"
	gerrors "github.com/tochemey/sphactor/errors"
	"github.com/tochemey/sphactor/internal/bus"
	"github.com/tochemey/sphactor/message"
)

// acceptAPI handles every API event
func acceptAPI(ev *Event) (*message.Message, error) {
	return nil, nil
}

func socks(rec *recorder) [][]string {
	var out [][]string
	for _, e := range rec.of(EventSock) {
		out = append(out, e.msg.Strings())
	}
	return out
}

func TestConnections(t *testing.T) {
	t.Run("With connect then disconnect", func(t *testing.T) {
		b := bus.New()
		src := spawn(t, b, newRecorder(nil))
		dst := spawn(t, b, newRecorder(nil))

		require.NoError(t, dst.Connect(src.Endpoint()))
		assert.Equal(t, []string{src.Endpoint()}, dst.Connections())

		// duplicate connect is a no-op
		require.NoError(t, dst.Connect(src.Endpoint()))
		assert.Len(t, dst.Connections(), 1)

		require.NoError(t, dst.Disconnect(src.Endpoint()))
		assert.Empty(t, dst.Connections())

		// disconnecting an absent destination is a no-op
		require.NoError(t, dst.Disconnect(src.Endpoint()))
		assert.Empty(t, dst.Connections())
	})
	t.Run("With self connect rejected", func(t *testing.T) {
		h := spawn(t, bus.New(), newRecorder(nil))
		err := h.Connect(h.Endpoint())
		assert.ErrorIs(t, err, gerrors.ErrSelfConnect)
		assert.Empty(t, h.Connections())
	})
	t.Run("With destination bound later", func(t *testing.T) {
		b := bus.New()
		rec := newRecorder(nil)
		dst := spawn(t, b, rec)

		id := newUUID()
		require.NoError(t, dst.Connect(endpointOf(id)))

		src := spawn(t, b, newRecorder(nil), WithUUID(id))
		require.NoError(t, src.Send("late"))
		require.Eventually(t, func() bool { return len(socks(rec)) == 1 }, waitFor, tick)
		assert.Equal(t, []string{"late"}, socks(rec)[0])
	})
}

func TestEndToEnd(t *testing.T) {
	b := bus.New()

	seq := 0
	producer := newRecorder(func(ev *Event) (*message.Message, error) {
		if ev.Kind != EventTime {
			return nil, nil
		}
		seq++
		return message.NewString("tick", strconv.Itoa(seq)), nil
	})
	consumer := newRecorder(nil)

	consumerHandle := spawn(t, b, consumer)
	producerHandle := spawn(t, b, producer, WithTimeout(16))
	require.NoError(t, consumerHandle.Connect(producerHandle.Endpoint()))

	require.Eventually(t, func() bool { return len(socks(consumer)) >= 5 }, waitFor, tick)
	assert.Zero(t, consumer.count(EventTime))

	received := socks(consumer)
	first, err := strconv.Atoi(received[0][1])
	require.NoError(t, err)
	for i, frames := range received {
		require.Len(t, frames, 2)
		assert.Equal(t, "tick", frames[0])
		assert.Equal(t, strconv.Itoa(first+i), frames[1])
	}

	for _, e := range consumer.of(EventSock) {
		assert.Equal(t, StatusSock, e.status)
	}
}

func TestHandleCommands(t *testing.T) {
	t.Run("With heartbeat and payload", func(t *testing.T) {
		b := bus.New()
		rec := newRecorder(nil)
		src := spawn(t, b, newRecorder(nil), WithName("beat"))
		dst := spawn(t, b, rec)
		require.NoError(t, dst.Connect(src.Endpoint()))

		require.NoError(t, src.Send())
		require.NoError(t, src.Send("a", "b"))
		require.NoError(t, src.SendMessage(message.New([]byte{0x01})))

		require.Eventually(t, func() bool { return len(socks(rec)) == 3 }, waitFor, tick)
		received := socks(rec)
		assert.Equal(t, []string{"beat"}, received[0])
		assert.Equal(t, []string{"a", "b"}, received[1])
		assert.Equal(t, []string{"\x01"}, received[2])
	})
	t.Run("With trigger", func(t *testing.T) {
		b := bus.New()
		triggered := newRecorder(func(ev *Event) (*message.Message, error) {
			if ev.Kind == EventSock && ev.Msg == nil {
				return message.NewString("triggered"), nil
			}
			return nil, nil
		})
		rec := newRecorder(nil)
		src := spawn(t, b, triggered)
		dst := spawn(t, b, rec)
		require.NoError(t, dst.Connect(src.Endpoint()))

		require.NoError(t, src.Trigger())
		require.Eventually(t, func() bool { return len(socks(rec)) == 1 }, waitFor, tick)
		assert.Equal(t, []string{"triggered"}, socks(rec)[0])

		// trigger does not change the status of the actor
		sock := triggered.of(EventSock)
		require.Len(t, sock, 1)
		assert.Nil(t, sock[0].msg)
		assert.Equal(t, StatusAPI, sock[0].status)
	})
	t.Run("With name and type", func(t *testing.T) {
		b := bus.New()
		rec := newRecorder(nil)
		src := spawn(t, b, newRecorder(nil))
		dst := spawn(t, b, rec)
		require.NoError(t, dst.Connect(src.Endpoint()))

		assert.Empty(t, src.Type())
		require.NoError(t, src.SetType("Pulse"))
		assert.Equal(t, "Pulse", src.Type())

		require.NoError(t, src.SetName("renamed"))
		assert.Equal(t, "renamed", src.Name())
		require.NoError(t, src.Send())
		require.Eventually(t, func() bool { return len(socks(rec)) == 1 }, waitFor, tick)
		assert.Equal(t, []string{"renamed"}, socks(rec)[0])
	})
	t.Run("With filters", func(t *testing.T) {
		b := bus.New()
		rec := newRecorder(nil)
		src := spawn(t, b, newRecorder(nil))
		dst := spawn(t, b, rec)
		require.NoError(t, dst.Connect(src.Endpoint()))

		filters, err := dst.Filters()
		require.NoError(t, err)
		assert.Empty(t, filters)

		require.NoError(t, dst.AddFilter("/a"))
		filters, err = dst.Filters()
		require.NoError(t, err)
		assert.Equal(t, []string{"/a"}, filters)

		require.NoError(t, src.Send("/b", "dropped"))
		require.NoError(t, src.Send("/a", "kept"))
		require.Eventually(t, func() bool { return len(socks(rec)) == 1 }, waitFor, tick)
		assert.Equal(t, []string{"/a", "kept"}, socks(rec)[0])

		require.NoError(t, dst.RemoveFilter("/a"))
		filters, err = dst.Filters()
		require.NoError(t, err)
		assert.Empty(t, filters)
	})
	t.Run("With instance", func(t *testing.T) {
		b := bus.New()
		first := spawn(t, b, newRecorder(nil))
		second := spawn(t, b, newRecorder(nil))

		id1, err := first.Instance()
		require.NoError(t, err)
		id2, err := second.Instance()
		require.NoError(t, err)
		assert.NotZero(t, id1)
		assert.NotEqual(t, id1, id2)
	})
}

func TestAskAPI(t *testing.T) {
	t.Run("With int value", func(t *testing.T) {
		rec := newRecorder(acceptAPI)
		h := spawn(t, bus.New(), rec)

		require.NoError(t, h.AskAPI("SET RATE", "i", "42"))
		require.Eventually(t, func() bool { return rec.count(EventAPI) == 1 }, waitFor, tick)

		api := rec.of(EventAPI)[0]
		assert.Equal(t, []string{"SET RATE", "42"}, api.msg.Strings())
		assert.EqualValues(t, 42, api.value)
		assert.Equal(t, map[string]string{"SET RATE": "42"}, h.Values())
	})
	t.Run("With invalid formats", func(t *testing.T) {
		h := spawn(t, bus.New(), newRecorder(acceptAPI))

		assert.ErrorIs(t, h.AskAPI("SET BLOB", "b", "AAAA"), gerrors.ErrUnsupportedFormat)
		assert.ErrorIs(t, h.AskAPI("SET X", "q", "1"), gerrors.ErrInvalidFormat)
		assert.ErrorIs(t, h.AskAPI("SET X", "i", "abc"), gerrors.ErrInvalidValue)
		assert.Empty(t, h.Values())
	})
	t.Run("With reply discarded", func(t *testing.T) {
		rec := newRecorder(func(ev *Event) (*message.Message, error) {
			return ev.Msg, nil
		})
		h := spawn(t, bus.New(), rec)
		require.NoError(t, h.AskAPI("SET LABEL", "s", "hello"))
		require.Eventually(t, func() bool { return rec.count(EventAPI) == 1 }, waitFor, tick)
	})
}

func TestRequest(t *testing.T) {
	t.Run("With reply", func(t *testing.T) {
		h := spawn(t, bus.New(), newRecorder(func(ev *Event) (*message.Message, error) {
			if ev.Kind == EventAPI {
				return ev.Msg, nil
			}
			return nil, nil
		}))

		reply, err := h.Request("ECHO", "hi")
		require.NoError(t, err)
		assert.Equal(t, []string{"ECHO", "hi"}, reply.Strings())
	})
	t.Run("With unknown command", func(t *testing.T) {
		h := spawn(t, bus.New(), newRecorder(nil))
		reply, err := h.Request("NOPE")
		assert.ErrorIs(t, err, gerrors.ErrUnknownCommand)
		assert.Nil(t, reply)
	})
}

func TestHandleReport(t *testing.T) {
	t.Run("With latest report", func(t *testing.T) {
		h := spawn(t, bus.New(), newRecorder(nil), WithTimeout(10))

		var first *Report
		require.Eventually(t, func() bool {
			first = h.Report()
			return first != nil && first.Iterations() > 0
		}, waitFor, tick)

		require.Eventually(t, func() bool {
			return h.Report().Iterations() > first.Iterations()
		}, waitFor, tick)
	})
	t.Run("With cached report when nothing changed", func(t *testing.T) {
		h := spawn(t, bus.New(), newRecorder(nil))

		// once idle the actor blocks without producing anything new
		var idle *Report
		require.Eventually(t, func() bool {
			idle = h.Report()
			return idle != nil && idle.Status() == StatusIdle
		}, waitFor, tick)
		assert.Same(t, idle, h.Report())
	})
	t.Run("With reporting toggled", func(t *testing.T) {
		h := spawn(t, bus.New(), newRecorder(nil), WithTimeout(10))

		require.NoError(t, h.SetReporting(false))
		require.Eventually(t, func() bool { return h.Report() == nil }, waitFor, tick)

		require.NoError(t, h.SetReporting(true))
		require.Eventually(t, func() bool { return h.Report() != nil }, waitFor, tick)
	})
	t.Run("With custom payload", func(t *testing.T) {
		count := 0
		h := spawn(t, bus.New(), newRecorder(func(ev *Event) (*message.Message, error) {
			if ev.Kind == EventSock {
				count++
				ev.Actor().SetCustomReport(message.NewString("counter", strconv.Itoa(count)))
			}
			return nil, nil
		}), WithTimeout(10))

		require.NoError(t, h.Trigger())
		require.Eventually(t, func() bool {
			report := h.Report()
			return report != nil && report.Custom().String() == "counter 1"
		}, waitFor, tick)
	})
}

func TestDescriptor(t *testing.T) {
	h := spawn(t, bus.New(), newRecorder(acceptAPI),
		WithCapability(capability.MustParse(boundSchema)),
		WithType("Pulse"),
		WithName("pulse"))

	h.SetPosition(34.5, 426)
	require.NoError(t, h.AskAPI("SET RATE", "i", "42"))
	require.NoError(t, h.AskAPI("SET UNBOUND", "s", "x"))

	x, y := h.Position()
	assert.Equal(t, 34.5, x)
	assert.EqualValues(t, 426, y)

	d := h.Descriptor()
	assert.Equal(t, Descriptor{
		UUID:     h.UUID(),
		Type:     "Pulse",
		Name:     "pulse",
		Endpoint: h.Endpoint(),
		X:        34.5,
		Y:        426,
		Values:   map[string]string{"rate": "42"},
	}, d)
}
