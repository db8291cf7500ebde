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

package bus

import (
	gods "github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"

	"github.com/tochemey/sphactor/internal/xsync"
	"github.com/tochemey/sphactor/message"
)

// DefaultCapacity is the inbound queue size of a subscriber.
const DefaultCapacity = 1024

// Subscriber is the inbound socket of an actor. It accepts deliveries from
// any number of publishers and is drained by a single consumer.
type Subscriber struct {
	queue     *gods.RingBuffer
	ready     chan struct{}
	filters   *xsync.OrderedSet[string]
	endpoints *xsync.OrderedSet[string]
	dropped   *atomic.Uint64
}

// NewSubscriber creates a subscriber holding at most capacity undelivered messages.
func NewSubscriber(capacity int) *Subscriber {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Subscriber{
		queue:     gods.NewRingBuffer(uint64(capacity)),
		ready:     make(chan struct{}, 1),
		filters:   xsync.NewOrderedSet[string](),
		endpoints: xsync.NewOrderedSet[string](),
		dropped:   atomic.NewUint64(0),
	}
}

// Ready is signalled whenever at least one message may be waiting.
func (s *Subscriber) Ready() <-chan struct{} {
	return s.ready
}

// Recv returns the next message without blocking.
func (s *Subscriber) Recv() (*message.Message, bool) {
	if s.queue.Len() == 0 {
		return nil, false
	}
	item, err := s.queue.Get()
	if err != nil {
		return nil, false
	}
	if s.queue.Len() > 0 {
		s.signal()
	}
	msg, ok := item.(*message.Message)
	return msg, ok
}

// Rearm signals readiness again when messages are still queued.
func (s *Subscriber) Rearm() {
	if s.queue.Len() > 0 {
		s.signal()
	}
}

// Pending returns the number of queued messages.
func (s *Subscriber) Pending() int {
	return int(s.queue.Len())
}

// Dropped returns the number of messages discarded because the queue was full.
func (s *Subscriber) Dropped() uint64 {
	return s.dropped.Load()
}

// Endpoints returns the endpoints the subscriber is connected to.
func (s *Subscriber) Endpoints() []string {
	return s.endpoints.Items()
}

// AddFilter subscribes to messages whose first frame starts with prefix.
// The first filter switches the subscriber from accept-all to filtered mode.
// Adding an existing filter is a no-op.
func (s *Subscriber) AddFilter(prefix string) bool {
	return s.filters.Add(prefix)
}

// RemoveFilter drops a filter. Removing the last one switches back to accept-all.
func (s *Subscriber) RemoveFilter(prefix string) bool {
	return s.filters.Remove(prefix)
}

// Filters returns the filters in insertion order.
func (s *Subscriber) Filters() []string {
	return s.filters.Items()
}

// Close disconnects from every endpoint and discards queued messages.
func (s *Subscriber) Close(b *Bus) {
	for _, endpoint := range s.endpoints.Items() {
		_ = b.Disconnect(s, endpoint)
	}
	s.queue.Dispose()
}

func (s *Subscriber) accepts(msg *message.Message) bool {
	if s.filters.Len() == 0 {
		return true
	}
	return s.filters.Any(func(prefix string) bool {
		return msg.HasPrefix([]byte(prefix))
	})
}

func (s *Subscriber) deliver(msg *message.Message) {
	if !s.accepts(msg) {
		return
	}
	ok, err := s.queue.Offer(msg.Dup())
	if err != nil || !ok {
		s.dropped.Inc()
		return
	}
	s.signal()
}

func (s *Subscriber) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}
