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
	goset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/tochemey/sphactor/message"
)

// Publisher is the outbound broadcast socket of an actor.
type Publisher struct {
	bus           *Bus
	endpoint      string
	subscribers   goset.Set[*Subscriber]
	everConnected *atomic.Bool
	closed        *atomic.Bool
}

func newPublisher(bus *Bus, endpoint string) *Publisher {
	return &Publisher{
		bus:           bus,
		endpoint:      endpoint,
		subscribers:   goset.NewSet[*Subscriber](),
		everConnected: atomic.NewBool(false),
		closed:        atomic.NewBool(false),
	}
}

// attach must be called with the endpoint shard locked.
func (p *Publisher) attach(sub *Subscriber) {
	p.subscribers.Add(sub)
	p.everConnected.Store(true)
}

// Endpoint returns the address the publisher is bound at.
func (p *Publisher) Endpoint() string {
	return p.endpoint
}

// EverConnected reports whether at least one subscriber has ever attached.
func (p *Publisher) EverConnected() bool {
	return p.everConnected.Load()
}

// Subscribers returns the number of currently attached subscribers.
func (p *Publisher) Subscribers() int {
	return p.subscribers.Cardinality()
}

// Publish hands a copy of msg to every attached subscriber. It returns false
// and discards msg when no subscriber has ever attached or the publisher is closed.
func (p *Publisher) Publish(msg *message.Message) bool {
	if msg == nil || p.closed.Load() || !p.everConnected.Load() {
		return false
	}
	p.subscribers.Each(func(sub *Subscriber) bool {
		sub.deliver(msg)
		return false
	})
	return true
}

// Close unbinds the endpoint. Close is idempotent.
func (p *Publisher) Close() {
	if p.closed.CompareAndSwap(false, true) {
		p.bus.unbind(p)
	}
}
