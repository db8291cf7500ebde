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

// Package bus implements the in-process publish/subscribe fabric connecting actors.
//
// Every actor binds one Publisher at its endpoint and owns one Subscriber that
// can be connected to any number of endpoints. Delivery is best effort: each
// subscriber receives its own copy of a published message, a full subscriber
// drops it, and nothing is queued for subscribers that connect later.
package bus

import (
	"fmt"
	"sync"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/zeebo/xxh3"

	"github.com/tochemey/sphactor/errors"
)

const shardCount = 32

// Default is the process wide bus.
var Default = New()

// Bus maps endpoints to publishers.
// Subscribers connected to an endpoint without a publisher stay pending and
// attach as soon as the endpoint is bound.
type Bus struct {
	shards [shardCount]*shard
}

type shard struct {
	mu         sync.Mutex
	publishers map[string]*Publisher
	pending    map[string]goset.Set[*Subscriber]
}

// New creates an empty bus.
func New() *Bus {
	b := new(Bus)
	for i := range b.shards {
		b.shards[i] = &shard{
			publishers: make(map[string]*Publisher),
			pending:    make(map[string]goset.Set[*Subscriber]),
		}
	}
	return b
}

func (b *Bus) shard(endpoint string) *shard {
	return b.shards[xxh3.HashString(endpoint)%shardCount]
}

// Bind creates the publisher of endpoint.
func (b *Bus) Bind(endpoint string) (*Publisher, error) {
	s := b.shard(endpoint)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.publishers[endpoint]; ok {
		return nil, fmt.Errorf("endpoint=(%s) %w", endpoint, errors.ErrEndpointAlreadyBound)
	}

	pub := newPublisher(b, endpoint)
	s.publishers[endpoint] = pub
	if waiting, ok := s.pending[endpoint]; ok {
		waiting.Each(func(sub *Subscriber) bool {
			pub.attach(sub)
			return false
		})
		delete(s.pending, endpoint)
	}
	return pub, nil
}

// Bound reports whether a publisher is bound at endpoint.
func (b *Bus) Bound(endpoint string) bool {
	s := b.shard(endpoint)
	s.mu.Lock()
	_, ok := s.publishers[endpoint]
	s.mu.Unlock()
	return ok
}

// Connect subscribes sub to endpoint. Connecting to an endpoint nobody has
// bound yet is not an error.
func (b *Bus) Connect(sub *Subscriber, endpoint string) error {
	s := b.shard(endpoint)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !sub.endpoints.Add(endpoint) {
		return nil
	}

	if pub, ok := s.publishers[endpoint]; ok {
		pub.attach(sub)
		return nil
	}

	waiting, ok := s.pending[endpoint]
	if !ok {
		waiting = goset.NewSet[*Subscriber]()
		s.pending[endpoint] = waiting
	}
	waiting.Add(sub)
	return nil
}

// Disconnect unsubscribes sub from endpoint.
func (b *Bus) Disconnect(sub *Subscriber, endpoint string) error {
	s := b.shard(endpoint)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !sub.endpoints.Remove(endpoint) {
		return fmt.Errorf("endpoint=(%s) %w", endpoint, errors.ErrNotConnected)
	}

	if pub, ok := s.publishers[endpoint]; ok {
		pub.subscribers.Remove(sub)
		return nil
	}

	if waiting, ok := s.pending[endpoint]; ok {
		waiting.Remove(sub)
		if waiting.Cardinality() == 0 {
			delete(s.pending, endpoint)
		}
	}
	return nil
}

// unbind removes the publisher and parks its subscribers until the endpoint
// is bound again.
func (b *Bus) unbind(pub *Publisher) {
	s := b.shard(pub.endpoint)
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.publishers[pub.endpoint]; !ok || current != pub {
		return
	}
	delete(s.publishers, pub.endpoint)

	if pub.subscribers.Cardinality() == 0 {
		return
	}

	waiting, ok := s.pending[pub.endpoint]
	if !ok {
		waiting = goset.NewSet[*Subscriber]()
		s.pending[pub.endpoint] = waiting
	}
	pub.subscribers.Each(func(sub *Subscriber) bool {
		waiting.Add(sub)
		return false
	})
	pub.subscribers.Clear()
}
