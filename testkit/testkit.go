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
	"context"
	"sync"
	"testing"

	"github.com/tochemey/sphactor/actor"
	"github.com/tochemey/sphactor/internal/bus"
	"github.com/tochemey/sphactor/log"
)

// TestKit defines actor test kit. Every actor it spawns lives on a private
// bus and is destroyed by Shutdown.
type TestKit struct {
	kt       *testing.T
	bus      *bus.Bus
	registry *actor.Registry
	logger   log.Logger

	mu      sync.Mutex
	handles []*actor.Handle
}

// New creates an instance of TestKit
func New(t *testing.T, opts ...Option) *TestKit {
	testkit := &TestKit{
		kt:       t,
		bus:      bus.New(),
		registry: actor.NewRegistry(actor.WithRegistryLogger(log.DiscardLogger)),
		logger:   log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(testkit)
	}
	return testkit
}

// Registry returns the registry used by SpawnByType
func (k *TestKit) Registry() *actor.Registry {
	return k.registry
}

// Spawn creates an actor
func (k *TestKit) Spawn(behavior actor.Behavior, opts ...actor.Option) *actor.Handle {
	handle, err := actor.New(behavior, k.options(opts)...)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	k.track(handle)
	return handle
}

// SpawnByType creates an actor from the registry
func (k *TestKit) SpawnByType(ctx context.Context, typeName string, opts ...actor.Option) *actor.Handle {
	handle, err := k.registry.NewByType(ctx, typeName, k.options(opts)...)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	k.track(handle)
	return handle
}

// NewProbe create a test probe
func (k *TestKit) NewProbe() Probe {
	testProbe, err := newProbe(k.kt, k.options(nil)...)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	k.track(testProbe.handle)
	return testProbe
}

// Shutdown destroys every actor created by the test kit
func (k *TestKit) Shutdown(ctx context.Context) {
	k.mu.Lock()
	handles := k.handles
	k.handles = nil
	k.mu.Unlock()

	for _, handle := range handles {
		if err := handle.Destroy(ctx); err != nil {
			k.kt.Fatal(err.Error())
		}
	}
}

func (k *TestKit) options(opts []actor.Option) []actor.Option {
	return append([]actor.Option{actor.WithLogger(k.logger), actor.WithBus(k.bus)}, opts...)
}

func (k *TestKit) track(handle *actor.Handle) {
	k.mu.Lock()
	k.handles = append(k.handles, handle)
	k.mu.Unlock()
}
