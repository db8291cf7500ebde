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
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/sphactor/capability"
	"github.com/tochemey/sphactor/internal/bus"
	"github.com/tochemey/sphactor/log"
)

// NeverTimeout disables the TIME event.
const NeverTimeout int64 = -1

// config defines the settings applied when creating an actor
type config struct {
	// name of the actor, defaults to the first characters of its uuid
	name string
	// uuid of the actor, generated when empty
	uuid string
	// type name, set when the actor is created from a registry
	typeName string
	// timeout in milliseconds between TIME events. -1 means never
	timeout int64
	logger  log.Logger
	bus     *bus.Bus
	// inbound queue size of the actor subscriber
	inboundCapacity int
	meterProvider   metric.MeterProvider
	verbose         bool
	reporting       bool
	// capability installed before the INIT event
	capability *capability.Descriptor
}

// newConfig creates an instance of config
func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout:         NeverTimeout,
		logger:          log.DefaultLogger,
		bus:             bus.Default,
		inboundCapacity: bus.DefaultCapacity,
		reporting:       true,
	}

	for _, opt := range opts {
		opt.Apply(cfg)
	}
	return cfg
}

// Option is the interface that applies to an actor configuration
type Option interface {
	// Apply sets the Option value of a config.
	Apply(cfg *config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(cfg *config)

// Apply sets the Option value of a config.
func (f OptionFunc) Apply(c *config) {
	f(c)
}

// WithName sets the actor name
func WithName(name string) Option {
	return OptionFunc(func(cfg *config) {
		cfg.name = name
	})
}

// WithUUID sets the actor identifier. Both the dashed and the compact hex
// forms are accepted.
func WithUUID(id string) Option {
	return OptionFunc(func(cfg *config) {
		cfg.uuid = id
	})
}

// WithType sets the actor type name
func WithType(typeName string) Option {
	return OptionFunc(func(cfg *config) {
		cfg.typeName = typeName
	})
}

// WithTimeout sets the initial timeout in milliseconds
func WithTimeout(timeout int64) Option {
	return OptionFunc(func(cfg *config) {
		cfg.timeout = timeout
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// WithBus sets the message bus the actor binds and connects on
func WithBus(b *bus.Bus) Option {
	return OptionFunc(func(cfg *config) {
		if b != nil {
			cfg.bus = b
		}
	})
}

// WithInboundCapacity sets the number of undelivered messages an actor
// holds before dropping new ones
func WithInboundCapacity(capacity int) Option {
	return OptionFunc(func(cfg *config) {
		if capacity > 0 {
			cfg.inboundCapacity = capacity
		}
	})
}

// WithMeterProvider sets the OpenTelemetry meter provider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(cfg *config) {
		cfg.meterProvider = provider
	})
}

// WithVerbose enables verbose logging of control commands
func WithVerbose(verbose bool) Option {
	return OptionFunc(func(cfg *config) {
		cfg.verbose = verbose
	})
}

// WithReporting enables or disables report production
func WithReporting(enabled bool) Option {
	return OptionFunc(func(cfg *config) {
		cfg.reporting = enabled
	})
}

// WithCapability installs a capability before the INIT event
func WithCapability(descriptor *capability.Descriptor) Option {
	return OptionFunc(func(cfg *config) {
		cfg.capability = descriptor
	})
}
