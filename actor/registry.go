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
	"slices"
	"sync"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/tochemey/sphactor/capability"
	gerrors "github.com/tochemey/sphactor/errors"
	"github.com/tochemey/sphactor/log"
)

const (
	// DefaultConstructorRetries is the number of attempts made to build a behavior
	DefaultConstructorRetries = 1
	// DefaultConstructorTimeout bounds the time spent retrying a constructor
	DefaultConstructorTimeout = time.Second
)

// Factory builds a new behavior. arg is the value given at registration.
type Factory func(arg any) (Behavior, error)

type registration struct {
	factory  Factory
	arg      any
	template *capability.Descriptor
}

// Registry maps actor type names to behavior factories and capability
// templates. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*registration
	disposed bool

	retries int
	timeout time.Duration
	logger  log.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithConstructorRetries sets the number of attempts made to build a behavior
func WithConstructorRetries(attempts int) RegistryOption {
	return func(r *Registry) {
		if attempts > 0 {
			r.retries = attempts
		}
	}
}

// WithConstructorTimeout bounds the time spent retrying a constructor
func WithConstructorTimeout(timeout time.Duration) RegistryOption {
	return func(r *Registry) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithRegistryLogger sets the registry logger
func WithRegistryLogger(logger log.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty Registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[string]*registration),
		retries: DefaultConstructorRetries,
		timeout: DefaultConstructorTimeout,
		logger:  log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds an actor type. template, when not nil, is installed as the
// capability of every actor created from this type. Registering a type twice
// fails and keeps the first registration.
func (r *Registry) Register(typeName string, factory Factory, template *capability.Descriptor) error {
	return r.RegisterWithArg(typeName, factory, nil, template)
}

// RegisterWithArg is Register with an argument handed to the factory on
// every construction.
func (r *Registry) RegisterWithArg(typeName string, factory Factory, arg any, template *capability.Descriptor) error {
	if typeName == "" || factory == nil {
		return gerrors.ErrInvalidValue
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return gerrors.ErrRegistryDisposed
	}

	if _, ok := r.entries[typeName]; ok {
		r.logger.Warnf("actor type %s is already registered", typeName)
		return gerrors.NewErrTypeAlreadyRegistered(typeName)
	}

	r.entries[typeName] = &registration{
		factory:  factory,
		arg:      arg,
		template: template.Dup(),
	}
	return nil
}

// Unregister removes an actor type. Running actors of that type are not affected.
func (r *Registry) Unregister(typeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return gerrors.ErrRegistryDisposed
	}

	if _, ok := r.entries[typeName]; !ok {
		return gerrors.NewErrTypeNotRegistered(typeName)
	}
	delete(r.entries, typeName)
	return nil
}

// Registered returns the registered type names in lexical order.
func (r *Registry) Registered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has tells whether typeName is registered.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[typeName]
	return ok
}

// Template returns a copy of the capability template of typeName.
func (r *Registry) Template(typeName string) (*capability.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.disposed {
		return nil, gerrors.ErrRegistryDisposed
	}

	entry, ok := r.entries[typeName]
	if !ok {
		return nil, gerrors.NewErrTypeNotRegistered(typeName)
	}
	return entry.template.Dup(), nil
}

// NewByType builds a behavior of the given type and starts it. Options are
// applied after the type and capability ones so a caller may override them.
func (r *Registry) NewByType(ctx context.Context, typeName string, opts ...Option) (*Handle, error) {
	r.mu.RLock()
	if r.disposed {
		r.mu.RUnlock()
		return nil, gerrors.ErrRegistryDisposed
	}
	entry, ok := r.entries[typeName]
	r.mu.RUnlock()

	if !ok {
		return nil, gerrors.NewErrTypeNotRegistered(typeName)
	}

	behavior, err := r.construct(ctx, typeName, entry)
	if err != nil {
		return nil, err
	}

	options := []Option{WithType(typeName)}
	if entry.template != nil {
		options = append(options, WithCapability(entry.template.Dup()))
	}
	options = append(options, opts...)
	return New(behavior, options...)
}

// Dispose removes every registration. The registry is unusable afterwards.
func (r *Registry) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
	r.disposed = true
}

// construct runs the factory with retries
func (r *Registry) construct(ctx context.Context, typeName string, entry *registration) (Behavior, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var behavior Behavior
	retrier := retry.NewRetrier(r.retries, time.Millisecond, r.timeout)
	if err := retrier.RunContext(cctx, func(_ context.Context) error {
		var err error
		behavior, err = entry.factory(entry.arg)
		return err
	}); err != nil {
		r.logger.Errorf("failed to construct actor of type %s: %v", typeName, err)
		return nil, gerrors.NewErrInitFailure(err)
	}

	if behavior == nil {
		return nil, gerrors.NewErrInitFailure(gerrors.ErrInvalidValue)
	}
	return behavior, nil
}
