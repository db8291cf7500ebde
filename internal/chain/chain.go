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

// Package chain runs ordered teardown steps and aggregates their failures.
package chain

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/tochemey/sphactor/errors"
)

// step is a named unit of work of a chain
type step struct {
	name string
	fn   func() error
}

// Chain holds steps executed in insertion order by Run.
type Chain struct {
	steps    []step
	failFast bool
	recover  bool
}

// Option configures a chain at creation time.
type Option func(*Chain)

// WithFailFast stops the chain at the first failing step.
func WithFailFast() Option {
	return func(c *Chain) { c.failFast = true }
}

// WithRecovery turns a panicking step into a PanicError so that the
// following steps still execute.
func WithRecovery() Option {
	return func(c *Chain) { c.recover = true }
}

// New creates an empty chain. By default every step runs and Run returns
// all their errors.
func New(opts ...Option) *Chain {
	c := new(Chain)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Then appends a step. Nothing runs before Run.
func (c *Chain) Then(name string, fn func() error) *Chain {
	c.steps = append(c.steps, step{name: name, fn: fn})
	return c
}

// ThenIf appends a step only when condition holds.
func (c *Chain) ThenIf(condition bool, name string, fn func() error) *Chain {
	if !condition {
		return c
	}
	return c.Then(name, fn)
}

// Run executes the steps. Each error is prefixed with the name of its step.
func (c *Chain) Run() error {
	var err error
	for _, s := range c.steps {
		if stepErr := c.exec(s); stepErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", s.name, stepErr))
			if c.failFast {
				return err
			}
		}
	}
	return err
}

func (c *Chain) exec(s step) (err error) {
	if c.recover {
		defer func() {
			if r := recover(); r != nil {
				cause, ok := r.(error)
				if !ok {
					cause = fmt.Errorf("%v", r)
				}
				err = errors.NewPanicError(cause)
			}
		}()
	}
	return s.fn()
}
