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

// Package stock provides ready to use actor types.
package stock

import (
	"go.uber.org/multierr"

	"github.com/tochemey/sphactor/actor"
	"github.com/tochemey/sphactor/capability"
)

const (
	// LogType is the registered name of the Log actor
	LogType = "Log"
	// CountType is the registered name of the Count actor
	CountType = "Count"
	// PulseType is the registered name of the Pulse actor
	PulseType = "Pulse"
)

var (
	logCapability = capability.MustParse(`
inputs:
  - type: OSC
`)

	countCapability = capability.MustParse(`
inputs:
  - type: OSC
outputs:
  - type: OSC
`)

	pulseCapability = capability.MustParse(`
capabilities:
  - name: timeout
    type: int
    value: "1000"
    min: "1"
    max: "10000"
    step: "1"
    api_call: SET TIMEOUT
    api_value: i
outputs:
  - type: OSC
`)
)

// RegisterAll registers the Log, Count and Pulse actor types.
func RegisterAll(registry *actor.Registry) error {
	return multierr.Combine(
		registry.Register(LogType, func(any) (actor.Behavior, error) { return NewLog(), nil }, logCapability),
		registry.Register(CountType, func(any) (actor.Behavior, error) { return NewCount(), nil }, countCapability),
		registry.Register(PulseType, func(any) (actor.Behavior, error) { return NewPulse(), nil }, pulseCapability),
	)
}

// ensureCapability installs d unless the actor already carries one, which
// is the case for actors created from a registry.
func ensureCapability(a *actor.Actor, d *capability.Descriptor) error {
	if a.Capability() != nil {
		return nil
	}
	return a.SetCapability(d)
}
